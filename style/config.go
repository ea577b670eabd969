// Package style holds the layered formatting configuration applied when a
// Markdown document is converted to Word.
//
// A configuration exists in two forms. The raw Tree is what YAML decodes
// into and is what presets and user files are merged on. The typed Config is
// decoded once from the merged tree and is what the converter reads. A Config
// is never modified after construction; Merge returns a new value.
package style

import (
	"bytes"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/go-viper/mapstructure/v2"
	"gopkg.in/yaml.v3"
)

// Config is the typed style configuration.
type Config struct {
	Name           string         `mapstructure:"name"`
	Description    string         `mapstructure:"description"`
	Page           Page           `mapstructure:"page"`
	Fonts          Fonts          `mapstructure:"fonts"`
	Titles         Titles         `mapstructure:"titles"`
	Paragraph      Paragraph      `mapstructure:"paragraph"`
	Table          Table          `mapstructure:"table"`
	Quote          Quote          `mapstructure:"quote"`
	CodeBlock      CodeBlock      `mapstructure:"code_block"`
	Image          Image          `mapstructure:"image"`
	Lists          Lists          `mapstructure:"lists"`
	HorizontalRule HorizontalRule `mapstructure:"horizontal_rule"`
	PageNumber     PageNumber     `mapstructure:"page_number"`
	Quotes         Quotes         `mapstructure:"quotes"`
	Math           Math           `mapstructure:"math"`
	InlineCode     RunFont        `mapstructure:"inline_code"`
	Diagram        Diagram        `mapstructure:"diagram"`

	tree Tree
	// overlay is the layer the Config was built from before defaults were
	// merged in. Merge applies only these keys.
	overlay Tree
}

// Page is the page geometry in centimetres.
type Page struct {
	Width        float64 `mapstructure:"width"`
	Height       float64 `mapstructure:"height"`
	MarginTop    float64 `mapstructure:"margin_top"`
	MarginBottom float64 `mapstructure:"margin_bottom"`
	MarginLeft   float64 `mapstructure:"margin_left"`
	MarginRight  float64 `mapstructure:"margin_right"`
}

// ContentWidth returns the usable width between the left and right margins.
func (p Page) ContentWidth() float64 {
	return p.Width - p.MarginLeft - p.MarginRight
}

// Fonts holds the document default font.
type Fonts struct {
	Default DefaultFont `mapstructure:"default"`
}

// DefaultFont is the body font. Name is the East Asian family and ASCII the
// family used for Latin text.
type DefaultFont struct {
	Name  string  `mapstructure:"name"`
	ASCII string  `mapstructure:"ascii"`
	Size  float64 `mapstructure:"size"`
	Color string  `mapstructure:"color"`
}

// Titles holds the four heading levels.
type Titles struct {
	Level1 Title `mapstructure:"level1"`
	Level2 Title `mapstructure:"level2"`
	Level3 Title `mapstructure:"level3"`
	Level4 Title `mapstructure:"level4"`
}

// Level returns the settings for heading level 1 to 4. Out of range levels
// are clamped.
func (t Titles) Level(n int) Title {
	switch {
	case n <= 1:
		return t.Level1
	case n == 2:
		return t.Level2
	case n == 3:
		return t.Level3
	}
	return t.Level4
}

// Title describes one heading level. Sizes and spacing are in points;
// Indent is the first-line indent in points.
type Title struct {
	Size        float64 `mapstructure:"size"`
	Bold        bool    `mapstructure:"bold"`
	Align       string  `mapstructure:"align"`
	SpaceBefore float64 `mapstructure:"space_before"`
	SpaceAfter  float64 `mapstructure:"space_after"`
	Indent      float64 `mapstructure:"indent"`
}

// Paragraph describes body text.
type Paragraph struct {
	LineSpacing     float64 `mapstructure:"line_spacing"`
	FirstLineIndent float64 `mapstructure:"first_line_indent"`
	Align           string  `mapstructure:"align"`
}

// RunFont is a font family, size in points and hex colour.
type RunFont struct {
	Font  string  `mapstructure:"font"`
	Size  float64 `mapstructure:"size"`
	Color string  `mapstructure:"color"`
}

// Table describes table borders, cell layout and cell fonts.
type Table struct {
	Alignment     string     `mapstructure:"alignment"`
	VerticalAlign string     `mapstructure:"vertical_align"`
	RowHeightCM   float64    `mapstructure:"row_height_cm"`
	BorderEnabled bool       `mapstructure:"border_enabled"`
	BorderColor   string     `mapstructure:"border_color"`
	BorderWidth   int        `mapstructure:"border_width"`
	LineSpacing   float64    `mapstructure:"line_spacing"`
	SpaceBefore   float64    `mapstructure:"space_before"`
	SpaceAfter    float64    `mapstructure:"space_after"`
	CellMargin    CellMargin `mapstructure:"cell_margin"`
	Header        CellFont   `mapstructure:"header"`
	Body          CellFont   `mapstructure:"body"`
}

// CellMargin is in twentieths of a point.
type CellMargin struct {
	Top    int `mapstructure:"top"`
	Bottom int `mapstructure:"bottom"`
	Left   int `mapstructure:"left"`
	Right  int `mapstructure:"right"`
}

// CellFont is the font of header or body cells.
type CellFont struct {
	RunFont `mapstructure:",squash"`
	Bold    bool `mapstructure:"bold"`
}

// Quote describes block quotes.
type Quote struct {
	BackgroundColor  string  `mapstructure:"background_color"`
	LeftIndentInches float64 `mapstructure:"left_indent_inches"`
	FontSize         float64 `mapstructure:"font_size"`
	LineSpacing      float64 `mapstructure:"line_spacing"`
}

// CodeBlock describes fenced code blocks.
type CodeBlock struct {
	Label   RunFont     `mapstructure:"label"`
	Content CodeContent `mapstructure:"content"`
}

// CodeContent is the font and layout of code lines. LeftIndent is in points.
type CodeContent struct {
	RunFont     `mapstructure:",squash"`
	LeftIndent  float64 `mapstructure:"left_indent"`
	LineSpacing float64 `mapstructure:"line_spacing"`
}

// Image controls how raster images are sized.
type Image struct {
	DisplayRatio float64 `mapstructure:"display_ratio"`
	MaxWidthCM   float64 `mapstructure:"max_width_cm"`
	TargetDPI    int     `mapstructure:"target_dpi"`
}

// Lists holds list glyphs.
type Lists struct {
	Bullet struct {
		Marker string `mapstructure:"marker"`
	} `mapstructure:"bullet"`
	Task struct {
		Checked   string `mapstructure:"checked"`
		Unchecked string `mapstructure:"unchecked"`
	} `mapstructure:"task"`
}

// HorizontalRule is drawn as a repeated character.
type HorizontalRule struct {
	RunFont     `mapstructure:",squash"`
	Character   string `mapstructure:"character"`
	RepeatCount int    `mapstructure:"repeat_count"`
	Alignment   string `mapstructure:"alignment"`
}

// PageNumber configures the footer page field. In Format every "1" is the
// current page and every "x" the page count.
type PageNumber struct {
	Enabled  bool    `mapstructure:"enabled"`
	Format   string  `mapstructure:"format"`
	Font     string  `mapstructure:"font"`
	Size     float64 `mapstructure:"size"`
	Position string  `mapstructure:"position"`
}

// Quotes controls ASCII quote conversion.
type Quotes struct {
	ConvertToChinese bool `mapstructure:"convert_to_chinese"`
}

// Math is the font of inline $math$ spans.
type Math struct {
	RunFont `mapstructure:",squash"`
	Italic  bool `mapstructure:"italic"`
}

// Diagram configures the external Mermaid renderer.
type Diagram struct {
	Theme          string  `mapstructure:"theme"`
	Width          int     `mapstructure:"width"`
	Height         int     `mapstructure:"height"`
	Scale          float64 `mapstructure:"scale"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	ConfigFile     string  `mapstructure:"config_file"`
	OCRLanguage    string  `mapstructure:"ocr_language"`
}

// Load parses YAML from r and merges it over the built-in defaults.
func Load(r io.Reader) (*Config, error) {
	if r == nil {
		return nil, errors.Wrap(ErrConfigLoad, "no source")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(ErrConfigLoad, "read: %v", err)
	}
	tree, err := parseTree(data)
	if err != nil {
		return nil, err
	}
	return fromLayers(defaultsTree(), tree)
}

// LoadFile reads a YAML configuration file and merges it over the defaults.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(ErrConfigLoad, "%s: %v", path, err),
			"check the path passed to --config",
		)
	}
	cfg, err := Load(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return cfg, nil
}

// FromTree decodes a complete tree into a Config. The tree is copied and
// the whole of it counts as set when the Config is merged onto another.
func FromTree(tree Tree) (*Config, error) {
	cfg := &Config{tree: tree.Clone(), overlay: tree.Clone()}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           cfg,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create decoder")
	}
	if err := dec.Decode(map[string]any(cfg.tree)); err != nil {
		return nil, errors.Wrapf(ErrConfigLoad, "decode: %v", err)
	}
	return cfg, nil
}

// Tree returns a copy of the raw tree the Config was decoded from.
func (c *Config) Tree() Tree {
	return c.tree.Clone()
}

// Get is a dotted-path lookup on the raw tree.
func (c *Config) Get(path string, def any) any {
	return c.tree.Get(path, def)
}

// Merge returns a new Config with override deep-merged onto c. Only the
// keys the override's source set are applied; settings it took from the
// defaults leave c alone. A nil override returns c unchanged.
func (c *Config) Merge(override *Config) (*Config, error) {
	if override == nil {
		return c, nil
	}
	cfg, err := FromTree(Merge(c.tree, override.overlay))
	if err != nil {
		return nil, err
	}
	cfg.overlay = Merge(c.overlay, override.overlay)
	return cfg, nil
}

// fromLayers decodes overlay merged onto base and remembers overlay as the
// Config's own layer.
func fromLayers(base, overlay Tree) (*Config, error) {
	cfg, err := FromTree(Merge(base, overlay))
	if err != nil {
		return nil, err
	}
	cfg.overlay = overlay.Clone()
	return cfg, nil
}

func parseTree(data []byte) (Tree, error) {
	var tree Tree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, errors.Wrapf(ErrConfigLoad, "parse yaml: %v", err)
	}
	if tree == nil {
		return nil, errors.Wrap(ErrConfigLoad, "empty document")
	}
	return tree, nil
}
