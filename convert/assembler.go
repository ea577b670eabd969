package convert

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/tsawler/md2word/diagram"
	"github.com/tsawler/md2word/format"
	"github.com/tsawler/md2word/inline"
	"github.com/tsawler/md2word/internal/raster"
	"github.com/tsawler/md2word/logging"
	"github.com/tsawler/md2word/model"
	"github.com/tsawler/md2word/style"
	"github.com/tsawler/md2word/tables"
)

// Creator is recorded as the creating application of assembled documents.
const Creator = "md2word"

// ErrImageUnsupported is returned when a referenced file is not an image
// format that can be embedded.
var ErrImageUnsupported = errors.New("unsupported image format")

var (
	quoteBullet = regexp.MustCompile(`^\s*[-*+]\s+`)
	quoteNumber = regexp.MustCompile(`^\s*(\d+\.)\s+`)
)

// Warning is a recoverable problem met while assembling. The affected
// block is skipped or replaced with text.
type Warning struct {
	Line    int
	Message string
	Err     error
}

func (w Warning) String() string {
	if w.Err == nil {
		return w.Message
	}
	return w.Message + ": " + w.Err.Error()
}

// Assembler builds a document from lexed blocks. It implements
// diagram.Sink so rendered diagrams and their fallbacks land in the
// document being built. An Assembler is used for one document.
type Assembler struct {
	Config   *style.Config
	Inline   inline.Formatter
	Tables   *tables.Builder
	Diagrams *diagram.Renderer
	// Source is the Markdown file path. Relative image paths resolve
	// against its directory.
	Source string
	// ImageDir receives rendered diagrams. When empty it is
	// "<source without extension>_images" beside the source.
	ImageDir string

	doc      *model.Document
	warnings []Warning
	line     int

	// Level-2 spacer policy.
	seenH2            bool
	bodyBeforeFirstH2 bool
}

var _ diagram.Sink = (*Assembler)(nil)

// NewAssembler returns an Assembler for the Markdown file at source,
// formatted with cfg.
func NewAssembler(cfg *style.Config, source string) *Assembler {
	return &Assembler{
		Config:   cfg,
		Inline:   inline.Formatter{ConvertQuotes: cfg.Quotes.ConvertToChinese},
		Tables:   tables.NewBuilder(cfg),
		Diagrams: diagram.NewRenderer(cfg.Diagram),
		Source:   source,
	}
}

// Assemble converts blocks into a document. Problems with individual
// blocks are recorded as warnings and never stop the conversion.
func (a *Assembler) Assemble(ctx context.Context, blocks []Block) *model.Document {
	a.doc = model.NewDocument()
	a.doc.Metadata.Creator = Creator
	a.warnings = nil
	a.seenH2, a.bodyBeforeFirstH2 = false, false

	for _, b := range blocks {
		a.line = b.Line
		a.block(ctx, b)
	}
	a.pageNumber()

	logging.Logger().Debug("assembled document", "source", a.Source, "elements", a.doc.Len(), "warnings", len(a.warnings))
	return a.doc
}

// Warnings returns the warnings of the last Assemble call.
func (a *Assembler) Warnings() []Warning {
	return a.warnings
}

func (a *Assembler) block(ctx context.Context, b Block) {
	log := logging.Logger()

	switch b.Kind {
	case BlockHeading:
		a.heading(b)
		return

	case BlockDiagram:
		res := a.Diagrams.Render(ctx, strings.Join(b.Lines, "\n"), a)
		if res.Err != nil {
			a.warn("mermaid diagram rendered as text", res.Err)
		}
		log.Debug("processed mermaid diagram", "line", b.Line, "kind", res.Spec.Kind, "rendered", res.Rendered)

	case BlockCode:
		a.add(&model.CodeBlock{Language: b.Language, Lines: b.Lines})
		log.Debug("processed code block", "line", b.Line, "language", b.Language)

	case BlockHTMLTable:
		t, ok := a.Tables.FromHTML(strings.Join(b.Lines, "\n"))
		if !ok {
			a.warn("HTML table skipped", nil)
			return
		}
		a.add(t)

	case BlockTable:
		t, ok := a.Tables.Build(b.Lines)
		if !ok {
			a.warn("table has no header row, kept as text", nil)
			for _, line := range b.Lines {
				a.add(&model.Paragraph{Runs: a.Inline.Format(line)})
			}
			break
		}
		a.add(t)
		log.Debug("processed markdown table", "line", b.Line, "rows", len(b.Lines))

	case BlockRule:
		a.add(&model.HorizontalRule{})

	case BlockTask:
		tc := a.Config.Lists.Task
		marker := tc.Unchecked
		if b.Checked {
			marker = tc.Checked
		}
		a.add(&model.ListItem{Kind: model.ListTask, Marker: marker, Checked: b.Checked, Runs: a.Inline.Format(b.Text)})

	case BlockBullet:
		a.add(&model.ListItem{Kind: model.ListBullet, Marker: a.Config.Lists.Bullet.Marker, Runs: a.Inline.Format(b.Text)})

	case BlockNumbered:
		a.add(&model.ListItem{Kind: model.ListNumbered, Runs: a.Inline.Format(b.Text)})

	case BlockQuote:
		a.add(a.quote(b.Lines))

	case BlockImage:
		a.localImage(b)

	default:
		a.add(&model.Paragraph{Runs: a.Inline.Format(b.Text)})
	}

	a.markBody()
}

// heading applies the spacer policy: a level-2 heading gets an empty
// paragraph before it once the document has body text or an earlier
// level-2 heading, so a title directly followed by its first section stays
// tight.
func (a *Assembler) heading(b Block) {
	if b.Level == 2 {
		if a.seenH2 || a.bodyBeforeFirstH2 {
			a.doc.Add(&model.Paragraph{Spacer: true})
		}
		a.seenH2 = true
	}

	// Headings always get CJK quotes, whatever the configuration says.
	runs := a.Inline.Format(inline.ConvertQuotes(b.Text))
	a.doc.Add(&model.Heading{Level: b.Level, Runs: runs})

	if b.Level == 1 && a.doc.Metadata.Title == "" {
		a.doc.Metadata.Title = inline.Strip(b.Text)
	}
}

func (a *Assembler) quote(lines []string) *model.Quote {
	q := &model.Quote{Lines: make([]model.QuoteLine, 0, len(lines))}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			q.Lines = append(q.Lines, model.QuoteLine{Blank: true})
			continue
		}

		var marker string
		if m := quoteBullet.FindStringIndex(line); m != nil {
			marker = "    •  "
			line = line[m[1]:]
		} else if m := quoteNumber.FindStringSubmatchIndex(line); m != nil {
			marker = "    " + line[m[2]:m[3]] + " "
			line = line[m[1]:]
		}
		q.Lines = append(q.Lines, model.QuoteLine{Marker: marker, Runs: a.Inline.Format(line)})
	}
	return q
}

func (a *Assembler) add(el model.Element) {
	a.doc.Add(el)
}

// markBody records body content for the spacer policy.
func (a *Assembler) markBody() {
	if !a.seenH2 {
		a.bodyBeforeFirstH2 = true
	}
}

func (a *Assembler) warn(msg string, err error) {
	a.warnings = append(a.warnings, Warning{Line: a.line, Message: msg, Err: err})
	if err != nil {
		logging.Logger().Warn(msg, "source", a.Source, "line", a.line, "err", err)
		return
	}
	logging.Logger().Warn(msg, "source", a.Source, "line", a.line)
}

// pageNumber adds the footer page field when enabled.
func (a *Assembler) pageNumber() {
	pn := a.Config.PageNumber
	if !pn.Enabled {
		return
	}
	f := pn.Format
	if !strings.ContainsAny(f, "1x") {
		a.line = 0
		a.warn("page number format has no page field, using 1/x", errors.Newf("format %q", f))
		f = "1/x"
	}
	a.doc.PageNumber = &model.PageNumberField{
		Format:    f,
		Alignment: model.ParseAlignment(pn.Position),
		Font:      pn.Font,
		Size:      pn.Size,
	}
}

// ============================================================================
// diagram.Sink
// ============================================================================

// ImagePath implements diagram.Sink. The image directory is created on
// first use.
func (a *Assembler) ImagePath(name string) (string, error) {
	dir := a.imageDir()
	if dir == "" {
		return "", errors.New("no image directory for in-memory source")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrap(err, "create image directory")
	}
	return filepath.Join(dir, name), nil
}

// InsertImage implements diagram.Sink.
func (a *Assembler) InsertImage(path, alt string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "read image")
	}
	img, err := a.image(data, filepath.Base(path), alt)
	if err != nil {
		return err
	}
	a.add(img)
	return nil
}

// AddParagraph implements diagram.Sink.
func (a *Assembler) AddParagraph(runs []model.Run) {
	a.add(&model.Paragraph{Runs: runs})
}

func (a *Assembler) imageDir() string {
	if a.ImageDir != "" {
		return a.ImageDir
	}
	if a.Source == "" {
		return ""
	}
	return strings.TrimSuffix(a.Source, filepath.Ext(a.Source)) + "_images"
}

// ============================================================================
// Images
// ============================================================================

// DisplayWidth is the width images are shown at: the text width scaled by
// image.display_ratio, capped at image.max_width_cm.
func DisplayWidth(cfg *style.Config) float64 {
	w := cfg.Page.ContentWidth()
	if cfg.Image.DisplayRatio > 0 {
		w *= cfg.Image.DisplayRatio
	}
	if cfg.Image.MaxWidthCM > 0 {
		w = min(w, cfg.Image.MaxWidthCM)
	}
	return w
}

// image sizes data for the page. Wide images are downsampled to the target
// resolution; narrow ones keep their pixels and are stretched on display.
func (a *Assembler) image(data []byte, name, alt string) (*model.Image, error) {
	mime, ok := format.DetectImage(data)
	if !ok {
		return nil, errors.Wrapf(ErrImageUnsupported, "%s is %s", name, mime)
	}

	fit, err := raster.Fit(data, DisplayWidth(a.Config), a.Config.Image.TargetDPI)
	if err != nil {
		return nil, errors.Wrapf(err, "prepare %s", name)
	}
	if fit.Resampled {
		logging.Logger().Debug("downsampled image", "name", name, "width", fit.Width, "height", fit.Height)
	}

	return &model.Image{
		Data:     fit.Data,
		Format:   fit.Format,
		WidthCM:  fit.WidthCM,
		HeightCM: fit.HeightCM,
		Name:     name,
		AltText:  alt,
	}, nil
}

// localImage embeds a standalone ![alt](path) image. Remote and unreadable
// images are replaced by their alt text.
func (a *Assembler) localImage(b Block) {
	path := b.Text
	fallback := func(msg string, err error) {
		a.warn(msg, err)
		text := b.Alt
		if text == "" {
			text = b.Text
		}
		a.add(&model.Paragraph{Runs: a.Inline.Format(text)})
	}

	if strings.Contains(path, "://") {
		fallback("remote image not embedded", errors.Newf("%s", path))
		return
	}
	if !filepath.IsAbs(path) && a.Source != "" {
		path = filepath.Join(filepath.Dir(a.Source), path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fallback("image not embedded", errors.Wrap(err, "read image"))
		return
	}
	img, err := a.image(data, filepath.Base(path), b.Alt)
	if err != nil {
		fallback("image not embedded", err)
		return
	}
	a.add(img)
	logging.Logger().Debug("processed image", "line", b.Line, "path", path)
}
