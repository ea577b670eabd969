package md2word

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/tsawler/md2word/convert"
	"github.com/tsawler/md2word/diagram"
	"github.com/tsawler/md2word/docx"
	"github.com/tsawler/md2word/format"
	"github.com/tsawler/md2word/internal/textenc"
	"github.com/tsawler/md2word/logging"
	"github.com/tsawler/md2word/model"
	"github.com/tsawler/md2word/style"
)

// OutputSuffix is appended to the input base name to form the default
// output file name.
const OutputSuffix = "_完整版.docx"

// Converter provides a fluent interface for converting one Markdown source.
// Each configuration method returns a new Converter instance, making it
// safe for concurrent use and allowing method chaining.
type Converter struct {
	// Source
	filename string
	data     []byte
	inMemory bool

	output string

	options Options

	// Accumulated error (fail-fast)
	err error
}

// Result describes a finished conversion.
type Result struct {
	Input  string
	Output string
	// Encoding is the encoding the source was decoded with.
	Encoding string
	Style    *style.Config
	// Template is the template actually used. It is empty when none was
	// given or the given one could not be read.
	Template string
	Elements int
	Tables   int
	Images   int
}

// clone creates a shallow copy of the Converter with a copy of options.
func (c *Converter) clone() *Converter {
	return &Converter{
		filename: c.filename,
		data:     c.data,
		inMemory: c.inMemory,
		output:   c.output,
		options:  c.options.clone(),
		err:      c.err,
	}
}

// OutputName returns the default output path for input: the input path
// without its extension, followed by OutputSuffix.
func OutputName(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + OutputSuffix
}

// ============================================================================
// Configuration Methods (return new Converter instance)
// ============================================================================

// Preset selects a bundled style preset. An unknown name fails the
// terminal operation with an error listing the available presets.
//
// Example:
//
//	res, _, err := md2word.Open("paper.md").Preset("academic").Convert(ctx)
func (c *Converter) Preset(name string) *Converter {
	newConv := c.clone()
	if !lo.Contains(style.ListPresets(), name) {
		newConv.err = errors.WithHint(
			errors.Wrapf(style.ErrPresetNotFound, "%q", name),
			"available presets: "+strings.Join(style.ListPresets(), ", "),
		)
		return newConv
	}
	newConv.options.Preset = name
	return newConv
}

// Config uses the YAML style file at path, merged over the built-in
// defaults. It takes precedence over Preset. A file that cannot be loaded
// is reported as a warning and the default preset is used.
func (c *Converter) Config(path string) *Converter {
	newConv := c.clone()
	newConv.options.ConfigFile = path
	return newConv
}

// WithConfig uses an already resolved style configuration. It takes
// precedence over Config and Preset.
func (c *Converter) WithConfig(cfg *style.Config) *Converter {
	newConv := c.clone()
	newConv.options.Style = cfg
	return newConv
}

// Template reuses the styles of the .docx at path. A template that cannot
// be read is reported as a warning and the conversion continues without it.
func (c *Converter) Template(path string) *Converter {
	newConv := c.clone()
	newConv.options.Template = path
	return newConv
}

// Output sets the output path. By default it is derived from the input
// path with OutputName.
func (c *Converter) Output(path string) *Converter {
	newConv := c.clone()
	newConv.output = path
	return newConv
}

// Renderer sets the Mermaid renderer.
func (c *Converter) Renderer(r *diagram.Renderer) *Converter {
	newConv := c.clone()
	newConv.options.Renderer = r
	return newConv
}

// ImageDir sets the directory rendered diagrams are written to.
func (c *Converter) ImageDir(dir string) *Converter {
	newConv := c.clone()
	newConv.options.ImageDir = dir
	return newConv
}

// WithOptions replaces all conversion options at once.
func (c *Converter) WithOptions(opts Options) *Converter {
	newConv := c.clone()
	newConv.options = opts.clone()
	return newConv
}

// ============================================================================
// Terminal Operations
// ============================================================================

// Document reads and assembles the source and returns the document model
// without writing anything.
//
// Example:
//
//	doc, _, err := md2word.Open("notes.md").Document(ctx)
//	fmt.Println(doc.Metadata.Title, len(doc.Tables()))
func (c *Converter) Document(ctx context.Context) (*model.Document, []Warning, error) {
	p, err := c.prepare(ctx)
	if err != nil {
		return nil, nil, err
	}
	return p.doc, p.warnings, nil
}

// WriteTo converts the source and writes the .docx package to w.
func (c *Converter) WriteTo(ctx context.Context, w io.Writer) ([]Warning, error) {
	p, err := c.prepare(ctx)
	if err != nil {
		return nil, err
	}
	if err := docx.Write(w, p.doc, p.cfg, p.tpl); err != nil {
		return p.warnings, errors.Wrap(err, "writing document")
	}
	return p.warnings, nil
}

// Convert converts the source and writes the .docx file. The file is
// replaced atomically, so an existing output is never left half written.
//
// Returns a description of the written file, any warnings encountered
// during processing, and an error if the conversion failed. Warnings
// indicate blocks that were skipped or rendered as text. A panic during
// the conversion is returned as ErrPanic.
//
// Example:
//
//	res, warnings, err := md2word.Open("notes.md").Convert(ctx)
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", md2word.FormatWarnings(warnings))
//	}
func (c *Converter) Convert(ctx context.Context) (res Result, warnings []Warning, err error) {
	defer recoverPanic(c.name(), &err)
	return c.convert(ctx)
}

func (c *Converter) convert(ctx context.Context) (Result, []Warning, error) {
	if c.err != nil {
		return Result{}, nil, c.err
	}

	out := c.output
	if out == "" {
		if c.filename == "" {
			if !c.inMemory {
				return Result{}, nil, ErrNoInput
			}
			return Result{}, nil, errors.WithHint(ErrNoOutput, "set an output path with Output")
		}
		out = OutputName(c.filename)
	}

	p, err := c.prepare(ctx)
	if err != nil {
		return Result{}, nil, err
	}

	var buf bytes.Buffer
	if err := docx.Write(&buf, p.doc, p.cfg, p.tpl); err != nil {
		return Result{}, p.warnings, errors.Wrap(err, "writing document")
	}
	if err := writeFileAtomic(out, buf.Bytes(), 0o644); err != nil {
		return Result{}, p.warnings, errors.Wrapf(err, "writing %s", out)
	}
	logging.Logger().Info("word document written", "path", out, "bytes", buf.Len())

	return p.result(c.filename, out), p.warnings, nil
}

// ============================================================================
// Pipeline
// ============================================================================

// prepared is an assembled document ready to be written.
type prepared struct {
	doc      *model.Document
	cfg      *style.Config
	tpl      *docx.Template
	encoding string
	warnings []Warning
}

func (p *prepared) result(input, output string) Result {
	res := Result{
		Input:    input,
		Output:   output,
		Encoding: p.encoding,
		Style:    p.cfg,
		Elements: p.doc.Len(),
		Tables:   len(p.doc.Tables()),
		Images:   len(p.doc.Images()),
	}
	if p.tpl != nil {
		res.Template = p.tpl.Path
	}
	return res
}

func (c *Converter) prepare(ctx context.Context) (*prepared, error) {
	if c.err != nil {
		return nil, c.err
	}

	data, err := c.source()
	if err != nil {
		return nil, err
	}
	text, enc, err := textenc.Decode(data)
	if err != nil {
		return nil, errors.Wrapf(err, "decoding %s", c.name())
	}
	if enc != textenc.UTF8 {
		logging.Logger().Info("input decoded with fallback encoding", "path", c.name(), "encoding", enc)
	}

	cfg, warnings, err := c.options.ResolveStyle()
	if err != nil {
		return nil, err
	}

	a := convert.NewAssembler(cfg, c.filename)
	if c.options.Renderer != nil {
		a.Diagrams = c.options.Renderer
	}
	a.ImageDir = c.options.ImageDir
	doc := a.Assemble(ctx, convert.Lex(textenc.Lines(text)))
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	warnings = append(warnings, a.Warnings()...)

	tpl, tplWarnings := c.options.openTemplate()
	warnings = append(warnings, tplWarnings...)

	return &prepared{
		doc:      doc,
		cfg:      cfg,
		tpl:      tpl,
		encoding: enc,
		warnings: warnings,
	}, nil
}

// source returns the Markdown bytes, rejecting inputs that are not text.
func (c *Converter) source() ([]byte, error) {
	if c.inMemory {
		if len(c.data) > 0 && format.DetectFromMagic(c.data) != format.Markdown {
			return nil, errors.Wrapf(ErrUnsupportedInput, "%s is not Markdown text", c.name())
		}
		return c.data, nil
	}

	if c.filename == "" {
		return nil, ErrNoInput
	}
	kind := format.Detect(c.filename)
	if kind != format.Markdown && kind != format.Unknown {
		return nil, errors.WithHint(
			errors.Wrapf(ErrUnsupportedInput, "%s is %s", c.filename, kind),
			"md2word converts Markdown text files",
		)
	}

	data, err := os.ReadFile(c.filename)
	if err != nil {
		return nil, errors.Wrap(err, "reading input")
	}
	if len(data) > 0 && format.DetectFromMagic(data) != format.Markdown {
		return nil, errors.Wrapf(ErrUnsupportedInput, "%s is not Markdown text", c.filename)
	}
	return data, nil
}

func (c *Converter) name() string {
	if c.filename == "" {
		return "input"
	}
	return c.filename
}

// ResolveStyle returns the style configuration the options select: Style,
// else ConfigFile, else Preset, else the default preset. A config file that
// cannot be loaded falls back to the default preset with a warning; an
// unknown preset is an error.
func (o Options) ResolveStyle() (*style.Config, []Warning, error) {
	log := logging.Logger()

	switch {
	case o.Style != nil:
		return o.Style, nil, nil

	case o.ConfigFile != "":
		cfg, err := style.LoadFile(o.ConfigFile)
		if err == nil {
			log.Debug("using style config file", "path", o.ConfigFile)
			return cfg, nil, nil
		}
		log.Warn("style config not loaded, using default preset", "path", o.ConfigFile, "err", err)
		return style.Default(), []Warning{{
			Message: "style config " + o.ConfigFile + " not loaded, using default preset",
			Err:     err,
		}}, nil

	case o.Preset != "":
		cfg, err := style.Preset(o.Preset)
		if err != nil {
			return nil, nil, err
		}
		log.Debug("using style preset", "preset", o.Preset)
		return cfg, nil, nil
	}

	return style.Default(), nil, nil
}

// openTemplate reads the template, if any. Failures are warnings.
func (o Options) openTemplate() (*docx.Template, []Warning) {
	if o.Template == "" {
		return nil, nil
	}
	tpl, err := docx.OpenTemplate(o.Template)
	if err != nil {
		logging.Logger().Warn("template not used", "path", o.Template, "err", err)
		return nil, []Warning{{Message: "template " + o.Template + " not used", Err: err}}
	}
	return tpl, nil
}
