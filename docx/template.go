package docx

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"os"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/tsawler/md2word/format"
	"github.com/tsawler/md2word/logging"
)

// Template is a base .docx whose styles and settings are carried into the
// output. Its body content is discarded.
type Template struct {
	// Path is the file the template was read from.
	Path string

	styles        []byte
	normalStyleID string
	parts         []*part
}

// part is a package part copied from the template.
type part struct {
	name        string // zip entry name
	contentType string // empty for .rels files
	relType     string // relationship type from document.xml; empty for dependents
	data        []byte
}

// carried lists the template parts referenced from document.xml that the
// output keeps. Styles are handled separately.
var carried = []struct {
	relType     string
	fallback    string
	contentType string
}{
	{relNumbering, "word/numbering.xml", ctNumbering},
	{relTheme, "word/theme/theme1.xml", ctTheme},
	{relFontTable, "word/fontTable.xml", ctFontTable},
	{relSettings, "word/settings.xml", ctSettings},
}

// OpenTemplate reads a template .docx. Missing optional parts are skipped
// and unreadable ones are logged; only a file that is not a DOCX package,
// or lacks its content types or main document, is an error.
func OpenTemplate(filename string) (*Template, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrap(err, "opening template")
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errors.Wrap(err, "opening template")
	}

	kind, err := format.DetectFromReader(f, info.Size())
	if err != nil || kind != format.DOCX {
		if err == nil {
			err = errors.Newf("%s is not a DOCX package", filename)
		}
		return nil, errors.WithHint(
			errors.Mark(errors.Wrap(err, "reading template"), ErrInvalidTemplate),
			"the --template file must be a Word .docx document",
		)
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return nil, errors.Mark(errors.Wrap(err, "opening ZIP archive"), ErrInvalidTemplate)
	}

	r := &templateReader{files: make(map[string]*zip.File, len(zr.File))}
	for _, zf := range zr.File {
		r.files[zf.Name] = zf
	}
	return r.read(filename)
}

type templateReader struct {
	files map[string]*zip.File
	types contentTypesXML
	rels  relationshipsXML
}

func (r *templateReader) read(filename string) (*Template, error) {
	for _, name := range []string{"[Content_Types].xml", "word/document.xml"} {
		if r.files[name] == nil {
			return nil, errors.Wrapf(ErrMissingPart, "template has no %s", name)
		}
	}

	if err := r.unmarshal("[Content_Types].xml", &r.types); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parsing content types"), ErrInvalidTemplate)
	}

	t := &Template{Path: filename}
	logger := logging.Logger().With("template", filename)

	if err := r.unmarshal("word/_rels/document.xml.rels", &r.rels); err != nil && !errors.Is(err, ErrMissingPart) {
		logger.Warn("template relationships unreadable, using conventional part names", "err", err)
	}

	stylesName := r.target(relStyles, "word/styles.xml")
	if data, err := r.content(stylesName); err != nil {
		logger.Warn("template styles unavailable, using generated styles", "err", err)
	} else {
		t.styles = data
		id, err := defaultParagraphStyle(data)
		if err != nil {
			logger.Warn("template default style not found", "err", err)
		}
		t.normalStyleID = id
	}

	for _, c := range carried {
		name := r.target(c.relType, c.fallback)
		data, err := r.content(name)
		if err != nil {
			if !errors.Is(err, ErrMissingPart) {
				logger.Warn("template part skipped", "part", name, "err", err)
			}
			continue
		}
		ct := r.types.lookup(name)
		if ct == "" {
			ct = c.contentType
		}
		t.parts = append(t.parts, &part{name: name, contentType: ct, relType: c.relType, data: data})
		t.parts = append(t.parts, r.dependents(name, logger)...)
	}

	logger.Debug("template loaded", "styles", t.styles != nil, "parts", len(t.parts))
	return t, nil
}

// target resolves the part name of the first document relationship of the
// given type, or returns fallback.
func (r *templateReader) target(relType, fallback string) string {
	rel, ok := r.rels.byType(relType)
	if !ok || rel.TargetMode == "External" {
		return fallback
	}
	return resolvePart("word", rel.Target)
}

// dependents returns the .rels file of a carried part and the internal
// parts it references, such as embedded fonts of fontTable.xml.
func (r *templateReader) dependents(name string, logger *log.Logger) []*part {
	relsName := path.Join(path.Dir(name), "_rels", path.Base(name)+".rels")
	data, err := r.content(relsName)
	if err != nil {
		return nil
	}

	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		logger.Warn("template part relationships skipped", "part", relsName, "err", err)
		return nil
	}

	out := []*part{{name: relsName, data: data}}
	for _, rel := range rels.Relationships {
		if rel.TargetMode == "External" {
			continue
		}
		target := resolvePart(path.Dir(name), rel.Target)
		body, err := r.content(target)
		if err != nil {
			logger.Warn("template dependent part skipped", "part", target, "err", err)
			continue
		}
		out = append(out, &part{name: target, contentType: r.types.lookup(target), data: body})
	}
	return out
}

func (r *templateReader) content(name string) ([]byte, error) {
	zf := r.files[name]
	if zf == nil {
		return nil, errors.Wrap(ErrMissingPart, name)
	}
	rc, err := zf.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", name)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return data, nil
}

func (r *templateReader) unmarshal(name string, v any) error {
	data, err := r.content(name)
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, v)
}

// resolvePart resolves a relationship target against the directory of its
// source part. Absolute targets are relative to the package root.
func resolvePart(dir, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(dir, target))
}

// relTarget returns name relative to the word/ directory, the base of
// targets in document.xml.rels.
func relTarget(name string) string {
	if rel, ok := strings.CutPrefix(name, "word/"); ok {
		return rel
	}
	return "/" + name
}
