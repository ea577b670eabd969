// Package docx writes converted documents as DOCX (Office Open XML)
// packages and reads the template documents whose styles they reuse.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/tsawler/md2word/model"
	"github.com/tsawler/md2word/style"
)

const xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

const (
	stylesRelID = "rId1"
	footerRelID = "rId2"
	footerPart  = "word/footer1.xml"
)

// Write serializes doc as a DOCX package to w, formatted with cfg. When tpl
// is not nil its styles, numbering, theme, font table and settings are
// reused. A nil cfg uses style.Default().
func Write(w io.Writer, doc *model.Document, cfg *style.Config, tpl *Template) error {
	if doc == nil {
		return errors.New("docx: nil document")
	}
	if cfg == nil {
		cfg = style.Default()
	}

	b := newBuilder(cfg)
	b.reserve(tpl)
	body := b.body(doc)

	p := &pkgWriter{zw: zip.NewWriter(w)}
	p.types.Xmlns = nsContentTypes
	p.types.addDefault("rels", ctRelationships)
	p.types.addDefault("xml", ctXML)
	p.docRels.Xmlns = nsRelationships

	p.writeXML("word/document.xml", ctDocument, &documentXML{
		XmlnsW:  nsW,
		XmlnsR:  nsR,
		XmlnsWP: nsWP,
		XmlnsA:  nsA,
		XmlnsPc: nsPic,
		Body:    body,
	})

	p.docRels.add(stylesRelID, relStyles, "styles.xml")
	p.writeStyles(b, tpl)

	if body.SectPr.FooterRef != nil {
		p.docRels.add(footerRelID, relFooter, relTarget(footerPart))
		p.writeXML(footerPart, ctFooter, b.footer(doc.PageNumber))
	}

	for _, m := range b.media {
		p.docRels.add(m.relID, relImage, relTarget(m.name))
		p.types.addDefault(strings.TrimPrefix(path.Ext(m.name), "."), m.contentType)
		p.writeRaw(m.name, "", m.data)
	}

	if tpl != nil {
		for i, pt := range tpl.parts {
			if pt.relType != "" {
				p.docRels.add(fmt.Sprintf("rIdTpl%d", i+1), pt.relType, relTarget(pt.name))
			}
			p.writeRaw(pt.name, pt.contentType, pt.data)
		}
	}

	p.writeXML("word/_rels/document.xml.rels", "", &p.docRels)
	p.writeProps(doc, tpl)

	rootRels := &relationshipsXML{Xmlns: nsRelationships}
	rootRels.add("rId1", relOfficeDocument, "word/document.xml")
	rootRels.add("rId2", relCoreProps, "docProps/core.xml")
	rootRels.add("rId3", relExtendedProps, "docProps/app.xml")
	p.writeXML("_rels/.rels", "", rootRels)

	p.writeXML("[Content_Types].xml", "", &p.types)

	if p.err != nil {
		return p.err
	}
	return errors.Wrap(p.zw.Close(), "closing package")
}

// pkgWriter writes zip entries and records content types. The first error
// is kept and later writes are skipped.
type pkgWriter struct {
	zw      *zip.Writer
	types   contentTypesXML
	docRels relationshipsXML
	err     error
}

func (p *pkgWriter) writeXML(name, contentType string, v any) {
	if p.err != nil {
		return
	}
	data, err := xml.Marshal(v)
	if err != nil {
		p.err = errors.Wrapf(err, "encoding %s", name)
		return
	}
	p.writeRaw(name, contentType, append([]byte(xmlHeader), data...))
}

func (p *pkgWriter) writeRaw(name, contentType string, data []byte) {
	if p.err != nil {
		return
	}
	fw, err := p.zw.Create(name)
	if err != nil {
		p.err = errors.Wrapf(err, "creating %s", name)
		return
	}
	if _, err := fw.Write(data); err != nil {
		p.err = errors.Wrapf(err, "writing %s", name)
		return
	}
	if contentType != "" {
		p.types.addOverride(name, contentType)
	}
}

func (p *pkgWriter) writeStyles(b *builder, tpl *Template) {
	normal := b.normalRunProps()
	if tpl != nil && tpl.styles != nil {
		data, err := patchNormalStyle(tpl.styles, tpl.normalStyleID, normal)
		if err == nil {
			p.writeRaw("word/styles.xml", ctStyles, data)
			return
		}
		b.warn("template styles could not be adapted, using generated styles", "err", err)
	}
	p.writeXML("word/styles.xml", ctStyles, generatedStyles(normal))
}

func (p *pkgWriter) writeProps(doc *model.Document, tpl *Template) {
	created := doc.Metadata.CreationDate
	if created.IsZero() {
		created = time.Now()
	}
	modified := doc.Metadata.ModDate
	if modified.IsZero() {
		modified = created
	}
	creator := doc.Metadata.Author
	if creator == "" {
		creator = doc.Metadata.Creator
	}

	p.writeXML("docProps/core.xml", ctCoreProps, &corePropertiesXML{
		XmlnsCP:        nsCP,
		XmlnsDC:        nsDC,
		XmlnsDCTerms:   nsDCT,
		XmlnsXSI:       nsXSI,
		Title:          doc.Metadata.Title,
		Subject:        doc.Metadata.Subject,
		Creator:        creator,
		Keywords:       strings.Join(doc.Metadata.Keywords, ", "),
		LastModifiedBy: creator,
		Revision:       "1",
		Created:        w3cdtf(created),
		Modified:       w3cdtf(modified),
	})

	app := &appPropertiesXML{Xmlns: nsEP, Application: "md2word"}
	if tpl != nil {
		app.Template = filepath.Base(tpl.Path)
	}
	p.writeXML("docProps/app.xml", ctExtendedProps, app)
}
