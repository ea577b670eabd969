package docx

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/cockroachdb/errors"
)

// stylesXML is the read view of word/styles.xml. Only what is needed to
// find the default paragraph style of a template is decoded.
type stylesXML struct {
	XMLName xml.Name      `xml:"styles"`
	Styles  []styleDefXML `xml:"style"`
}

// styleDefXML is a style definition.
type styleDefXML struct {
	Type    string       `xml:"type,attr"` // paragraph, character, table, numbering
	StyleID string       `xml:"styleId,attr"`
	Default string       `xml:"default,attr"` // "1" if default style
	Name    styleNameXML `xml:"name"`
}

// styleNameXML represents a style name.
type styleNameXML struct {
	Val string `xml:"val,attr"`
}

// defaultParagraphStyle returns the ID of the default paragraph style. It
// is "Normal" in English templates but localized templates use other IDs
// (Chinese Word writes "a").
func defaultParagraphStyle(data []byte) (string, error) {
	var styles stylesXML
	if err := xml.Unmarshal(data, &styles); err != nil {
		return "", errors.Wrap(err, "parsing styles")
	}
	for _, s := range styles.Styles {
		if s.Type == "paragraph" && (s.Default == "1" || s.Default == "true") {
			return s.StyleID, nil
		}
	}
	for _, s := range styles.Styles {
		if s.Type == "paragraph" && s.Name.Val == "Normal" {
			return s.StyleID, nil
		}
	}
	return "", nil
}

// stylesDocXML is the generated word/styles.xml.
type stylesDocXML struct {
	XMLName     xml.Name         `xml:"w:styles"`
	XmlnsW      string           `xml:"xmlns:w,attr"`
	DocDefaults docDefaultsXML   `xml:"w:docDefaults"`
	Styles      []*styleEntryXML `xml:"w:style"`
}

type docDefaultsXML struct {
	RPr runPropsXML       `xml:"w:rPrDefault>w:rPr"`
	PPr paragraphPropsXML `xml:"w:pPrDefault>w:pPr"`
}

type styleEntryXML struct {
	Type    string             `xml:"w:type,attr"`
	StyleID string             `xml:"w:styleId,attr"`
	Default string             `xml:"w:default,attr,omitempty"`
	Name    valXML             `xml:"w:name"`
	BasedOn *valXML            `xml:"w:basedOn,omitempty"`
	QFormat *onXML             `xml:"w:qFormat,omitempty"`
	PPr     *paragraphPropsXML `xml:"w:pPr,omitempty"`
	RPr     *runPropsXML       `xml:"w:rPr,omitempty"`
}

// generatedStyles builds styles.xml for documents without a template. The
// Normal style carries the default font; every run also sets its font
// explicitly, so the style matters mostly for empty paragraphs.
func generatedStyles(normal *runPropsXML) *stylesDocXML {
	return &stylesDocXML{
		XmlnsW: nsW,
		DocDefaults: docDefaultsXML{
			RPr: *normal,
			PPr: paragraphPropsXML{Spacing: &spacingXML{After: "0", Line: itoa(lineAuto), LineRule: "auto"}},
		},
		Styles: []*styleEntryXML{
			{
				Type:    "paragraph",
				StyleID: "Normal",
				Default: "1",
				Name:    valXML{Val: "Normal"},
				QFormat: &onXML{},
				RPr:     normal,
			},
			{
				Type:    "character",
				StyleID: "DefaultParagraphFont",
				Default: "1",
				Name:    valXML{Val: "Default Paragraph Font"},
			},
		},
	}
}

// patchNormalStyle rewrites the run properties of the style with the given
// ID in a template styles.xml and copies everything else through. The
// token stream is re-encoded with the namespace prefixes kept literally so
// the output matches what Word wrote.
func patchNormalStyle(data []byte, styleID string, rPr *runPropsXML) ([]byte, error) {
	if styleID == "" {
		return data, nil
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	var buf bytes.Buffer
	enc := xml.NewEncoder(&buf)

	depth, styleDepth, skip := 0, 0, 0
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading template styles")
		}

		switch t := tok.(type) {
		case xml.StartElement:
			depth++
			if skip > 0 {
				skip++
				continue
			}
			name := prefixed(t.Name)
			if styleDepth > 0 && depth == styleDepth+1 && name == "w:rPr" {
				skip = 1
				continue
			}
			if name == "w:style" && attrValue(t, "styleId") == styleID {
				styleDepth = depth
			}
			err = enc.EncodeToken(flatten(t))
		case xml.EndElement:
			if skip > 0 {
				skip--
				depth--
				continue
			}
			if styleDepth > 0 && depth == styleDepth {
				err = enc.EncodeElement(rPr, xml.StartElement{Name: xml.Name{Local: "w:rPr"}})
				styleDepth = 0
				if err != nil {
					break
				}
			}
			depth--
			err = enc.EncodeToken(xml.EndElement{Name: xml.Name{Local: prefixed(t.Name)}})
		default:
			if skip > 0 {
				continue
			}
			err = enc.EncodeToken(xml.CopyToken(tok))
		}
		if err != nil {
			return nil, errors.Wrap(err, "writing template styles")
		}
	}

	if depth != 0 {
		return nil, errors.New("template styles end inside an element")
	}
	if err := enc.Flush(); err != nil {
		return nil, errors.Wrap(err, "writing template styles")
	}
	return buf.Bytes(), nil
}

// prefixed joins a raw token name back into "prefix:local".
func prefixed(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

func flatten(t xml.StartElement) xml.StartElement {
	out := xml.StartElement{
		Name: xml.Name{Local: prefixed(t.Name)},
		Attr: make([]xml.Attr, len(t.Attr)),
	}
	for i, a := range t.Attr {
		out.Attr[i] = xml.Attr{Name: xml.Name{Local: prefixed(a.Name)}, Value: a.Value}
	}
	return out
}

func attrValue(t xml.StartElement, local string) string {
	for _, a := range t.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
