package docx

import (
	"encoding/xml"
	"path"
	"strings"
	"time"
)

// Relationship types.
const (
	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtendedProps  = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relFooter         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/footer"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	relNumbering      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relTheme          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"
	relFontTable      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/fontTable"
	relSettings       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"

	nsRelationships = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsContentTypes  = "http://schemas.openxmlformats.org/package/2006/content-types"
)

// Content types.
const (
	ctRelationships = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML           = "application/xml"
	ctDocument      = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles        = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctFooter        = "application/vnd.openxmlformats-officedocument.wordprocessingml.footer+xml"
	ctNumbering     = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	ctSettings      = "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"
	ctFontTable     = "application/vnd.openxmlformats-officedocument.wordprocessingml.fontTable+xml"
	ctTheme         = "application/vnd.openxmlformats-officedocument.theme+xml"
	ctCoreProps     = "application/vnd.openxmlformats-package.core-properties+xml"
	ctExtendedProps = "application/vnd.openxmlformats-officedocument.extended-properties+xml"
)

// relationshipsXML represents a .rels file. It is used both to read
// template relationships and to write the package's own.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr,omitempty"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single relationship.
type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"` // External or empty (internal)
}

func (r *relationshipsXML) add(id, typ, target string) {
	r.Relationships = append(r.Relationships, relationshipXML{ID: id, Type: typ, Target: target})
}

// byType returns the first relationship of the given type.
func (r *relationshipsXML) byType(typ string) (relationshipXML, bool) {
	for _, rel := range r.Relationships {
		if rel.Type == typ {
			return rel, true
		}
	}
	return relationshipXML{}, false
}

// contentTypesXML represents [Content_Types].xml.
type contentTypesXML struct {
	XMLName   xml.Name             `xml:"Types"`
	Xmlns     string               `xml:"xmlns,attr,omitempty"`
	Defaults  []contentDefaultXML  `xml:"Default"`
	Overrides []contentOverrideXML `xml:"Override"`
}

type contentDefaultXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type contentOverrideXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func (c *contentTypesXML) addDefault(ext, ct string) {
	for _, d := range c.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return
		}
	}
	c.Defaults = append(c.Defaults, contentDefaultXML{Extension: ext, ContentType: ct})
}

func (c *contentTypesXML) addOverride(part, ct string) {
	c.Overrides = append(c.Overrides, contentOverrideXML{PartName: "/" + part, ContentType: ct})
}

// lookup returns the content type of a part: its override, else the
// default for its extension.
func (c *contentTypesXML) lookup(part string) string {
	for _, o := range c.Overrides {
		if strings.TrimPrefix(o.PartName, "/") == part {
			return o.ContentType
		}
	}
	ext := strings.TrimPrefix(path.Ext(part), ".")
	for _, d := range c.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return d.ContentType
		}
	}
	return ""
}

// corePropertiesXML is docProps/core.xml (Dublin Core metadata).
type corePropertiesXML struct {
	XMLName        xml.Name  `xml:"cp:coreProperties"`
	XmlnsCP        string    `xml:"xmlns:cp,attr"`
	XmlnsDC        string    `xml:"xmlns:dc,attr"`
	XmlnsDCTerms   string    `xml:"xmlns:dcterms,attr"`
	XmlnsXSI       string    `xml:"xmlns:xsi,attr"`
	Title          string    `xml:"dc:title,omitempty"`
	Subject        string    `xml:"dc:subject,omitempty"`
	Creator        string    `xml:"dc:creator,omitempty"`
	Keywords       string    `xml:"cp:keywords,omitempty"`
	LastModifiedBy string    `xml:"cp:lastModifiedBy,omitempty"`
	Revision       string    `xml:"cp:revision"`
	Created        w3cdtfXML `xml:"dcterms:created"`
	Modified       w3cdtfXML `xml:"dcterms:modified"`
}

type w3cdtfXML struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

func w3cdtf(t time.Time) w3cdtfXML {
	return w3cdtfXML{Type: "dcterms:W3CDTF", Value: t.UTC().Format(time.RFC3339)}
}

// appPropertiesXML is docProps/app.xml.
type appPropertiesXML struct {
	XMLName     xml.Name `xml:"Properties"`
	Xmlns       string   `xml:"xmlns,attr"`
	Application string   `xml:"Application"`
	DocSecurity int      `xml:"DocSecurity"`
	Template    string   `xml:"Template,omitempty"`
}
