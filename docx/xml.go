package docx

import "encoding/xml"

// XML namespaces used in DOCX files
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	nsDC  = "http://purl.org/dc/elements/1.1/"
	nsCP  = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDCT = "http://purl.org/dc/terms/"
	nsXSI = "http://www.w3.org/2001/XMLSchema-instance"
	nsEP  = "http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"
)

// The types below are written with encoding/xml. Element and attribute
// names carry their namespace prefix literally ("w:p") and the root element
// declares the prefixes, which is the form Word expects.

// documentXML is word/document.xml.
type documentXML struct {
	XMLName xml.Name `xml:"w:document"`
	XmlnsW  string   `xml:"xmlns:w,attr"`
	XmlnsR  string   `xml:"xmlns:r,attr"`
	XmlnsWP string   `xml:"xmlns:wp,attr"`
	XmlnsA  string   `xml:"xmlns:a,attr"`
	XmlnsPc string   `xml:"xmlns:pic,attr"`
	Body    bodyXML  `xml:"w:body"`
}

// bodyXML holds paragraphs and tables in document order, followed by the
// section properties.
type bodyXML struct {
	// Content holds *paragraphXML and *tableXML values. Each carries its own
	// element name.
	Content []any
	SectPr  *sectPrXML `xml:"w:sectPr"`
}

// paragraphXML is <w:p>.
type paragraphXML struct {
	XMLName xml.Name           `xml:"w:p"`
	PPr     *paragraphPropsXML `xml:"w:pPr,omitempty"`
	Runs    []*runXML          `xml:"w:r"`
}

// paragraphPropsXML is <w:pPr>. Field order follows the schema sequence.
type paragraphPropsXML struct {
	Style      *valXML     `xml:"w:pStyle,omitempty"`
	Shading    *shadingXML `xml:"w:shd,omitempty"`
	Spacing    *spacingXML `xml:"w:spacing,omitempty"`
	Indent     *indentXML  `xml:"w:ind,omitempty"`
	Justify    *valXML     `xml:"w:jc,omitempty"`
	OutlineLvl *valXML     `xml:"w:outlineLvl,omitempty"`
}

// valXML is any element whose only attribute is w:val.
type valXML struct {
	Val string `xml:"w:val,attr"`
}

// onXML is a toggle property such as <w:b/>.
type onXML struct{}

// spacingXML is paragraph spacing. Before and After are in twips; Line is
// in 240ths of a line when LineRule is "auto".
type spacingXML struct {
	Before   string `xml:"w:before,attr,omitempty"`
	After    string `xml:"w:after,attr,omitempty"`
	Line     string `xml:"w:line,attr,omitempty"`
	LineRule string `xml:"w:lineRule,attr,omitempty"`
}

// indentXML is paragraph indentation in twips.
type indentXML struct {
	Left      string `xml:"w:left,attr,omitempty"`
	FirstLine string `xml:"w:firstLine,attr,omitempty"`
}

// shadingXML is paragraph or cell shading.
type shadingXML struct {
	Val   string `xml:"w:val,attr"`
	Color string `xml:"w:color,attr"`
	Fill  string `xml:"w:fill,attr"`
}

// runXML is <w:r>.
type runXML struct {
	XMLName xml.Name     `xml:"w:r"`
	RPr     *runPropsXML `xml:"w:rPr,omitempty"`
	// Content holds *textXML, *breakXML, *fldCharXML, *instrTextXML and
	// *drawingXML values.
	Content []any
}

// runPropsXML is <w:rPr>. Field order follows the schema sequence.
type runPropsXML struct {
	Fonts     *fontXML `xml:"w:rFonts,omitempty"`
	Bold      *onXML   `xml:"w:b,omitempty"`
	Italic    *onXML   `xml:"w:i,omitempty"`
	Strike    *onXML   `xml:"w:strike,omitempty"`
	Color     *valXML  `xml:"w:color,omitempty"`
	Size      *valXML  `xml:"w:sz,omitempty"`
	SizeCS    *valXML  `xml:"w:szCs,omitempty"`
	Underline *valXML  `xml:"w:u,omitempty"`
}

// fontXML is <w:rFonts>.
type fontXML struct {
	ASCII    string `xml:"w:ascii,attr,omitempty"`
	HAnsi    string `xml:"w:hAnsi,attr,omitempty"`
	EastAsia string `xml:"w:eastAsia,attr,omitempty"`
	CS       string `xml:"w:cs,attr,omitempty"`
}

// textXML is <w:t>.
type textXML struct {
	XMLName xml.Name `xml:"w:t"`
	Space   string   `xml:"xml:space,attr,omitempty"`
	Value   string   `xml:",chardata"`
}

// breakXML is a line break.
type breakXML struct {
	XMLName xml.Name `xml:"w:br"`
}

// fldCharXML marks the start or end of a complex field.
type fldCharXML struct {
	XMLName xml.Name `xml:"w:fldChar"`
	Type    string   `xml:"w:fldCharType,attr"`
}

// instrTextXML is a field instruction such as " PAGE ".
type instrTextXML struct {
	XMLName xml.Name `xml:"w:instrText"`
	Space   string   `xml:"xml:space,attr"`
	Value   string   `xml:",chardata"`
}

// drawingXML is an inline picture.
type drawingXML struct {
	XMLName xml.Name  `xml:"w:drawing"`
	Inline  inlineXML `xml:"wp:inline"`
}

// inlineXML is <wp:inline>. Extents are in EMUs.
type inlineXML struct {
	DistT   string     `xml:"distT,attr"`
	DistB   string     `xml:"distB,attr"`
	DistL   string     `xml:"distL,attr"`
	DistR   string     `xml:"distR,attr"`
	Extent  extentXML  `xml:"wp:extent"`
	DocPr   docPrXML   `xml:"wp:docPr"`
	Graphic graphicXML `xml:"a:graphic"`
}

// extentXML is an image size in EMUs.
type extentXML struct {
	CX int64 `xml:"cx,attr"`
	CY int64 `xml:"cy,attr"`
}

// docPrXML names the drawing and carries its alt text.
type docPrXML struct {
	ID    int    `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr,omitempty"`
}

type graphicXML struct {
	Data graphicDataXML `xml:"a:graphicData"`
}

type graphicDataXML struct {
	URI string `xml:"uri,attr"`
	Pic picXML `xml:"pic:pic"`
}

type picXML struct {
	NvPicPr  nvPicPrXML  `xml:"pic:nvPicPr"`
	BlipFill blipFillXML `xml:"pic:blipFill"`
	SpPr     spPrXML     `xml:"pic:spPr"`
}

type nvPicPrXML struct {
	CNvPr    docPrXML `xml:"pic:cNvPr"`
	CNvPicPr struct{} `xml:"pic:cNvPicPr"`
}

type blipFillXML struct {
	Blip    blipXML    `xml:"a:blip"`
	Stretch stretchXML `xml:"a:stretch"`
}

// blipXML references the image part by relationship ID.
type blipXML struct {
	Embed string `xml:"r:embed,attr"`
}

type stretchXML struct {
	FillRect struct{} `xml:"a:fillRect"`
}

type spPrXML struct {
	Xfrm     xfrmXML     `xml:"a:xfrm"`
	PrstGeom prstGeomXML `xml:"a:prstGeom"`
}

type xfrmXML struct {
	Off offXML    `xml:"a:off"`
	Ext extentXML `xml:"a:ext"`
}

type offXML struct {
	X int64 `xml:"x,attr"`
	Y int64 `xml:"y,attr"`
}

type prstGeomXML struct {
	Prst  string   `xml:"prst,attr"`
	AvLst struct{} `xml:"a:avLst"`
}

// tableXML is <w:tbl>.
type tableXML struct {
	XMLName xml.Name       `xml:"w:tbl"`
	TblPr   tablePropsXML  `xml:"w:tblPr"`
	Grid    tableGridXML   `xml:"w:tblGrid"`
	Rows    []*tableRowXML `xml:"w:tr"`
}

// tablePropsXML is <w:tblPr>. Field order follows the schema sequence.
type tablePropsXML struct {
	Width   tableSizeXML     `xml:"w:tblW"`
	Justify *valXML          `xml:"w:jc,omitempty"`
	Borders *tableBordersXML `xml:"w:tblBorders,omitempty"`
	Layout  *layoutXML       `xml:"w:tblLayout,omitempty"`
	CellMar *cellMarginXML   `xml:"w:tblCellMar,omitempty"`
}

// tableSizeXML is a width with its unit type (dxa is twips).
type tableSizeXML struct {
	W    string `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type tableBordersXML struct {
	Top     borderXML `xml:"w:top"`
	Left    borderXML `xml:"w:left"`
	Bottom  borderXML `xml:"w:bottom"`
	Right   borderXML `xml:"w:right"`
	InsideH borderXML `xml:"w:insideH"`
	InsideV borderXML `xml:"w:insideV"`
}

// borderXML is one border line. Sz is in eighths of a point.
type borderXML struct {
	Val   string `xml:"w:val,attr"`
	Sz    string `xml:"w:sz,attr"`
	Space string `xml:"w:space,attr"`
	Color string `xml:"w:color,attr"`
}

type layoutXML struct {
	Type string `xml:"w:type,attr"`
}

type cellMarginXML struct {
	Top    tableSizeXML `xml:"w:top"`
	Left   tableSizeXML `xml:"w:left"`
	Bottom tableSizeXML `xml:"w:bottom"`
	Right  tableSizeXML `xml:"w:right"`
}

type tableGridXML struct {
	Cols []gridColXML `xml:"w:gridCol"`
}

// gridColXML is a grid column width in twips.
type gridColXML struct {
	W string `xml:"w:w,attr"`
}

// tableRowXML is <w:tr>.
type tableRowXML struct {
	XMLName xml.Name        `xml:"w:tr"`
	TrPr    *rowPropsXML    `xml:"w:trPr,omitempty"`
	Cells   []*tableCellXML `xml:"w:tc"`
}

type rowPropsXML struct {
	Height *rowHeightXML `xml:"w:trHeight,omitempty"`
	Header *onXML        `xml:"w:tblHeader,omitempty"`
}

// rowHeightXML is a row height in twips.
type rowHeightXML struct {
	Val  string `xml:"w:val,attr"`
	Rule string `xml:"w:hRule,attr"`
}

// tableCellXML is <w:tc>. A cell must contain at least one paragraph.
type tableCellXML struct {
	XMLName    xml.Name        `xml:"w:tc"`
	TcPr       cellPropsXML    `xml:"w:tcPr"`
	Paragraphs []*paragraphXML `xml:"w:p"`
}

type cellPropsXML struct {
	Width  tableSizeXML `xml:"w:tcW"`
	VAlign *valXML      `xml:"w:vAlign,omitempty"`
}

// sectPrXML is the body section: footer, page size and margins.
type sectPrXML struct {
	FooterRef *footerRefXML `xml:"w:footerReference,omitempty"`
	PgSz      pgSzXML       `xml:"w:pgSz"`
	PgMar     pgMarXML      `xml:"w:pgMar"`
}

type footerRefXML struct {
	Type string `xml:"w:type,attr"`
	ID   string `xml:"r:id,attr"`
}

// pgSzXML is the page size in twips.
type pgSzXML struct {
	W      int    `xml:"w:w,attr"`
	H      int    `xml:"w:h,attr"`
	Orient string `xml:"w:orient,attr,omitempty"`
}

// pgMarXML is the page margins in twips.
type pgMarXML struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

// footerXML is word/footer1.xml.
type footerXML struct {
	XMLName    xml.Name        `xml:"w:ftr"`
	XmlnsW     string          `xml:"xmlns:w,attr"`
	XmlnsR     string          `xml:"xmlns:r,attr"`
	Paragraphs []*paragraphXML `xml:"w:p"`
}
