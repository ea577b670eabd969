package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/tsawler/md2word/model"
	"github.com/tsawler/md2word/style"
)

// writeParts writes doc with the built-in defaults and returns the package
// parts by name.
func writeParts(t *testing.T, doc *model.Document, tpl *Template) map[string]string {
	t.Helper()

	var buf bytes.Buffer
	if err := Write(&buf, doc, style.Builtin(), tpl); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("output is not a ZIP archive: %v", err)
	}

	parts := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		parts[f.Name] = string(data)
	}
	return parts
}

func assertContains(t *testing.T, part, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("%s does not contain %q", part, w)
		}
	}
}

// wellFormed decodes every token of data.
func wellFormed(t *testing.T, name, data string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(data))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			t.Errorf("%s is not well-formed: %v", name, err)
			return
		}
	}
}

// ============================================================================
// Package structure
// ============================================================================

func TestWritePackageParts(t *testing.T) {
	doc := model.NewDocument()
	doc.Metadata.Title = "判决书"
	doc.Add(&model.Paragraph{Runs: model.PlainRuns("正文")})
	doc.PageNumber = &model.PageNumberField{Format: "1/x", Font: "Times New Roman", Size: 10.5}

	parts := writeParts(t, doc, nil)

	for _, name := range []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"word/document.xml",
		"word/_rels/document.xml.rels",
		"word/styles.xml",
		"word/footer1.xml",
		"docProps/core.xml",
		"docProps/app.xml",
	} {
		data, ok := parts[name]
		if !ok {
			t.Errorf("missing part %s", name)
			continue
		}
		if strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".rels") {
			wellFormed(t, name, data)
		}
	}

	assertContains(t, "content types", parts["[Content_Types].xml"],
		`<Override PartName="/word/document.xml" ContentType="`+ctDocument+`">`,
		`<Override PartName="/word/footer1.xml" ContentType="`+ctFooter+`">`,
	)
	assertContains(t, "document rels", parts["word/_rels/document.xml.rels"],
		`Id="rId1" Type="`+relStyles+`" Target="styles.xml"`,
		`Id="rId2" Type="`+relFooter+`" Target="footer1.xml"`,
	)
	assertContains(t, "core", parts["docProps/core.xml"], "<dc:title>判决书</dc:title>")
	assertContains(t, "document", parts["word/document.xml"], `<w:footerReference w:type="default" r:id="rId2">`)
}

func TestWriteNilDocument(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil, nil, nil); err == nil {
		t.Error("expected error for nil document")
	}
}

func TestWriteWithoutPageNumber(t *testing.T) {
	doc := model.NewDocument()
	doc.Add(&model.Paragraph{Runs: model.PlainRuns("x")})

	parts := writeParts(t, doc, nil)

	if _, ok := parts["word/footer1.xml"]; ok {
		t.Error("footer written for document without page number")
	}
	if strings.Contains(parts["word/document.xml"], "footerReference") {
		t.Error("document references a footer")
	}
}

// ============================================================================
// Paragraph formatting
// ============================================================================

func TestWriteHeading(t *testing.T) {
	doc := model.NewDocument()
	doc.Add(&model.Heading{Level: 1, Runs: model.PlainRuns("民事判决书")})
	doc.Add(&model.Heading{Level: 2, Runs: model.PlainRuns("一、事实")})

	body := writeParts(t, doc, nil)["word/document.xml"]

	assertContains(t, "document", body,
		`<w:spacing w:before="120" w:after="120" w:line="360" w:lineRule="auto"></w:spacing>`,
		`<w:jc w:val="center"></w:jc><w:outlineLvl w:val="0"></w:outlineLvl>`,
		`<w:outlineLvl w:val="1"></w:outlineLvl>`,
		`<w:sz w:val="30"></w:sz>`,
		`<w:ind w:firstLine="480"></w:ind><w:jc w:val="both"></w:jc>`,
		`<w:b></w:b>`,
		`<w:t>民事判决书</w:t>`,
	)
}

func TestWriteRunFormats(t *testing.T) {
	tests := []struct {
		name string
		run  model.Run
		want []string
	}{
		{
			name: "plain",
			run:  model.Run{Text: "文本"},
			want: []string{
				`<w:rFonts w:ascii="Times New Roman" w:hAnsi="Times New Roman" w:eastAsia="仿宋_GB2312" w:cs="Times New Roman"></w:rFonts>`,
				`<w:color w:val="000000"></w:color><w:sz w:val="24"></w:sz><w:szCs w:val="24"></w:szCs>`,
			},
		},
		{
			name: "bold italic",
			run:  model.Run{Text: "重点", Format: model.FormatBold | model.FormatItalic},
			want: []string{`<w:b></w:b><w:i></w:i>`},
		},
		{
			name: "underline and strike",
			run:  model.Run{Text: "删除", Format: model.FormatUnderline | model.FormatStrike},
			want: []string{`<w:strike></w:strike>`, `<w:u w:val="single"></w:u>`},
		},
		{
			name: "code",
			run:  model.Run{Text: "go test", Format: model.FormatCode | model.FormatBold},
			want: []string{
				`<w:color w:val="333333"></w:color><w:sz w:val="20"></w:sz>`,
				`<w:t>go test</w:t>`,
			},
		},
		{
			name: "math",
			run:  model.Run{Text: "x^2", Format: model.FormatMath},
			want: []string{`<w:i></w:i><w:color w:val="00008B"></w:color><w:sz w:val="22"></w:sz>`},
		},
		{
			name: "preserved spaces",
			run:  model.Run{Text: " 前后 "},
			want: []string{`<w:t xml:space="preserve"> 前后 </w:t>`},
		},
		{
			name: "break",
			run:  model.BreakRun(),
			want: []string{`<w:r><w:br></w:br></w:r>`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := model.NewDocument()
			doc.Add(&model.Paragraph{Runs: []model.Run{tt.run}})
			body := writeParts(t, doc, nil)["word/document.xml"]
			assertContains(t, "document", body, tt.want...)
		})
	}
}

func TestWriteCodeRunIgnoresBold(t *testing.T) {
	doc := model.NewDocument()
	doc.Add(&model.Paragraph{Runs: []model.Run{{Text: "x", Format: model.FormatCode | model.FormatBold}}})

	body := writeParts(t, doc, nil)["word/document.xml"]
	if strings.Contains(body, "<w:b>") {
		t.Error("code span written bold")
	}
}

func TestWriteSpacerAndList(t *testing.T) {
	doc := model.NewDocument()
	doc.Add(&model.Paragraph{Spacer: true})
	doc.Add(&model.ListItem{Kind: model.ListBullet, Marker: "•", Runs: model.PlainRuns("第一项")})
	doc.Add(&model.ListItem{Kind: model.ListNumbered, Runs: model.PlainRuns("1. 第二项")})

	body := writeParts(t, doc, nil)["word/document.xml"]
	assertContains(t, "document", body,
		`<w:body><w:p></w:p>`,
		`<w:t xml:space="preserve">• </w:t>`,
		`<w:t>第一项</w:t>`,
		`<w:t>1. 第二项</w:t>`,
	)
}

func TestWriteQuote(t *testing.T) {
	doc := model.NewDocument()
	doc.Add(&model.Quote{Lines: []model.QuoteLine{
		{Runs: model.PlainRuns("引用内容")},
		{Blank: true},
		{Marker: "    •  ", Runs: model.PlainRuns("要点")},
	}})

	body := writeParts(t, doc, nil)["word/document.xml"]
	assertContains(t, "document", body,
		`<w:shd w:val="clear" w:color="auto" w:fill="EAEAEA"></w:shd>`,
		`<w:ind w:left="288" w:firstLine="0"></w:ind>`,
		`<w:sz w:val="18"></w:sz>`,
		`<w:t xml:space="preserve">    •  </w:t>`,
	)
	if got := strings.Count(body, "<w:shd "); got != 2 {
		t.Errorf("shaded quote lines = %d, want 2", got)
	}
}

func TestWriteCodeBlock(t *testing.T) {
	doc := model.NewDocument()
	doc.Add(&model.CodeBlock{Language: "go", Lines: []string{"func main() {", "", "}"}})

	body := writeParts(t, doc, nil)["word/document.xml"]
	assertContains(t, "document", body,
		`<w:t>[go]</w:t>`,
		`<w:color w:val="808080"></w:color>`,
		`<w:ind w:left="480"></w:ind>`,
		`<w:t xml:space="preserve"> </w:t>`,
		`<w:t>func main() {</w:t>`,
	)
}

func TestWriteCodeBlockWithoutLanguage(t *testing.T) {
	doc := model.NewDocument()
	doc.Add(&model.CodeBlock{Lines: []string{"echo"}})

	body := writeParts(t, doc, nil)["word/document.xml"]
	if strings.Contains(body, "[]") {
		t.Error("empty language label written")
	}
}

func TestWriteHorizontalRule(t *testing.T) {
	doc := model.NewDocument()
	doc.Add(&model.HorizontalRule{})

	body := writeParts(t, doc, nil)["word/document.xml"]
	assertContains(t, "document", body,
		"<w:t>"+strings.Repeat("─", 55)+"</w:t>",
		`<w:jc w:val="center"></w:jc>`,
	)
}

// ============================================================================
// Tables
// ============================================================================

func TestWriteTable(t *testing.T) {
	tbl := model.NewTable(1, 2)
	tbl.Header[0] = model.Cell{Runs: model.PlainRuns("项目")}
	tbl.Header[1] = model.Cell{Runs: model.PlainRuns("金额")}
	tbl.Rows[0][0] = model.Cell{Runs: model.PlainRuns("本金")}
	tbl.Rows[0][1] = model.Cell{Runs: []model.Run{{Text: "100", Format: model.FormatCode}}}
	tbl.ColumnWidths = []float64{2.54, 5.08}

	doc := model.NewDocument()
	doc.Add(tbl)

	body := writeParts(t, doc, nil)["word/document.xml"]
	assertContains(t, "document", body,
		`<w:tblW w:w="4320" w:type="dxa"></w:tblW>`,
		`<w:top w:val="single" w:sz="4" w:space="0" w:color="000000"></w:top>`,
		`<w:tblLayout w:type="fixed"></w:tblLayout>`,
		`<w:top w:w="30" w:type="dxa"></w:top>`,
		`<w:gridCol w:w="1440"></w:gridCol><w:gridCol w:w="2880"></w:gridCol>`,
		`<w:trHeight w:val="454" w:hRule="atLeast"></w:trHeight><w:tblHeader></w:tblHeader>`,
		`<w:tcW w:w="1440" w:type="dxa"></w:tcW><w:vAlign w:val="center"></w:vAlign>`,
		`<w:spacing w:before="40" w:after="40" w:line="288" w:lineRule="auto"></w:spacing>`,
		`w:eastAsia="仿宋_GB2312"`,
		`<w:sz w:val="18"></w:sz>`,
		`</w:tbl><w:p></w:p>`,
	)
	if got := strings.Count(body, "<w:tblHeader>"); got != 1 {
		t.Errorf("header rows = %d, want 1", got)
	}
	if got := strings.Count(body, "<w:b>"); got != 2 {
		t.Errorf("bold runs = %d, want 2 (header cells only)", got)
	}
}

// ============================================================================
// Images and footer
// ============================================================================

func TestWriteImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")
	doc := model.NewDocument()
	doc.Add(&model.Image{Data: png, Format: model.ImageFormatPNG, WidthCM: 2, HeightCM: 1, AltText: "流程图"})

	parts := writeParts(t, doc, nil)

	if got := parts["word/media/image1.png"]; got != string(png) {
		t.Errorf("media data = %q, want %q", got, png)
	}
	assertContains(t, "document", parts["word/document.xml"],
		`<wp:extent cx="720000" cy="360000"></wp:extent>`,
		`descr="流程图"`,
		`<a:blip r:embed="rIdImg1"></a:blip>`,
		`<a:prstGeom prst="rect"><a:avLst></a:avLst></a:prstGeom>`,
	)
	assertContains(t, "document rels", parts["word/_rels/document.xml.rels"],
		`Id="rIdImg1" Type="`+relImage+`" Target="media/image1.png"`,
	)
	assertContains(t, "content types", parts["[Content_Types].xml"],
		`<Default Extension="png" ContentType="image/png">`,
	)
}

func TestWriteFooter(t *testing.T) {
	doc := model.NewDocument()
	doc.PageNumber = &model.PageNumberField{
		Format:    "第1页 共x页",
		Alignment: model.AlignRight,
		Font:      "Times New Roman",
		Size:      10.5,
	}

	footer := writeParts(t, doc, nil)["word/footer1.xml"]
	assertContains(t, "footer", footer,
		`<w:jc w:val="right"></w:jc>`,
		`<w:fldChar w:fldCharType="begin"></w:fldChar><w:instrText xml:space="preserve"> PAGE </w:instrText><w:fldChar w:fldCharType="end"></w:fldChar>`,
		`<w:instrText xml:space="preserve"> NUMPAGES </w:instrText>`,
		`<w:t>第</w:t>`,
		`<w:t>页 共</w:t>`,
		`<w:sz w:val="21"></w:sz>`,
	)
}

func TestPageFieldTokens(t *testing.T) {
	tests := []struct {
		format string
		want   []fieldToken
	}{
		{"1/x", []fieldToken{{field: "PAGE"}, {text: "/"}, {field: "NUMPAGES"}}},
		{"- 1 -", []fieldToken{{text: "- "}, {field: "PAGE"}, {text: " -"}}},
		{"", nil},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got := pageFieldTokens(tt.format)
			if len(got) != len(tt.want) {
				t.Fatalf("pageFieldTokens(%q) = %v, want %v", tt.format, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestWriteSection(t *testing.T) {
	doc := model.NewDocument()
	body := writeParts(t, doc, nil)["word/document.xml"]

	assertContains(t, "document", body,
		`<w:pgSz w:w="11906" w:h="16838"></w:pgSz>`,
		`<w:pgMar w:top="1440" w:right="1803" w:bottom="1440" w:left="1803" w:header="720" w:footer="720" w:gutter="0"></w:pgMar>`,
	)
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#eaeaea", "EAEAEA"},
		{"00008B", "00008B"},
		{"red", "000000"},
		{"", "000000"},
	}
	for _, tt := range tests {
		if got := hexColor(tt.in); got != tt.want {
			t.Errorf("hexColor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
