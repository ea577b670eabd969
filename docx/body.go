package docx

import (
	"fmt"
	"strings"

	"github.com/tsawler/md2word/logging"
	"github.com/tsawler/md2word/model"
	"github.com/tsawler/md2word/style"
)

// builder turns document elements into body XML. It applies the style
// configuration per element role and collects embedded media.
type builder struct {
	cfg   *style.Config
	media []*mediaPart
	picID int
	// taken holds part names already in the package, such as the media
	// of carried template parts.
	taken map[string]bool
}

// mediaPart is an image stored under word/media.
type mediaPart struct {
	name        string
	relID       string
	contentType string
	data        []byte
}

// runStyle is the base formatting of the runs of one element role before
// inline flags are applied.
type runStyle struct {
	fonts  fontXML
	size   float64
	color  string
	bold   bool
	italic bool
	// codeSize overrides the inline code size; table cells use a smaller one.
	codeSize float64
}

// tableCodeSize is the size of inline code inside table cells.
const tableCodeSize = 9

func newBuilder(cfg *style.Config) *builder {
	return &builder{cfg: cfg, taken: map[string]bool{}}
}

// reserve marks the parts of tpl as taken so generated media never
// replaces them.
func (b *builder) reserve(tpl *Template) {
	if tpl == nil {
		return
	}
	for _, pt := range tpl.parts {
		b.taken[pt.name] = true
	}
}

// mediaName returns the first free word/media name from image n onwards.
func (b *builder) mediaName(n int, ext string) string {
	for ; ; n++ {
		name := fmt.Sprintf("word/media/image%d%s", n, ext)
		if !b.taken[name] {
			b.taken[name] = true
			return name
		}
	}
}

func (b *builder) warn(msg string, keyvals ...any) {
	logging.Logger().Warn(msg, keyvals...)
}

func (b *builder) body(doc *model.Document) bodyXML {
	body := bodyXML{SectPr: b.section(doc.PageNumber != nil)}
	for _, el := range doc.Elements {
		switch e := el.(type) {
		case *model.Paragraph:
			body.Content = append(body.Content, b.paragraph(e))
		case *model.Heading:
			body.Content = append(body.Content, b.heading(e))
		case *model.ListItem:
			body.Content = append(body.Content, b.listItem(e))
		case *model.Quote:
			for _, p := range b.quote(e) {
				body.Content = append(body.Content, p)
			}
		case *model.CodeBlock:
			for _, p := range b.codeBlock(e) {
				body.Content = append(body.Content, p)
			}
		case *model.HorizontalRule:
			body.Content = append(body.Content, b.rule())
		case *model.Image:
			body.Content = append(body.Content, b.image(e))
		case *model.Table:
			body.Content = append(body.Content, b.table(e), &paragraphXML{})
		default:
			b.warn("skipping unsupported element", "type", el.Type())
		}
	}
	return body
}

func (b *builder) section(footer bool) *sectPrXML {
	pg := b.cfg.Page
	s := &sectPrXML{
		PgSz: pgSzXML{W: cmToTwips(pg.Width), H: cmToTwips(pg.Height)},
		PgMar: pgMarXML{
			Top:    cmToTwips(pg.MarginTop),
			Right:  cmToTwips(pg.MarginRight),
			Bottom: cmToTwips(pg.MarginBottom),
			Left:   cmToTwips(pg.MarginLeft),
			Header: 720,
			Footer: 720,
		},
	}
	if pg.Width > pg.Height {
		s.PgSz.Orient = "landscape"
	}
	if footer {
		s.FooterRef = &footerRefXML{Type: "default", ID: footerRelID}
	}
	return s
}

// ============================================================================
// Paragraph roles
// ============================================================================

func (b *builder) paragraph(p *model.Paragraph) *paragraphXML {
	if p.Spacer {
		return &paragraphXML{}
	}
	return &paragraphXML{PPr: b.bodyProps(), Runs: b.runs(p.Runs, b.bodyStyle())}
}

func (b *builder) bodyProps() *paragraphPropsXML {
	para := b.cfg.Paragraph
	return &paragraphPropsXML{
		Spacing: lineSpacingXML(para.LineSpacing, "0", "0"),
		Indent:  &indentXML{FirstLine: itoa(ptToTwips(para.FirstLineIndent))},
		Justify: justify(para.Align),
	}
}

func (b *builder) heading(h *model.Heading) *paragraphXML {
	level := min(max(h.Level, 1), 4)
	t := b.cfg.Titles.Level(level)
	pPr := &paragraphPropsXML{
		Spacing:    lineSpacingXML(b.cfg.Paragraph.LineSpacing, itoa(ptToTwips(t.SpaceBefore)), itoa(ptToTwips(t.SpaceAfter))),
		Indent:     &indentXML{FirstLine: itoa(ptToTwips(t.Indent))},
		Justify:    justify(t.Align),
		OutlineLvl: &valXML{Val: itoa(level - 1)},
	}

	rs := b.bodyStyle()
	rs.size = t.Size
	rs.bold = t.Bold
	return &paragraphXML{PPr: pPr, Runs: b.runs(h.Runs, rs)}
}

func (b *builder) listItem(l *model.ListItem) *paragraphXML {
	rs := b.bodyStyle()
	var runs []*runXML
	if l.Marker != "" {
		runs = append(runs, b.run(model.Run{Text: l.Marker + " "}, rs))
	}
	runs = append(runs, b.runs(l.Runs, rs)...)
	return &paragraphXML{PPr: b.bodyProps(), Runs: runs}
}

func (b *builder) quote(q *model.Quote) []*paragraphXML {
	qc := b.cfg.Quote
	rs := b.bodyStyle()
	rs.size = qc.FontSize

	out := make([]*paragraphXML, 0, len(q.Lines))
	for _, line := range q.Lines {
		if line.Blank {
			out = append(out, &paragraphXML{PPr: &paragraphPropsXML{
				Spacing: lineSpacingXML(b.cfg.Paragraph.LineSpacing, "0", "0"),
				Indent:  &indentXML{FirstLine: "0"},
				Justify: &valXML{Val: "both"},
			}})
			continue
		}

		pPr := &paragraphPropsXML{
			Shading: &shadingXML{Val: "clear", Color: "auto", Fill: hexColor(qc.BackgroundColor)},
			Spacing: lineSpacingXML(qc.LineSpacing, "0", "0"),
			Indent:  &indentXML{Left: itoa(inchToTwips(qc.LeftIndentInches)), FirstLine: "0"},
			Justify: &valXML{Val: "both"},
		}
		var runs []*runXML
		if line.Marker != "" {
			runs = append(runs, b.run(model.Run{Text: line.Marker}, rs))
		}
		runs = append(runs, b.runs(line.Runs, rs)...)
		out = append(out, &paragraphXML{PPr: pPr, Runs: runs})
	}
	return out
}

func (b *builder) codeBlock(c *model.CodeBlock) []*paragraphXML {
	cc := b.cfg.CodeBlock
	var out []*paragraphXML

	if c.Language != "" {
		label := runStyle{fonts: latinFonts(cc.Label.Font), size: cc.Label.Size, color: cc.Label.Color}
		out = append(out, &paragraphXML{Runs: []*runXML{b.run(model.Run{Text: "[" + c.Language + "]"}, label)}})
	}

	content := runStyle{fonts: latinFonts(cc.Content.Font), size: cc.Content.Size, color: cc.Content.Color}
	for _, line := range c.Lines {
		if line == "" {
			line = " "
		}
		out = append(out, &paragraphXML{
			PPr: &paragraphPropsXML{
				Spacing: lineSpacingXML(cc.Content.LineSpacing, "", ""),
				Indent:  &indentXML{Left: itoa(ptToTwips(cc.Content.LeftIndent))},
			},
			Runs: []*runXML{b.run(model.Run{Text: line}, content)},
		})
	}
	return out
}

func (b *builder) rule() *paragraphXML {
	hr := b.cfg.HorizontalRule
	ch := hr.Character
	if ch == "" {
		ch = "─"
	}
	rs := runStyle{fonts: latinFonts(hr.Font), size: hr.Size, color: hr.Color}
	return &paragraphXML{
		PPr:  &paragraphPropsXML{Justify: justify(hr.Alignment)},
		Runs: []*runXML{b.run(model.Run{Text: strings.Repeat(ch, max(hr.RepeatCount, 1))}, rs)},
	}
}

// ============================================================================
// Runs
// ============================================================================

// bodyStyle is the default font of body text.
func (b *builder) bodyStyle() runStyle {
	f := b.cfg.Fonts.Default
	return runStyle{
		fonts: fontXML{ASCII: f.ASCII, HAnsi: f.ASCII, EastAsia: f.Name, CS: f.ASCII},
		size:  f.Size,
		color: f.Color,
	}
}

// normalRunProps is the run formatting of the Normal style.
func (b *builder) normalRunProps() *runPropsXML {
	rs := b.bodyStyle()
	return &runPropsXML{
		Fonts:  &rs.fonts,
		Size:   &valXML{Val: itoa(halfPoints(rs.size))},
		SizeCS: &valXML{Val: itoa(halfPoints(rs.size))},
	}
}

func (b *builder) runs(runs []model.Run, rs runStyle) []*runXML {
	out := make([]*runXML, 0, len(runs))
	for _, r := range runs {
		if !r.Break && r.Text == "" {
			continue
		}
		out = append(out, b.run(r, rs))
	}
	return out
}

// run formats one run. Code and math spans take their own font and ignore
// the other inline flags.
func (b *builder) run(r model.Run, rs runStyle) *runXML {
	if r.Break {
		return &runXML{Content: []any{&breakXML{}}}
	}

	fonts, size, color := rs.fonts, rs.size, rs.color
	bold, italic, underline, strike := rs.bold, rs.italic, false, false

	switch {
	case r.Format.Has(model.FormatCode):
		ic := b.cfg.InlineCode
		fonts = fontXML{ASCII: ic.Font, HAnsi: ic.Font, EastAsia: ic.Font, CS: rs.fonts.CS}
		size, color = ic.Size, ic.Color
		if rs.codeSize > 0 {
			size = rs.codeSize
		}
	case r.Format.Has(model.FormatMath):
		m := b.cfg.Math
		fonts = fontXML{ASCII: m.Font, HAnsi: m.Font, EastAsia: m.Font, CS: rs.fonts.CS}
		size, color = m.Size, m.Color
		italic = m.Italic
	default:
		bold = bold || r.Format.Has(model.FormatBold)
		italic = italic || r.Format.Has(model.FormatItalic)
		underline = r.Format.Has(model.FormatUnderline)
		strike = r.Format.Has(model.FormatStrike)
	}

	rPr := &runPropsXML{Color: &valXML{Val: hexColor(color)}}
	if fonts != (fontXML{}) {
		rPr.Fonts = &fonts
	}
	if bold {
		rPr.Bold = &onXML{}
	}
	if italic {
		rPr.Italic = &onXML{}
	}
	if strike {
		rPr.Strike = &onXML{}
	}
	if size > 0 {
		rPr.Size = &valXML{Val: itoa(halfPoints(size))}
		rPr.SizeCS = &valXML{Val: itoa(halfPoints(size))}
	}
	if underline {
		rPr.Underline = &valXML{Val: "single"}
	}
	return &runXML{RPr: rPr, Content: []any{text(r.Text)}}
}

func text(s string) *textXML {
	t := &textXML{Value: s}
	if strings.TrimSpace(s) != s {
		t.Space = "preserve"
	}
	return t
}

// latinFonts applies one family to Latin and complex script text, leaving
// East Asian text on the style default.
func latinFonts(family string) fontXML {
	return fontXML{ASCII: family, HAnsi: family, CS: family}
}

// ============================================================================
// Images
// ============================================================================

func (b *builder) image(img *model.Image) *paragraphXML {
	b.picID++
	id := b.picID
	m := &mediaPart{
		name:        b.mediaName(id, img.Format.Extension()),
		relID:       fmt.Sprintf("rIdImg%d", id),
		contentType: img.Format.MIMEType(),
		data:        img.Data,
	}
	b.media = append(b.media, m)

	name := img.Name
	if name == "" {
		name = fmt.Sprintf("Picture %d", id)
	}
	ext := extentXML{CX: cmToEMU(img.WidthCM), CY: cmToEMU(img.HeightCM)}
	pr := docPrXML{ID: id, Name: name, Descr: img.AltText}

	drawing := &drawingXML{Inline: inlineXML{
		DistT:  "0",
		DistB:  "0",
		DistL:  "0",
		DistR:  "0",
		Extent: ext,
		DocPr:  pr,
		Graphic: graphicXML{Data: graphicDataXML{
			URI: nsPic,
			Pic: picXML{
				NvPicPr:  nvPicPrXML{CNvPr: docPrXML{ID: 0, Name: name}},
				BlipFill: blipFillXML{Blip: blipXML{Embed: m.relID}},
				SpPr: spPrXML{
					Xfrm:     xfrmXML{Ext: ext},
					PrstGeom: prstGeomXML{Prst: "rect"},
				},
			},
		}},
	}}

	return &paragraphXML{
		PPr:  &paragraphPropsXML{Justify: &valXML{Val: "center"}},
		Runs: []*runXML{{Content: []any{drawing}}},
	}
}

// ============================================================================
// Footer
// ============================================================================

// footer builds the page number paragraph. Every "1" in the format becomes
// a PAGE field and every "x" a NUMPAGES field; other characters are
// literal text.
func (b *builder) footer(pn *model.PageNumberField) *footerXML {
	rs := runStyle{fonts: fontXML{ASCII: pn.Font, HAnsi: pn.Font}, size: pn.Size, color: "#000000"}

	var runs []*runXML
	for _, tok := range pageFieldTokens(pn.Format) {
		if tok.field == "" {
			runs = append(runs, b.run(model.Run{Text: tok.text}, rs))
			continue
		}
		r := b.run(model.Run{Text: " "}, rs)
		r.Content = []any{
			&fldCharXML{Type: "begin"},
			&instrTextXML{Space: "preserve", Value: " " + tok.field + " "},
			&fldCharXML{Type: "end"},
		}
		runs = append(runs, r)
	}

	return &footerXML{
		XmlnsW: nsW,
		XmlnsR: nsR,
		Paragraphs: []*paragraphXML{{
			PPr:  &paragraphPropsXML{Justify: justifyAlignment(pn.Alignment)},
			Runs: runs,
		}},
	}
}

type fieldToken struct {
	text  string
	field string
}

func pageFieldTokens(format string) []fieldToken {
	var out []fieldToken
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			out = append(out, fieldToken{text: lit.String()})
			lit.Reset()
		}
	}
	for _, r := range format {
		switch r {
		case '1':
			flush()
			out = append(out, fieldToken{field: "PAGE"})
		case 'x':
			flush()
			out = append(out, fieldToken{field: "NUMPAGES"})
		default:
			lit.WriteRune(r)
		}
	}
	flush()
	return out
}

// ============================================================================
// Property helpers
// ============================================================================

// lineSpacingXML returns spacing with a line multiple. Empty before/after
// are omitted.
func lineSpacingXML(multiple float64, before, after string) *spacingXML {
	s := &spacingXML{Before: before, After: after}
	if multiple > 0 {
		s.Line = itoa(lineSpacing(multiple))
		s.LineRule = "auto"
	}
	return s
}

func justify(align string) *valXML {
	return justifyAlignment(model.ParseAlignment(align))
}

func justifyAlignment(a model.TextAlignment) *valXML {
	switch a {
	case model.AlignCenter:
		return &valXML{Val: "center"}
	case model.AlignRight:
		return &valXML{Val: "right"}
	case model.AlignJustify:
		return &valXML{Val: "both"}
	default:
		return &valXML{Val: "left"}
	}
}

// hexColor normalizes a configured colour. Invalid values are black.
func hexColor(s string) string {
	c, err := model.ParseHexColor(s)
	if err != nil {
		return "000000"
	}
	return c.Hex()
}
