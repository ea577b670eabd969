package docx

import (
	"github.com/tsawler/md2word/model"
)

// table builds a fixed-layout table. The first row is the header and is
// repeated on each page.
func (b *builder) table(t *model.Table) *tableXML {
	tc := b.cfg.Table
	cols := t.ColCount()

	widths := make([]int, cols)
	total := 0
	for i := range widths {
		if i < len(t.ColumnWidths) {
			widths[i] = cmToTwips(t.ColumnWidths[i])
		}
		total += widths[i]
	}

	tbl := &tableXML{
		TblPr: tablePropsXML{
			Width:   dxa(total),
			Justify: justify(tc.Alignment),
			Layout:  &layoutXML{Type: "fixed"},
			CellMar: &cellMarginXML{
				Top:    dxa(tc.CellMargin.Top),
				Left:   dxa(tc.CellMargin.Left),
				Bottom: dxa(tc.CellMargin.Bottom),
				Right:  dxa(tc.CellMargin.Right),
			},
		},
	}
	if tc.BorderEnabled {
		border := borderXML{Val: "single", Sz: itoa(tc.BorderWidth), Space: "0", Color: hexColor(tc.BorderColor)}
		tbl.TblPr.Borders = &tableBordersXML{
			Top:     border,
			Left:    border,
			Bottom:  border,
			Right:   border,
			InsideH: border,
			InsideV: border,
		}
	}
	for _, w := range widths {
		tbl.Grid.Cols = append(tbl.Grid.Cols, gridColXML{W: itoa(w)})
	}

	tbl.Rows = append(tbl.Rows, b.tableRow(t.Header, widths, true))
	for _, row := range t.Rows {
		tbl.Rows = append(tbl.Rows, b.tableRow(row, widths, false))
	}
	return tbl
}

func (b *builder) tableRow(cells []model.Cell, widths []int, header bool) *tableRowXML {
	tc := b.cfg.Table
	row := &tableRowXML{TrPr: &rowPropsXML{}}
	if tc.RowHeightCM > 0 {
		row.TrPr.Height = &rowHeightXML{Val: itoa(cmToTwips(tc.RowHeightCM)), Rule: "atLeast"}
	}
	if header {
		row.TrPr.Header = &onXML{}
	}

	font := tc.Body
	if header {
		font = tc.Header
	}
	base := b.bodyStyle()
	rs := runStyle{
		fonts:    fontXML{ASCII: base.fonts.ASCII, HAnsi: base.fonts.ASCII, EastAsia: font.Font, CS: base.fonts.ASCII},
		size:     font.Size,
		color:    font.Color,
		bold:     header && font.Bold,
		codeSize: tableCodeSize,
	}

	for i, w := range widths {
		var cell model.Cell
		if i < len(cells) {
			cell = cells[i]
		}
		row.Cells = append(row.Cells, &tableCellXML{
			TcPr: cellPropsXML{
				Width:  tableSizeXML{W: itoa(w), Type: "dxa"},
				VAlign: verticalAlign(tc.VerticalAlign),
			},
			Paragraphs: []*paragraphXML{{
				PPr: &paragraphPropsXML{
					Spacing: lineSpacingXML(tc.LineSpacing, itoa(ptToTwips(tc.SpaceBefore)), itoa(ptToTwips(tc.SpaceAfter))),
					Justify: &valXML{Val: "center"},
				},
				Runs: b.runs(cell.Runs, rs),
			}},
		})
	}
	return row
}

// dxa is a table measurement in twips.
func dxa(twips int) tableSizeXML {
	return tableSizeXML{W: itoa(twips), Type: "dxa"}
}

func verticalAlign(s string) *valXML {
	switch s {
	case "top":
		return &valXML{Val: "top"}
	case "bottom":
		return &valXML{Val: "bottom"}
	default:
		return &valXML{Val: "center"}
	}
}
