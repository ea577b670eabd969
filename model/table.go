package model

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// TableSource records which syntax a table was built from.
type TableSource int

const (
	TableSourceMarkdown TableSource = iota
	TableSourceHTML
)

// Table is a rectangular grid: one header row plus body rows. Every row,
// the header included, has exactly ColCount cells.
type Table struct {
	Header []Cell
	Rows   [][]Cell
	// ColumnWidths are in centimetres, one per column.
	ColumnWidths []float64
	Source       TableSource
}

func (t *Table) Type() ElementType { return ElementTypeTable }
func (t *Table) GetText() string {
	var sb strings.Builder
	writeRow := func(row []Cell) {
		for j, cell := range row {
			sb.WriteString(cell.Text())
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		sb.WriteString("\n")
	}
	writeRow(t.Header)
	for _, row := range t.Rows {
		writeRow(row)
	}
	return sb.String()
}

// NewTable creates a table with a header and the given number of empty body
// rows, all cols wide.
func NewTable(bodyRows, cols int) *Table {
	table := &Table{
		Header: make([]Cell, cols),
		Rows:   make([][]Cell, bodyRows),
	}
	for i := range table.Rows {
		table.Rows[i] = make([]Cell, cols)
	}
	return table
}

// RowCount returns the number of rows including the header
func (t *Table) RowCount() int {
	return len(t.Rows) + 1
}

// ColCount returns the number of columns
func (t *Table) ColCount() int {
	return len(t.Header)
}

// GetCell returns the cell at the given row and column (0-indexed, row 0 is
// the header)
func (t *Table) GetCell(row, col int) *Cell {
	var r []Cell
	switch {
	case row == 0:
		r = t.Header
	case row > 0 && row <= len(t.Rows):
		r = t.Rows[row-1]
	default:
		return nil
	}
	if col < 0 || col >= len(r) {
		return nil
	}
	return &r[col]
}

// SetCell sets the cell at the given position (row 0 is the header)
func (t *Table) SetCell(row, col int, cell Cell) error {
	c := t.GetCell(row, col)
	if c == nil {
		return errors.Newf("cell (%d, %d) out of bounds", row, col)
	}
	*c = cell
	return nil
}

// DistributeWidth splits width evenly across the columns.
func (t *Table) DistributeWidth(width float64) {
	cols := t.ColCount()
	if cols == 0 {
		t.ColumnWidths = nil
		return
	}
	t.ColumnWidths = make([]float64, cols)
	for i := range t.ColumnWidths {
		t.ColumnWidths[i] = width / float64(cols)
	}
}

// ToMarkdown converts the table to markdown format
func (t *Table) ToMarkdown() string {
	if len(t.Header) == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(row []Cell) {
		for _, cell := range row {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(cell.Text(), "\n", " "))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	writeRow(t.Header)
	for range t.Header {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")
	for _, row := range t.Rows {
		writeRow(row)
	}

	return sb.String()
}

// Cell represents a table cell
type Cell struct {
	Runs []Run
}

// Text returns the cell's plain text.
func (c Cell) Text() string {
	return TextOf(c.Runs)
}

// IsEmpty reports whether the cell has no text.
func (c Cell) IsEmpty() bool {
	return strings.TrimSpace(c.Text()) == ""
}
