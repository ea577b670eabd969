package tables

import (
	"strings"

	"github.com/samber/lo"

	"github.com/tsawler/md2word/inline"
	"github.com/tsawler/md2word/model"
	"github.com/tsawler/md2word/style"
)

// Builder converts table source into model tables using one style config.
type Builder struct {
	Config *style.Config
	Inline inline.Formatter
}

// NewBuilder returns a Builder whose quote conversion follows cfg.
func NewBuilder(cfg *style.Config) *Builder {
	return &Builder{
		Config: cfg,
		Inline: inline.Formatter{ConvertQuotes: cfg.Quotes.ConvertToChinese},
	}
}

// IsSeparatorRow reports whether line is a header separator such as
// "|---|:--:|". It must contain a '-' and nothing but pipes, dashes, colons
// and blanks.
func IsSeparatorRow(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || !strings.Contains(line, "-") {
		return false
	}
	return strings.Trim(line, "|-: \t") == ""
}

// IsTableRow reports whether line is a separator row or contains a pipe.
func IsTableRow(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	return IsSeparatorRow(line) || strings.Contains(line, "|")
}

// ParseRow splits a table row into trimmed cells after removing one leading
// and one trailing pipe. Escaped pipes are not recognised.
func ParseRow(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	line = strings.TrimPrefix(line, "|")
	line = strings.TrimSuffix(line, "|")
	return lo.Map(strings.Split(line, "|"), func(c string, _ int) string {
		return strings.TrimSpace(c)
	})
}

// Build creates a table from consecutive pipe-table lines. It needs at
// least two lines and a header row; otherwise ok is false.
func (b *Builder) Build(lines []string) (*model.Table, bool) {
	if len(lines) < 2 {
		return nil, false
	}

	var header []string
	var body [][]string
	for _, line := range lines {
		if IsSeparatorRow(line) {
			continue
		}
		cells := ParseRow(line)
		if len(cells) == 0 {
			continue
		}
		if header == nil {
			header = cells
			continue
		}
		body = append(body, cells)
	}
	if header == nil {
		return nil, false
	}

	table := b.grid(header, body, b.cell)
	table.Source = model.TableSourceMarkdown
	return table, true
}

// grid lays header and body out as a rectangular table, padding short rows.
func (b *Builder) grid(header []string, body [][]string, cell func(string) model.Cell) *model.Table {
	cols := lo.Max(append(lo.Map(body, func(r []string, _ int) int { return len(r) }), len(header)))

	table := model.NewTable(len(body), cols)
	for j, text := range header {
		table.Header[j] = cell(text)
	}
	for i, row := range body {
		for j, text := range row {
			table.Rows[i][j] = cell(text)
		}
	}
	table.DistributeWidth(b.Config.Page.ContentWidth())
	return table
}

// cell formats one Markdown cell.
func (b *Builder) cell(text string) model.Cell {
	text = strings.TrimSpace(text)
	if inline.HasMarkup(text) {
		return model.Cell{Runs: b.Inline.Format(text)}
	}
	return model.Cell{Runs: b.Inline.Plain(text)}
}

// plainCell keeps only quote-converted text.
func (b *Builder) plainCell(text string) model.Cell {
	return model.Cell{Runs: b.Inline.Plain(strings.TrimSpace(text))}
}
