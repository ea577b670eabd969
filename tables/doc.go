// Package tables builds table models from Markdown pipe tables and from a
// constrained subset of HTML tables.
//
// # Markdown Tables
//
// A pipe table is a run of consecutive lines accepted by [IsTableRow]. The
// first non-separator row is the header; every later non-separator row is a
// body row:
//
//	b := tables.NewBuilder(cfg)
//	table, ok := b.Build([]string{
//		"| 项目 | 金额 |",
//		"|------|-----:|",
//		"| 本金 | 100 |",
//	})
//
// Rows are padded with empty cells to the widest row. Cells containing
// inline markup are parsed into formatted runs; other cells become a single
// plain run. Column widths split the page's content width evenly.
//
// # HTML Tables
//
// [Builder.FromHTML] accepts a <table> block and keeps only the text of each
// <td> and <th> cell. The first row is always the header. A table without
// rows yields ok == false and a logged warning.
package tables
