package tables

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/tsawler/md2word/logging"
	"github.com/tsawler/md2word/model"
)

// FromHTML builds a table from an HTML block containing a <table>. Only the
// text of each cell is kept and the first row is the header. ok is false
// when the block has no table or the table has no rows.
func (b *Builder) FromHTML(block string) (*model.Table, bool) {
	rows := parseHTMLRows(block)
	if len(rows) == 0 {
		logging.Logger().Warn("HTML table is empty or malformed", "bytes", len(block))
		return nil, false
	}

	table := b.grid(rows[0], rows[1:], b.plainCell)
	table.Source = model.TableSourceHTML
	logging.Logger().Debug("processed HTML table", "rows", len(rows))
	return table, true
}

// parseHTMLRows returns the cell texts of every non-empty <tr> in the first
// <table> of block.
func parseHTMLRows(block string) [][]string {
	doc, err := html.Parse(strings.NewReader(block))
	if err != nil {
		return nil
	}
	tableNode := findElement(doc, "table")
	if tableNode == nil {
		return nil
	}

	var rows [][]string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "tr":
				if row := parseHTMLRow(c); len(row) > 0 {
					rows = append(rows, row)
				}
			case "table":
				// nested tables belong to their cell
			default:
				walk(c)
			}
		}
	}
	walk(tableNode)
	return rows
}

func parseHTMLRow(tr *html.Node) []string {
	var row []string
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && (c.Data == "td" || c.Data == "th") {
			row = append(row, getTextContent(c))
		}
	}
	return row
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tagName string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tagName {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if result := findElement(c, tagName); result != nil {
			return result
		}
	}
	return nil
}

// getTextContent extracts the text of a node and its descendants with
// whitespace runs collapsed.
func getTextContent(n *html.Node) string {
	var result strings.Builder
	getTextContentRecursive(n, &result)
	return strings.Join(strings.Fields(result.String()), " ")
}

func getTextContentRecursive(n *html.Node, result *strings.Builder) {
	if n.Type == html.TextNode {
		result.WriteString(n.Data)
	}
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style":
			return
		case "br":
			result.WriteString(" ")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		getTextContentRecursive(c, result)
	}
}
