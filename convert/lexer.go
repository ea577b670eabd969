// Package convert turns Markdown source into a document model. Lex splits
// the source lines into classified blocks in one forward pass and an
// Assembler builds document elements from them.
package convert

import (
	"regexp"
	"strings"

	"github.com/tsawler/md2word/tables"
)

// BlockKind classifies a block of source lines.
type BlockKind int

const (
	BlockParagraph BlockKind = iota
	BlockDiagram
	BlockCode
	BlockHTMLTable
	BlockTable
	BlockRule
	BlockTask
	BlockBullet
	BlockNumbered
	BlockQuote
	BlockHeading
	BlockImage
)

func (k BlockKind) String() string {
	switch k {
	case BlockDiagram:
		return "diagram"
	case BlockCode:
		return "code"
	case BlockHTMLTable:
		return "html-table"
	case BlockTable:
		return "table"
	case BlockRule:
		return "rule"
	case BlockTask:
		return "task"
	case BlockBullet:
		return "bullet"
	case BlockNumbered:
		return "numbered"
	case BlockQuote:
		return "quote"
	case BlockHeading:
		return "heading"
	case BlockImage:
		return "image"
	default:
		return "paragraph"
	}
}

// Block is one classified unit of source.
type Block struct {
	Kind BlockKind
	// Line is the 1-based source line the block starts on.
	Line int
	// Text is the trimmed content of a single-line block with its marker
	// removed: heading and list text, or the image path.
	Text string
	// Lines holds the content of multi-line blocks. Fenced lines are kept
	// verbatim; table and quote lines are trimmed, quote lines without
	// their '>' marker.
	Lines []string
	// Language is the fence info string of a code block.
	Language string
	// Level is the heading level, 1 to 4.
	Level int
	// Checked is set on completed task items.
	Checked bool
	// Alt is the alt text of an image block.
	Alt string
}

var (
	mermaidFence = regexp.MustCompile(`^` + "```" + `\s*mermaid\b`)
	numbered     = regexp.MustCompile(`^\d+\.\s`)
	imageLine    = regexp.MustCompile(`^!\[([^\]]*)\]\(\s*<?([^)\s>]+)>?(?:\s+"[^"]*")?\s*\)$`)
)

var headingPrefixes = []string{"# ", "## ", "### ", "#### "}

// Lex classifies lines. Checks run in a fixed order and the first match
// wins: mermaid fence, code fence, HTML table, horizontal rule, pipe table,
// task, bullet, numbered item, quote, heading, image, paragraph. Blank
// lines only separate blocks.
func Lex(lines []string) []Block {
	l := &lexer{lines: lines}
	for l.pos < len(l.lines) {
		line := strings.TrimSpace(l.lines[l.pos])
		if line == "" {
			l.pos++
			continue
		}
		l.next(line)
	}
	return l.blocks
}

type lexer struct {
	lines  []string
	pos    int
	blocks []Block
}

func (l *lexer) emit(b Block) {
	l.blocks = append(l.blocks, b)
}

// next consumes the block starting at the current line.
func (l *lexer) next(line string) {
	start := l.pos + 1

	switch {
	case mermaidFence.MatchString(line):
		body := l.fenced()
		// An empty diagram produces nothing.
		if len(body) > 0 {
			l.emit(Block{Kind: BlockDiagram, Line: start, Lines: body})
		}
		return

	case strings.HasPrefix(line, "```"):
		lang := strings.TrimSpace(line[3:])
		l.emit(Block{Kind: BlockCode, Line: start, Language: lang, Lines: l.fenced()})
		return

	case strings.Contains(strings.ToLower(line), "<table>"):
		l.emit(Block{Kind: BlockHTMLTable, Line: start, Lines: l.htmlTable()})
		return

	case line == "---" || line == "***" || line == "___":
		l.pos++
		l.emit(Block{Kind: BlockRule, Line: start})
		return

	case tables.IsTableRow(line):
		rows := l.tableRows()
		if len(rows) >= 2 {
			l.emit(Block{Kind: BlockTable, Line: start, Lines: rows})
			return
		}
		// A lone pipe line is ordinary text.
		l.emit(Block{Kind: BlockParagraph, Line: start, Text: rows[0]})
		return

	case strings.HasPrefix(line, "- [ ]"), strings.HasPrefix(line, "- [x]"), strings.HasPrefix(line, "- [X]"):
		l.pos++
		l.emit(Block{
			Kind:    BlockTask,
			Line:    start,
			Text:    strings.TrimSpace(line[5:]),
			Checked: line[3] != ' ',
		})
		return

	case strings.HasPrefix(line, "- "), strings.HasPrefix(line, "* "), strings.HasPrefix(line, "+ "):
		l.pos++
		l.emit(Block{Kind: BlockBullet, Line: start, Text: strings.TrimSpace(line[2:])})
		return

	case numbered.MatchString(line):
		l.pos++
		l.emit(Block{Kind: BlockNumbered, Line: start, Text: line})
		return

	case strings.HasPrefix(line, ">"):
		l.emit(Block{Kind: BlockQuote, Line: start, Lines: l.quote()})
		return
	}

	l.pos++
	for i, prefix := range headingPrefixes {
		if strings.HasPrefix(line, prefix) {
			l.emit(Block{Kind: BlockHeading, Line: start, Level: i + 1, Text: strings.TrimSpace(line[len(prefix):])})
			return
		}
	}
	if m := imageLine.FindStringSubmatch(line); m != nil {
		l.emit(Block{Kind: BlockImage, Line: start, Alt: m[1], Text: m[2]})
		return
	}
	l.emit(Block{Kind: BlockParagraph, Line: start, Text: line})
}

// fenced consumes an opening fence, the lines up to the closing fence and
// the closing fence itself. An unterminated fence runs to the end of input.
func (l *lexer) fenced() []string {
	l.pos++
	var body []string
	for l.pos < len(l.lines) && !strings.HasPrefix(strings.TrimSpace(l.lines[l.pos]), "```") {
		body = append(body, l.lines[l.pos])
		l.pos++
	}
	if l.pos < len(l.lines) {
		l.pos++
	}
	return body
}

// htmlTable consumes lines through the one containing </table>.
func (l *lexer) htmlTable() []string {
	var body []string
	for l.pos < len(l.lines) {
		line := l.lines[l.pos]
		body = append(body, line)
		l.pos++
		if strings.Contains(strings.ToLower(line), "</table>") {
			break
		}
	}
	return body
}

func (l *lexer) tableRows() []string {
	var rows []string
	for l.pos < len(l.lines) {
		line := strings.TrimSpace(l.lines[l.pos])
		if !tables.IsTableRow(line) {
			break
		}
		rows = append(rows, line)
		l.pos++
	}
	return rows
}

func (l *lexer) quote() []string {
	var body []string
	for l.pos < len(l.lines) {
		line := strings.TrimSpace(l.lines[l.pos])
		if !strings.HasPrefix(line, ">") {
			break
		}
		body = append(body, strings.TrimSpace(line[1:]))
		l.pos++
	}
	return body
}
