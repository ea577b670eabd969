package model

import "strings"

// Format is a set of inline formatting flags.
type Format uint8

const (
	FormatBold Format = 1 << iota
	FormatItalic
	FormatUnderline
	FormatStrike
	FormatCode
	FormatMath
)

// Has reports whether all flags in f2 are set in f.
func (f Format) Has(f2 Format) bool {
	return f&f2 == f2
}

func (f Format) String() string {
	if f == 0 {
		return "plain"
	}
	var parts []string
	names := []struct {
		flag Format
		name string
	}{
		{FormatBold, "bold"},
		{FormatItalic, "italic"},
		{FormatUnderline, "underline"},
		{FormatStrike, "strike"},
		{FormatCode, "code"},
		{FormatMath, "math"},
	}
	for _, n := range names {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

// Run is a contiguous span of text sharing one format, or a hard line break
// when Break is set.
type Run struct {
	Text   string
	Format Format
	Break  bool
}

// BreakRun returns a hard line break run.
func BreakRun() Run {
	return Run{Break: true}
}

// PlainRuns returns text as a single unformatted run, or nil for empty text.
func PlainRuns(text string) []Run {
	if text == "" {
		return nil
	}
	return []Run{{Text: text}}
}

// TextOf concatenates run texts, rendering breaks as newlines.
func TextOf(runs []Run) string {
	var sb strings.Builder
	for _, r := range runs {
		if r.Break {
			sb.WriteByte('\n')
			continue
		}
		sb.WriteString(r.Text)
	}
	return sb.String()
}
