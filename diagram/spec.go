// Package diagram turns Mermaid sources into images through the mmdc
// command line renderer, and into a short text summary when rendering is
// not possible.
package diagram

import (
	"regexp"
	"strings"
)

// Kind is the diagram type found by keyword sniffing.
type Kind int

const (
	KindUnknown Kind = iota
	KindFlow
	KindPie
	KindGantt
)

func (k Kind) String() string {
	switch k {
	case KindFlow:
		return "flow"
	case KindPie:
		return "pie"
	case KindGantt:
		return "gantt"
	default:
		return "unknown"
	}
}

// Label is the Chinese caption used for the kind in alt text.
func (k Kind) Label() string {
	switch k {
	case KindFlow:
		return "流程图"
	case KindPie:
		return "饼图"
	case KindGantt:
		return "甘特图"
	default:
		return "图表"
	}
}

// Spec is a diagram source and its detected kind.
type Spec struct {
	Source string
	Kind   Kind
}

// NewSpec preprocesses src and detects its kind.
func NewSpec(src string) Spec {
	s := Preprocess(src)
	return Spec{Source: s, Kind: Detect(s)}
}

// Detect sniffs the diagram kind from keywords. The checks run in order
// flow, pie, gantt, so a source mentioning several keywords is a flow.
func Detect(src string) Kind {
	lower := strings.ToLower(src)
	switch {
	case strings.Contains(lower, "graph"), strings.Contains(lower, "flowchart"):
		return KindFlow
	case strings.Contains(lower, "pie"):
		return KindPie
	case strings.Contains(lower, "gantt"):
		return KindGantt
	}
	return KindUnknown
}

var (
	labelNumber  = regexp.MustCompile(`(?m)([\[\({>])("?\s*)(\d+)\.\s`)
	labelBullet  = regexp.MustCompile(`(?m)([\[\({>])("?\s*)[-*]\s`)
	lineDash     = regexp.MustCompile(`(?m)^(\s*)-\s+`)
	lineStar     = regexp.MustCompile(`(?m)^(\s*)\*\s+`)
	lineNumbered = regexp.MustCompile(`(?m)^(\s*)(\d+)\.\s+`)
)

// Preprocess rewrites label text that mmdc would otherwise parse as
// Markdown: backticks become single quotes, "1. " at the start of a label
// or line becomes "1: ", and "- " or "* " there becomes a bullet.
func Preprocess(src string) string {
	s := strings.ReplaceAll(src, "`", "'")
	s = labelNumber.ReplaceAllString(s, "${1}${2}${3}: ")
	s = labelBullet.ReplaceAllString(s, "${1}${2}• ")
	s = lineDash.ReplaceAllString(s, "${1}• ")
	s = lineStar.ReplaceAllString(s, "${1}• ")
	s = lineNumbered.ReplaceAllString(s, "${1}${2}: ")
	return s
}
