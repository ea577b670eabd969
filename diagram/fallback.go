package diagram

import (
	"regexp"
	"strings"

	"github.com/tsawler/md2word/model"
)

// maxFlowEdges bounds the connections listed in a flow summary.
const maxFlowEdges = 8

var pieSlice = regexp.MustCompile(`"([^"]+)"\s*:\s*(\d+(?:\.\d+)?)`)

// Fallback summarizes a diagram as text for when it cannot be rendered.
// The result starts with a bold caption for the diagram kind.
func Fallback(spec Spec) []model.Run {
	switch spec.Kind {
	case KindFlow:
		return flowSummary(spec.Source)
	case KindPie:
		return pieSummary(spec.Source)
	case KindGantt:
		return ganttSummary(spec.Source)
	}
	runs := []model.Run{{Text: "【图表内容】", Format: model.FormatBold}}
	return append(runs, textRuns("\n"+spec.Source)...)
}

func flowSummary(src string) []model.Run {
	runs := []model.Run{{Text: "【流程图】", Format: model.FormatBold}}

	var edges []string
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		sep := ""
		switch {
		case strings.Contains(line, "-->"):
			sep = "-->"
		case strings.Contains(line, "->"):
			sep = "->"
		default:
			continue
		}
		parts := strings.Split(line, sep)
		if len(parts) != 2 {
			continue
		}
		edges = append(edges, strings.TrimSpace(parts[0])+" → "+strings.TrimSpace(parts[1]))
	}

	if len(edges) == 0 {
		return runs
	}
	runs = append(runs, textRuns("\n主要流程:")...)
	for _, e := range edges[:min(len(edges), maxFlowEdges)] {
		runs = append(runs, textRuns("\n• "+e)...)
	}
	return runs
}

func pieSummary(src string) []model.Run {
	runs := []model.Run{{Text: "【数据分析】", Format: model.FormatBold}}
	for _, line := range strings.Split(src, "\n") {
		if !strings.Contains(line, ":") || !strings.Contains(line, `"`) {
			continue
		}
		if m := pieSlice.FindStringSubmatch(line); m != nil {
			runs = append(runs, textRuns("\n• "+m[1]+": "+m[2])...)
		}
	}
	return runs
}

func ganttSummary(src string) []model.Run {
	runs := []model.Run{{Text: "【时间安排】", Format: model.FormatBold}}
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "section "):
			section := strings.ReplaceAll(line, "section ", "")
			runs = append(runs, textRuns("\n\n"+section+":")...)
		case strings.Contains(line, ":") && !strings.HasPrefix(line, "title"):
			task, _, _ := strings.Cut(line, ":")
			runs = append(runs, textRuns("\n• "+strings.TrimSpace(task))...)
		}
	}
	return runs
}

// textRuns turns newlines into break runs.
func textRuns(s string) []model.Run {
	var runs []model.Run
	for i, part := range strings.Split(s, "\n") {
		if i > 0 {
			runs = append(runs, model.BreakRun())
		}
		if part != "" {
			runs = append(runs, model.Run{Text: part})
		}
	}
	return runs
}
