package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"backticks", "A[`code`]", "A['code']"},
		{"numbered label", "A[1. 起诉] --> B", "A[1: 起诉] --> B"},
		{"quoted numbered label", `A["2. 审理"]`, `A["2: 审理"]`},
		{"bullet label", "A[- item] --> B(* other)", "A[• item] --> B(• other)"},
		{"brace label", "C{3. 判决}", "C{3: 判决}"},
		{"line dash", "  - step", "  • step"},
		{"line star", "* step", "• step"},
		{"line numbered", "1. step", "1: step"},
		{"untouched", "graph TD\n    A --> B", "graph TD\n    A --> B"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Preprocess(tt.in))
		})
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		src  string
		want Kind
	}{
		{"graph TD\nA-->B", KindFlow},
		{"flowchart LR\nA-->B", KindFlow},
		{"pie title 分布\n\"a\": 1", KindPie},
		{"gantt\ntitle 计划", KindGantt},
		{"sequenceDiagram\nA->>B: hi", KindUnknown},
		{"%%%% ??? ###", KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.want.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.src))
		})
	}
}

func TestKindLabel(t *testing.T) {
	assert.Equal(t, "流程图", KindFlow.Label())
	assert.Equal(t, "图表", KindUnknown.Label())
	assert.Equal(t, "gantt", KindGantt.String())
}
