package ocr

import "testing"

func TestFoldText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"collapse", "  开始 \n\n 处理\t结束 ", 50, "开始 处理 结束"},
		{"empty", " \n ", 10, ""},
		{"truncate runes", "流程图标签", 2, "流程…"},
		{"exact", "abc", 3, "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := foldText(tt.in, tt.max); got != tt.want {
				t.Errorf("foldText(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}
