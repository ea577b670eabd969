package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"

	"github.com/tsawler/md2word"
	"github.com/tsawler/md2word/style"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4CAF50"))
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")).Bold(true)
	presetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#3F51B5")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF9800"))
)

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func printPresets(w io.Writer) {
	fmt.Fprintln(w, headingStyle.Render("可用的预设配置:"))
	summaries := style.Summaries()
	if len(summaries) == 0 {
		fmt.Fprintln(w, "  没有可用的预设配置")
		return
	}
	for _, s := range summaries {
		fmt.Fprintf(w, "  - %s: %s\n", presetStyle.Render(s.Key), s.Description)
	}
}

func printNoInput(w io.Writer) {
	fmt.Fprintln(w, "当前目录下没有找到.md文件")
	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("使用方法:"))
	fmt.Fprintln(w, "  md2word 输入文件.md")
	fmt.Fprintln(w, "  md2word 输入文件.md --preset=academic")
	fmt.Fprintln(w)
	printPresets(w)
}

func printWarnings(w io.Writer, warnings []md2word.Warning) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w, warnStyle.Render(fmt.Sprintf("%d 个问题:", len(warnings))))
	fmt.Fprintln(w, md2word.FormatWarnings(warnings))
}

// printSummary lists the formatting that was applied. output is omitted
// when empty.
func printSummary(w io.Writer, cfg *style.Config, output string) {
	if cfg == nil {
		return
	}
	line := func(key, value string) {
		fmt.Fprintf(w, "%s %s\n", keyStyle.Render(key+":"), value)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headingStyle.Render("自动应用的格式:"))

	p := cfg.Page
	line("页面大小", num(p.Width)+"cm × "+num(p.Height)+"cm")
	line("页边距", "上下"+num(p.MarginTop)+"cm，左右"+num(p.MarginLeft)+"cm")
	line("字体", cfg.Fonts.Default.Name)
	line("字号", num(cfg.Fonts.Default.Size)+"pt")
	line("行距", num(cfg.Paragraph.LineSpacing)+"倍")

	weight := "常规"
	if cfg.Titles.Level1.Bold {
		weight = "加粗"
	}
	line("一级标题", num(cfg.Titles.Level1.Size)+"pt，"+weight)

	if cfg.PageNumber.Enabled {
		line("页码设置", cfg.PageNumber.Format+"格式")
	}
	if cfg.Quotes.ConvertToChinese {
		line("引号转换", "英文引号自动转为中文引号")
	}
	line("表格支持", "Markdown表格自动转换")
	line("图表支持", "Mermaid图表本地渲染")
	line("格式支持", "**加粗**、*斜体*、<u>下划线</u>、~~删除线~~")

	if output != "" {
		fmt.Fprintln(w)
		line("输出文件", output)
	}
}
