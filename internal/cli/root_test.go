package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/md2word"
)

const doc = "# 标题\n\n正文段落。\n\n## 一、事实\n\n- 要点\n"

func run(t *testing.T, dir string, args ...string) (int, string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := newApp(&out, &errOut, dir).execute(context.Background(), args)
	return code, out.String(), errOut.String()
}

func writeMarkdown(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestListPresets(t *testing.T) {
	code, out, _ := run(t, t.TempDir(), "--list-presets")
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "可用的预设配置")
	assert.Contains(t, out, "legal")
	assert.Contains(t, out, "academic")
}

func TestConvertSingleFile(t *testing.T) {
	dir := t.TempDir()
	input := writeMarkdown(t, dir, "report.md")

	code, out, errOut := run(t, dir, input)
	require.Equal(t, 0, code, errOut)

	assert.FileExists(t, md2word.OutputName(input))
	assert.Contains(t, out, "自动应用的格式")
	assert.Contains(t, out, "页码设置")
	assert.Contains(t, out, md2word.OutputName(input))
}

func TestConvertWithOutputArg(t *testing.T) {
	dir := t.TempDir()
	input := writeMarkdown(t, dir, "report.md")
	output := filepath.Join(dir, "out.docx")

	code, _, errOut := run(t, dir, input, output, "--preset", "simple")
	require.Equal(t, 0, code, errOut)
	assert.FileExists(t, output)
	assert.NoFileExists(t, md2word.OutputName(input))
}

func TestConfigFlag(t *testing.T) {
	dir := t.TempDir()
	input := writeMarkdown(t, dir, "report.md")
	cfg := filepath.Join(dir, "style.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("fonts:\n  default:\n    name: 宋体\n"), 0o644))

	code, out, errOut := run(t, dir, input, "-c", cfg)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "宋体")
}

func TestMissingConfigFallsBack(t *testing.T) {
	dir := t.TempDir()
	input := writeMarkdown(t, dir, "report.md")

	code, _, errOut := run(t, dir, input, "--config", filepath.Join(dir, "missing.yaml"))
	assert.Equal(t, 0, code)
	assert.Contains(t, errOut, "style config not loaded")
}

func TestMissingConfigPrintsWarning(t *testing.T) {
	dir := t.TempDir()
	input := writeMarkdown(t, dir, "report.md")

	code, out, errOut := run(t, dir, input, "--config", filepath.Join(dir, "missing.yaml"))
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "1 个问题")
	assert.Contains(t, out, "missing.yaml not loaded, using default preset")
	assert.NotContains(t, errOut, "using style file")
	assert.Contains(t, errOut, "using preset")
}

func TestReportPanic(t *testing.T) {
	var errOut bytes.Buffer
	a := newApp(&bytes.Buffer{}, &errOut, t.TempDir())
	err := errors.WithDetail(errors.Wrapf(md2word.ErrPanic, "converting a.md: %v", "boom"), "goroutine 1 [running]:")

	a.report(err)
	assert.Contains(t, errOut.String(), "错误: converting a.md: boom")
	assert.Contains(t, errOut.String(), "(1)")
	assert.Contains(t, errOut.String(), "goroutine 1 [running]:")

	errOut.Reset()
	a.report(errors.New("plain failure"))
	assert.NotContains(t, errOut.String(), "(1)")
}

func TestUnknownPreset(t *testing.T) {
	dir := t.TempDir()
	input := writeMarkdown(t, dir, "report.md")

	code, _, errOut := run(t, dir, input, "-p", "nope")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "style preset not found")
	assert.Contains(t, errOut, "legal")
	assert.NoFileExists(t, md2word.OutputName(input))
}

func TestPresetFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	input := writeMarkdown(t, dir, "report.md")
	t.Setenv("MD2WORD_PRESET", "nope")

	code, _, _ := run(t, dir, input)
	assert.Equal(t, 1, code)

	// Flags win over the environment.
	code, _, errOut := run(t, dir, input, "--preset", "legal")
	assert.Equal(t, 0, code, errOut)
}

func TestMissingInput(t *testing.T) {
	dir := t.TempDir()
	code, _, errOut := run(t, dir, filepath.Join(dir, "missing.md"))
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "错误")
	assert.Contains(t, errOut, "提示")
}

func TestTooManyArgs(t *testing.T) {
	code, _, _ := run(t, t.TempDir(), "a.md", "b.docx", "c")
	assert.Equal(t, 1, code)
}

func TestInvalidLogLevel(t *testing.T) {
	code, _, errOut := run(t, t.TempDir(), "--list-presets", "--log-level", "loud")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "invalid log level")
}

func TestDebugPrintsDetail(t *testing.T) {
	dir := t.TempDir()
	code, _, errOut := run(t, dir, filepath.Join(dir, "missing.md"), "--log-level", "debug")
	assert.Equal(t, 1, code)
	assert.Contains(t, errOut, "(1)")
}

func TestAutoMode(t *testing.T) {
	dir := t.TempDir()
	a := writeMarkdown(t, dir, "a.md")
	b := writeMarkdown(t, dir, "b.md")

	code, out, errOut := run(t, dir)
	require.Equal(t, 0, code, errOut)

	assert.Contains(t, out, "找到 2 个Markdown文件")
	assert.Contains(t, out, "成功处理 2/2 个文件")
	assert.FileExists(t, md2word.OutputName(a))
	assert.FileExists(t, md2word.OutputName(b))
	assert.NotContains(t, out, "输出文件")
}

func TestAutoModeReportsFailures(t *testing.T) {
	dir := t.TempDir()
	writeMarkdown(t, dir, "a.md")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bin.md"), []byte{0x00, 0x01, 0x02}, 0o644))

	code, out, _ := run(t, dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "成功处理 1/2 个文件")
}

func TestAutoModeWithoutFiles(t *testing.T) {
	code, out, _ := run(t, t.TempDir())
	assert.Equal(t, 0, code)
	assert.Contains(t, out, "没有找到.md文件")
	assert.Contains(t, out, "可用的预设配置")
}

func TestNewRootCommandFlags(t *testing.T) {
	cmd := NewRootCommand(&bytes.Buffer{}, &bytes.Buffer{})
	for _, name := range []string{flagPreset, flagConfig, flagTemplate, flagListPresets, flagRenderer, flagLogLevel} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "p", cmd.Flags().Lookup(flagPreset).Shorthand)
	assert.Equal(t, "legal", cmd.Flags().Lookup(flagPreset).DefValue)
}
