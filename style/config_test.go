package style

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinDefaults(t *testing.T) {
	cfg := Builtin()

	assert.Equal(t, 21.0, cfg.Page.Width)
	assert.Equal(t, 29.7, cfg.Page.Height)
	assert.InDelta(t, 14.64, cfg.Page.ContentWidth(), 1e-9)
	assert.Equal(t, "仿宋_GB2312", cfg.Fonts.Default.Name)
	assert.Equal(t, "Times New Roman", cfg.Fonts.Default.ASCII)
	assert.Equal(t, 15.0, cfg.Titles.Level1.Size)
	assert.Equal(t, "center", cfg.Titles.Level1.Align)
	assert.Equal(t, 24.0, cfg.Titles.Level(2).Indent)
	assert.False(t, cfg.Titles.Level(7).Bold)
	assert.Equal(t, 1.5, cfg.Paragraph.LineSpacing)
	assert.Equal(t, 60, cfg.Table.CellMargin.Left)
	assert.True(t, cfg.Table.Header.Bold)
	assert.Equal(t, "Times New Roman", cfg.Table.Header.Font)
	assert.Equal(t, 10.5, cfg.Table.Body.Size)
	assert.Equal(t, "#EAEAEA", cfg.Quote.BackgroundColor)
	assert.Equal(t, 24.0, cfg.CodeBlock.Content.LeftIndent)
	assert.Equal(t, 260, cfg.Image.TargetDPI)
	assert.Equal(t, "•", cfg.Lists.Bullet.Marker)
	assert.Equal(t, "☑", cfg.Lists.Task.Checked)
	assert.Equal(t, 55, cfg.HorizontalRule.RepeatCount)
	assert.Equal(t, "1/x", cfg.PageNumber.Format)
	assert.True(t, cfg.Quotes.ConvertToChinese)
	assert.True(t, cfg.Math.Italic)
	assert.Equal(t, "#00008B", cfg.Math.Color)
	assert.Equal(t, "neutral", cfg.Diagram.Theme)
	assert.Equal(t, 30, cfg.Diagram.TimeoutSeconds)
}

func TestLoadMergesOverDefaults(t *testing.T) {
	cfg, err := Load(strings.NewReader(`
name: custom
fonts:
  default:
    size: 14
quotes:
  convert_to_chinese: false
`))
	require.NoError(t, err)

	assert.Equal(t, "custom", cfg.Name)
	assert.Equal(t, 14.0, cfg.Fonts.Default.Size)
	assert.Equal(t, "仿宋_GB2312", cfg.Fonts.Default.Name, "unset keys keep defaults")
	assert.False(t, cfg.Quotes.ConvertToChinese)
	assert.Equal(t, 14, cfg.Get("fonts.default.size", 0))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"malformed", "page: [unclosed"},
		{"empty", ""},
		{"scalar", "just a string"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.in))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfigLoad))
		})
	}

	_, err := Load(nil)
	assert.True(t, errors.Is(err, ErrConfigLoad))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "style.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paragraph:\n  line_spacing: 2\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2.0, cfg.Paragraph.LineSpacing)

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigLoad))
}

func TestConfigMerge(t *testing.T) {
	base := Builtin()
	override, err := Load(strings.NewReader("page:\n  margin_left: 2\n"))
	require.NoError(t, err)

	merged, err := base.Merge(override)
	require.NoError(t, err)
	assert.Equal(t, 2.0, merged.Page.MarginLeft)
	assert.Equal(t, 3.18, base.Page.MarginLeft, "receiver is not modified")

	same, err := base.Merge(nil)
	require.NoError(t, err)
	assert.Same(t, base, same)
}

func TestConfigMergeKeepsUnsetKeys(t *testing.T) {
	base, err := Preset("academic")
	require.NoError(t, err)
	override, err := Load(strings.NewReader("page:\n  margin_left: 2\n"))
	require.NoError(t, err)

	merged, err := base.Merge(override)
	require.NoError(t, err)
	assert.Equal(t, 2.0, merged.Page.MarginLeft)
	assert.Equal(t, "宋体", merged.Fonts.Default.Name)
	assert.Equal(t, 16.0, merged.Titles.Level1.Size)
	assert.Equal(t, 2.5, merged.Page.MarginTop)
	assert.Equal(t, base.Name, merged.Name)

	// Builtin sets nothing of its own.
	same, err := base.Merge(Builtin())
	require.NoError(t, err)
	assert.Equal(t, base.Fonts.Default.Name, same.Fonts.Default.Name)
	assert.Equal(t, base.Page.MarginLeft, same.Page.MarginLeft)

	// Merged layers carry over to the next merge.
	again, err := Builtin().Merge(merged)
	require.NoError(t, err)
	assert.Equal(t, "宋体", again.Fonts.Default.Name)
	assert.Equal(t, 2.0, again.Page.MarginLeft)
}
