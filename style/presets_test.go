package style

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPresets(t *testing.T) {
	assert.Equal(t, []string{"academic", "legal", "report", "simple"}, ListPresets())
}

func TestPreset(t *testing.T) {
	for _, name := range ListPresets() {
		t.Run(name, func(t *testing.T) {
			cfg, err := Preset(name)
			require.NoError(t, err)
			assert.NotEmpty(t, cfg.Name)
			assert.Positive(t, cfg.Page.ContentWidth())
			assert.Positive(t, cfg.Fonts.Default.Size)
		})
	}

	simple, err := Preset("simple")
	require.NoError(t, err)
	assert.False(t, simple.Quotes.ConvertToChinese)
	assert.False(t, simple.PageNumber.Enabled)
	assert.Equal(t, 260, simple.Image.TargetDPI, "defaults fill keys the preset omits")
}

func TestPresetNotFound(t *testing.T) {
	_, err := Preset("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPresetNotFound))
	assert.Contains(t, errors.FlattenHints(err), "legal")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NotNil(t, cfg)
	assert.Same(t, cfg, Default())
	assert.Equal(t, "法律文书格式", cfg.Name)
}

func TestSummaries(t *testing.T) {
	got := Summaries()
	require.Len(t, got, 4)
	assert.Equal(t, "academic", got[0].Key)
	assert.NotEmpty(t, got[0].Description)
}
