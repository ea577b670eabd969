package style

import (
	"embed"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/tsawler/md2word/logging"
)

// DefaultPreset is the preset used when none is named.
const DefaultPreset = "legal"

//go:embed defaults.yaml
var defaultsYAML []byte

//go:embed presets/*.yaml
var presetFS embed.FS

var (
	defaultOnce sync.Once
	defaultCfg  *Config
)

// Summary describes a bundled preset for listings.
type Summary struct {
	Key         string
	Name        string
	Description string
}

// ListPresets returns the names of the bundled presets, sorted lexically.
func ListPresets() []string {
	files, err := fs.Glob(presetFS, "presets/*.yaml")
	if err != nil {
		return nil
	}
	names := lo.Map(files, func(f string, _ int) string {
		return strings.TrimSuffix(path.Base(f), ".yaml")
	})
	slices.Sort(names)
	return names
}

// Summaries returns the key, display name and description of every preset.
func Summaries() []Summary {
	return lo.FilterMap(ListPresets(), func(key string, _ int) (Summary, bool) {
		cfg, err := Preset(key)
		if err != nil {
			return Summary{}, false
		}
		return Summary{Key: key, Name: cfg.Name, Description: cfg.Description}, true
	})
}

// Preset loads a bundled preset merged over the defaults.
func Preset(name string) (*Config, error) {
	data, err := presetFS.ReadFile("presets/" + name + ".yaml")
	if err != nil {
		return nil, errors.WithHint(
			errors.Wrapf(ErrPresetNotFound, "%q", name),
			"available presets: "+strings.Join(ListPresets(), ", "),
		)
	}
	tree, err := parseTree(data)
	if err != nil {
		return nil, errors.Wrapf(err, "preset %q", name)
	}
	return fromLayers(defaultsTree(), tree)
}

// Default returns the default preset. If it cannot be decoded the built-in
// defaults are used instead. The value is computed once and shared.
func Default() *Config {
	defaultOnce.Do(func() {
		cfg, err := Preset(DefaultPreset)
		if err != nil {
			logging.Logger().Warn("default preset unavailable, using built-in defaults", "err", err)
			cfg, err = fromLayers(defaultsTree(), nil)
			if err != nil {
				panic(errors.Wrap(err, "built-in style defaults"))
			}
		}
		defaultCfg = cfg
	})
	return defaultCfg
}

// Builtin returns the built-in defaults without any preset applied.
func Builtin() *Config {
	cfg, err := fromLayers(defaultsTree(), nil)
	if err != nil {
		panic(errors.Wrap(err, "built-in style defaults"))
	}
	return cfg
}

func defaultsTree() Tree {
	tree, err := parseTree(defaultsYAML)
	if err != nil {
		panic(errors.Wrap(err, "embedded defaults.yaml"))
	}
	return tree
}
