package md2word

import (
	"github.com/tsawler/md2word/diagram"
	"github.com/tsawler/md2word/style"
)

// Options holds the conversion settings shared by every file of a run.
type Options struct {
	// Preset names a bundled style preset. It is ignored when ConfigFile or
	// Style is set.
	Preset string

	// ConfigFile is a YAML style file merged over the built-in defaults.
	// It takes precedence over Preset.
	ConfigFile string

	// Style is an already resolved configuration. It takes precedence over
	// ConfigFile and Preset.
	Style *style.Config

	// Template is a .docx whose styles, numbering, theme, font table and
	// settings are reused.
	Template string

	// Renderer renders Mermaid diagrams. Nil builds one from the style's
	// diagram section.
	Renderer *diagram.Renderer

	// ImageDir receives rendered diagrams. Empty means a directory named
	// after the input file with an "_images" suffix.
	ImageDir string
}

// DefaultOptions returns the options used by Open: the default preset and
// no template.
func DefaultOptions() Options {
	return Options{
		Preset: style.DefaultPreset,
	}
}

// clone creates a copy of Options. The style and renderer pointers are
// shared.
func (o Options) clone() Options {
	return Options{
		Preset:     o.Preset,
		ConfigFile: o.ConfigFile,
		Style:      o.Style,
		Template:   o.Template,
		Renderer:   o.Renderer,
		ImageDir:   o.ImageDir,
	}
}
