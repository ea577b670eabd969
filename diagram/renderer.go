package diagram

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/tsawler/md2word/logging"
	"github.com/tsawler/md2word/model"
	"github.com/tsawler/md2word/ocr"
	"github.com/tsawler/md2word/style"
)

// EnvCommand names the environment variable that overrides the mmdc path.
const EnvCommand = "MMDCCMD"

// Sink receives the output of a render. The document assembler implements
// it.
type Sink interface {
	// ImagePath returns where an image with the given file name is stored.
	ImagePath(name string) (string, error)
	// InsertImage embeds the image file at path.
	InsertImage(path, alt string) error
	// AddParagraph appends a body paragraph.
	AddParagraph(runs []model.Run)
}

// Runner executes an external command and returns its combined output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements Runner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// Renderer renders Mermaid sources with mmdc.
type Renderer struct {
	// Command is the mmdc path. When empty, MMDCCMD, node_modules/.bin/mmdc
	// next to the executable, and PATH are tried in that order.
	Command string
	// ConfigFile is passed with -c when it exists. When empty,
	// mermaid-config.json next to the executable is used if present.
	ConfigFile string
	Theme      string
	Width      int
	Height     int
	Scale      float64
	Timeout    time.Duration
	// TempDir holds the temporary .mmd source; empty means os.TempDir.
	TempDir string
	// OCRLanguage is used for alt text when OCR support is compiled in.
	OCRLanguage string
	Runner      Runner

	now func() time.Time
}

// Result describes one render.
type Result struct {
	Spec      Spec
	Rendered  bool
	ImagePath string
	// Err is why rendering fell back to text. It is nil when Rendered.
	Err error
}

// NewRenderer returns a Renderer configured from the diagram style section.
func NewRenderer(cfg style.Diagram) *Renderer {
	r := &Renderer{
		ConfigFile:  cfg.ConfigFile,
		Theme:       cfg.Theme,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Scale:       cfg.Scale,
		Timeout:     time.Duration(cfg.TimeoutSeconds) * time.Second,
		OCRLanguage: cfg.OCRLanguage,
	}
	return r.withDefaults()
}

func (r *Renderer) withDefaults() *Renderer {
	if r.Theme == "" {
		r.Theme = "neutral"
	}
	if r.Width <= 0 {
		r.Width = 2200
	}
	if r.Height <= 0 {
		r.Height = 1500
	}
	if r.Scale <= 0 {
		r.Scale = 2.0
	}
	if r.Timeout <= 0 {
		r.Timeout = 30 * time.Second
	}
	if r.Runner == nil {
		r.Runner = ExecRunner{}
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Render preprocesses src and tries to render it to an image in the sink.
// Any failure adds a text summary paragraph instead; Render never fails the
// conversion. r is not modified, so one Renderer can serve concurrent
// conversions.
func (r *Renderer) Render(ctx context.Context, src string, sink Sink) Result {
	rc := *r
	r = rc.withDefaults()
	spec := NewSpec(src)
	res := Result{Spec: spec}

	path, err := r.renderImage(ctx, spec, sink)
	if err == nil {
		res.Rendered = true
		res.ImagePath = path
		logging.Logger().Debug("rendered mermaid diagram", "kind", spec.Kind, "path", path)
		return res
	}

	res.Err = err
	logging.Logger().Warn("mermaid rendering failed, using text summary", "kind", spec.Kind, "err", err)
	sink.AddParagraph(Fallback(spec))
	return res
}

func (r *Renderer) renderImage(ctx context.Context, spec Spec, sink Sink) (string, error) {
	cmd, err := r.ResolveCommand()
	if err != nil {
		return "", err
	}

	outPath, err := r.outputPath(sink)
	if err != nil {
		return "", err
	}

	src, err := os.CreateTemp(r.TempDir, "mermaid-src-*.mmd")
	if err != nil {
		return "", errors.Wrap(err, "create mermaid source file")
	}
	defer func() {
		_ = os.Remove(src.Name())
	}()
	_, werr := src.WriteString(spec.Source)
	cerr := src.Close()
	if err := errors.CombineErrors(werr, cerr); err != nil {
		return "", errors.Wrap(err, "write mermaid source file")
	}

	inPath, err := filepath.Abs(src.Name())
	if err != nil {
		return "", errors.Wrap(err, "resolve mermaid source path")
	}
	args := r.args(inPath, outPath)

	runCtx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	logging.Logger().Debug("running mermaid renderer", "cmd", cmd, "args", strings.Join(args, " "))
	out, err := r.Runner.Run(runCtx, cmd, args...)
	if err != nil {
		if errors.Is(runCtx.Err(), context.DeadlineExceeded) {
			return "", errors.Wrapf(ErrRenderTimeout, "after %s", r.Timeout)
		}
		return "", errors.WithDetail(
			errors.Wrapf(ErrRenderFailed, "%v", err),
			strings.TrimSpace(string(out)),
		)
	}

	if _, err := os.Stat(outPath); err != nil {
		return "", errors.Wrap(ErrNoOutput, outPath)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		return "", errors.Wrap(err, "read rendered diagram")
	}
	if err := sink.InsertImage(outPath, r.altText(data, spec)); err != nil {
		return "", errors.Wrap(err, "insert rendered diagram")
	}
	return outPath, nil
}

// ResolveCommand locates the mmdc executable.
func (r *Renderer) ResolveCommand() (string, error) {
	candidates := []string{r.Command, strings.TrimSpace(os.Getenv(EnvCommand))}
	if dir := exeDir(); dir != "" {
		candidates = append(candidates, filepath.Join(dir, "node_modules", ".bin", "mmdc"))
	}
	for _, c := range candidates {
		if c == "" {
			continue
		}
		if fileExists(c) {
			return c, nil
		}
		if !strings.ContainsRune(c, filepath.Separator) {
			if p, err := exec.LookPath(c); err == nil {
				return p, nil
			}
		}
	}
	if p, err := exec.LookPath("mmdc"); err == nil {
		return p, nil
	}
	return "", errors.WithHint(ErrRendererNotFound,
		"install it with: npm install -g @mermaid-js/mermaid-cli, or set "+EnvCommand)
}

// outputPath picks mermaid-chart-<unix ms>.png, stepping the timestamp
// until the name is free.
func (r *Renderer) outputPath(sink Sink) (string, error) {
	ms := r.now().UnixMilli()
	for i := 0; i < 1000; i++ {
		p, err := sink.ImagePath(fmt.Sprintf("mermaid-chart-%d.png", ms+int64(i)))
		if err != nil {
			return "", errors.Wrap(err, "image output path")
		}
		if !fileExists(p) {
			return p, nil
		}
	}
	return "", errors.Newf("no free image name near mermaid-chart-%d.png", ms)
}

func (r *Renderer) args(in, out string) []string {
	args := []string{
		"-i", in,
		"-o", out,
		"-t", r.Theme,
		"-w", strconv.Itoa(r.Width),
		"-H", strconv.Itoa(r.Height),
		"--scale", formatScale(r.Scale),
	}
	if cfg := r.configFile(); cfg != "" {
		args = append(args, "-c", cfg)
	}
	return args
}

func (r *Renderer) configFile() string {
	if r.ConfigFile != "" {
		if fileExists(r.ConfigFile) {
			return r.ConfigFile
		}
		return ""
	}
	if dir := exeDir(); dir != "" {
		if p := filepath.Join(dir, "mermaid-config.json"); fileExists(p) {
			return p
		}
	}
	return ""
}

// altText describes the rendered image. With OCR compiled in, the labels
// read from the image are used; otherwise the diagram kind.
func (r *Renderer) altText(png []byte, spec Spec) string {
	alt := "Mermaid " + spec.Kind.Label()
	if !ocr.Enabled {
		return alt
	}
	text, err := ocr.AltText(png, r.OCRLanguage)
	if err != nil || text == "" {
		if err != nil {
			logging.Logger().Debug("diagram OCR failed", "err", err)
		}
		return alt
	}
	return alt + ": " + text
}

func formatScale(s float64) string {
	v := strconv.FormatFloat(s, 'f', -1, 64)
	if !strings.Contains(v, ".") {
		v += ".0"
	}
	return v
}

func exeDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}

func fileExists(p string) bool {
	info, err := os.Stat(p)
	return err == nil && !info.IsDir()
}
