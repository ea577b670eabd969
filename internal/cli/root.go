// Package cli implements the md2word command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/tsawler/md2word"
	"github.com/tsawler/md2word/diagram"
	"github.com/tsawler/md2word/logging"
	"github.com/tsawler/md2word/style"
)

// EnvPrefix prefixes the environment variables that set flag defaults,
// for example MD2WORD_PRESET or MD2WORD_LOG_LEVEL.
const EnvPrefix = "MD2WORD"

// Flag names, also the viper keys.
const (
	flagPreset      = "preset"
	flagConfig      = "config"
	flagTemplate    = "template"
	flagListPresets = "list-presets"
	flagRenderer    = "renderer"
	flagLogLevel    = "log-level"
)

var errConversionFailed = errors.New("conversion failed")

type app struct {
	v      *viper.Viper
	out    io.Writer
	errOut io.Writer
	// dir is searched for Markdown files when no input is given.
	dir   string
	level log.Level
}

func newApp(out, errOut io.Writer, dir string) *app {
	return &app{v: viper.New(), out: out, errOut: errOut, dir: dir, level: log.InfoLevel}
}

// Execute runs md2word with args and returns the process exit code.
func Execute(ctx context.Context, args []string, out, errOut io.Writer) int {
	return newApp(out, errOut, ".").execute(ctx, args)
}

// NewRootCommand returns the md2word command writing to out and errOut.
func NewRootCommand(out, errOut io.Writer) *cobra.Command {
	return newApp(out, errOut, ".").command()
}

func (a *app) execute(ctx context.Context, args []string) int {
	cmd := a.command()
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(ctx); err != nil {
		a.report(err)
		return 1
	}
	return 0
}

func (a *app) command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "md2word [input.md] [output.docx]",
		Short: "Convert Markdown to formatted Word documents",
		Long: `md2word converts a Markdown file to a Word (.docx) document formatted
by a style preset or a YAML style file. Mermaid diagrams are rendered with
mmdc when it is installed and summarised as text otherwise.

Without an input file every Markdown file in the current directory is
converted.`,
		Example: `  md2word input.md
  md2word input.md --preset=academic
  md2word input.md --config=my-style.yaml
  md2word input.md output.docx
  md2word --list-presets`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setupLogging()
		},
		RunE: a.run,
	}
	cmd.SetOut(a.out)
	cmd.SetErr(a.errOut)

	fs := cmd.Flags()
	fs.StringP(flagPreset, "p", style.DefaultPreset, "style preset to apply")
	fs.StringP(flagConfig, "c", "", "YAML style file (overrides --preset)")
	fs.StringP(flagTemplate, "t", "", "Word template whose styles are reused")
	fs.Bool(flagListPresets, false, "list the available presets and exit")
	fs.String(flagRenderer, "", "path to the mmdc executable (default: $MMDCCMD, then PATH)")
	fs.String(flagLogLevel, "info", "log level: debug, info, warn, error")

	if err := bindFlags(a.v, fs); err != nil {
		panic(err)
	}
	return cmd
}

// bindFlags makes every flag readable through v, with MD2WORD_* environment
// variables as defaults.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var err error
	fs.VisitAll(func(f *pflag.Flag) {
		err = errors.CombineErrors(err, v.BindPFlag(f.Name, f))
	})
	return err
}

func (a *app) setupLogging() error {
	level, err := logging.ParseLevel(a.v.GetString(flagLogLevel))
	if err != nil {
		return err
	}
	a.level = level
	logging.SetLogger(logging.New(a.errOut, level))
	return nil
}

func (a *app) run(cmd *cobra.Command, args []string) error {
	if a.v.GetBool(flagListPresets) {
		printPresets(a.out)
		return nil
	}

	opts, err := a.options()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return a.auto(cmd.Context(), opts)
	}

	input := args[0]
	if _, err := os.Stat(input); err != nil {
		return errors.WithHint(errors.Wrap(err, "input file"), "check the path of the Markdown file")
	}

	conv := md2word.Open(input).WithOptions(opts)
	if len(args) == 2 {
		conv = conv.Output(args[1])
	}
	res, warnings, err := conv.Convert(cmd.Context())
	if err != nil {
		return err
	}
	printWarnings(a.out, warnings)
	printSummary(a.out, res.Style, res.Output)
	return nil
}

// options resolves the style once so the renderer can be built from its
// diagram section.
func (a *app) options() (md2word.Options, error) {
	opts := md2word.DefaultOptions()
	opts.Preset = a.v.GetString(flagPreset)
	opts.ConfigFile = a.v.GetString(flagConfig)
	opts.Template = a.v.GetString(flagTemplate)

	cfg, warnings, err := opts.ResolveStyle()
	if err != nil {
		return opts, err
	}
	opts.Style = cfg
	printWarnings(a.out, warnings)

	switch {
	case opts.ConfigFile != "" && len(warnings) == 0:
		logging.Logger().Info("using style file", "path", opts.ConfigFile)
	case opts.ConfigFile != "":
		logging.Logger().Info("using preset", "preset", style.DefaultPreset)
	default:
		logging.Logger().Info("using preset", "preset", opts.Preset)
	}

	if path := a.v.GetString(flagRenderer); path != "" {
		r := diagram.NewRenderer(cfg.Diagram)
		r.Command = path
		opts.Renderer = r
	}
	return opts, nil
}

// auto converts every Markdown file in the working directory.
func (a *app) auto(ctx context.Context, opts md2word.Options) error {
	paths, err := md2word.FindMarkdown(a.dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		printNoInput(a.out)
		return nil
	}

	fmt.Fprintf(a.out, "找到 %d 个Markdown文件:\n", len(paths))
	for i, p := range paths {
		fmt.Fprintf(a.out, "  %d. %s\n", i+1, p)
	}

	results, err := md2word.ConvertAll(ctx, paths, opts)
	if err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Fprintf(a.out, "处理 %s 时出错: %v\n", r.Input, r.Err)
		}
	}
	fmt.Fprintf(a.out, "\n转换完成！成功处理 %d/%d 个文件\n", len(results)-failed, len(results))
	printSummary(a.out, opts.Style, "")

	if failed > 0 {
		return errors.Wrapf(errConversionFailed, "%d of %d files", failed, len(results))
	}
	return nil
}

// report prints err with its hints. The full error chain with stack traces
// follows at debug level, and always for a panic together with the stack
// of the panicking goroutine.
func (a *app) report(err error) {
	fmt.Fprintf(a.errOut, "错误: %v\n", err)
	for _, hint := range errors.GetAllHints(err) {
		fmt.Fprintf(a.errOut, "  提示: %s\n", hint)
	}
	panicked := errors.Is(err, md2word.ErrPanic)
	if a.level <= log.DebugLevel || panicked {
		fmt.Fprintf(a.errOut, "%+v\n", err)
	}
	if panicked {
		for _, d := range errors.GetAllDetails(err) {
			fmt.Fprintln(a.errOut, d)
		}
	}
}
