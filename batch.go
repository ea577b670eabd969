package md2word

import (
	"context"
	"os"
	"path/filepath"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/tsawler/md2word/format"
	"github.com/tsawler/md2word/logging"
)

// FileResult is the outcome of one file in ConvertAll.
type FileResult struct {
	Result
	Warnings []Warning
	Err      error
}

// ConvertAll converts each path to its default output name with the same
// options. A failing file is recorded in its FileResult and never stops
// the files after it. The style is resolved once for the whole run; an
// unknown preset is returned as the error and nothing is converted.
func ConvertAll(ctx context.Context, paths []string, opts Options) ([]FileResult, error) {
	cfg, cfgWarnings, err := opts.ResolveStyle()
	if err != nil {
		return nil, err
	}
	opts = opts.clone()
	opts.Style = cfg

	results := make([]FileResult, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			results = append(results, FileResult{Result: Result{Input: path}, Err: err})
			continue
		}

		fr := convertOne(ctx, path, opts)
		if len(cfgWarnings) > 0 {
			fr.Warnings = append(slices.Clone(cfgWarnings), fr.Warnings...)
		}
		results = append(results, fr)
	}

	ok := lo.CountBy(results, func(r FileResult) bool { return r.Err == nil })
	logging.Logger().Info("batch conversion finished", "converted", ok, "total", len(paths))
	return results, nil
}

// convertOne converts a single file. A panic comes back from Convert as
// that file's ErrPanic.
func convertOne(ctx context.Context, path string, opts Options) FileResult {
	res, warnings, err := Open(path).WithOptions(opts).Convert(ctx)
	if err != nil {
		logging.Logger().Error("conversion failed", "path", path, "err", err)
		return FileResult{Result: Result{Input: path}, Warnings: warnings, Err: err}
	}
	return FileResult{Result: res, Warnings: warnings}
}

// FindMarkdown returns the Markdown files directly inside dir, sorted by
// name.
func FindMarkdown(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(err, "listing markdown files")
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || format.Detect(e.Name()) != format.Markdown {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}
