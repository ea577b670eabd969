package md2word

import (
	"runtime/debug"

	"github.com/cockroachdb/errors"

	"github.com/tsawler/md2word/logging"
)

var (
	// ErrNoInput is returned when a Converter has no input file.
	ErrNoInput = errors.New("no input file")

	// ErrUnsupportedInput is returned when the input is not Markdown text.
	ErrUnsupportedInput = errors.New("unsupported input format")

	// ErrNoOutput is returned when an in-memory source has no name to
	// derive the output file from and Output was not set.
	ErrNoOutput = errors.New("no output file")

	// ErrPanic is returned when a conversion panicked. The goroutine stack
	// of the panic is attached as error detail.
	ErrPanic = errors.New("conversion panicked")
)

// recoverPanic turns a panic into an ErrPanic stored in *errp. It must be
// deferred directly.
func recoverPanic(name string, errp *error) {
	r := recover()
	if r == nil {
		return
	}
	err := errors.WithDetail(errors.Wrapf(ErrPanic, "converting %s: %v", name, r), string(debug.Stack()))
	logging.Logger().Error("conversion panicked", "path", name, "err", err)
	*errp = err
}
