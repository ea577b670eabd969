package docx

import "github.com/cockroachdb/errors"

var (
	// ErrInvalidTemplate is returned when a template file is not a DOCX
	// package.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrMissingPart is returned when a required package part is absent.
	ErrMissingPart = errors.New("missing package part")
)
