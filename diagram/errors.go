package diagram

import "github.com/cockroachdb/errors"

var (
	// ErrRendererNotFound is returned when no mmdc executable can be located.
	ErrRendererNotFound = errors.New("mermaid renderer not found")

	// ErrRenderFailed is returned when the renderer exits with an error.
	ErrRenderFailed = errors.New("mermaid render failed")

	// ErrRenderTimeout is returned when the renderer exceeds its time limit.
	ErrRenderTimeout = errors.New("mermaid render timed out")

	// ErrNoOutput is returned when the renderer succeeds but writes no image.
	ErrNoOutput = errors.New("mermaid renderer produced no image")
)
