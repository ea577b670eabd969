//go:build !windows

package md2word

import (
	"os"

	"github.com/google/renameio/v2"
)

// writeFileAtomic replaces filename through a temp file and rename, so a
// reader never sees a half-written document.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(filename, data, perm)
}
