//go:build windows

package md2word

import "os"

// writeFileAtomic writes filename directly; renameio does not support
// Windows.
func writeFileAtomic(filename string, data []byte, perm os.FileMode) error {
	return os.WriteFile(filename, data, perm)
}
