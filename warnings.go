package md2word

import (
	"fmt"
	"strings"

	"github.com/tsawler/md2word/convert"
)

// Warning is a recoverable problem met during a conversion. The conversion
// still succeeded but the affected block was skipped or rendered as text.
type Warning = convert.Warning

// FormatWarnings renders warnings one per line, prefixed with the source
// line when known.
func FormatWarnings(warnings []Warning) string {
	var sb strings.Builder
	for i, w := range warnings {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if w.Line > 0 {
			fmt.Fprintf(&sb, "line %d: ", w.Line)
		}
		sb.WriteString(w.String())
	}
	return sb.String()
}
