// Package inline parses inline Markdown emphasis into formatted runs and
// converts ASCII quotation marks to paired typographic quotes.
package inline

import (
	"strings"
	"unicode"
)

const (
	openDouble  = '“'
	closeDouble = '”'
	openSingle  = '‘'
	closeSingle = '’'
)

// ConvertQuotes replaces straight quotes with alternating open and close
// quotes. The toggles start closed on every call. A single quote with a
// letter on both sides is an apostrophe and is kept. Every run of backticks
// flips an in-code flag, and quotes inside code are kept.
func ConvertQuotes(text string) string {
	if !strings.ContainsAny(text, `"'`) {
		return text
	}

	src := []rune(text)
	var sb strings.Builder
	sb.Grow(len(text) + 8)

	inCode := false
	doubleOpen := false
	singleOpen := false

	for i := 0; i < len(src); i++ {
		ch := src[i]
		switch {
		case ch == '`':
			j := i
			for j < len(src) && src[j] == '`' {
				sb.WriteRune('`')
				j++
			}
			inCode = !inCode
			i = j - 1
		case inCode:
			sb.WriteRune(ch)
		case ch == '"':
			if doubleOpen {
				sb.WriteRune(closeDouble)
			} else {
				sb.WriteRune(openDouble)
			}
			doubleOpen = !doubleOpen
		case ch == '\'':
			if i > 0 && i+1 < len(src) && unicode.IsLetter(src[i-1]) && unicode.IsLetter(src[i+1]) {
				sb.WriteRune(ch)
				continue
			}
			if singleOpen {
				sb.WriteRune(closeSingle)
			} else {
				sb.WriteRune(openSingle)
			}
			singleOpen = !singleOpen
		default:
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}
