// Package textenc decodes Markdown source bytes. Input is expected to be
// UTF-8; files saved by older Chinese Windows editors are GBK and are
// decoded with that fallback.
package textenc

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// Encoding names reported by Decode.
const (
	UTF8 = "utf-8"
	GBK  = "gbk"
)

// ErrUndecodable is returned when data is neither UTF-8 nor GBK.
var ErrUndecodable = errors.New("input is neither UTF-8 nor GBK")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Decode returns data as a string and the encoding it was read with.
// A UTF-8 byte order mark is dropped.
func Decode(data []byte) (string, string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), UTF8, nil
	}

	out, err := simplifiedchinese.GBK.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", errors.Wrap(ErrUndecodable, err.Error())
	}
	if !utf8.Valid(out) || bytes.ContainsRune(out, utf8.RuneError) {
		return "", "", ErrUndecodable
	}
	return string(out), GBK, nil
}

// Lines splits text into lines, accepting \n and \r\n endings. A trailing
// newline does not produce an empty final line.
func Lines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
