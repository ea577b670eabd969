// Package format provides input, template and image format detection for
// md2word.
package format

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
)

// Format represents a document format md2word reads or writes.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// Markdown indicates Markdown source text.
	Markdown
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// HTML indicates an HTML document.
	HTML
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case Markdown:
		return "Markdown"
	case DOCX:
		return "DOCX"
	case HTML:
		return "HTML"
	default:
		return "Unknown"
	}
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case Markdown:
		return ".md"
	case DOCX:
		return ".docx"
	case HTML:
		return ".html"
	default:
		return ""
	}
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".md", ".markdown", ".mdown", ".mkd":
		return Markdown
	case ".docx", ".dotx":
		return DOCX
	case ".html", ".htm":
		return HTML
	default:
		return Unknown
	}
}

// DetectFromMagic checks leading bytes to determine format.
// Returns Unknown for ZIP archives; use DetectFromReader to look inside them.
func DetectFromMagic(data []byte) Format {
	if len(data) == 0 {
		return Unknown
	}

	// ZIP magic (DOCX is a ZIP archive): PK\x03\x04
	if len(data) >= 4 && data[0] == 0x50 && data[1] == 0x4B && data[2] == 0x03 && data[3] == 0x04 {
		return Unknown
	}

	if detectHTMLMagic(data) {
		return HTML
	}

	if looksLikeText(data) {
		return Markdown
	}

	return Unknown
}

// detectHTMLMagic checks if the data looks like an HTML document.
func detectHTMLMagic(data []byte) bool {
	trimmed := strings.TrimLeft(string(data), " \t\r\n")
	if trimmed == "" {
		return false
	}

	upper := strings.ToUpper(trimmed[:min(500, len(trimmed))])
	if strings.HasPrefix(upper, "<!DOCTYPE HTML") || strings.HasPrefix(upper, "<HTML") {
		return true
	}
	// XML declaration followed by html-like content could be XHTML
	return strings.HasPrefix(upper, "<?XML") && strings.Contains(upper, "<HTML")
}

// looksLikeText reports whether data is text rather than binary. Text may
// be UTF-8 or a legacy multi-byte encoding, so only NUL bytes and the
// sniffed MIME type are considered.
func looksLikeText(data []byte) bool {
	if strings.IndexByte(string(data[:min(512, len(data))]), 0) >= 0 {
		return false
	}
	if utf8.Valid(data) {
		return true
	}
	return strings.HasPrefix(mimetype.Detect(data).String(), "text/")
}

// DetectFromReader inspects the content to determine format. It tells a
// Word document apart from other ZIP archives by looking for word/ parts.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 512)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	if len(magic) >= 4 && magic[0] == 0x50 && magic[1] == 0x4B && magic[2] == 0x03 && magic[3] == 0x04 {
		return detectZIPFormat(r, size)
	}

	return DetectFromMagic(magic), nil
}

// detectZIPFormat reports DOCX when the archive has OOXML content types and
// a word/ part.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	hasTypes, hasWord := false, false
	for _, f := range zr.File {
		switch {
		case f.Name == "[Content_Types].xml":
			hasTypes = true
		case strings.HasPrefix(f.Name, "word/"):
			hasWord = true
		}
	}
	if hasTypes && hasWord {
		return DOCX, nil
	}
	return Unknown, nil
}

// DetectImage sniffs image data and returns its MIME type. ok is true for
// formats the converter can decode: PNG, JPEG, GIF, BMP and WebP.
func DetectImage(data []byte) (mime string, ok bool) {
	m := mimetype.Detect(data)
	for _, supported := range []string{"image/png", "image/jpeg", "image/gif", "image/bmp", "image/webp"} {
		if m.Is(supported) {
			return supported, true
		}
	}
	return m.String(), false
}
