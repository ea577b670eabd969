package model

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ElementType represents the type of document element
type ElementType int

const (
	ElementTypeUnknown ElementType = iota
	ElementTypeParagraph
	ElementTypeHeading
	ElementTypeListItem
	ElementTypeQuote
	ElementTypeCodeBlock
	ElementTypeTable
	ElementTypeImage
	ElementTypeHorizontalRule
)

func (et ElementType) String() string {
	switch et {
	case ElementTypeParagraph:
		return "Paragraph"
	case ElementTypeHeading:
		return "Heading"
	case ElementTypeListItem:
		return "ListItem"
	case ElementTypeQuote:
		return "Quote"
	case ElementTypeCodeBlock:
		return "CodeBlock"
	case ElementTypeTable:
		return "Table"
	case ElementTypeImage:
		return "Image"
	case ElementTypeHorizontalRule:
		return "HorizontalRule"
	default:
		return "Unknown"
	}
}

// Element is the interface for all block elements
type Element interface {
	Type() ElementType
}

// TextElement is an interface for elements containing text
type TextElement interface {
	Element
	GetText() string
}

// Paragraph represents a body paragraph. A Spacer paragraph is an empty
// line inserted for vertical spacing.
type Paragraph struct {
	Runs   []Run
	Spacer bool
}

func (p *Paragraph) Type() ElementType { return ElementTypeParagraph }
func (p *Paragraph) GetText() string   { return TextOf(p.Runs) }

// Heading represents a heading
type Heading struct {
	Level int // 1-4
	Runs  []Run
}

func (h *Heading) Type() ElementType { return ElementTypeHeading }
func (h *Heading) GetText() string   { return TextOf(h.Runs) }

// ListKind distinguishes list items.
type ListKind int

const (
	ListBullet ListKind = iota
	ListNumbered
	ListTask
)

func (k ListKind) String() string {
	switch k {
	case ListNumbered:
		return "numbered"
	case ListTask:
		return "task"
	default:
		return "bullet"
	}
}

// ListItem is a single list line. Marker is the glyph written before the
// text (bullet or checkbox); numbered items keep their digits in Runs and
// have no Marker.
type ListItem struct {
	Kind    ListKind
	Marker  string
	Checked bool
	Runs    []Run
}

func (l *ListItem) Type() ElementType { return ElementTypeListItem }
func (l *ListItem) GetText() string {
	if l.Marker == "" {
		return TextOf(l.Runs)
	}
	return l.Marker + " " + TextOf(l.Runs)
}

// QuoteLine is one line of a block quote. Marker holds an indented list
// marker carried over from the source line. Blank lines keep the quote's
// paragraph format but are not shaded.
type QuoteLine struct {
	Marker string
	Runs   []Run
	Blank  bool
}

// Quote represents a block quote.
type Quote struct {
	Lines []QuoteLine
}

func (q *Quote) Type() ElementType { return ElementTypeQuote }
func (q *Quote) GetText() string {
	lines := make([]string, len(q.Lines))
	for i, l := range q.Lines {
		lines[i] = l.Marker + TextOf(l.Runs)
	}
	return strings.Join(lines, "\n")
}

// CodeBlock represents fenced code. Language may be empty.
type CodeBlock struct {
	Language string
	Lines    []string
}

func (c *CodeBlock) Type() ElementType { return ElementTypeCodeBlock }
func (c *CodeBlock) GetText() string   { return strings.Join(c.Lines, "\n") }

// HorizontalRule represents a thematic break.
type HorizontalRule struct{}

func (h *HorizontalRule) Type() ElementType { return ElementTypeHorizontalRule }

// Image represents an embedded raster image with its display size.
type Image struct {
	Data     []byte
	Format   ImageFormat
	WidthCM  float64
	HeightCM float64
	// Name is the file name used inside the container.
	Name string
	// Alt text if available
	AltText string
}

func (i *Image) Type() ElementType { return ElementTypeImage }

// ImageFormat represents image format
type ImageFormat int

const (
	ImageFormatUnknown ImageFormat = iota
	ImageFormatJPEG
	ImageFormatPNG
	ImageFormatGIF
)

// Extension returns the file extension including the dot.
func (f ImageFormat) Extension() string {
	switch f {
	case ImageFormatJPEG:
		return ".jpeg"
	case ImageFormatPNG:
		return ".png"
	case ImageFormatGIF:
		return ".gif"
	default:
		return ".bin"
	}
}

// MIMEType returns the content type of the format.
func (f ImageFormat) MIMEType() string {
	switch f {
	case ImageFormatJPEG:
		return "image/jpeg"
	case ImageFormatPNG:
		return "image/png"
	case ImageFormatGIF:
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}

// PageNumberField is the footer page counter. In Format every "1" stands
// for the current page and every "x" for the total page count.
type PageNumberField struct {
	Format    string
	Alignment TextAlignment
	Font      string
	Size      float64
}

// TextAlignment represents text alignment
type TextAlignment int

const (
	AlignLeft TextAlignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a TextAlignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// ParseAlignment maps a configuration value to an alignment. Unknown values
// are left aligned.
func ParseAlignment(s string) TextAlignment {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center", "centre":
		return AlignCenter
	case "right":
		return AlignRight
	case "justify", "both":
		return AlignJustify
	default:
		return AlignLeft
	}
}

// Color represents an RGB color
type Color struct {
	R, G, B uint8
}

// ParseHexColor parses "#RRGGBB" or "RRGGBB".
func ParseHexColor(s string) (Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return Color{}, errors.Newf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Color{}, errors.Wrapf(err, "invalid color %q", s)
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}

// Hex returns the colour as upper-case RRGGBB without a leading '#'.
func (c Color) Hex() string {
	const digits = "0123456789ABCDEF"
	b := []byte{
		digits[c.R>>4], digits[c.R&0x0F],
		digits[c.G>>4], digits[c.G&0x0F],
		digits[c.B>>4], digits[c.B&0x0F],
	}
	return string(b)
}
