package model

import (
	"strings"
	"time"
)

// Document represents a converted document
type Document struct {
	Metadata Metadata
	Elements []Element
	// PageNumber is the footer page field, nil when disabled.
	PageNumber *PageNumberField
}

// Metadata contains document-level information
type Metadata struct {
	Title        string
	Author       string
	Subject      string
	Keywords     []string
	Creator      string
	CreationDate time.Time
	ModDate      time.Time
	// Custom metadata
	Custom map[string]string
}

// NewDocument creates a new empty document
func NewDocument() *Document {
	return &Document{
		Metadata: Metadata{
			Custom: make(map[string]string),
		},
		Elements: make([]Element, 0),
	}
}

// Add appends elements to the document
func (d *Document) Add(els ...Element) {
	d.Elements = append(d.Elements, els...)
}

// Len returns the number of elements
func (d *Document) Len() int {
	return len(d.Elements)
}

// Last returns the most recently added element, or nil
func (d *Document) Last() Element {
	if len(d.Elements) == 0 {
		return nil
	}
	return d.Elements[len(d.Elements)-1]
}

// Count returns the number of elements of the given type
func (d *Document) Count(t ElementType) int {
	n := 0
	for _, el := range d.Elements {
		if el.Type() == t {
			n++
		}
	}
	return n
}

// ExtractText returns the text of all text elements separated by newlines
func (d *Document) ExtractText() string {
	var sb strings.Builder
	for _, el := range d.Elements {
		if te, ok := el.(TextElement); ok {
			sb.WriteString(te.GetText())
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Tables returns all tables in document order
func (d *Document) Tables() []*Table {
	var tables []*Table
	for _, el := range d.Elements {
		if t, ok := el.(*Table); ok {
			tables = append(tables, t)
		}
	}
	return tables
}

// Headings returns all headings in document order
func (d *Document) Headings() []*Heading {
	var headings []*Heading
	for _, el := range d.Elements {
		if h, ok := el.(*Heading); ok {
			headings = append(headings, h)
		}
	}
	return headings
}

// Images returns all images in document order
func (d *Document) Images() []*Image {
	var images []*Image
	for _, el := range d.Elements {
		if img, ok := el.(*Image); ok {
			images = append(images, img)
		}
	}
	return images
}
