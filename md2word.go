// Package md2word provides a fluent API for converting Markdown documents
// to Word (.docx) files.
//
// Basic usage:
//
//	res, warnings, err := md2word.Open("report.md").Convert(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", md2word.FormatWarnings(warnings))
//	}
//	fmt.Println("written to", res.Output)
//
// With options:
//
//	res, _, err := md2word.Open("thesis.md").
//	    Preset("academic").
//	    Template("school.docx").
//	    Output("thesis.docx").
//	    Convert(ctx)
//
// The lower-level convert and docx packages are available for callers that
// want to inspect or modify the document model before it is written.
package md2word

// Open returns a Converter for the Markdown file at filename. The file is
// read when a terminal operation runs.
//
// Example:
//
//	res, warnings, err := md2word.Open("notes.md").Convert(ctx)
func Open(filename string) *Converter {
	return &Converter{
		filename: filename,
		options:  DefaultOptions(),
	}
}

// FromBytes returns a Converter for Markdown source held in memory. name is
// used for output naming and to resolve relative image paths; it may be
// empty, in which case Output must be set before Convert and diagrams are
// always rendered as text.
//
// Example:
//
//	var buf bytes.Buffer
//	warnings, err := md2word.FromBytes("notes.md", src).WriteTo(ctx, &buf)
func FromBytes(name string, data []byte) *Converter {
	return &Converter{
		filename: name,
		data:     data,
		inMemory: true,
		options:  DefaultOptions(),
	}
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	cfg := md2word.Must(style.Preset("report"))
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustConvert is a helper that wraps a call to Convert or Document and
// panics if the error is non-nil. It discards warnings and returns just the
// value.
//
// Example:
//
//	res := md2word.MustConvert(md2word.Open("notes.md").Convert(ctx))
func MustConvert[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
