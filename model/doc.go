// Package model provides the intermediate representation (IR) of a document
// produced from Markdown and consumed by the Word writer.
//
// # Document Structure
//
// The [Document] type is an ordered list of block elements plus metadata and
// an optional footer page-number field:
//
//	doc := model.NewDocument()
//	doc.Metadata.Title = "起诉状"
//	doc.Add(&model.Heading{Level: 1, Runs: model.PlainRuns("起诉状")})
//
// # Elements
//
// All blocks implement the [Element] interface. The concrete types are:
//
//   - [Heading] - headings (levels 1-4)
//   - [Paragraph] - body paragraphs and blank spacers
//   - [ListItem] - bullet, numbered and task list items
//   - [Quote] - block quotes, one entry per source line
//   - [CodeBlock] - fenced code
//   - [Table] - a header row plus body rows of [Cell] values
//   - [Image] - embedded raster images
//   - [HorizontalRule] - thematic breaks
//
// # Runs
//
// Text-bearing blocks own an ordered list of [Run] values. A run is a span of
// text with one [Format] flag set, or a hard line break.
package model
