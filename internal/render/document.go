// Copyright 2026 The Nitroviz Authors
// SPDX-License-Identifier: MIT

// Package render assembles report documents into standalone HTML pages and
// writes them to disk.
package render

import (
	"html/template"

	"github.com/davetashner/nitroviz/internal/chart"
)

// Kind identifies how a Block is rendered.
type Kind string

// Block kinds.
const (
	KindH2        Kind = "h2"
	KindH3        Kind = "h3"
	KindH4        Kind = "h4"
	KindParagraph Kind = "p"
	KindList      Kind = "ul"
	KindBox       Kind = "box"
	KindFigure    Kind = "figure"
	KindTable     Kind = "table"
	KindRaw       Kind = "raw"
)

// Block is one element of a report body. Boxes nest other blocks.
type Block struct {
	Kind     Kind
	Text     string
	HTML     template.HTML
	Items    []template.HTML
	Class    string
	Figure   *chart.Figure
	Table    *chart.Table
	Children []Block

	id string
}

// Document is a complete report page.
type Document struct {
	Title    string
	Heading  string
	Subtitle string

	// CSS is appended after the base stylesheet.
	CSS template.CSS
	// Head is injected into <head> after the plotly script.
	Head template.HTML

	Blocks []Block

	// Stamped by the pipeline before rendering.
	RunID    string
	Revision string
}

// Add appends blocks to the document body.
func (d *Document) Add(blocks ...Block) *Document {
	d.Blocks = append(d.Blocks, blocks...)
	return d
}

// Figures returns every figure in document order.
func (d *Document) Figures() []*chart.Figure {
	var out []*chart.Figure
	walk(d.Blocks, func(b *Block) {
		if b.Kind == KindFigure && b.Figure != nil {
			out = append(out, b.Figure)
		}
	})
	return out
}

// Tables returns every table in document order.
func (d *Document) Tables() []*chart.Table {
	var out []*chart.Table
	walk(d.Blocks, func(b *Block) {
		if b.Kind == KindTable && b.Table != nil {
			out = append(out, b.Table)
		}
	})
	return out
}

func walk(blocks []Block, fn func(*Block)) {
	for i := range blocks {
		fn(&blocks[i])
		walk(blocks[i].Children, fn)
	}
}

// H2 is a green banner heading.
func H2(text string) Block { return Block{Kind: KindH2, Text: text} }

// H3 is a section heading.
func H3(text string) Block { return Block{Kind: KindH3, Text: text} }

// H4 is a box heading.
func H4(text string) Block { return Block{Kind: KindH4, Text: text} }

// P is a paragraph of trusted markup.
func P(html template.HTML) Block { return Block{Kind: KindParagraph, HTML: html} }

// List is a bulleted list of trusted markup.
func List(items ...template.HTML) Block { return Block{Kind: KindList, Items: items} }

// Box wraps children in a div with the given class.
func Box(class string, children ...Block) Block {
	return Block{Kind: KindBox, Class: class, Children: children}
}

// Section is a white analysis card.
func Section(children ...Block) Block { return Box("analysis-section", children...) }

// Figure embeds a plotly figure.
func Figure(f *chart.Figure) Block { return Block{Kind: KindFigure, Figure: f} }

// Table embeds an HTML table.
func Table(t *chart.Table) Block { return Block{Kind: KindTable, Table: t} }

// Raw embeds trusted markup verbatim.
func Raw(html template.HTML) Block { return Block{Kind: KindRaw, HTML: html} }
