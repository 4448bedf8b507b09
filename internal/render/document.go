package render

import "time"

// Kind identifies a drawing instruction
type Kind int

const (
	KindText Kind = iota
	KindLine
	KindPageBreak
)

// String returns the kind name
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindLine:
		return "line"
	case KindPageBreak:
		return "page-break"
	default:
		return "unknown"
	}
}

// Align is the horizontal alignment of text inside its cell
type Align string

const (
	AlignLeft  Align = "L"
	AlignRight Align = "R"
)

// Font is a Helvetica style ("" or "B") and point size
type Font struct {
	Style string
	Size  float64
}

// Instruction is one absolute-position drawing step. Coordinates are
// millimetres from the top-left corner of the current page.
//
// Text fills a cell of Width x Height at (X, Y). Line runs from (X, Y) to
// (X2, Y2). PageBreak starts a new page.
type Instruction struct {
	Kind   Kind
	X, Y   float64
	X2, Y2 float64
	Width  float64
	Height float64
	Align  Align
	Font   Font
	Text   string
}

// Document is a paginated list of drawing instructions
type Document struct {
	Title        string
	Issued       time.Time
	PageWidth    float64
	PageHeight   float64
	Instructions []Instruction
}

// PageCount returns the number of pages the document spans
func (d *Document) PageCount() int {
	pages := 1
	for _, in := range d.Instructions {
		if in.Kind == KindPageBreak {
			pages++
		}
	}
	return pages
}

// Pages splits the instructions at page breaks
func (d *Document) Pages() [][]Instruction {
	pages := [][]Instruction{{}}
	for _, in := range d.Instructions {
		if in.Kind == KindPageBreak {
			pages = append(pages, []Instruction{})
			continue
		}
		last := len(pages) - 1
		pages[last] = append(pages[last], in)
	}
	return pages
}

// Texts returns the text of every text instruction, in order
func (d *Document) Texts() []string {
	var out []string
	for _, in := range d.Instructions {
		if in.Kind == KindText {
			out = append(out, in.Text)
		}
	}
	return out
}
