// Package render lays an invoice snapshot out onto fixed-size A4 pages and
// writes the result as PDF.
//
// Layout is pure: the same snapshot always produces the same
// Document. The PDF backend replays a Document without making layout
// decisions of its own.
package render

import (
	"fmt"
	"time"

	"github.com/andy/gemvoice/internal/domain"
	"github.com/andy/gemvoice/internal/money"
)

// DateLayout formats the issue date as "dd MonthName yyyy"
const DateLayout = "02 January 2006"

// Options holds the page geometry in millimetres
type Options struct {
	Title         string
	InvoiceNumber string

	PageWidth  float64
	PageHeight float64
	MarginTop  float64
	MarginLeft float64
	RightEdge  float64
	PageBottom float64 // nothing is drawn below this line

	TitleY            float64
	DateY             float64
	NumberY           float64
	AddressY          float64
	AddressLineHeight float64
	ToX               float64
	AddressGap        float64 // minimum space between the address block and the table

	TableY         float64 // reference table offset
	RowHeight      float64
	BreakThreshold float64 // a row whose top is below this goes to the next page
	TotalsGap      float64

	DescriptionChars int
}

// DefaultOptions returns the A4 portrait layout
func DefaultOptions() Options {
	return Options{
		Title:         "INVOICE",
		InvoiceNumber: "INV-001",

		PageWidth:  210,
		PageHeight: 297,
		MarginTop:  20,
		MarginLeft: 20,
		RightEdge:  190,
		PageBottom: 285,

		TitleY:            20,
		DateY:             32,
		NumberY:           38,
		AddressY:          52,
		AddressLineHeight: 5,
		ToX:               110,
		AddressGap:        8,

		TableY:         95,
		RowHeight:      8,
		BreakThreshold: 270,
		TotalsGap:      5,

		DescriptionChars: 36,
	}
}

type column struct {
	title  string
	offset float64
	width  float64
	align  Align
}

// columns are positioned relative to the left margin and span 170mm
var columns = []column{
	{"Description", 0, 70, AlignLeft},
	{"Pieces", 70, 20, AlignRight},
	{"Carats", 90, 25, AlignRight},
	{"Price", 115, 30, AlignRight},
	{"Amount", 145, 25, AlignRight},
}

var (
	titleFont  = Font{Style: "B", Size: 24}
	labelFont  = Font{Style: "B", Size: 10}
	bodyFont   = Font{Size: 10}
	headerFont = Font{Style: "B", Size: 10}
	totalFont  = Font{Style: "B", Size: 11}
)

type builder struct {
	opts Options
	doc  *Document
}

// Layout turns a snapshot into drawing instructions. The snapshot's TakenAt
// is printed as the invoice date.
//
// Values are drawn as given; a malformed snapshot (for example a negative
// amount) is rendered, not rejected.
func Layout(s domain.Snapshot, opts Options) *Document {
	issued := s.TakenAt
	b := &builder{
		opts: opts,
		doc: &Document{
			Title:      opts.Title,
			Issued:     issued,
			PageWidth:  opts.PageWidth,
			PageHeight: opts.PageHeight,
		},
	}

	b.header(issued)
	addressBottom := b.addresses(s.From, s.To)

	y := max(opts.TableY, addressBottom+opts.AddressGap)
	y = b.tableHeader(y)

	for _, item := range s.Items {
		if y > opts.BreakThreshold {
			b.pageBreak()
			y = opts.MarginTop
		}
		b.row(y, item)
		y += opts.RowHeight
	}

	b.totals(y+opts.TotalsGap, s)
	return b.doc
}

func (b *builder) text(x, y, w float64, align Align, font Font, s string) {
	b.doc.Instructions = append(b.doc.Instructions, Instruction{
		Kind:   KindText,
		X:      x,
		Y:      y,
		Width:  w,
		Height: b.opts.RowHeight,
		Align:  align,
		Font:   font,
		Text:   s,
	})
}

func (b *builder) line(x1, y1, x2, y2 float64) {
	b.doc.Instructions = append(b.doc.Instructions, Instruction{
		Kind: KindLine,
		X:    x1,
		Y:    y1,
		X2:   x2,
		Y2:   y2,
	})
}

func (b *builder) pageBreak() {
	b.doc.Instructions = append(b.doc.Instructions, Instruction{Kind: KindPageBreak})
}

func (b *builder) tableWidth() float64 {
	return b.opts.RightEdge - b.opts.MarginLeft
}

func (b *builder) header(issued time.Time) {
	o := b.opts
	b.text(o.MarginLeft, o.TitleY, b.tableWidth(), AlignLeft, titleFont, o.Title)
	b.text(o.MarginLeft, o.DateY, b.tableWidth(), AlignLeft, bodyFont, "Date: "+issued.Format(DateLayout))
	b.text(o.MarginLeft, o.NumberY, b.tableWidth(), AlignLeft, bodyFont, "Invoice #: "+o.InvoiceNumber)
}

// addresses draws From and To side by side and returns the y just below the
// taller of the two blocks
func (b *builder) addresses(from domain.Address, to *domain.Address) float64 {
	o := b.opts
	bottom := b.address(o.MarginLeft, o.ToX-o.MarginLeft, "From:", from)
	if to != nil {
		if toBottom := b.address(o.ToX, o.RightEdge-o.ToX, "To:", *to); toBottom > bottom {
			bottom = toBottom
		}
	}
	return bottom
}

func (b *builder) address(x, w float64, label string, addr domain.Address) float64 {
	o := b.opts
	y := o.AddressY
	b.text(x, y, w, AlignLeft, labelFont, label)
	for _, line := range addr.Lines() {
		y += o.AddressLineHeight
		b.text(x, y, w, AlignLeft, bodyFont, line)
	}
	return y + o.AddressLineHeight
}

func (b *builder) tableHeader(y float64) float64 {
	for _, col := range columns {
		b.text(b.opts.MarginLeft+col.offset, y, col.width, col.align, headerFont, col.title)
	}
	return y + b.opts.RowHeight
}

func (b *builder) row(y float64, item domain.LineItem) {
	cells := []string{
		Truncate(item.Description, b.opts.DescriptionChars),
		fmt.Sprintf("%d", item.Pieces),
		money.FormatQuantity(item.Carats),
		money.Format(item.Price),
		money.Format(item.Amount),
	}
	for i, col := range columns {
		b.text(b.opts.MarginLeft+col.offset, y, col.width, col.align, bodyFont, cells[i])
	}
}

// totals draws the rule and the subtotal/discount/total lines. The block is
// kept together: if it does not fit above the page bottom it moves to a new page.
func (b *builder) totals(y float64, s domain.Snapshot) {
	o := b.opts

	type totalLine struct {
		label string
		value string
		font  Font
	}
	lines := []totalLine{{"Subtotal", money.Format(s.Totals.Subtotal), bodyFont}}
	if s.HasDiscount() {
		label := fmt.Sprintf("Discount (%s%%)", money.FormatQuantity(s.DiscountPercentage))
		lines = append(lines, totalLine{label, money.Format(s.Totals.DiscountAmount), bodyFont})
	}
	lines = append(lines, totalLine{"Total", money.Format(s.Totals.Total), totalFont})

	height := 2 + float64(len(lines))*o.RowHeight
	if y > o.BreakThreshold || y+height > o.PageBottom {
		b.pageBreak()
		y = o.MarginTop
	}

	b.line(o.MarginLeft, y, o.RightEdge, y)
	y += 2

	amount := columns[len(columns)-1]
	labelWidth := amount.offset - columns[1].offset
	for _, l := range lines {
		b.text(o.MarginLeft+columns[1].offset, y, labelWidth, AlignRight, l.font, l.label)
		b.text(o.MarginLeft+amount.offset, y, amount.width, AlignRight, l.font, l.value)
		y += o.RowHeight
	}
}

// Truncate shortens s to at most n runes, ending in "..." when cut
func Truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 3 {
		return string(r[:n])
	}
	return string(r[:n-3]) + "..."
}
