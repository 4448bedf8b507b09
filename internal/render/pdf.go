package render

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
	"golang.org/x/text/unicode/norm"
)

const (
	fontFamily = "Helvetica"
	creator    = "gemvoice"
)

// Backend writes a laid-out Document in some output format
type Backend interface {
	Write(doc *Document, w io.Writer) error
}

// PDFBackend replays a Document onto gofpdf pages. Text is composed to NFC
// before the cp1252 translation, which only maps precomposed characters.
type PDFBackend struct {
	translate func(string) string
}

// NewPDFBackend loads the cp1252 code page used to map text onto the core
// Helvetica font. Loading can fail, so callers create the backend lazily.
func NewPDFBackend() (*PDFBackend, error) {
	probe := gofpdf.New("P", "mm", "A4", "")
	translate := probe.UnicodeTranslatorFromDescriptor("")
	if err := probe.Error(); err != nil {
		return nil, fmt.Errorf("failed to load code page: %w", err)
	}
	return &PDFBackend{translate: translate}, nil
}

// Write renders doc as PDF. Creation and modification dates are pinned to
// the document's issue date and catalog entries are sorted, so identical
// documents produce identical bytes.
func (b *PDFBackend) Write(doc *Document, w io.Writer) error {
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: doc.PageWidth, Ht: doc.PageHeight},
	})
	pdf.SetCreationDate(doc.Issued)
	pdf.SetModificationDate(doc.Issued)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator(creator, true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	for _, in := range doc.Instructions {
		switch in.Kind {
		case KindPageBreak:
			pdf.AddPage()
		case KindLine:
			pdf.SetLineWidth(0.3)
			pdf.Line(in.X, in.Y, in.X2, in.Y2)
		case KindText:
			pdf.SetFont(fontFamily, in.Font.Style, in.Font.Size)
			pdf.SetXY(in.X, in.Y)
			pdf.CellFormat(in.Width, in.Height, b.translate(norm.NFC.String(in.Text)), "", 0, string(in.Align), false, 0, "")
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
