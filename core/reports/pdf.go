package reports

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
)

const (
	pdfMargin     = 20.0
	pdfFont       = "Helvetica"
	pdfTitleSize  = 18.0
	pdfHeaderSize = 14.0
	pdfBodySize   = 10.0
)

// pdfWriter draws lines top-down and starts a new page when the next line
// would cross the bottom margin.
type pdfWriter struct {
	pdf    *fpdf.Fpdf
	tr     func(string) string
	y      float64
	width  float64
	bottom float64
}

func newPDFWriter(title string) *pdfWriter {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("itsm-desk", true)
	pdf.AddPage()
	w, h := pdf.GetPageSize()
	return &pdfWriter{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		y:      pdfMargin,
		width:  w - 2*pdfMargin,
		bottom: h - pdfMargin,
	}
}

func (w *pdfWriter) ensure(height float64) {
	if w.y+height > w.bottom {
		w.pdf.AddPage()
		w.y = pdfMargin
	}
}

func (w *pdfWriter) line(indent, size float64, style, text string, advance float64) {
	w.pdf.SetFont(pdfFont, style, size)
	parts := w.pdf.SplitText(w.tr(text), w.width-indent)
	if len(parts) == 0 {
		parts = []string{""}
	}
	for _, part := range parts {
		w.ensure(advance)
		w.pdf.Text(pdfMargin+indent, w.y, part)
		w.y += advance
	}
}

func (w *pdfWriter) title(text string) {
	w.line(0, pdfTitleSize, "B", text, 12)
}

func (w *pdfWriter) heading(text string) {
	w.gap(4)
	w.line(0, pdfHeaderSize, "B", text, 9)
}

func (w *pdfWriter) text(text string) {
	w.line(0, pdfBodySize, "", text, 6)
}

func (w *pdfWriter) item(text string) {
	w.line(5, pdfBodySize, "", text, 6)
}

func (w *pdfWriter) gap(h float64) {
	w.y += h
}

func (w *pdfWriter) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := w.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (w *pdfWriter) pages() int {
	return w.pdf.PageCount()
}

// tablePDF writes each row as a numbered block of "Header: value" lines.
func tablePDF(t Table, generated string) ([]byte, error) {
	w := newPDFWriter(t.Title)
	w.title(t.Title)
	w.text("Generated: " + generated)
	w.text(fmt.Sprintf("Records: %d", len(t.Rows)))
	w.gap(4)
	for i, row := range t.Rows {
		w.ensure(6 * float64(len(t.Columns)+1))
		w.line(0, pdfBodySize, "B", fmt.Sprintf("%d.", i+1), 6)
		for _, c := range t.Columns {
			w.item(c.Header + ": " + row[c.Key])
		}
		w.gap(3)
	}
	return w.bytes()
}
