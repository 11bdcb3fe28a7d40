package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

const (
	pdfFont      = "go"
	pdfMargin    = 20.0
	pdfTextWidth = 210.0 - 2*pdfMargin
	pdfLine      = 6.0
)

// RenderPDF writes the document as an A4 PDF. The Go fonts carry the
// Turkish glyphs the core PDF fonts lack.
func RenderPDF(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddUTF8FontFromBytes(pdfFont, "", goregular.TTF)
	pdf.AddUTF8FontFromBytes(pdfFont, "B", gobold.TTF)
	pdf.AddUTF8FontFromBytes(pdfFont, "I", goitalic.TTF)
	pdf.SetTitle("Staj Defteri", true)
	pdf.SetAuthor(doc.Profile.Name, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont(pdfFont, "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()
	if len(doc.Cover) > 0 {
		addPDFImage(pdf, "cover", "PNG", doc.Cover)
		pdf.Ln(pdfLine)
	}

	for i, s := range doc.Sections {
		if i > 0 {
			pdf.Ln(pdfLine)
		}
		pdf.SetFont(pdfFont, "B", 14)
		pdf.MultiCell(pdfTextWidth, 8, s.Heading, "", "L", false)
		pdf.SetFont(pdfFont, "I", 10)
		pdf.MultiCell(pdfTextWidth, pdfLine, s.CategoryLabel+": "+s.Topic, "", "L", false)
		if s.Title != "" {
			pdf.SetFont(pdfFont, "B", 12)
			pdf.MultiCell(pdfTextWidth, 7, s.Title, "", "L", false)
		}
		pdf.SetFont(pdfFont, "", 11)
		for _, p := range s.Paragraphs {
			pdf.MultiCell(pdfTextWidth, pdfLine, p, "", "J", false)
			pdf.Ln(2)
		}
		if len(s.Image) > 0 {
			addPDFImage(pdf, fmt.Sprintf("day-%d", s.DayNumber), "JPG", s.Image)
			if s.Caption != "" {
				pdf.SetFont(pdfFont, "I", 9)
				pdf.MultiCell(pdfTextWidth, 5, s.Caption, "", "C", false)
			}
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("pdf render: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf write: %w", err)
	}
	return buf.Bytes(), nil
}

// addPDFImage places the image at the current position across the text
// width, keeping its aspect ratio.
func addPDFImage(pdf *fpdf.Fpdf, name, imageType string, data []byte) {
	opts := fpdf.ImageOptions{ImageType: imageType}
	info := pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
	if info == nil {
		return
	}
	pdf.ImageOptions(name, pdfMargin, pdf.GetY(), pdfTextWidth, 0, true, opts, 0, "")
	pdf.Ln(2)
}
