package export

import (
	"bytes"
	"fmt"

	"github.com/fumiama/go-docx"

	"stajdefteri/pkg/utils"
)

// Word places inline pictures at their pixel size, so images are shrunk to
// fit the text column first.
const docxImageWidth = 600

// RenderDOCX writes the document as a Word file.
func RenderDOCX(doc Document) ([]byte, error) {
	w := docx.New().WithDefaultTheme().WithA4Page()

	if len(doc.Cover) > 0 {
		if err := addPicture(w, doc.Cover, docxImageWidth); err != nil {
			return nil, fmt.Errorf("docx cover: %w", err)
		}
	}

	for _, s := range doc.Sections {
		w.AddParagraph().AddText(s.Heading).Size("32").Bold()
		w.AddParagraph().AddText(s.CategoryLabel + ": " + s.Topic).Size("22").Italic()
		if s.Title != "" {
			w.AddParagraph().AddText(s.Title).Size("26").Bold()
		}
		for _, p := range s.Paragraphs {
			w.AddParagraph().AddText(p).Size("22")
		}
		if len(s.Image) > 0 {
			if err := addPicture(w, s.Image, docxImageWidth); err != nil {
				return nil, fmt.Errorf("docx image day %d: %w", s.DayNumber, err)
			}
			if s.Caption != "" {
				w.AddParagraph().Justification("center").AddText(s.Caption).Size("18").Italic()
			}
		}
		w.AddParagraph()
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("docx write: %w", err)
	}
	return buf.Bytes(), nil
}

func addPicture(w *docx.Docx, data []byte, maxWidth int) error {
	resized, _, err := utils.NormalizeToJPEG(data, maxWidth, maxWidth*2)
	if err != nil {
		return err
	}
	_, err = w.AddParagraph().Justification("center").AddInlineDrawing(resized)
	return err
}
