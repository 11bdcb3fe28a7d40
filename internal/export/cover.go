package export

import (
	"bytes"
	"fmt"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"

	dm "stajdefteri/internal/models/domain_models"
)

const (
	coverWidth  = 1200
	coverHeight = 600
)

var (
	coverBackground = color.RGBA{R: 0x1f, G: 0x3a, B: 0x5f, A: 0xff}
	coverAccent     = color.RGBA{R: 0xf2, G: 0xa9, B: 0x00, A: 0xff}
)

func loadFace(ttf []byte, size float64) (font.Face, error) {
	parsed, err := truetype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return truetype.NewFace(parsed, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	}), nil
}

// RenderCover draws the title banner placed at the top of DOCX and PDF
// exports and returns it as PNG.
func RenderCover(p dm.StudentProfile, firstDate, lastDate string) ([]byte, error) {
	title, err := loadFace(gobold.TTF, 72)
	if err != nil {
		return nil, err
	}
	body, err := loadFace(goregular.TTF, 34)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(coverWidth, coverHeight)
	dc.SetColor(coverBackground)
	dc.DrawRectangle(0, 0, coverWidth, coverHeight)
	dc.Fill()

	dc.SetColor(coverAccent)
	dc.DrawRectangle(80, 210, 240, 8)
	dc.Fill()

	dc.SetColor(color.White)
	dc.SetFontFace(title)
	dc.DrawString("STAJ DEFTERİ", 80, 180)

	dc.SetFontFace(body)
	y := 290.0
	for _, line := range coverLines(p, firstDate, lastDate) {
		dc.DrawString(line, 80, y)
		y += 52
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode cover: %w", err)
	}
	return buf.Bytes(), nil
}

func coverLines(p dm.StudentProfile, firstDate, lastDate string) []string {
	var lines []string
	if name := strings.TrimSpace(p.Name); name != "" {
		lines = append(lines, name)
	}
	org := strings.TrimSpace(strings.Join(nonEmpty(p.Company, p.Department), " / "))
	if org != "" {
		lines = append(lines, org)
	}
	if f := strings.TrimSpace(p.Field); f != "" {
		lines = append(lines, f)
	}
	if firstDate != "" && lastDate != "" {
		lines = append(lines, firstDate+" - "+lastDate)
	}
	return lines
}

func nonEmpty(vals ...string) []string {
	out := vals[:0:0]
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
