package export

import (
	"bytes"
	"context"
	"errors"
	"testing"

	dm "stajdefteri/internal/models/domain_models"
	"stajdefteri/pkg/logger"
	"stajdefteri/pkg/utils"
)

type stubFetcher struct {
	data  []byte
	calls int
}

func (s *stubFetcher) Fetch(context.Context, string) ([]byte, error) { return s.data, nil }

func (s *stubFetcher) FetchAll(_ context.Context, sections []Section) {
	s.calls++
	for i := range sections {
		if sections[i].ImageURL != "" {
			sections[i].Image = s.data
		}
	}
}

func sampleJournal() *dm.Journal {
	return &dm.Journal{
		StudentID: "s1",
		Profile:   dm.StudentProfile{Name: "Ayşe Yılmaz", Company: "Enerji A.Ş.", Department: "Proje"},
		Days: []dm.DayEntry{
			{
				DayNumber: 1, Date: "01.09.2025", Category: dm.CategoryProduction,
				SpecificTopic: "Pano montajı", WorkTitle: "Pano Montajı",
				Content:  "Bugün şalt panosunun montajına katıldım.\n\nKablo bağlantılarını kontrol ettik.",
				ImageURL: "https://example.com/pano.jpg", ImageCaption: "Montajı yapılan pano",
				IsSaved: true, IsGenerated: true,
			},
			{
				DayNumber: 2, Date: "02.09.2025", Category: dm.CategoryManagement,
				SpecificTopic: "Keşif özeti", Content: "Keşif tablosu hazırlandı.",
				IsSaved: true, IsGenerated: true,
			},
			{DayNumber: 3, Content: "kaydedilmedi", IsGenerated: true},
		},
	}
}

func TestCompileRendersEveryFormat(t *testing.T) {
	fetcher := &stubFetcher{}
	var err error
	fetcher.data, _, err = utils.NormalizeToJPEG(testPNG(t, 64, 48), 64, 64)
	if err != nil {
		t.Fatalf("jpeg fixture: %v", err)
	}
	c := NewCompiler(fetcher, logger.Nop())

	cases := []struct {
		format Format
		magic  []byte
	}{
		{FormatDOCX, []byte("PK")},
		{FormatPDF, []byte("%PDF")},
		{FormatXLSX, []byte("PK")},
	}
	for _, tc := range cases {
		file, err := c.Compile(context.Background(), sampleJournal(), tc.format)
		if err != nil {
			t.Fatalf("Compile(%s): %v", tc.format, err)
		}
		if !bytes.HasPrefix(file.Data, tc.magic) {
			t.Fatalf("Compile(%s): unexpected header %q", tc.format, file.Data[:4])
		}
		if file.Filename != "Staj_Defteri_Ayse_Yilmaz."+string(tc.format) {
			t.Fatalf("filename: got=%q", file.Filename)
		}
		if file.ContentType != tc.format.ContentType() {
			t.Fatalf("content type: got=%q", file.ContentType)
		}
	}
	if fetcher.calls != 2 {
		t.Fatalf("image fetch rounds: want=2 got=%d", fetcher.calls)
	}
}

func TestCompileWithoutSavedDays(t *testing.T) {
	c := NewCompiler(&stubFetcher{}, logger.Nop())
	j := &dm.Journal{Days: []dm.DayEntry{{DayNumber: 1, Content: "x", IsGenerated: true}}}

	if _, err := c.Compile(context.Background(), j, FormatPDF); !errors.Is(err, utils.ErrNothingToExport) {
		t.Fatalf("Compile: want ErrNothingToExport got=%v", err)
	}
}

func TestRenderCoverIsPNG(t *testing.T) {
	data, err := RenderCover(dm.StudentProfile{Name: "Ayşe", Company: "Firma"}, "01.09.2025", "10.10.2025")
	if err != nil {
		t.Fatalf("RenderCover: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Fatalf("cover is not a PNG")
	}
}
