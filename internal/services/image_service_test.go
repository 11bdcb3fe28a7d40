package services

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
	"time"

	"stajdefteri/internal/infra"
	dm "stajdefteri/internal/models/domain_models"
	"stajdefteri/internal/models/request_models"
	"stajdefteri/pkg/logger"
	"stajdefteri/pkg/utils"
)

type stubSearcher struct {
	results []dm.StockImage
	err     error
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, q string) ([]dm.StockImage, error) {
	s.queries = append(s.queries, q)
	return s.results, s.err
}

type stubFetcher struct{ err error }

func (s stubFetcher) Fetch(context.Context, string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []byte{0xff, 0xd8, 0xff}, nil
}

type failingStorage struct{}

func (failingStorage) Put(context.Context, string, string, []byte) (string, error) {
	return "", errors.New("bucket gone")
}
func (failingStorage) Close() error { return nil }

const (
	captionText  = "Montajı tamamlanan dağıtım panosu."
	analysisJSON = `{"imageType":"field_photo","imageTypeConfidence":0.9,"suitabilityScore":82,
"suitabilityReason":"Net bir saha fotoğrafı","qualityAssessment":"iyi","detectedElements":["pano","kablo"],
"technicalDescription":"Alçak gerilim panosu","suggestedTopic":"Dağıtım panosu bağlantıları",
"suggestedContent":"Pano içindeki kablo bağlantılarının kontrolü","alternativeSearchTerms":["distribution board"]}`
)

// scriptedAI answers caption and analysis requests differently.
func scriptedAI(captionErr error) *fakeAI {
	return &fakeAI{fn: func(req utils.GenerateRequest) (string, error) {
		switch {
		case req.JSON:
			return analysisJSON, nil
		case req.System == describeInstruction:
			if captionErr != nil {
				return "", captionErr
			}
			return `"` + captionText + `"`, nil
		default:
			return "transformer substation site photo", nil
		}
	}}
}

func newImageService(env *testEnv, searchers ImageSearchers, fetcher ImageFetcher, storage infra.ImageStorage) ImageServiceInterface {
	qg := NewQueryGenerator(env.ai, logger.Nop())
	qg.sleep = func(context.Context, time.Duration) error { return nil }
	return NewImageService(env.ws, searchers, qg, env.ai, fetcher, storage, logger.Nop())
}

func stock(urls ...string) []dm.StockImage {
	out := make([]dm.StockImage, 0, len(urls))
	for _, u := range urls {
		out = append(out, dm.StockImage{URL: u, Title: u})
	}
	return out
}

func TestSearchStockFiltersAndPickConsumesSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.ai = scriptedAI(nil)
	env.seed(t, "s1", plainDay(1))
	searcher := &stubSearcher{results: stock(
		"https://www.shutterstock.com/a.jpg",
		"https://example.com/b.jpg",
		"https://upload.wikimedia.org/c.jpg",
	)}
	svc := newImageService(env, ImageSearchers{Stock: searcher}, stubFetcher{}, infra.DataURLStorage{})

	session, err := svc.SearchStock(ctx, "s1", 1, request_models.SearchImagesRequest{Guide: "field_photo"})
	if err != nil {
		t.Fatalf("SearchStock: %v", err)
	}
	if searcher.queries[0] != "Pano montajı saha fotoğrafı" {
		t.Fatalf("query: got=%q", searcher.queries[0])
	}
	if len(session.Results) != 2 || session.Results[0].Domain != "upload.wikimedia.org" {
		t.Fatalf("results: got=%+v", session.Results)
	}

	d, err := svc.PickStock(ctx, "s1", 1, request_models.PickImageRequest{SessionID: session.ID, Index: 1})
	if err != nil {
		t.Fatalf("PickStock: %v", err)
	}
	if d.ImageURL != "https://example.com/b.jpg" || d.ImageSource != dm.ImageSourceStock {
		t.Fatalf("image: got url=%q source=%q", d.ImageURL, d.ImageSource)
	}
	if d.ImageCaption != captionText || d.IsImageLoading {
		t.Fatalf("caption: got=%q loading=%v", d.ImageCaption, d.IsImageLoading)
	}

	if _, err := svc.PickStock(ctx, "s1", 1, request_models.PickImageRequest{SessionID: session.ID}); !errors.Is(err, utils.ErrSessionExpired) {
		t.Fatalf("second pick: want ErrSessionExpired got=%v", err)
	}
}

func TestRejectedPickKeepsSession(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.ai = scriptedAI(nil)
	env.seed(t, "s1", plainDay(1), plainDay(2))
	searcher := &stubSearcher{results: stock("https://example.com/a.jpg", "https://example.com/b.jpg")}
	svc := newImageService(env, ImageSearchers{Stock: searcher}, stubFetcher{}, infra.DataURLStorage{})

	session, err := svc.SearchStock(ctx, "s1", 1, request_models.SearchImagesRequest{Guide: "field_photo"})
	if err != nil {
		t.Fatalf("SearchStock: %v", err)
	}

	for _, idx := range []int{-1, 2, 40} {
		req := request_models.PickImageRequest{SessionID: session.ID, Index: idx}
		if _, err := svc.PickStock(ctx, "s1", 1, req); !errors.Is(err, utils.ErrInvalidInput) {
			t.Fatalf("index %d: want=%v got=%v", idx, utils.ErrInvalidInput, err)
		}
	}
	if _, err := svc.PickStock(ctx, "s1", 2, request_models.PickImageRequest{SessionID: session.ID}); !errors.Is(err, utils.ErrSessionExpired) {
		t.Fatalf("other day: want=%v got=%v", utils.ErrSessionExpired, err)
	}

	d, err := svc.PickStock(ctx, "s1", 1, request_models.PickImageRequest{SessionID: session.ID, Index: 1})
	if err != nil {
		t.Fatalf("valid pick after rejections: %v", err)
	}
	if d.ImageURL != "https://example.com/b.jpg" {
		t.Fatalf("image: want=%q got=%q", "https://example.com/b.jpg", d.ImageURL)
	}
}

func TestSearchStockProviderErrorIsEmptyResult(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, "s1", plainDay(1))
	svc := newImageService(env, ImageSearchers{Stock: &stubSearcher{err: errors.New("quota")}}, stubFetcher{}, infra.DataURLStorage{})

	session, err := svc.SearchStock(context.Background(), "s1", 1, request_models.SearchImagesRequest{Guide: "diagram_table", Query: "tek hat"})
	if err != nil {
		t.Fatalf("SearchStock: %v", err)
	}
	if len(session.Results) != 0 {
		t.Fatalf("results: want none got=%d", len(session.Results))
	}
}

func TestCaptionFailureDoesNotBlockSelection(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		name    string
		ai      *fakeAI
		fetcher stubFetcher
	}{
		{"model error", scriptedAI(errors.New("503 unavailable")), stubFetcher{}},
		{"image not loadable", scriptedAI(nil), stubFetcher{err: errors.New("404")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.ai = tc.ai
			env.seed(t, "s1", plainDay(1))
			searcher := &stubSearcher{results: stock("https://example.com/x.jpg")}
			svc := newImageService(env, ImageSearchers{Stock: searcher}, tc.fetcher, infra.DataURLStorage{})

			session, err := svc.SearchStock(ctx, "s1", 1, request_models.SearchImagesRequest{Guide: "field_photo"})
			if err != nil {
				t.Fatalf("SearchStock: %v", err)
			}
			d, err := svc.PickStock(ctx, "s1", 1, request_models.PickImageRequest{SessionID: session.ID})
			if err != nil {
				t.Fatalf("PickStock: %v", err)
			}
			if d.ImageURL != "https://example.com/x.jpg" || d.ImageCaption != "" || d.IsImageLoading {
				t.Fatalf("day: got=%+v", d)
			}
		})
	}
}

func TestImageWriteThrough(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.ai = scriptedAI(nil)
	saved := plainDay(1)
	saved.Content, saved.IsGenerated, saved.IsSaved = "metin", true, true
	env.seed(t, "s1", saved)
	searcher := &stubSearcher{results: stock("https://example.com/a.jpg", "https://example.com/b.jpg")}
	svc := newImageService(env, ImageSearchers{Auto: searcher}, stubFetcher{}, infra.DataURLStorage{})

	d, err := svc.AutoSearch(ctx, "s1", 1)
	if err != nil {
		t.Fatalf("AutoSearch: %v", err)
	}
	if !d.IsSaved {
		t.Fatalf("saved flag dropped after write-through")
	}
	rec, err := env.days.GetDay(ctx, "s1", 1)
	if err != nil || rec == nil {
		t.Fatalf("GetDay: rec=%v err=%v", rec, err)
	}
	if rec.ImageURL != "https://example.com/a.jpg" || rec.ImageSource != string(dm.ImageSourceSearch) {
		t.Fatalf("persisted image: got url=%q source=%q", rec.ImageURL, rec.ImageSource)
	}

	env.days.failUpsert = true
	d, err = svc.ClearImage(ctx, "s1", 1)
	if err != nil {
		t.Fatalf("ClearImage: %v", err)
	}
	if d.ImageURL != "" || d.IsSaved {
		t.Fatalf("failed write-through should leave the day unsaved: got=%+v", d)
	}
}

func TestAutoSearchNoAcceptableImage(t *testing.T) {
	env := newTestEnv(t)
	env.ai = scriptedAI(nil)
	env.seed(t, "s1", plainDay(1))
	searcher := &stubSearcher{results: stock("https://www.gettyimages.com/a.jpg", "https://pinterest.com/b.jpg")}
	svc := newImageService(env, ImageSearchers{Auto: searcher}, stubFetcher{}, infra.DataURLStorage{})

	if _, err := svc.AutoSearch(context.Background(), "s1", 1); !errors.Is(err, utils.ErrNoImageFound) {
		t.Fatalf("AutoSearch: want ErrNoImageFound got=%v", err)
	}
	if searcher.queries[0] != "transformer substation site photo" {
		t.Fatalf("query: got=%q", searcher.queries[0])
	}
	if d := env.day(t, "s1", 1); d.HasImage() || d.IsImageLoading {
		t.Fatalf("day changed: got=%+v", d)
	}
}

func testUpload(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 32, 24))
	for x := 0; x < 32; x++ {
		img.Set(x, x%24, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png: %v", err)
	}
	return buf.Bytes()
}

func TestAnalyzeUploadAndAccept(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.ai = scriptedAI(nil)
	env.seed(t, "s1", plainDay(1))
	svc := newImageService(env, ImageSearchers{}, stubFetcher{}, infra.DataURLStorage{})

	up, err := svc.AnalyzeUpload(ctx, "s1", 1, testUpload(t))
	if err != nil {
		t.Fatalf("AnalyzeUpload: %v", err)
	}
	if !up.Analyzed || up.Analysis.SuitabilityScore != 82 || up.Analysis.ImageType != "field_photo" {
		t.Fatalf("analysis: got=%+v", up)
	}
	if !strings.HasPrefix(up.ImageURL, "data:image/jpeg;base64,") {
		t.Fatalf("stored url: got=%.40q", up.ImageURL)
	}
	vision := env.ai.calls[0]
	if vision.Image == nil || vision.Image.MIMEType != utils.JPEGMimeType {
		t.Fatalf("vision call without jpeg image")
	}

	d, err := svc.AcceptAnalysis(ctx, "s1", 1, request_models.AcceptAnalysisRequest{AnalysisID: up.ID, ApplySuggestion: true})
	if err != nil {
		t.Fatalf("AcceptAnalysis: %v", err)
	}
	if d.SpecificTopic != "Dağıtım panosu bağlantıları" || d.CustomDirective != "Pano içindeki kablo bağlantılarının kontrolü" {
		t.Fatalf("suggestion not applied: got=%+v", d)
	}
	if d.ImageSource != dm.ImageSourceAnalyzed || d.ImageURL != up.ImageURL {
		t.Fatalf("image: got source=%q", d.ImageSource)
	}
}

func TestAnalyzeUploadRejects(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.ai = scriptedAI(nil)
	env.seed(t, "s1", plainDay(1))

	svc := newImageService(env, ImageSearchers{}, stubFetcher{}, infra.DataURLStorage{})
	if _, err := svc.AnalyzeUpload(ctx, "s1", 1, make([]byte, MaxUploadBytes+1)); !errors.Is(err, utils.ErrImageTooLarge) {
		t.Fatalf("large upload: want ErrImageTooLarge got=%v", err)
	}
	if _, err := svc.AnalyzeUpload(ctx, "s1", 1, []byte("%PDF-1.4 not an image")); !errors.Is(err, utils.ErrUnsupportedImage) {
		t.Fatalf("pdf upload: want ErrUnsupportedImage got=%v", err)
	}

	broken := newImageService(env, ImageSearchers{}, stubFetcher{}, failingStorage{})
	if _, err := broken.AnalyzeUpload(ctx, "s1", 1, testUpload(t)); !errors.Is(err, utils.ErrDatabaseError) {
		t.Fatalf("storage failure: want ErrDatabaseError got=%v", err)
	}
}

func TestAnalysisFailureStillReturnsImage(t *testing.T) {
	env := newTestEnv(t)
	env.ai = &fakeAI{fn: func(utils.GenerateRequest) (string, error) { return "no json here", nil }}
	env.seed(t, "s1", plainDay(1))
	svc := newImageService(env, ImageSearchers{}, stubFetcher{}, infra.DataURLStorage{})

	up, err := svc.AnalyzeUpload(context.Background(), "s1", 1, testUpload(t))
	if err != nil {
		t.Fatalf("AnalyzeUpload: %v", err)
	}
	if up.Analyzed || up.ImageURL == "" {
		t.Fatalf("upload: got=%+v", up)
	}
}
