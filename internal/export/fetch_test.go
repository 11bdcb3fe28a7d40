package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"stajdefteri/pkg/logger"
)

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newImageServer(t *testing.T, pic []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(pic)
		case "/text":
			_, _ = w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchAllOmitsFailedImages(t *testing.T) {
	pic := testPNG(t, 40, 30)
	srv := newImageServer(t, pic)
	f := NewFetcher("", logger.Nop())

	sections := []Section{
		{DayNumber: 1, ImageURL: srv.URL + "/ok.png"},
		{DayNumber: 2, ImageURL: srv.URL + "/missing.png"},
		{DayNumber: 3, ImageURL: srv.URL + "/text"},
		{DayNumber: 4},
		{DayNumber: 5, ImageURL: "data:image/png;base64," + base64.StdEncoding.EncodeToString(pic)},
		{DayNumber: 6, ImageURL: "ftp://example.com/a.png"},
	}
	f.FetchAll(context.Background(), sections)

	want := map[int]bool{1: true, 5: true}
	for _, s := range sections {
		if got := len(s.Image) > 0; got != want[s.DayNumber] {
			t.Fatalf("day %d image: want=%v got=%v", s.DayNumber, want[s.DayNumber], got)
		}
	}
	if ct := http.DetectContentType(sections[0].Image); ct != "image/jpeg" {
		t.Fatalf("content type: want=image/jpeg got=%s", ct)
	}
}

func TestFetchUsesProxyPrefix(t *testing.T) {
	pic := testPNG(t, 10, 10)
	var gotTarget string
	proxy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.URL.Query().Get("url")
		_, _ = w.Write(pic)
	}))
	defer proxy.Close()

	f := NewFetcher(proxy.URL+"/?url=", logger.Nop())
	target := "https://upload.wikimedia.org/a b.png"
	if _, err := f.Fetch(context.Background(), target); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if gotTarget != target {
		t.Fatalf("proxied url: want=%q got=%q", target, gotTarget)
	}
	if _, err := url.Parse(gotTarget); err != nil {
		t.Fatalf("proxied url not parseable: %v", err)
	}
}
