package export

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"stajdefteri/pkg/logger"
	"stajdefteri/pkg/utils"
)

const (
	maxImageBytes    = 10 << 20
	fetchConcurrency = 4

	// Embedded images are shrunk to this box before rendering.
	embedMaxWidth  = 1200
	embedMaxHeight = 1200
)

var errNotImage = errors.New("not an image url")

// Fetcher downloads images for embedding. Remote URLs go through an optional
// proxy prefix; data URLs are decoded in place.
type Fetcher struct {
	HTTP     *http.Client
	ProxyURL string
	log      *logger.Logger
}

func NewFetcher(proxyURL string, log *logger.Logger) *Fetcher {
	return &Fetcher{
		HTTP:     &http.Client{Timeout: 20 * time.Second},
		ProxyURL: proxyURL,
		log:      log.With("component", "ImageFetcher"),
	}
}

// Fetch returns the image at rawURL re-encoded as JPEG.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	raw, err := f.fetchRaw(ctx, strings.TrimSpace(rawURL))
	if err != nil {
		return nil, err
	}
	out, _, err := utils.NormalizeToJPEG(raw, embedMaxWidth, embedMaxHeight)
	return out, err
}

func (f *Fetcher) fetchRaw(ctx context.Context, rawURL string) ([]byte, error) {
	if strings.HasPrefix(rawURL, "data:") {
		return decodeDataURL(rawURL)
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, errNotImage
	}

	target := rawURL
	if f.ProxyURL != "" {
		target = f.ProxyURL + url.QueryEscape(rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("image http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("image bad status: %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, fmt.Errorf("image read: %w", err)
	}
	if len(data) > maxImageBytes {
		return nil, utils.ErrImageTooLarge
	}
	return data, nil
}

func decodeDataURL(s string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil, errNotImage
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("data url: %w", err)
	}
	return data, nil
}

// FetchAll fills Section.Image for every section with an image URL. A failed
// fetch only leaves that section without an image.
func (f *Fetcher) FetchAll(ctx context.Context, sections []Section) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fetchConcurrency)

	var mu sync.Mutex
	for i := range sections {
		i := i
		if sections[i].ImageURL == "" {
			continue
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			data, err := f.Fetch(gctx, sections[i].ImageURL)
			if err != nil {
				f.log.Warn("image omitted from export", "day", sections[i].DayNumber, "error", err)
				return nil
			}
			mu.Lock()
			sections[i].Image = data
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
}
