package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"stajdefteri/pkg/logger"
	"stajdefteri/pkg/utils"
)

var allowedEngines = map[string]bool{
	"google_images": true,
	"bing_images":   true,
}

// SearchProxyServiceInterface forwards image searches to SerpAPI so the
// browser never needs the key or a CORS exemption.
type SearchProxyServiceInterface interface {
	Search(ctx context.Context, params url.Values) (map[string]any, error)
}

type SearchProxyService struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
	log     *logger.Logger
}

func NewSearchProxyService(baseURL, apiKey string, log *logger.Logger) SearchProxyServiceInterface {
	return &SearchProxyService{
		HTTP:    &http.Client{Timeout: 20 * time.Second},
		BaseURL: baseURL,
		APIKey:  apiKey,
		log:     log.With("service", "SearchProxyService"),
	}
}

// Search passes params through, fills api_key from configuration when the
// caller sent none and filters images_results. The response gains
// filtered_count, the number of results kept.
func (s *SearchProxyService) Search(ctx context.Context, params url.Values) (map[string]any, error) {
	engine := strings.TrimSpace(params.Get("engine"))
	if !allowedEngines[engine] {
		return nil, fmt.Errorf("%w: %q", utils.ErrUnsupportedEngine, engine)
	}

	q := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	if strings.TrimSpace(q.Get("api_key")) == "" {
		if s.APIKey == "" {
			return nil, fmt.Errorf("%w: no search api key configured", utils.ErrSearchFailed)
		}
		q.Set("api_key", s.APIKey)
	}

	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("%w: base url: %v", utils.ErrSearchFailed, err)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrSearchFailed, err)
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: upstream: %v", utils.ErrSearchFailed, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		s.log.Warn("search upstream bad status", "status", resp.Status, "engine", engine)
		return nil, fmt.Errorf("%w: upstream status %s", utils.ErrSearchFailed, resp.Status)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", utils.ErrSearchFailed, err)
	}
	FilterSerpPayload(payload)
	return payload, nil
}

// FilterSerpPayload applies the domain filter to images_results in place and
// sets filtered_count.
func FilterSerpPayload(payload map[string]any) {
	items, _ := payload["images_results"].([]any)
	var preferred, rest []any
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		link, _ := m["original"].(string)
		if link == "" {
			link, _ = m["thumbnail"].(string)
		}
		if IsDeniedURL(link) {
			continue
		}
		if isPreferredURL(link) {
			preferred = append(preferred, m)
		} else {
			rest = append(rest, m)
		}
	}
	kept := append(preferred, rest...)
	if len(kept) > MaxSearchResults {
		kept = kept[:MaxSearchResults]
	}
	if kept == nil {
		kept = []any{}
	}
	payload["images_results"] = kept
	payload["filtered_count"] = len(kept)
}
