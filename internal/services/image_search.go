package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"

	dm "stajdefteri/internal/models/domain_models"
)

// MaxSearchResults caps every result list shown to the student.
const MaxSearchResults = 12

// ImageSearcher runs one image query against a provider.
type ImageSearcher interface {
	Search(ctx context.Context, query string) ([]dm.StockImage, error)
}

// -------------- Google Custom Search ---------------

type GoogleCSESearcher struct {
	svc      *customsearch.Service
	engineID string
}

func NewGoogleCSESearcher(ctx context.Context, apiKey, engineID string) (*GoogleCSESearcher, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("customsearch client: %w", err)
	}
	return &GoogleCSESearcher{svc: svc, engineID: engineID}, nil
}

func (g *GoogleCSESearcher) Search(ctx context.Context, query string) ([]dm.StockImage, error) {
	res, err := g.svc.Cse.List().
		Cx(g.engineID).
		Q(query).
		SearchType("image").
		Safe("active").
		Num(10).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("customsearch: %w", err)
	}
	out := make([]dm.StockImage, 0, len(res.Items))
	for _, it := range res.Items {
		img := dm.StockImage{URL: it.Link, Title: it.Title, Domain: it.DisplayLink}
		if it.Image != nil {
			img.ThumbnailURL = it.Image.ThumbnailLink
			img.ContextURL = it.Image.ContextLink
		}
		out = append(out, img)
	}
	return out, nil
}

// -------------- SerpAPI ---------------

type SerpAPISearcher struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
	Engine  string
}

func NewSerpAPISearcher(baseURL, apiKey string) *SerpAPISearcher {
	return &SerpAPISearcher{
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		BaseURL: baseURL,
		APIKey:  apiKey,
		Engine:  "google_images",
	}
}

// serpImage is one entry of images_results.
type serpImage struct {
	Original  string `json:"original"`
	Thumbnail string `json:"thumbnail"`
	Title     string `json:"title"`
	Source    string `json:"source"`
	Link      string `json:"link"`
}

func (s *SerpAPISearcher) Search(ctx context.Context, query string) ([]dm.StockImage, error) {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("serpapi base url: %w", err)
	}
	q := url.Values{}
	q.Set("engine", s.Engine)
	q.Set("q", query)
	q.Set("safe", "active")
	q.Set("api_key", s.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serpapi http error: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("serpapi bad status: %s", resp.Status)
	}

	var payload struct {
		ImagesResults []serpImage `json:"images_results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("serpapi decode: %w", err)
	}
	out := make([]dm.StockImage, 0, len(payload.ImagesResults))
	for _, r := range payload.ImagesResults {
		if r.Original == "" {
			continue
		}
		out = append(out, dm.StockImage{
			URL:          r.Original,
			ThumbnailURL: r.Thumbnail,
			Title:        r.Title,
			Domain:       hostOf(r.Original),
			ContextURL:   r.Link,
		})
	}
	return out, nil
}

// -------------- domain filter ---------------

// Watermarked stock sites and social networks. Matched as host suffixes.
var deniedDomains = []string{
	"shutterstock.com", "istockphoto.com", "gettyimages.com", "stock.adobe.com",
	"depositphotos.com", "dreamstime.com", "123rf.com", "alamy.com", "freepik.com",
	"vecteezy.com", "pinterest.com", "facebook.com", "instagram.com", "twitter.com",
	"x.com", "tiktok.com", "linkedin.com", "reddit.com",
}

// Reference and manufacturer sites whose technical pictures fit a report.
var preferredDomains = []string{
	"wikipedia.org", "wikimedia.org", "electrical-engineering-portal.com",
	"schneider-electric.com", "se.com", "abb.com", "siemens.com", "researchgate.net",
	"edu.tr", "edu", "eaton.com", "legrand.com", "electronics-tutorials.ws",
	"allaboutcircuits.com",
}

func hostOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func matchesDomain(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// IsDeniedURL reports whether the image lives on a blocked domain. URLs that
// cannot be parsed are treated as blocked.
func IsDeniedURL(raw string) bool {
	host := hostOf(raw)
	return host == "" || matchesDomain(host, deniedDomains)
}

func isPreferredURL(raw string) bool {
	return matchesDomain(hostOf(raw), preferredDomains)
}

// FilterImages drops denied domains, moves preferred domains to the front
// keeping relative order and caps the list.
func FilterImages(in []dm.StockImage) []dm.StockImage {
	var preferred, rest []dm.StockImage
	for _, img := range in {
		if IsDeniedURL(img.URL) {
			continue
		}
		if img.Domain == "" {
			img.Domain = hostOf(img.URL)
		}
		if isPreferredURL(img.URL) {
			preferred = append(preferred, img)
		} else {
			rest = append(rest, img)
		}
	}
	out := append(preferred, rest...)
	if len(out) > MaxSearchResults {
		out = out[:MaxSearchResults]
	}
	return out
}
