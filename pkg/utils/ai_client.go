package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

// ImageInput is an inline image attached to a generation request.
type ImageInput struct {
	MIMEType string
	Data     []byte
}

type GenerateRequest struct {
	System      string
	Prompt      string
	Temperature float32
	// JSON asks the provider for a JSON-only answer.
	JSON  bool
	Image *ImageInput
}

// GenerativeClientInterface is the single seam to the language/vision model.
type GenerativeClientInterface interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Close() error
}

// NewGenerativeClient picks the provider configured by AI_PROVIDER.
func NewGenerativeClient(ctx context.Context, provider, apiKey, model string) (GenerativeClientInterface, error) {
	switch strings.ToLower(provider) {
	case "openai":
		return NewOpenAIClient(apiKey, model), nil
	case "gemini":
		return NewGeminiClient(ctx, apiKey, model)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", provider)
	}
}

// DecodeJSONResponse extracts the first JSON value from a model answer and
// unmarshals it into out.
func DecodeJSONResponse(response string, out any) error {
	cleaned := cleanJSONResponse(response)
	if !json.Valid([]byte(cleaned)) {
		return fmt.Errorf("%w: not valid json", ErrUnexpectedAI)
	}
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return fmt.Errorf("%w: %v", ErrUnexpectedAI, err)
	}
	return nil
}

var transientMarkers = []string{"overloaded", "unavailable", "resource exhausted", "rate limit", "try again later"}

// IsTransientAIError reports whether err looks like a temporary provider
// condition (busy, rate limited) that is worth retrying.
func IsTransientAIError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var gErr *googleapi.Error
	if errors.As(err, &gErr) {
		return transientStatus(gErr.Code)
	}
	var oaErr *openai.APIError
	if errors.As(err, &oaErr) {
		return transientStatus(oaErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return transientStatus(reqErr.HTTPStatusCode)
	}

	msg := strings.ToLower(err.Error())
	for _, m := range transientMarkers {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}

func transientStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// cleanJSONResponse removes markdown fences and any prose around the JSON value.
func cleanJSONResponse(response string) string {
	response = strings.ReplaceAll(response, "```json", "")
	response = strings.ReplaceAll(response, "```JSON", "")
	response = strings.ReplaceAll(response, "```", "")
	response = strings.TrimSpace(response)

	objStart := strings.Index(response, "{")
	arrStart := strings.Index(response, "[")

	if objStart != -1 && (arrStart == -1 || objStart < arrStart) {
		if objEnd := findMatching(response, objStart, '{', '}'); objEnd != -1 {
			response = response[objStart : objEnd+1]
		}
	} else if arrStart != -1 {
		if arrEnd := findMatching(response, arrStart, '[', ']'); arrEnd != -1 {
			response = response[arrStart : arrEnd+1]
		}
	}

	return strings.TrimSpace(response)
}

// findMatching returns the index of the bracket closing the one at start,
// ignoring brackets inside JSON strings.
func findMatching(s string, start int, open, close byte) int {
	if start >= len(s) || s[start] != open {
		return -1
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		char := s[i]

		if escaped {
			escaped = false
			continue
		}
		if char == '\\' && inString {
			escaped = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}
