package domain_models

// StockImage is one candidate returned by an image search. It lives only as
// long as the picker session that produced it.
type StockImage struct {
	URL          string `json:"url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Title        string `json:"title"`
	Domain       string `json:"domain,omitempty"`
	ContextURL   string `json:"context_url,omitempty"`
}

// ImageAnalysis is the structured verdict of the vision model on an upload.
type ImageAnalysis struct {
	ImageType              string   `json:"imageType"`
	ImageTypeConfidence    float64  `json:"imageTypeConfidence"`
	SuitabilityScore       float64  `json:"suitabilityScore"`
	SuitabilityReason      string   `json:"suitabilityReason"`
	QualityAssessment      string   `json:"qualityAssessment"`
	DetectedElements       []string `json:"detectedElements"`
	TechnicalDescription   string   `json:"technicalDescription"`
	SuggestedTopic         string   `json:"suggestedTopic"`
	SuggestedContent       string   `json:"suggestedContent"`
	AlternativeSearchTerms []string `json:"alternativeSearchTerms"`
}

// AnalyzedUpload pairs an analysis with where the uploaded image now lives.
type AnalyzedUpload struct {
	ID        string        `json:"id"`
	DayNumber int           `json:"day_number"`
	ImageURL  string        `json:"image_url"`
	// Analyzed is false when the vision call failed; the image is still usable.
	Analyzed  bool          `json:"analyzed"`
	Analysis  ImageAnalysis `json:"analysis"`
}

// SearchSession holds the results of one manual search for later picking.
type SearchSession struct {
	ID        string       `json:"id"`
	StudentID string       `json:"-"`
	DayNumber int          `json:"day_number"`
	Results   []StockImage `json:"results"`
}
