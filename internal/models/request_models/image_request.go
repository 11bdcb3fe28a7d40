package request_models

type SearchImagesRequest struct {
	Guide string `json:"guide" binding:"required,oneof=technical_drawing field_photo diagram_table"`
	// Query overrides the topic-derived search text.
	Query string `json:"query" binding:"max=200"`
}

type PickImageRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Index     int    `json:"index" binding:"min=0"`
}

type AcceptAnalysisRequest struct {
	AnalysisID string `json:"analysis_id" binding:"required"`
	// ApplySuggestion also replaces the topic and directive with the
	// analysis suggestions.
	ApplySuggestion bool `json:"apply_suggestion"`
}
