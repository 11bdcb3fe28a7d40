package response_models

import dm "stajdefteri/internal/models/domain_models"

type SearchSessionResponse struct {
	SessionID string          `json:"session_id"`
	DayNumber int             `json:"day_number"`
	Results   []dm.StockImage `json:"results"`
}

func NewSearchSessionResponse(s *dm.SearchSession) SearchSessionResponse {
	results := s.Results
	if results == nil {
		results = []dm.StockImage{}
	}
	return SearchSessionResponse{SessionID: s.ID, DayNumber: s.DayNumber, Results: results}
}
