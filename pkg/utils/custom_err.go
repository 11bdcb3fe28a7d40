package utils

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrDatabaseError     = errors.New("database error")
	ErrPlanNotFound      = errors.New("plan not found")
	ErrPlanExists        = errors.New("plan already exists")
	ErrDayNotFound       = errors.New("day not found")
	ErrImageRequired     = errors.New("image required before generation")
	ErrDayBusy           = errors.New("day has an action in progress")
	ErrWorkspaceLocked   = errors.New("journal is locked by another request")
	ErrNothingToSave     = errors.New("day has no generated content")
	ErrGenerationFailed  = errors.New("content generation failed")
	ErrUnexpectedAI      = errors.New("unexpected behavior of AI")
	ErrSearchFailed      = errors.New("image search failed")
	ErrNoImageFound      = errors.New("no acceptable image found")
	ErrUnsupportedImage  = errors.New("unsupported image format")
	ErrImageTooLarge     = errors.New("image too large")
	ErrSessionExpired    = errors.New("selection session expired")
	ErrUnsupportedEngine = errors.New("unsupported search engine")
	ErrNothingToExport   = errors.New("no saved days to export")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrExportFailed      = errors.New("export failed")
	ErrUnauthorized      = errors.New("unauthorized")
)
