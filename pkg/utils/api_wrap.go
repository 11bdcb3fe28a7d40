package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

type errorMapping struct {
	err     error
	code    int
	message string
}

var serviceErrors = []errorMapping{
	{ErrInvalidInput, http.StatusBadRequest, "Invalid input"},
	{ErrUnauthorized, http.StatusUnauthorized, "Unauthorized"},
	{ErrPlanNotFound, http.StatusNotFound, "Plan not found"},
	{ErrDayNotFound, http.StatusNotFound, "Day not found"},
	{ErrPlanExists, http.StatusConflict, "Plan already exists, reset it first"},
	{ErrDayBusy, http.StatusConflict, "Another action is running for this day"},
	{ErrWorkspaceLocked, http.StatusConflict, "Journal is being updated, try again"},
	{ErrImageRequired, http.StatusUnprocessableEntity, "This day requires an image before generation"},
	{ErrNothingToSave, http.StatusUnprocessableEntity, "Generate content before saving"},
	{ErrNothingToExport, http.StatusUnprocessableEntity, "There are no saved days to export"},
	{ErrUnsupportedFormat, http.StatusBadRequest, "Unsupported export format"},
	{ErrUnsupportedEngine, http.StatusBadRequest, "Unsupported search engine"},
	{ErrUnsupportedImage, http.StatusUnsupportedMediaType, "Unsupported image format"},
	{ErrImageTooLarge, http.StatusRequestEntityTooLarge, "Image is too large"},
	{ErrSessionExpired, http.StatusGone, "Selection expired, search again"},
	{ErrNoImageFound, http.StatusNotFound, "No suitable image found"},
	{ErrGenerationFailed, http.StatusBadGateway, "Content generation failed, try again"},
	{ErrUnexpectedAI, http.StatusBadGateway, "The AI service returned an unexpected response"},
	{ErrSearchFailed, http.StatusBadGateway, "Image search failed"},
}

func HandleServiceError(c *gin.Context, err error) {
	for _, m := range serviceErrors {
		if errors.Is(err, m.err) {
			RespondError(c, m.code, m.message)
			return
		}
	}

	traceID := c.GetString("trace_id")
	switch {
	case errors.Is(err, ErrDatabaseError):
		zap.S().Errorw("database error", "error", err, "trace_id", traceID)
	case errors.Is(err, ErrExportFailed):
		zap.S().Errorw("export error", "error", err, "trace_id", traceID)
	default:
		zap.S().Errorw("unhandled service error", "error", err, "trace_id", traceID)
	}
	RespondError(c, http.StatusInternalServerError, "Internal server error")
}
