package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"stajdefteri/internal/models/request_models"
	"stajdefteri/internal/models/response_models"
	"stajdefteri/internal/services"
	"stajdefteri/pkg/middleware"
	"stajdefteri/pkg/utils"
)

type ImageController struct {
	imageService services.ImageServiceInterface
}

func NewImageController(imageService services.ImageServiceInterface) *ImageController {
	return &ImageController{
		imageService: imageService,
	}
}

// SearchImages godoc
// @Summary Search stock images for a day
// @Description Runs a filtered image search and opens a picker session
// @Tags Images
// @Accept json
// @Produce json
// @Param day path int true "Day number"
// @Param request body request_models.SearchImagesRequest true "Picture type and optional query"
// @Success 200 {object} response_models.SearchSessionResponse
// @Security BearerAuth
// @Router /api/journal/days/{day}/images/search [post]
func (ic *ImageController) SearchImages(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	var req request_models.SearchImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Guide must be technical_drawing, field_photo or diagram_table")
		return
	}

	session, err := ic.imageService.SearchStock(c.Request.Context(), c.GetString(middleware.StudentIDKey), day, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.NewSearchSessionResponse(session), "Images fetched successfully")
}

// PickImage godoc
// @Summary Pick a searched image
// @Tags Images
// @Accept json
// @Produce json
// @Param day path int true "Day number"
// @Param request body request_models.PickImageRequest true "Session and result index"
// @Success 200 {object} domain_models.DayEntry
// @Failure 410 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/journal/days/{day}/images/pick [post]
func (ic *ImageController) PickImage(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	var req request_models.PickImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "SessionID and index are required")
		return
	}

	entry, err := ic.imageService.PickStock(c.Request.Context(), c.GetString(middleware.StudentIDKey), day, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entry, "Image selected successfully")
}

// AutoImage godoc
// @Summary Find an image automatically
// @Tags Images
// @Produce json
// @Param day path int true "Day number"
// @Success 200 {object} domain_models.DayEntry
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/journal/days/{day}/images/auto [post]
func (ic *ImageController) AutoImage(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	entry, err := ic.imageService.AutoSearch(c.Request.Context(), c.GetString(middleware.StudentIDKey), day)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entry, "Image selected successfully")
}

// AnalyzeImage godoc
// @Summary Upload and analyze an image
// @Description Accepts JPEG, PNG or WebP up to 10MB in the "image" form field
// @Tags Images
// @Accept multipart/form-data
// @Produce json
// @Param day path int true "Day number"
// @Param image formData file true "Image file"
// @Success 200 {object} domain_models.AnalyzedUpload
// @Failure 413 {object} utils.APIResponse
// @Failure 415 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/journal/days/{day}/images/analyze [post]
func (ic *ImageController) AnalyzeImage(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, services.MaxUploadBytes+1<<20)

	fh, err := c.FormFile("image")
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Image file is required")
		return
	}
	if fh.Size > services.MaxUploadBytes {
		utils.HandleServiceError(c, utils.ErrImageTooLarge)
		return
	}
	f, err := fh.Open()
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Image file could not be read")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, services.MaxUploadBytes+1))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Image file could not be read")
		return
	}

	upload, err := ic.imageService.AnalyzeUpload(c.Request.Context(), c.GetString(middleware.StudentIDKey), day, data)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, upload, "Image analyzed successfully")
}

// AcceptAnalysis godoc
// @Summary Use an analyzed upload
// @Tags Images
// @Accept json
// @Produce json
// @Param day path int true "Day number"
// @Param request body request_models.AcceptAnalysisRequest true "Analysis id"
// @Success 200 {object} domain_models.DayEntry
// @Security BearerAuth
// @Router /api/journal/days/{day}/images/accept [post]
func (ic *ImageController) AcceptAnalysis(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	var req request_models.AcceptAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "AnalysisID is required")
		return
	}

	entry, err := ic.imageService.AcceptAnalysis(c.Request.Context(), c.GetString(middleware.StudentIDKey), day, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entry, "Image selected successfully")
}

// ClearImage godoc
// @Summary Remove the image of a day
// @Tags Images
// @Produce json
// @Param day path int true "Day number"
// @Success 200 {object} domain_models.DayEntry
// @Security BearerAuth
// @Router /api/journal/days/{day}/images [delete]
func (ic *ImageController) ClearImage(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	entry, err := ic.imageService.ClearImage(c.Request.Context(), c.GetString(middleware.StudentIDKey), day)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entry, "Image removed successfully")
}
