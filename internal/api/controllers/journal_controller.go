package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"stajdefteri/internal/models/request_models"
	"stajdefteri/internal/models/response_models"
	"stajdefteri/internal/services"
	"stajdefteri/pkg/middleware"
	"stajdefteri/pkg/utils"
)

type JournalController struct {
	journalService services.JournalServiceInterface
}

func NewJournalController(journalService services.JournalServiceInterface) *JournalController {
	return &JournalController{
		journalService: journalService,
	}
}

// dayParam reads :day and answers 400 itself when it is not a positive int.
func dayParam(c *gin.Context) (int, bool) {
	day, err := strconv.Atoi(c.Param("day"))
	if err != nil || day < 1 {
		utils.RespondError(c, http.StatusBadRequest, "Invalid day number")
		return 0, false
	}
	return day, true
}

// GetJournal godoc
// @Summary Get the journal
// @Description Returns the profile, plan and every day of the authenticated student
// @Tags Journal
// @Produce json
// @Success 200 {object} response_models.JournalResponse
// @Failure 404 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/journal [get]
func (jc *JournalController) GetJournal(c *gin.Context) {
	j, err := jc.journalService.GetJournal(c.Request.Context(), c.GetString(middleware.StudentIDKey))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.NewJournalResponse(j), "Journal fetched successfully")
}

// CreatePlan godoc
// @Summary Create a plan
// @Description Generates the day plan for the internship window and stores the profile
// @Tags Journal
// @Accept json
// @Produce json
// @Param request body request_models.CreatePlanRequest true "Student profile"
// @Success 200 {object} response_models.JournalResponse
// @Failure 409 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/journal/plan [post]
func (jc *JournalController) CreatePlan(c *gin.Context) {
	var req request_models.CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Name is required")
		return
	}

	j, err := jc.journalService.CreatePlan(c.Request.Context(), c.GetString(middleware.StudentIDKey), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.NewJournalResponse(j), "Plan created successfully")
}

// UpdateProfile godoc
// @Summary Update the profile
// @Tags Journal
// @Accept json
// @Produce json
// @Param request body request_models.UpdateProfileRequest true "Student profile"
// @Success 200 {object} response_models.JournalResponse
// @Security BearerAuth
// @Router /api/journal/profile [put]
func (jc *JournalController) UpdateProfile(c *gin.Context) {
	var req request_models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Name is required")
		return
	}

	j, err := jc.journalService.UpdateProfile(c.Request.Context(), c.GetString(middleware.StudentIDKey), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.NewJournalResponse(j), "Profile updated successfully")
}

// ResetJournal godoc
// @Summary Reset the journal
// @Description Deletes the plan and every saved day
// @Tags Journal
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/journal [delete]
func (jc *JournalController) ResetJournal(c *gin.Context) {
	if err := jc.journalService.ResetJournal(c.Request.Context(), c.GetString(middleware.StudentIDKey)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, nil, "Journal reset successfully")
}

// GenerateDay godoc
// @Summary Generate a day
// @Description Writes the narrative of one day from the plan and the saved history
// @Tags Journal
// @Produce json
// @Param day path int true "Day number"
// @Success 200 {object} domain_models.DayEntry
// @Failure 409 {object} utils.APIResponse
// @Failure 422 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/journal/days/{day}/generate [post]
func (jc *JournalController) GenerateDay(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	entry, err := jc.journalService.GenerateDay(c.Request.Context(), c.GetString(middleware.StudentIDKey), day)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entry, "Day generated successfully")
}

// EditPlan godoc
// @Summary Edit the plan of a day
// @Tags Journal
// @Accept json
// @Produce json
// @Param day path int true "Day number"
// @Param request body request_models.EditPlanRequest true "Category, topic or directive"
// @Success 200 {object} domain_models.DayEntry
// @Security BearerAuth
// @Router /api/journal/days/{day}/plan [put]
func (jc *JournalController) EditPlan(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	var req request_models.EditPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid plan fields")
		return
	}

	entry, err := jc.journalService.EditPlan(c.Request.Context(), c.GetString(middleware.StudentIDKey), day, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entry, "Plan updated successfully")
}

// EditContent godoc
// @Summary Edit the text of a day
// @Tags Journal
// @Accept json
// @Produce json
// @Param day path int true "Day number"
// @Param request body request_models.EditContentRequest true "Content and optional title"
// @Success 200 {object} domain_models.DayEntry
// @Security BearerAuth
// @Router /api/journal/days/{day}/content [put]
func (jc *JournalController) EditContent(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}
	var req request_models.EditContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid content")
		return
	}

	entry, err := jc.journalService.EditContent(c.Request.Context(), c.GetString(middleware.StudentIDKey), day, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entry, "Content updated successfully")
}

// SaveDay godoc
// @Summary Save a day
// @Tags Journal
// @Produce json
// @Param day path int true "Day number"
// @Success 200 {object} domain_models.DayEntry
// @Failure 422 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/journal/days/{day}/save [post]
func (jc *JournalController) SaveDay(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	entry, err := jc.journalService.SaveDay(c.Request.Context(), c.GetString(middleware.StudentIDKey), day)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entry, "Day saved successfully")
}

// DeleteDay godoc
// @Summary Delete a saved day
// @Description Removes the stored record; the text stays in the working copy
// @Tags Journal
// @Produce json
// @Param day path int true "Day number"
// @Success 200 {object} domain_models.DayEntry
// @Security BearerAuth
// @Router /api/journal/days/{day} [delete]
func (jc *JournalController) DeleteDay(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	entry, err := jc.journalService.DeleteDay(c.Request.Context(), c.GetString(middleware.StudentIDKey), day)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, entry, "Day deleted successfully")
}

// GetCurriculum godoc
// @Summary Curriculum guidance for a day
// @Tags Journal
// @Produce json
// @Param day path int true "Day number"
// @Success 200 {object} response_models.CurriculumResponse
// @Security BearerAuth
// @Router /api/journal/days/{day}/curriculum [get]
func (jc *JournalController) GetCurriculum(c *gin.Context) {
	day, ok := dayParam(c)
	if !ok {
		return
	}

	bundle, err := jc.journalService.Curriculum(c.Request.Context(), c.GetString(middleware.StudentIDKey), day)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, response_models.CurriculumResponse{Available: bundle != nil, Bundle: bundle}, "Curriculum fetched successfully")
}
