package controllers

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"stajdefteri/internal/services"
	"stajdefteri/pkg/middleware"
	"stajdefteri/pkg/utils"
)

type ExportController struct {
	exportService services.ExportServiceInterface
}

func NewExportController(exportService services.ExportServiceInterface) *ExportController {
	return &ExportController{
		exportService: exportService,
	}
}

// ExportJournal godoc
// @Summary Export the journal
// @Description Compiles every saved day into a DOCX, PDF or XLSX download
// @Tags Export
// @Produce application/vnd.openxmlformats-officedocument.wordprocessingml.document
// @Produce application/pdf
// @Param format query string false "docx, pdf or xlsx" default(docx)
// @Success 200 {file} file
// @Failure 422 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/journal/export [get]
func (ec *ExportController) ExportJournal(c *gin.Context) {
	file, err := ec.exportService.Export(c.Request.Context(), c.GetString(middleware.StudentIDKey), c.DefaultQuery("format", "docx"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(200, file.ContentType, file.Data)
}
