package controllers

import (
	"github.com/gin-gonic/gin"

	"stajdefteri/internal/services"
	"stajdefteri/pkg/utils"
)

type SearchProxyController struct {
	proxyService services.SearchProxyServiceInterface
}

func NewSearchProxyController(proxyService services.SearchProxyServiceInterface) *SearchProxyController {
	return &SearchProxyController{
		proxyService: proxyService,
	}
}

// SearchImages godoc
// @Summary Image search proxy
// @Description Forwards the query to the search API and filters blocked domains. The upstream JSON is returned as is, plus filtered_count.
// @Tags Search
// @Produce json
// @Param engine query string true "google_images or bing_images"
// @Param q query string true "Search text"
// @Param api_key query string false "Overrides the configured key"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.APIResponse
// @Failure 502 {object} utils.APIResponse
// @Security BearerAuth
// @Router /api/search-images [get]
func (sc *SearchProxyController) SearchImages(c *gin.Context) {
	payload, err := sc.proxyService.Search(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	c.JSON(200, payload)
}
