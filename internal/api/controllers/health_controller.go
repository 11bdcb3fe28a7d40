package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"stajdefteri/pkg/utils"
)

type HealthController struct {
	db  *gorm.DB
	rdb *goredis.Client
}

func NewHealthController(db *gorm.DB, rdb *goredis.Client) *HealthController {
	return &HealthController{db: db, rdb: rdb}
}

// Healthz godoc
// @Summary Liveness and dependency check
// @Tags Health
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 503 {object} utils.APIResponse
// @Router /healthz [get]
func (hc *HealthController) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"database": "ok"}
	healthy := true

	if sqlDB, err := hc.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		status["database"] = "down"
		healthy = false
	}
	if hc.rdb != nil {
		status["redis"] = "ok"
		if err := hc.rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = "down"
			healthy = false
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, utils.APIResponse{
			Status: "error", Code: http.StatusServiceUnavailable, Message: "Dependency unavailable", Data: status,
		})
		return
	}
	utils.RespondSuccess(c, status, "ok")
}
