package controller

import (
	"net/http"

	"campus_backend/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type HealthController struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb}
}

// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} util.Response
// @Router /health [get]
func (ctrl *HealthController) HealthCheck(c *gin.Context) {
	sqlDB, err := ctrl.DB.DB()
	if err != nil {
		util.InternalServerError(c)
		return
	}
	if err := sqlDB.Ping(); err != nil {
		util.Error(c, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	cache := "up"
	if ctrl.Redis == nil || ctrl.Redis.Ping(c.Request.Context()).Err() != nil {
		cache = "down"
	}

	util.Success(c, gin.H{
		"status": "ok",
		"components": gin.H{
			"database": "up",
			"cache":    cache,
		},
	})
}
