package admin

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/ubuygold/recordkeeper/internal/auth"
	"github.com/ubuygold/recordkeeper/internal/config"
	"github.com/ubuygold/recordkeeper/internal/db"
)

// SetupRoutes mounts the read-only admin group. Nothing is mounted when no
// admin password is configured.
func SetupRoutes(router *gin.Engine, dbService db.Service, cfg *config.Config, log *slog.Logger) bool {
	if cfg.Admin.Password == "" {
		return false
	}

	handler := NewHandler(dbService, log)

	adminGroup := router.Group("/admin")
	adminGroup.Use(auth.AdminAuthMiddleware(cfg.Admin.Password))
	{
		keysGroup := adminGroup.Group("/keys")
		{
			keysGroup.GET("", handler.ListKeysHandler)
			keysGroup.GET("/:username", handler.GetKeyHandler)
		}
	}
	return true
}
