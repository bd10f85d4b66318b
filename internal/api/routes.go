package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/ubuygold/recordkeeper/internal/auth"
	"github.com/ubuygold/recordkeeper/internal/config"
	"github.com/ubuygold/recordkeeper/internal/db"
	"github.com/ubuygold/recordkeeper/internal/keymanager"
	"github.com/ubuygold/recordkeeper/internal/records"
)

// SetupRoutes registers the record API and the health check on router.
// The bare trailing-slash routes answer with a missing-parameter failure
// and are not behind the key gate.
func SetupRoutes(router *gin.Engine, dbService db.Service, cfg *config.Config, log *slog.Logger) {
	handler := NewHandler(
		keymanager.NewKeyManager(dbService, log),
		records.NewService(dbService, log),
		log,
	)
	requireKey := auth.AuthMiddleware(dbService, cfg.Auth.Header, log)

	router.GET("/health", handler.HealthHandler)

	apiGroup := router.Group("/api")
	{
		apiGroup.POST("/generate_key/", handler.MissingUsernameHandler)
		apiGroup.POST("/generate_key/:username", handler.GenerateKeyHandler)

		apiGroup.GET("/list", handler.ListRecordsHandler)
		apiGroup.POST("/create", requireKey, handler.CreateRecordHandler)

		apiGroup.GET("/read/", handler.MissingIDHandler)
		apiGroup.GET("/read/:id", handler.ReadRecordHandler)

		apiGroup.PATCH("/modify/", handler.MissingIDHandler)
		apiGroup.PATCH("/modify/:id", requireKey, handler.ModifyRecordHandler)

		apiGroup.DELETE("/remove/", handler.MissingIDHandler)
		apiGroup.DELETE("/remove/:id", requireKey, handler.RemoveRecordHandler)
	}
}
