package admin

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ubuygold/recordkeeper/internal/db"
	"github.com/ubuygold/recordkeeper/internal/model"
)

// KeyView is an issued key as shown to operators. The secret is masked.
type KeyView struct {
	ID        uint   `json:"id"`
	Username  string `json:"username"`
	Key       string `json:"key"`
	CreatedOn string `json:"created_on"`
}

func newKeyView(k model.AuthenticationKey) KeyView {
	return KeyView{
		ID:        k.ID,
		Username:  k.Username,
		Key:       k.MaskedKey(),
		CreatedOn: k.CreatedOn,
	}
}

type Handler struct {
	db     db.Service
	logger *slog.Logger
}

func NewHandler(dbService db.Service, log *slog.Logger) *Handler {
	return &Handler{db: dbService, logger: log.With("component", "admin")}
}

func (h *Handler) ListKeysHandler(c *gin.Context) {
	keys, err := h.db.ListAuthenticationKeys(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list API keys", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list keys"})
		return
	}

	views := make([]KeyView, 0, len(keys))
	for _, k := range keys {
		views = append(views, newKeyView(k))
	}
	c.JSON(http.StatusOK, views)
}

func (h *Handler) GetKeyHandler(c *gin.Context) {
	key, err := h.db.FindAuthenticationKeyByUsername(c.Request.Context(), c.Param("username"))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Key not found"})
			return
		}
		h.logger.Error("Failed to get API key", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get key"})
		return
	}
	c.JSON(http.StatusOK, newKeyView(*key))
}
