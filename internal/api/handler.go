package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ubuygold/recordkeeper/internal/auth"
	"github.com/ubuygold/recordkeeper/internal/keymanager"
	"github.com/ubuygold/recordkeeper/internal/records"
)

// Handler serves the /api endpoints.
type Handler struct {
	keys    keymanager.Issuer
	records records.Manager
	logger  *slog.Logger
}

func NewHandler(keys keymanager.Issuer, recordManager records.Manager, log *slog.Logger) *Handler {
	return &Handler{
		keys:    keys,
		records: recordManager,
		logger:  log.With("component", "api"),
	}
}

type listQuery struct {
	Limit  *int `form:"limit" binding:"omitempty,min=1"`
	Offset *int `form:"offset" binding:"omitempty,min=0"`
}

func (h *Handler) MissingUsernameHandler(c *gin.Context) {
	fail(c, http.StatusBadRequest, MissingUsernameMessage)
}

func (h *Handler) MissingIDHandler(c *gin.Context) {
	fail(c, http.StatusBadRequest, MissingIDMessage)
}

func (h *Handler) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) GenerateKeyHandler(c *gin.Context) {
	key, err := h.keys.IssueKey(c.Request.Context(), c.Param("username"))
	switch {
	case err == nil:
		success(c, http.StatusCreated, Envelope{
			Message:   KeyCreatedMessage,
			Username:  key.Username,
			APIKey:    key.Key,
			CreatedOn: key.CreatedOn,
		})
	case errors.Is(err, keymanager.ErrMissingUsername):
		fail(c, http.StatusBadRequest, MissingUsernameMessage)
	case errors.Is(err, keymanager.ErrInvalidUsername):
		fail(c, http.StatusBadRequest, UsernameTooLongMessage)
	case errors.Is(err, keymanager.ErrUsernameTaken):
		fail(c, http.StatusConflict, UsernameUsedMessage)
	default:
		h.logger.Error("Failed to issue API key", "error", err)
		internalError(c)
	}
}

func (h *Handler) ListRecordsHandler(c *gin.Context) {
	var query listQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": StatusFailed, "message": "Invalid limit or offset"})
		return
	}

	summaries, err := h.records.List(c.Request.Context(), records.ListFilter{Limit: query.Limit, Offset: query.Offset})
	if err != nil {
		h.logger.Error("Failed to list records", "error", err)
		internalError(c)
		return
	}
	c.JSON(http.StatusOK, summaries)
}

func (h *Handler) CreateRecordHandler(c *gin.Context) {
	fields, ok := h.bindFields(c)
	if !ok {
		return
	}

	record, err := h.records.Create(c.Request.Context(), fields, auth.CurrentUsername(c))
	if err != nil {
		if errors.Is(err, records.ErrEmptyRecord) {
			fail(c, http.StatusBadRequest, EmptyRecordMessage)
			return
		}
		h.logger.Error("Failed to create record", "error", err)
		internalError(c)
		return
	}

	success(c, http.StatusCreated, Envelope{Message: RecordCreatedMessage, RecordInfo: record})
}

func (h *Handler) ReadRecordHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	record, err := h.records.Get(c.Request.Context(), id)
	if err != nil {
		h.recordError(c, err, "Failed to read record")
		return
	}

	success(c, http.StatusOK, Envelope{Message: RecordFoundMessage, RecordInfo: record})
}

func (h *Handler) ModifyRecordHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	fields, ok := h.bindFields(c)
	if !ok {
		return
	}

	record, err := h.records.Update(c.Request.Context(), id, fields, auth.CurrentUsername(c))
	if err != nil {
		h.recordError(c, err, "Failed to modify record")
		return
	}

	success(c, http.StatusOK, Envelope{Message: RecordUpdatedMessage, RecordInfo: record})
}

func (h *Handler) RemoveRecordHandler(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.records.Delete(c.Request.Context(), id, auth.CurrentUsername(c)); err != nil {
		h.recordError(c, err, "Failed to remove record")
		return
	}

	success(c, http.StatusOK, Envelope{Message: RecordRemovedMessage})
}

// bindFields decodes the record payload. A missing or empty body is an empty payload.
func (h *Handler) bindFields(c *gin.Context) (records.Fields, bool) {
	var fields records.Fields
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return fields, true
	}
	if err := c.ShouldBindJSON(&fields); err != nil {
		if errors.Is(err, io.EOF) {
			return records.Fields{}, true
		}
		h.logger.Debug("Rejected record payload", "error", err)
		fail(c, http.StatusBadRequest, InvalidBodyMessage)
		return records.Fields{}, false
	}
	return fields, true
}

func (h *Handler) recordError(c *gin.Context, err error, msg string) {
	if errors.Is(err, records.ErrRecordNotFound) {
		fail(c, http.StatusNotFound, RecordNotFoundMessage)
		return
	}
	h.logger.Error(msg, "error", err)
	internalError(c)
}

// parseID reads the :id parameter. Anything but a positive integer names no record.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 0)
	if err != nil || id == 0 {
		fail(c, http.StatusNotFound, RecordNotFoundMessage)
		return 0, false
	}
	return uint(id), true
}
