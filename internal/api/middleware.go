package api

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/ubuygold/recordkeeper/internal/auth"
)

// Recovery recovers from handler panics. A client abort is logged as a warning
// and produces no response; anything else becomes a 500 failure envelope.
func Recovery(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				if recovered == http.ErrAbortHandler {
					log.Warn("Client connection aborted", "path", c.Request.URL.Path)
					c.Abort()
					return
				}

				log.Error("Panic recovered",
					"error", recovered,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, Envelope{
					Status:  StatusFailed,
					Message: auth.InternalErrorMessage,
				})
			}
		}()
		c.Next()
	}
}
