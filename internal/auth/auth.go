package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ubuygold/recordkeeper/internal/db"
	"github.com/ubuygold/recordkeeper/internal/model"

	"github.com/gin-gonic/gin"
)

const (
	// NotAuthenticatedMessage is returned whenever a key does not match.
	NotAuthenticatedMessage = "You are not authenticated! Please add an authentication key to the header and try again!"
	// InternalErrorMessage is returned on unexpected storage failures.
	InternalErrorMessage = "Something went wrong! Please try again later!"

	keyContextKey = "authenticationKey"
)

// AuthMiddleware rejects requests whose header value matches no issued key.
// The matched key is stored on the context for CurrentKey.
func AuthMiddleware(dbService db.Service, header string, log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(header)
		if token == "" {
			abortNotAuthenticated(c)
			return
		}

		apiKey, err := dbService.FindAuthenticationKeyByKey(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, db.ErrNotFound) {
				abortNotAuthenticated(c)
				return
			}
			log.Error("Failed to look up API key", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"status": "failed", "message": InternalErrorMessage})
			return
		}

		c.Set(keyContextKey, apiKey)
		c.Next()
	}
}

func abortNotAuthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "failed", "message": NotAuthenticatedMessage})
}

// CurrentKey returns the key matched by AuthMiddleware for this request.
func CurrentKey(c *gin.Context) (*model.AuthenticationKey, bool) {
	value, ok := c.Get(keyContextKey)
	if !ok {
		return nil, false
	}
	apiKey, ok := value.(*model.AuthenticationKey)
	return apiKey, ok
}

// CurrentUsername returns the username owning the presented key.
func CurrentUsername(c *gin.Context) string {
	if apiKey, ok := CurrentKey(c); ok {
		return apiKey.Username
	}
	return ""
}

func AdminAuthMiddleware(adminPassword string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, password, hasAuth := c.Request.BasicAuth()
		if !hasAuth || user != "admin" || password != adminPassword {
			c.Header("WWW-Authenticate", `Basic realm="Restricted"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"status": "failed", "message": "Unauthorized"})
			return
		}
		c.Next()
	}
}
