package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/lumenlearn/engage-go/internal/infrastructure/observability/logging"
	"github.com/lumenlearn/engage-go/internal/infrastructure/security"
	"github.com/lumenlearn/engage-go/pkg/config"
)

const sessionIDKey = "sessionID"

// SessionMiddleware resolves the caller's session id from the session header.
// A request without one gets a fresh ULID, echoed back in the response header
// so the client can adopt it.
func SessionMiddleware(logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(config.SessionHeader)
		if sessionID == "" {
			sessionID = security.GenerateULID()
			logger.Cache().Debug("Issued new session id", "sessionId", sessionID, "path", c.Request.URL.Path)
		}

		c.Header(config.SessionHeader, sessionID)
		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// GetSessionID returns the resolved session id for the request.
func GetSessionID(c *gin.Context) (string, bool) {
	sessionID, exists := c.Get(sessionIDKey)
	if !exists {
		return "", false
	}
	id, ok := sessionID.(string)
	return id, ok && id != ""
}
