// internal/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskkeeper/internal/session"
)

// SessionCookieName is the fixed name of the session cookie.
const SessionCookieName = "task_session"

// ContextKeyUserID is the request-context key for the authenticated user id.
const ContextKeyUserID = "user_id"

// RequireSession resolves the session cookie to an authenticated user and
// stores the user id on the request context. Requests without a live session
// are rejected with 401 before reaching any handler.
func RequireSession(sessions session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}

		sess, err := sessions.Get(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
			return
		}

		c.Set(ContextKeyUserID, sess.UserID)
		c.Next()
	}
}

// UserID extracts the authenticated user id set by RequireSession.
func UserID(c *gin.Context) (int, bool) {
	v, ok := c.Get(ContextKeyUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(int)
	return id, ok
}
