package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"join/internal/auth"
)

const (
	// SessionKey holds the auth.Session of the request in the gin context.
	SessionKey = "session"
	UserIDKey  = "user_id"

	// SessionCookie carries the session token for browser requests.
	SessionCookie = "currentUser"
	// GreetingCookie is set at login and cleared once the greeting was shown.
	GreetingCookie = "greeting"
)

// JWTAuthMiddleware guards the JSON API. The token comes from the
// Authorization header or, failing that, the session cookie.
func JWTAuthMiddleware(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, msg := bearerToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		session, err := tokens.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		setSession(c, session)
		c.Next()
	}
}

// PageAuthMiddleware guards HTML pages and datastar endpoints. Requests
// without a valid session cookie are sent to the login page.
func PageAuthMiddleware(tokens *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie(SessionCookie)
		if err == nil && tokenStr != "" {
			if session, err := tokens.ParseToken(tokenStr); err == nil {
				setSession(c, session)
				c.Next()
				return
			}
		}
		c.Redirect(http.StatusFound, "/login")
		c.Abort()
	}
}

// CurrentSession returns the session stored by one of the auth middlewares.
func CurrentSession(c *gin.Context) (auth.Session, bool) {
	v, ok := c.Get(SessionKey)
	if !ok {
		return auth.Session{}, false
	}
	s, ok := v.(auth.Session)
	return s, ok
}

func setSession(c *gin.Context, s auth.Session) {
	c.Set(SessionKey, s)
	c.Set(UserIDKey, s.UserID)
}

func bearerToken(c *gin.Context) (string, string) {
	header := c.GetHeader("Authorization")
	if header == "" {
		if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
			return cookie, ""
		}
		return "", "Authorization header is required"
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", "Authorization header format must be Bearer {token}"
	}
	return parts[1], ""
}
