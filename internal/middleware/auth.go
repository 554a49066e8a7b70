package middleware

import (
	"strings"

	"github.com/Harini-0111/electronics-astra-user/internal/config"
	"github.com/Harini-0111/electronics-astra-user/internal/util"
	"github.com/gin-gonic/gin"
)

func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("student", claims)
		c.Next()
	}
}

// TryAuthMiddleware attaches claims when a valid token is present but
// never rejects; session-status works for logged-out callers too.
func TryAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret); err == nil {
				c.Set("student", claims)
			}
		}
		c.Next()
	}
}

type StudentActivityRepo interface {
	UpdateLastSeen(studentID uint) error
}

func ActivityMiddleware(repo StudentActivityRepo) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetStudentFromContext(c)
		if claims != nil {
			// Async so the request path never waits on it.
			go repo.UpdateLastSeen(claims.StudentID)
		}
		c.Next()
	}
}
