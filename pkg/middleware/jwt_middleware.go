package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"stajdefteri/pkg/utils"
)

const (
	StudentIDKey   = "student_id"
	StudentNameKey = "student_name"
)

// JWTAuthMiddleware accepts tokens minted by the identity provider and puts
// the student id on the context.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authorization header missing or invalid")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateToken(secret, tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(StudentIDKey, claims.Subject)
		c.Set(StudentNameKey, claims.Name)
		c.Next()
	}
}
