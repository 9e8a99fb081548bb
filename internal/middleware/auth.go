package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthCookieName is the cookie mirroring the bearer token for same-site
// requests. The Authorization header wins when both are present.
const AuthCookieName = "auth_token"

const tokenIssuer = "taskify-backend"

type AuthConfig struct {
	JWTSecret string
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"data":    nil,
		"popup":   nil,
		"error":   message,
	})
}

// AuthMiddleware validates the bearer token and stores the authenticated
// user id in the request context.
func AuthMiddleware(config AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := extractToken(c)
		if tokenStr == "" {
			unauthorized(c, "Authentication required")
			return
		}

		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(config.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			unauthorized(c, "Invalid or expired token")
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(c, "Invalid or expired token")
			return
		}

		if exp, ok := claims["exp"].(float64); ok {
			if time.Unix(int64(exp), 0).Before(time.Now()) {
				unauthorized(c, "Invalid or expired token")
				return
			}
		}

		if iss, ok := claims["iss"].(string); !ok || iss != tokenIssuer {
			unauthorized(c, "Invalid or expired token")
			return
		}

		userID, ok := claims["user_id"].(string)
		if !ok || userID == "" {
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set("user_id", userID)
		c.Set("auth_token", tokenStr)

		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return ""
		}
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if cookie, err := c.Cookie(AuthCookieName); err == nil {
		return cookie
	}

	return ""
}
