package middleware

import (
	"fmt"
	"strings"

	"contracts-app/config"
	"contracts-app/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		jwtKey := []byte(config.JWT_SECRET)
		if len(jwtKey) == 0 {
			apperr.Write(c, fmt.Errorf("JWT secret not configured"))
			return
		}
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apperr.Write(c, apperr.Unauthorized("Authorization header missing"))
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			apperr.Write(c, apperr.Unauthorized("Bearer token malformed"))
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return jwtKey, nil
		})
		if err != nil || !token.Valid {
			apperr.Write(c, apperr.Unauthorized("Invalid or expired token"))
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			apperr.Write(c, apperr.Unauthorized("Invalid token claims"))
			return
		}
		if email, ok := claims["email"].(string); ok {
			c.Set("email", email)
		}
		if role, ok := claims["role"].(string); ok {
			c.Set("role", role)
		}
		userID, ok := claims["user_id"].(float64)
		if !ok || userID <= 0 {
			apperr.Write(c, apperr.Unauthorized("Invalid token claims"))
			return
		}
		c.Set("user_id", uint(userID))
		c.Next()
	}
}

func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get("role")
		if !exists {
			apperr.Write(c, apperr.Unauthorized("Role not found in token"))
			return
		}
		if value != role {
			apperr.Write(c, apperr.Forbidden("Access denied"))
			return
		}
		c.Next()
	}
}
