package utils

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	appConfig "github.com/prezm/poc-orchestrator/config"
)

func ExtractToken(c *gin.Context) string {
	if token, err := c.Cookie("access_token"); err == nil && token != "" {
		return token
	}
	authHeader := c.GetHeader("Authorization")
	parts := strings.Fields(authHeader)
	if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
		return parts[1]
	}
	return ""
}

func ParseToken(tokenString string, config *appConfig.EnvConfig) (*jwt.Token, error) {
	secret := []byte(config.JWT.SecretKey)
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
}

// InjectClaimsToContext copies the caller identity from token claims into the
// gin context. The email claim is mandatory; it is the key into the access
// registry for every authorization decision.
func InjectClaimsToContext(c *gin.Context, claims jwt.MapClaims) error {
	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return errors.New("invalid email claim")
	}
	c.Set("email", email)
	return nil
}

// GetEmailFromContext returns the authenticated caller's email.
func GetEmailFromContext(c *gin.Context) (string, error) {
	email := c.GetString("email")
	if email == "" {
		return "", errors.New("email not found in context")
	}
	return email, nil
}
