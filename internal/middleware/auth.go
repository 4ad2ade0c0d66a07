package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/quiz-platform/quiz-service/internal/models"
)

// identityKey is the gin context key the parsed caller identity lives under.
const identityKey = "user_identity"

// Claims mirror the token payload minted by the user service.
type Claims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// SignToken issues a token for the given identity. The service itself never
// mints production tokens; this exists for local development and tests.
func SignToken(secret []byte, user models.UserIdentity, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UID:   user.ID,
		Email: user.Email,
		Role:  string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func parseToken(secret []byte, tok string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tok, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	if c, ok := t.Claims.(*Claims); ok && t.Valid {
		return c, nil
	}
	return nil, errors.New("invalid token")
}

// Authenticate rejects requests without a valid Bearer token and attaches the
// caller identity to the gin context.
func Authenticate(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing bearer token"})
			return
		}

		claims, err := parseToken(secret, strings.TrimSpace(strings.TrimPrefix(header, "Bearer ")))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}

		c.Set(identityKey, models.UserIdentity{
			ID:    claims.UID,
			Email: claims.Email,
			Role:  models.UserRole(claims.Role),
		})
		c.Next()
	}
}

// RequireRoles aborts with 403 unless the caller holds one of the roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := Identity(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not authenticated"})
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Insufficient role"})
	}
}

// Identity returns the authenticated caller attached by Authenticate.
func Identity(c *gin.Context) (models.UserIdentity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return models.UserIdentity{}, false
	}
	user, ok := v.(models.UserIdentity)
	return user, ok
}
