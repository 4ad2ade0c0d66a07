package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quiz-platform/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
)

var testSecret = []byte("test-secret")

func newAuthRouter(roles ...models.UserRole) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	group := router.Group("/", Authenticate(testSecret))
	if len(roles) > 0 {
		group.Use(RequireRoles(roles...))
	}
	group.GET("/whoami", func(c *gin.Context) {
		user, ok := Identity(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, user)
	})
	return router
}

func doRequest(router *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	t.Run("missing token yields 401", func(t *testing.T) {
		w := doRequest(newAuthRouter(), "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("garbage token yields 401", func(t *testing.T) {
		w := doRequest(newAuthRouter(), "not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("token signed with another secret yields 401", func(t *testing.T) {
		token, err := SignToken([]byte("other-secret"), models.UserIdentity{ID: "u1", Role: models.RolePlayer}, time.Minute)
		assert.NoError(t, err)

		w := doRequest(newAuthRouter(), token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("expired token yields 401", func(t *testing.T) {
		token, err := SignToken(testSecret, models.UserIdentity{ID: "u1", Role: models.RolePlayer}, -time.Minute)
		assert.NoError(t, err)

		w := doRequest(newAuthRouter(), token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		user := models.UserIdentity{ID: "u1", Email: "u1@example.com", Role: models.RolePlayer}
		token, err := SignToken(testSecret, user, time.Minute)
		assert.NoError(t, err)

		w := doRequest(newAuthRouter(), token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"u1@example.com"`)
		assert.Contains(t, w.Body.String(), `"PLAYER"`)
	})
}

func TestRequireRoles(t *testing.T) {
	t.Run("player is refused an admin route", func(t *testing.T) {
		token, err := SignToken(testSecret, models.UserIdentity{ID: "u1", Role: models.RolePlayer}, time.Minute)
		assert.NoError(t, err)

		w := doRequest(newAuthRouter(models.RoleAdmin), token)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("any listed role passes", func(t *testing.T) {
		token, err := SignToken(testSecret, models.UserIdentity{ID: "m1", Role: models.RoleModerator}, time.Minute)
		assert.NoError(t, err)

		w := doRequest(newAuthRouter(models.RoleModerator, models.RoleAdmin), token)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
