package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lingora/lingora-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
)

func newAuthRouter(manager *jwt.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	r.GET("/private", JWTAuth(manager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	r.GET("/admin", JWTAuth(manager), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/open", OptionalJWTAuth(manager), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": GetUserID(c)})
	})
	return r
}

func TestJWTAuth_RejectsMissingToken(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour, time.Hour)
	r := newAuthRouter(manager)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/private", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_RejectsGarbageToken(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour, time.Hour)
	r := newAuthRouter(manager)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuth_AcceptsValidToken(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour, time.Hour)
	r := newAuthRouter(manager)

	token, err := manager.GenerateToken("u1", "tester", false)
	assert.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "u1")
}

func TestRequireAdmin_RejectsRegularUser(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour, time.Hour)
	r := newAuthRouter(manager)

	token, _ := manager.GenerateToken("u1", "tester", false)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdmin_AcceptsAdmin(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour, time.Hour)
	r := newAuthRouter(manager)

	token, _ := manager.GenerateToken("u1", "admin", true)
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalJWTAuth_AnonymousPasses(t *testing.T) {
	manager := jwt.NewManager("test-secret", time.Hour, time.Hour)
	r := newAuthRouter(manager)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetActorID_NilWhenAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Nil(t, GetActorID(c))

	c.Set(CtxUserID, "u1")
	actor := GetActorID(c)
	assert.NotNil(t, actor)
	assert.Equal(t, "u1", *actor)
}
