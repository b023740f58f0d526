package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tapearn_webapp/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func jwtTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(), func(c *gin.Context) {
		uid, _ := c.Get("user_id")
		c.JSON(200, gin.H{"user_id": uid})
	})
	return r
}

func TestJWTMiddleware_BearerHeader(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-test-secret")
	service.InitJWT()

	token, err := service.GenerateJWT(7)
	require.NoError(t, err)

	r := jwtTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestJWTMiddleware_QueryToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-test-secret")
	service.InitJWT()

	token, err := service.GenerateJWT(9)
	require.NoError(t, err)

	r := jwtTestRouter()

	// WS clients cannot set headers, token arrives in the query
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected?token="+token, nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestJWTMiddleware_Rejections(t *testing.T) {
	t.Setenv("JWT_SECRET", "mw-test-secret")
	service.InitJWT()

	r := jwtTestRouter()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/protected", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "missing token")

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "garbage token")
}
