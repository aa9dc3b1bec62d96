package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ArowuTest/draws-backend/internal/config"
	"github.com/ArowuTest/draws-backend/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{AllowedHosts: []string{"localhost:3000"}},
		JWT:    config.JWTConfig{Secret: "s3cret", ExpiresIn: 3600},
	}
}

func newRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware(), CORSMiddleware(cfg), LoggerMiddleware())
	r.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"requestId": c.GetString(ContextRequestID)})
	})
	r.GET("/admin", JWTAuthMiddleware(cfg, utils.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString(ContextSubject)})
	})
	return r
}

func TestCORSMiddleware(t *testing.T) {
	r := newRouter(testConfig())

	tests := []struct {
		name   string
		method string
		origin string
		allow  string
		status int
	}{
		{name: "allowed origin", method: http.MethodGet, origin: "http://localhost:3000", allow: "http://localhost:3000", status: http.StatusOK},
		{name: "other origin", method: http.MethodGet, origin: "https://evil.example", allow: "", status: http.StatusOK},
		{name: "preflight", method: http.MethodOptions, origin: "http://localhost:3000", allow: "http://localhost:3000", status: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/open", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.allow, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := newRouter(testConfig())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/open", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/open", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get("X-Request-ID"))
	assert.JSONEq(t, `{"requestId":"abc"}`, w.Body.String())
}

func TestJWTAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	r := newRouter(cfg)

	admin, err := utils.GenerateJWT("root", utils.RoleAdmin, cfg)
	require.NoError(t, err)
	viewer, err := utils.GenerateJWT("someone", "viewer", cfg)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{name: "missing header", header: "", status: http.StatusUnauthorized},
		{name: "wrong schema", header: "Basic abc", status: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc", status: http.StatusUnauthorized},
		{name: "wrong role", header: "Bearer " + viewer, status: http.StatusForbidden},
		{name: "admin", header: "Bearer " + admin, status: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
		})
	}
}
