package httpx

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylejryan/claims-admin/internal/authz"
	"github.com/kylejryan/claims-admin/internal/logger"
	"github.com/kylejryan/claims-admin/internal/metrics"
)

func init() { gin.SetMode(gin.TestMode) }

func router() *gin.Engine {
	r := gin.New()
	r.Use(RequestLogger(logger.Nop()), Metrics(metrics.New()), CORS(nil))
	g := r.Group("/", RequireAuth(authz.Authenticator{DevBypass: true}))
	g.GET("/whoami", func(c *gin.Context) { JSON(c, http.StatusOK, gin.H{"sub": UserSub(c)}) })
	g.GET("/fail", func(c *gin.Context) { Error(c, http.StatusConflict, "conflict", errors.New("taken")) })
	g.GET("/invalid", func(c *gin.Context) { FieldErrors(c, "bad", map[string]string{"Tel": "invalid"}) })
	return r
}

func do(r http.Handler, path string, h map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range h {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := router()
	w := do(r, "/whoami", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":{"message":"unauthorized","code":"unauthorized"}}`, w.Body.String())

	w = do(r, "/whoami", map[string]string{"X-User-Sub": "ann"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sub":"ann"}`, w.Body.String())
}

func TestErrorEnvelopes(t *testing.T) {
	r := router()
	h := map[string]string{"X-User-Sub": "ann"}

	w := do(r, "/fail", h)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.JSONEq(t, `{"error":{"message":"taken","code":"conflict"}}`, w.Body.String())

	w = do(r, "/invalid", h)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `{"error":{"message":"bad","code":"validation_failed","fields":{"Tel":"invalid"}}}`, w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r := router()
	req := httptest.NewRequest(http.MethodOptions, "/whoami", nil)
	req.Header.Set("Origin", "http://localhost:4200")
	req.Header.Set("Access-Control-Request-Method", "PATCH")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:4200", w.Header().Get("Access-Control-Allow-Origin"))
}
