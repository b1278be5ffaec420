// Package httpx provides gin response helpers and middleware.
package httpx

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/kylejryan/claims-admin/internal/authz"
	"github.com/kylejryan/claims-admin/internal/logger"
	"github.com/kylejryan/claims-admin/internal/metrics"
)

const userSubKey = "user_sub"

// APIError is the body of every error response.
type APIError struct {
	Message string            `json:"message"`
	Code    string            `json:"code,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// ErrorEnvelope wraps an APIError.
type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// JSON writes v with the given status.
func JSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

// Error writes an error envelope and aborts the chain.
func Error(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{Error: APIError{Message: msg, Code: code}})
}

// FieldErrors writes a validation error envelope.
func FieldErrors(c *gin.Context, msg string, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusUnprocessableEntity, ErrorEnvelope{
		Error: APIError{Message: msg, Code: "validation_failed", Fields: fields},
	})
}

// CORS allows the admin front end origins. An empty list allows localhost dev servers.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"http://localhost:4200", "http://127.0.0.1:4200"}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-User-Sub"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

// RequestLogger logs one line per request, leveled by status.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}
		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", strings.ToUpper(c.Request.Method),
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if sub := c.GetString(userSubKey); sub != "" {
			fields = append(fields, "user_sub", sub)
		}
		if id := c.Param("id"); id != "" {
			fields = append(fields, "resource_id", id)
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// Metrics instruments request counts and latency when metrics are enabled.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		m.InFlight(1)
		defer m.InFlight(-1)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

// RequireAuth resolves the operator and rejects anonymous requests.
func RequireAuth(a authz.Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		sub, err := a.Subject(c.Request.Header)
		if err != nil {
			Error(c, http.StatusUnauthorized, "unauthorized", authz.ErrUnauthorized)
			return
		}
		c.Set(userSubKey, sub)
		c.Next()
	}
}

// UserSub returns the operator resolved by RequireAuth.
func UserSub(c *gin.Context) string { return c.GetString(userSubKey) }
