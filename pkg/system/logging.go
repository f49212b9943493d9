package system

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReqLoggerKey is the context key used to store the request-scoped
// logger in the gin context.
const ReqLoggerKey = "reqLogger"

// RequestLogger assigns every request an ID and a scoped sugared
// logger carrying it. The ID is echoed in the X-Request-Id header so
// users can quote it when reporting problems.
func RequestLogger(base *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := uuid.NewString()
		reqLogger := base.With(
			"requestID", reqID,
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.Set(ReqLoggerKey, reqLogger)
		c.Header("X-Request-Id", reqID)
		c.Next()
	}
}

// GetReqLogger returns the request-scoped sugared logger from the gin
// context if present, otherwise the fallback.
func GetReqLogger(c *gin.Context, fallback *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil {
		return fallback
	}
	if v, ok := c.Get(ReqLoggerKey); ok {
		if l, ok2 := v.(*zap.SugaredLogger); ok2 {
			return l
		}
	}
	return fallback
}

// EnrichReqLoggerWithAuth annotates the request-scoped logger with the
// identity fields the auth middleware stored in the gin context.
func EnrichReqLoggerWithAuth(c *gin.Context, reqLogger *zap.SugaredLogger) *zap.SugaredLogger {
	if c == nil || reqLogger == nil {
		return reqLogger
	}
	if email := c.GetString("email"); email != "" {
		reqLogger = reqLogger.With("email", email)
	}
	if username := c.GetString("username"); username != "" {
		reqLogger = reqLogger.With("username", username)
	}
	return reqLogger
}
