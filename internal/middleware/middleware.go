package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/eventhub/internal/helpers"
	"github.com/joshua-takyi/eventhub/internal/lib/logger/sl"
)

const RequestIDKey = "request_id"

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		requestID, _ := c.Get(RequestIDKey)

		logger.Info("HTTP Request",
			"request_id", requestID,
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		)
	}
}

// StatusFor maps a service error onto an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, helpers.ErrInvalidID),
		errors.Is(err, helpers.ErrRejectedInput),
		errors.Is(err, helpers.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, helpers.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders the last error attached by a handler. Client errors
// carry their message; anything else is logged and hidden behind a generic
// body with the request id.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := StatusFor(err)
		if status < http.StatusInternalServerError {
			c.JSON(status, helpers.ErrorResponse(err.Error()))
			return
		}

		requestID, _ := c.Get(RequestIDKey)
		logger.Error("Request error",
			"request_id", requestID,
			sl.Err(err),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		resp := helpers.ErrorResponse("Internal server error")
		if id, ok := requestID.(string); ok {
			resp.RequestID = id
		}
		c.JSON(status, resp)
	}
}
