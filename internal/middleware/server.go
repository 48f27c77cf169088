package middleware

import (
	"log/slog"
	"time"

	"hireflow_backend/internal/logger"
	"hireflow_backend/pkg/contextkeys"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const requestIDHeader = "X-Request-ID"

// RequestIDMiddleware принимает X-Request-ID клиента или генерирует новый
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		ctx := logger.WithRequestID(c.Request.Context(), requestID)
		c.Request = c.Request.WithContext(ctx)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		ctx := c.Request.Context()
		fields := []any{
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Int("status", c.Writer.Status()),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Duration("duration", duration),
			slog.Int("size_bytes", c.Writer.Size()),
		}
		if c.Writer.Status() >= 500 {
			logger.CtxError(ctx, "HTTP Server Error", fields...)
		} else if c.Writer.Status() >= 400 {
			logger.CtxWarn(ctx, "HTTP Client Error", fields...)
		} else {
			logger.CtxInfo(ctx, "HTTP Request", fields...)
		}
	}
}

// DBMiddleware кладет в gin.Context пул (или транзакцию из контекста запроса),
// привязанный к context.Context запроса
func DBMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbKey := string(contextkeys.DBContextKey)
		ctx := c.Request.Context()

		if tx, ok := ctx.Value(contextkeys.DBContextKey).(*gorm.DB); ok && tx != nil {
			c.Set(dbKey, tx.WithContext(ctx))
		} else {
			c.Set(dbKey, db.WithContext(ctx))
		}

		c.Next()
	}
}

// CORSMiddleware - пустой список или "*" разрешают любой origin
func CORSMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", requestIDHeader}
	cfg.ExposeHeaders = []string{requestIDHeader, "Content-Disposition"}
	cfg.MaxAge = 12 * time.Hour

	if len(origins) == 0 || contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
