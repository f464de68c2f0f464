package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnect/pkg/apperror"
	"github.com/khoahotran/devconnect/pkg/auth"
	"github.com/khoahotran/devconnect/pkg/logger"
	"github.com/khoahotran/devconnect/pkg/metrics"
)

const (
	GinContextKeyUserID    = "userID"
	GinContextKeyRequestID = "requestID"

	HeaderRequestID = "X-Request-ID"
	// HeaderAuthToken is the header the web client sends the token in.
	HeaderAuthToken = "x-auth-token"
)

type ctxKey string

const userIDCtxKey ctxKey = "user_id"

func tokenFromRequest(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	return strings.TrimSpace(c.GetHeader(HeaderAuthToken))
}

// AuthMiddleware rejects the request with 401 before any handler runs unless it
// carries a valid token. A missing token is treated like an invalid one.
func AuthMiddleware(jwtSvc *auth.JWTService, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := tokenFromRequest(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "No token, authorization denied"})
			return
		}

		claims, err := jwtSvc.ValidateToken(tokenString)
		if err != nil {
			log.Debug("Rejected token", zap.Error(err), zap.String("request_id", c.GetString(GinContextKeyRequestID)))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"msg": "Token is not valid"})
			return
		}

		c.Set(GinContextKeyUserID, claims.User.ID)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), userIDCtxKey, claims.User.ID))

		c.Next()
	}
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(userIDCtxKey).(uuid.UUID)
	return userID, ok
}

func GetUserIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := c.Get(GinContextKeyUserID)
	if !ok {
		return uuid.Nil, false
	}
	userUUID, ok := userID.(uuid.UUID)
	if !ok {
		return uuid.Nil, false
	}
	return userUUID, true
}

// RequestID reuses the caller's X-Request-ID or generates one, and echoes it back.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(GinContextKeyRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("request",
			zap.String("id", c.GetString(GinContextKeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("remote", c.ClientIP()),
		)
	}
}

// Metrics labels by route template so path parameters do not blow up cardinality.
func Metrics(m *metrics.HTTP) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.Latency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// ErrorMiddleware renders the last error a handler pushed with c.Error. Anything
// that is not an *apperror.AppError is a 500 with no detail leaked.
func ErrorMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			appErr = apperror.NewInternal("unhandled error", err)
		}

		status := apperror.ToHTTPStatus(appErr)
		if status >= http.StatusInternalServerError {
			log.Error("Request failed", appErr.Cause(),
				zap.String("id", c.GetString(GinContextKeyRequestID)),
				zap.String("path", c.Request.URL.Path),
				zap.String("details", appErr.Details))
		}
		c.JSON(status, appErr.ToJSON())
	}
}
