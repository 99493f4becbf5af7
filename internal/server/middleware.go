package server

import (
	"net/http"
	"strings"
	"time"

	"heartbids/internal/biddingerrors"
	"heartbids/internal/repository"
	"heartbids/services/auction/helpers"
	"heartbids/utils"

	"github.com/gin-gonic/gin"
)

const headerAPIKey = "X-Noroff-API-Key"

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next()

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"user":    helpers.CurrentUser(c),
		"latency": time.Since(start).String(),
	})
}

// CallCounter records every request against its route template, e.g. "POST /auction/listings/:id/bids".
func CallCounter(store repository.AuctionDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		store.CountCall(c.Request.Method + " " + route)
		c.Next()
	}
}

// APIKeyMiddleware rejects requests without the configured key. An empty key disables the check.
func APIKeyMiddleware(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" || c.GetHeader(headerAPIKey) == key {
			c.Next()
			return
		}
		helpers.RespondError(c, "APIKeyMiddleware", biddingerrors.ErrInvalidAPIKey, map[string]any{"path": c.Request.URL.Path})
	}
}

// BearerMiddleware resolves the access token to a profile name and stores it under helpers.UserKey.
func BearerMiddleware(store repository.AuctionDB) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid access token")
			return
		}

		name, err := store.Authenticate(strings.TrimSpace(raw))
		if err != nil {
			helpers.RespondError(c, "BearerMiddleware", err, map[string]any{"path": c.Request.URL.Path})
			return
		}
		c.Set(helpers.UserKey, name)
		c.Next()
	}
}
