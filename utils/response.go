package utils

import (
	"net/http"

	model "heartbids/internal/models"

	"github.com/gin-gonic/gin"
)

// JSONResponse sends a success envelope in the auction API format
func JSONResponse(c *gin.Context, status int, data any, meta model.PageMeta) {
	c.JSON(status, gin.H{
		"data": data,
		"meta": meta,
	})
}

// JSONError sends an error body in the auction API format
func JSONError(c *gin.Context, status int, messages ...string) {
	details := make([]model.APIErrorDetail, 0, len(messages))
	for _, m := range messages {
		details = append(details, model.APIErrorDetail{Message: m})
	}
	c.AbortWithStatusJSON(status, model.APIErrorBody{
		Errors:     details,
		Status:     http.StatusText(status),
		StatusCode: status,
	})
}
