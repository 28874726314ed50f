package apihandlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the uniform error body for API failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

func BadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

func NotFound(c *gin.Context, msg string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: msg})
}

func Internal(c *gin.Context, msg string) {
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: msg})
}
