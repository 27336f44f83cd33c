package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var zlog = zap.NewNop()

// SetLogger wires the process logger into the handlers package
func SetLogger(l *zap.Logger) {
	zlog = l
}

// handleError provides a consistent way to handle and log errors
func handleError(c *gin.Context, status int, message string, err error) {
	zlog.Warn("request failed",
		zap.String("path", c.FullPath()),
		zap.String("message", message),
		zap.Error(err))
	c.JSON(status, gin.H{"error": message})
}

// HomeHandler handles requests to the root path "/"
func HomeHandler(c *gin.Context) {
	c.String(http.StatusOK, "HPFP compliance reminder service")
}

// HealthHandler is a simple health check endpoint
func HealthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
