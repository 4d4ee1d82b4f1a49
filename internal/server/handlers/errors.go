package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/weaver/internal/domain/models"
	"github.com/mamadbah2/weaver/internal/service/mill"
	"github.com/mamadbah2/weaver/internal/service/salary"
)

// writeError maps service errors onto HTTP status codes. Unexpected errors are
// logged and hidden from the client.
func writeError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	switch {
	case errors.Is(err, mill.ErrInvalidInput), errors.Is(err, mill.ErrUnknownLoom), errors.Is(err, salary.ErrInvalidRange):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		logger.Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

func badRequest(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("invalid request", zap.Error(err), zap.String("path", c.FullPath()))
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
