package ginserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booknblock/internal/domain/shared/apperr"
)

// respondError maps the application error taxonomy onto HTTP statuses.
// Anything without a kind is an internal fault and must not leak its message.
func respondError(c *gin.Context, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindInvalidInput:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperr.KindAuthenticationRequired:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case apperr.KindUnauthorized:
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case apperr.KindNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case apperr.KindConflict:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
