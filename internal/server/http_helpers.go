package server

import (
	"errors"
	"net/http"
	"time"

	"word-wolf/internal/game"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

func writeError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error": message,
	})
}

// writeGameError maps coordinator errors onto HTTP statuses. Anything that is
// not a coordinator error is a 500 with a generic message.
func writeGameError(c *gin.Context, err error) {
	var gerr *game.Error
	if !errors.As(err, &gerr) {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("unexpected handler error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": game.ErrInternal.Message, "code": game.ErrInternal.Code})
		return
	}
	c.JSON(statusFor(gerr), gin.H{"error": gerr.Message, "code": gerr.Code})
}

func statusFor(err *game.Error) int {
	switch err.Code {
	case game.ErrInvalidPhase.Code,
		game.ErrInvalidConfig.Code,
		game.ErrInsufficientKeywords.Code,
		game.ErrDuplicateSubmission.Code,
		game.ErrInvalidInput.Code:
		return http.StatusBadRequest
	case game.ErrNotFound.Code:
		return http.StatusNotFound
	case game.ErrRoomFull.Code,
		game.ErrAlreadyExists.Code,
		game.ErrNoSpeakCredits.Code:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeOK(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
