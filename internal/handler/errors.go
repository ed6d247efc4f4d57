package handler

import (
	"errors"
	"net/http"

	"tokyo-valuation-api/internal/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// statusOf maps an application error code to an HTTP status.
func statusOf(code apperrors.Code) int {
	switch code {
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeNoLocationAvailable:
		return http.StatusNotFound
	case apperrors.CodeAmbiguousLocation:
		return http.StatusConflict
	case apperrors.CodeModelUnavailable, apperrors.CodeCorruptArtifact, apperrors.CodeMissingArtifact:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeError renders err as a JSON error body. Errors without a code are
// logged and hidden behind a generic message.
func writeError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	status := statusOf(appErr.Code)
	if status == http.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.FullPath()).Msg("internal error")
	}

	body := gin.H{
		"error": appErr.Message,
		"code":  appErr.Code,
	}
	if appErr.Details != "" {
		body["details"] = appErr.Details
	}
	if candidates, ok := appErr.Metadata["candidates"]; ok {
		body["candidates"] = candidates
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error": msg,
		"code":  apperrors.CodeInvalidInput,
	})
}
