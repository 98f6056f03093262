// Package handlers provides HTTP handler implementations for the public API.
//
// This file defines the response helpers shared by every endpoint: the
// ErrorResponse envelope, fail/ok/noContent, and writeError, which turns a
// service-layer error into a status code and a stable error code.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-shoutout-manager/internal/clipboard"
	"github.com/tbourn/go-shoutout-manager/internal/http/middleware"
	"github.com/tbourn/go-shoutout-manager/internal/search"
	"github.com/tbourn/go-shoutout-manager/internal/services"
	"github.com/tbourn/go-shoutout-manager/internal/store"
	"github.com/tbourn/go-shoutout-manager/internal/twitch"
)

// ErrorResponse is the standard error envelope returned by all endpoints.
type ErrorResponse struct {
	// Correlates server logs and client errors
	RequestID string `json:"request_id,omitempty" example:"123e4567-e89b-12d3-a456-426614174000"`
	// Stable, machine-readable code (see errors.go constants)
	Code string `json:"code" example:"empty_selection"`
	// Human-readable message (safe to show to users)
	Message string `json:"message" example:"please select at least one streamer"`
}

// fail aborts with an ErrorResponse. 5xx responses are logged with the
// request-scoped logger.
func fail(c *gin.Context, status int, code, msg string) {
	resp := ErrorResponse{
		RequestID: c.Writer.Header().Get("X-Request-ID"),
		Code:      code,
		Message:   msg,
	}
	if status >= http.StatusInternalServerError {
		middleware.LoggerFrom(c).Error().
			Int("status", status).
			Str("code", code).
			Str("message", msg).
			Msg("api error")
	}
	c.AbortWithStatusJSON(status, resp)
}

// Fail is the exported variant of fail for the router's NoRoute/NoMethod.
func Fail(c *gin.Context, status int, code, msg string) { fail(c, status, code, msg) }

func ok(c *gin.Context, status int, body any) {
	c.JSON(status, body)
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// errorMapping is one row of the error table consulted by writeError.
type errorMapping struct {
	target error
	status int
	code   string
}

// First match wins.
var errorTable = []errorMapping{
	{store.ErrEmptyName, http.StatusBadRequest, ErrCodeValidation},
	{store.ErrEmptyField, http.StatusBadRequest, ErrCodeValidation},
	{store.ErrEmptyGroup, http.StatusBadRequest, ErrCodeValidation},
	{store.ErrInvalidSetting, http.StatusBadRequest, ErrCodeValidation},
	{store.ErrUnsupportedLanguage, http.StatusBadRequest, ErrCodeUnsupportedLanguage},
	{store.ErrDuplicateStreamer, http.StatusConflict, ErrCodeDuplicateStreamer},
	{services.ErrTemplateRequired, http.StatusBadRequest, ErrCodeTemplateRequired},
	{services.ErrEmptySelection, http.StatusBadRequest, ErrCodeEmptySelection},
	{services.ErrTemplateNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrStreamerNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrGroupNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrHistoryNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrTemplateDeleted, http.StatusGone, ErrCodeTemplateDeleted},
	{search.ErrStaleQuery, http.StatusConflict, ErrCodeStaleQuery},
	{twitch.ErrNotConfigured, http.StatusBadRequest, ErrCodeTwitchNotConfigured},
	{twitch.ErrAuthFailed, http.StatusBadGateway, ErrCodeTwitchAuthFailed},
	{twitch.ErrNeedsReauth, http.StatusBadGateway, ErrCodeNeedsReauth},
	{twitch.ErrRequestFailed, http.StatusBadGateway, ErrCodePlatformError},
	{clipboard.ErrUnavailable, http.StatusServiceUnavailable, ErrCodeClipboardUnavailable},
	{store.ErrPersist, http.StatusInternalServerError, ErrCodePersistFailed},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, ErrCodeTimeout},
}

// classify returns the status and code for err. Unknown errors are 500.
func classify(err error) (int, string) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m.status, m.code
		}
	}
	return http.StatusInternalServerError, ErrCodeInternal
}

// writeError maps err onto the error envelope. Internal errors get a
// generic message; everything else surfaces err's text.
func writeError(c *gin.Context, err error) {
	status, code := classify(err)
	msg := err.Error()
	if code == ErrCodeInternal {
		msg = "internal server error"
		middleware.LoggerFrom(c).Error().Err(err).Msg("unhandled error")
	}
	fail(c, status, code, msg)
}

// persistWarning turns a save failure that did not prevent the operation
// into a warning string for the response body. Other errors yield "".
func persistWarning(err error) string {
	if errors.Is(err, store.ErrPersist) {
		return "changes applied but not saved: " + err.Error()
	}
	return ""
}

// bindJSON decodes the request body into v, failing with 400 on bad JSON.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be omitted.
func bindOptionalJSON(c *gin.Context, v any) bool {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, v)
}
