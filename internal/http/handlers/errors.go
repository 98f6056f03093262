// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them. Generic
// codes mirror HTTP status semantics, domain codes name the business rule
// that rejected the request. writeError maps service, store and platform
// errors onto these codes.
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "duplicate_streamer",
//	  "message": "streamer already exists: alice"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeTimeout          = "timeout"
	ErrCodeInternal         = "internal_error"

	// Validation and business rules.
	ErrCodeValidation          = "validation_failed"
	ErrCodeUnsupportedLanguage = "unsupported_language"
	ErrCodeDuplicateStreamer   = "duplicate_streamer"
	ErrCodeTemplateRequired    = "template_required"
	ErrCodeEmptySelection      = "empty_selection"
	ErrCodeTemplateDeleted     = "template_deleted"
	ErrCodeStaleQuery          = "stale_query"

	// Local infrastructure.
	ErrCodePersistFailed        = "persist_failed"
	ErrCodeClipboardUnavailable = "clipboard_unavailable"

	// Streaming platform.
	ErrCodeTwitchNotConfigured = "twitch_not_configured"
	ErrCodeTwitchAuthFailed    = "twitch_auth_failed"
	ErrCodeNeedsReauth         = "needs_reauth"
	ErrCodePlatformError       = "platform_error"
)
