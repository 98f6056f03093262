package twitch

import "errors"

var (
	// ErrNotConfigured is returned when the client id or secret is empty.
	ErrNotConfigured = errors.New("twitch credentials not configured")

	// ErrAuthFailed is returned when the token endpoint rejects the
	// credentials or cannot be reached.
	ErrAuthFailed = errors.New("twitch authentication failed")

	// ErrNeedsReauth is returned when the API answers 401. The cached token
	// has already been dropped, so the next call fetches a fresh one.
	ErrNeedsReauth = errors.New("twitch token expired")

	// ErrRequestFailed is returned for any other non-2xx API response or
	// transport error.
	ErrRequestFailed = errors.New("twitch request failed")
)
