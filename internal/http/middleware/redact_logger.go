// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, an access logger that never logs
// bodies and scrubs credentials from what it does log. Twitch application
// credentials travel through this API (settings updates, credential tests),
// so on top of the usual Authorization/Cookie headers it masks the Twitch
// Client-Id header, the X-Twitch-Secret header and any query parameter whose
// name looks like a secret.
//
//	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
//	    MaskHeaders: []string{"X-Api-Key"},
//	}))
package middleware

import (
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const redacted = "[REDACTED]"

// DefaultMaskedHeaders are always masked by RedactingLogger.
var DefaultMaskedHeaders = []string{"Authorization", "Cookie", "Set-Cookie", "Client-Id", "X-Twitch-Secret"}

var (
	emailRE       = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
	secretParamRE = regexp.MustCompile(`(?i)(secret|token|password|client_?id)`)
)

// RedactOptions configures RedactingLogger.
//
// MaskHeaders lists extra request header names, matched case-insensitively,
// whose values are replaced with [REDACTED]. DefaultMaskedHeaders are always
// masked in addition.
type RedactOptions struct {
	MaskHeaders []string
}

// RedactingLogger is an access logger safe to run while credentials pass
// through the API.
//
// Behavior:
//   - Request and response bodies are never read or logged.
//   - Masked headers are logged as [REDACTED]; e-mail addresses in the other
//     header values are replaced with [REDACTED:email].
//   - Query parameters whose name looks like a secret (secret, token,
//     password, client id) are masked; see redactQuery.
//   - One line per request with request_id, method, route, query, status,
//     bytes and latency. 4xx log at warn, 5xx at error, the rest at info.
//
// Use it instead of Logger, not in addition to it.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	mask := make(map[string]struct{}, len(DefaultMaskedHeaders)+len(opts.MaskHeaders))
	for _, h := range append(append([]string{}, DefaultMaskedHeaders...), opts.MaskHeaders...) {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			mask[h] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		query := redactQuery(c.Request.URL.RawQuery)

		headers := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := mask[strings.ToLower(k)]; ok {
				headers[k] = redacted
				continue
			}
			headers[k] = emailRE.ReplaceAllString(strings.Join(vv, ", "), "[REDACTED:email]")
		}

		c.Next()

		status := c.Writer.Status()
		rid := c.Writer.Header().Get(requestIDHeader)
		if rid == "" {
			rid = c.GetHeader(requestIDHeader)
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error()
		case status >= 400:
			ev = log.Warn()
		}
		ev.
			Str("request_id", rid).
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", headers).
			Msg("http_request")
	}
}

// redactQuery masks the values of secret-looking parameters and scrubs
// e-mail addresses from the rest. Unparseable queries are masked entirely.
func redactQuery(raw string) string {
	if raw == "" {
		return ""
	}
	vals, err := url.ParseQuery(raw)
	if err != nil {
		return redacted
	}
	keys := make([]string, 0, len(vals))
	for k := range vals {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		for _, v := range vals[k] {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(k)
			b.WriteByte('=')
			if secretParamRE.MatchString(k) {
				b.WriteString(redacted)
			} else {
				b.WriteString(emailRE.ReplaceAllString(v, "[REDACTED:email]"))
			}
		}
	}
	return truncate(b.String(), maxQueryLogLength)
}
