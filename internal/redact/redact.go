// Package redact scrubs credentials from strings before they are logged.
// Error text can embed bearer tokens, passwords, or database connection
// strings; everything that reaches a log line goes through here first.
package redact

import "regexp"

// Placeholder substituted for redacted content.
const Placeholder = "[REDACTED]"

var patterns = []*regexp.Regexp{
	// database connection strings with embedded credentials
	regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`),
	// JWT bearer tokens (three base64url segments)
	regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
	// password/secret key-value fragments
	regexp.MustCompile(`(?i)(password|passwd|secret|token)([=:\s]['"]?)[^'"&\s]{3,}`),
}

// String returns s with any recognized credential material replaced by the
// placeholder.
func String(s string) string {
	for _, p := range patterns {
		s = p.ReplaceAllString(s, Placeholder)
	}
	return s
}

// Error redacts an error's message. Nil-safe.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
