package logger

import (
	"log/slog"
	"strings"
)

// redactedValue replaces values of sensitive keys.
const redactedValue = "***REDACTED***"

// sensitiveKeys are substrings of attribute keys whose values are never
// printed.
var sensitiveKeys = []string{"password", "secret", "token", "credential", "authorization", "bearer"}

const bearerPrefix = "Bearer "

// redactSensitive masks JWTs in any string value, blanks string values
// of sensitive keys and recurses into groups.
func redactSensitive(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		v := a.Value.String()
		switch {
		case IsSensitiveValue(v):
			a.Value = slog.StringValue(RedactString(v))
		case v != "" && IsSensitiveKey(a.Key):
			a.Value = slog.StringValue(redactedValue)
		}
	case slog.KindGroup:
		group := a.Value.Group()
		out := make([]slog.Attr, 0, len(group))
		for _, g := range group {
			out = append(out, redactSensitive(g))
		}
		a.Value = slog.GroupValue(out...)
	}
	return a
}

// RedactString shortens a token or bearer header to a recognizable hint,
// for example "eyJhbG...bHVl". Other values are returned unchanged.
func RedactString(value string) string {
	tok, hadPrefix := strings.CutPrefix(value, bearerPrefix)
	if !looksLikeJWT(tok) {
		return value
	}
	hint := tok[:3] + "***"
	if len(tok) > 12 {
		hint = tok[:6] + "..." + tok[len(tok)-4:]
	}
	if hadPrefix {
		return bearerPrefix + hint
	}
	return hint
}

// IsSensitiveKey reports whether an attribute key names a secret.
func IsSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(key, s) {
			return true
		}
	}
	return false
}

// IsSensitiveValue reports whether value is a JWT, bare or as a bearer
// header.
func IsSensitiveValue(value string) bool {
	return looksLikeJWT(strings.TrimPrefix(value, bearerPrefix))
}

// looksLikeJWT matches three dot-separated segments with a base64url
// JSON header, which always starts with "eyJ".
func looksLikeJWT(s string) bool {
	return strings.HasPrefix(s, "eyJ") && strings.Count(s, ".") == 2
}
