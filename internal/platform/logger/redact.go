package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const redacted = "[REDACTED]"

// Fields whose values never reach the log sink. Moment and recap text is the
// user's journal.
var redactedKeyParts = []string{
	"token",
	"authorization",
	"password",
	"secret",
	"api_key",
	"apikey",
	"email",
	"moment_text",
	"narrative",
	"prompt",
}

// Fields logged as a salted digest so lines for one user still correlate.
var hashedKeys = map[string]bool{
	"user_id": true,
	"cursor":  true,
	"sub":     true,
}

type redactor struct {
	enabled bool
	salt    string
}

func (r *redactor) apply(keyvals []interface{}) []interface{} {
	if r == nil || !r.enabled || len(keyvals) == 0 {
		return keyvals
	}
	out := make([]interface{}, 0, len(keyvals))
	for i := 0; i < len(keyvals); i += 2 {
		if i+1 == len(keyvals) {
			out = append(out, keyvals[i])
			break
		}
		key := stringify(keyvals[i])
		out = append(out, key, r.value(strings.ToLower(key), keyvals[i+1]))
	}
	return out
}

func (r *redactor) value(key string, v interface{}) interface{} {
	switch {
	case hashedKeys[key]:
		return r.digest(stringify(v))
	case hasRedactedPart(key):
		return redacted
	}
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, inner := range t {
			out[k] = r.value(strings.ToLower(k), inner)
		}
		return out
	case string:
		if looksLikeJWT(t) {
			return redacted
		}
	}
	return v
}

func (r *redactor) digest(raw string) string {
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(r.salt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

func hasRedactedPart(key string) bool {
	for _, part := range redactedKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}

func looksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
