package util

import (
	"encoding/base64"
	"fmt"
)

// ToBase64 encodes s with standard base64. Empty input stays empty.
func ToBase64(s string) string {
	if s == "" {
		return ""
	}
	return base64.StdEncoding.EncodeToString([]byte(s))
}

// FromBase64 decodes standard base64. Empty input stays empty.
func FromBase64(s string) (string, error) {
	if s == "" {
		return "", nil
	}
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", fmt.Errorf("decode base64: %w", err)
	}
	return string(b), nil
}
