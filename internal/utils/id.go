package utils

import (
	"strings"

	"github.com/google/uuid"
)

// NewID returns an opaque prefixed identifier, e.g. NewID("sub") ->
// "sub_9f8c2b1a4d3e". Twelve hex chars of a v4 UUID, matching the id
// format used across all collections.
func NewID(prefix string) string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return prefix + "_" + hex[:12]
}

// NewToken returns an unprefixed 32-hex-char random token.
func NewToken() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}
