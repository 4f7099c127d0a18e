package blob

import (
	"crypto/rand"
	"encoding/hex"
	"path/filepath"
	"strings"
)

const maxNameLen = 128

// NewObjectKey returns a collision-resistant key for filename: 16 random bytes
// hex-encoded, a dash, and the sanitized base name.
func NewObjectKey(filename string) (string, error) {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]) + "-" + sanitizeName(filename), nil
}

// sanitizeName keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with '_'.
func sanitizeName(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		return "file"
	}

	var sb strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	name := strings.TrimLeft(sb.String(), ".")
	if name == "" {
		return "file"
	}
	if len(name) > maxNameLen {
		name = name[len(name)-maxNameLen:]
	}
	return name
}
