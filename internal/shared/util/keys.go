package util

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"
)

const maxFileName = 120

// ErrInvalidFileName is returned for empty names and names that try to escape
// their namespace.
var ErrInvalidFileName = errors.New("invalid file name")

// UserNamespace returns the storage prefix owned by userID. The raw id never
// appears in object keys.
func UserNamespace(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return hex.EncodeToString(sum[:])
}

// NewObjectKey places name under the user's namespace behind a random prefix
// so repeated exports never overwrite each other.
func NewObjectKey(userID, name string) (string, error) {
	clean, err := SanitizeFileName(name)
	if err != nil {
		return "", err
	}
	return path.Join(UserNamespace(userID), randomID()+"_"+clean), nil
}

// OwnsKey reports whether key is a clean path inside userID's namespace.
func OwnsKey(userID, key string) bool {
	if key == "" || path.Clean(key) != key {
		return false
	}
	return strings.HasPrefix(key, UserNamespace(userID)+"/")
}

// SanitizeFileName keeps letters, digits, dots, dashes and underscores and
// replaces everything else with an underscore.
func SanitizeFileName(name string) (string, error) {
	s := strings.TrimSpace(name)
	if s == "" || strings.Contains(s, "..") {
		return "", ErrInvalidFileName
	}
	s = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		}
		return '_'
	}, s)
	if len(s) > maxFileName {
		ext := path.Ext(s)
		if len(ext) > 16 {
			ext = ""
		}
		s = s[:maxFileName-len(ext)] + ext
	}
	return s, nil
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
