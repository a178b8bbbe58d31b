package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// ScopePattern определяет допустимый формат user scope
// Только латинские буквы (a-z, A-Z), цифры (0-9), нижнее подчеркивание (_) и дефис (-)
// Длина: 3-64 символа
var ScopePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,64}$`)

// SegmentPattern is the format of a single collection or document path segment
var SegmentPattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{1,128}$`)

const (
	// MaxPathSegments bounds the nesting depth of collection paths
	MaxPathSegments = 15
)

// ValidateScope проверяет, что user scope соответствует требованиям
func ValidateScope(scope string) error {
	if scope == "" {
		return fmt.Errorf("scope cannot be empty")
	}

	if !ScopePattern.MatchString(scope) {
		return fmt.Errorf("scope must be 3-64 characters of letters, numbers, '_' or '-'")
	}

	return nil
}

// ValidateCollectionPath checks a slash-separated collection path such as
// "users/alice/memories" or "users/alice/memories/m1/comments".
// A collection path always has an odd number of segments.
func ValidateCollectionPath(path string) error {
	if path == "" {
		return fmt.Errorf("collection path cannot be empty")
	}

	segments := strings.Split(path, "/")
	if len(segments) > MaxPathSegments {
		return fmt.Errorf("collection path must not exceed %d segments", MaxPathSegments)
	}

	if len(segments)%2 == 0 {
		return fmt.Errorf("collection path %q points to a document, not a collection", path)
	}

	for _, seg := range segments {
		if err := validateSegment(seg); err != nil {
			return fmt.Errorf("invalid collection path %q: %w", path, err)
		}
	}

	return nil
}

// ValidateDocumentID checks a single document identifier
func ValidateDocumentID(id string) error {
	if id == "" {
		return fmt.Errorf("document id cannot be empty")
	}
	return validateSegment(id)
}

// ValidateBlobKey checks a slash-separated blob key
func ValidateBlobKey(key string) error {
	if key == "" {
		return fmt.Errorf("blob key cannot be empty")
	}

	for _, seg := range strings.Split(key, "/") {
		if err := validateSegment(seg); err != nil {
			return fmt.Errorf("invalid blob key %q: %w", key, err)
		}
	}

	return nil
}

// ScopeOf returns the user scope of a "users/<scope>/..." path, or "" when
// the path does not live under a user.
func ScopeOf(path string) string {
	segments := strings.Split(path, "/")
	if len(segments) < 2 || segments[0] != "users" {
		return ""
	}
	return segments[1]
}

func validateSegment(seg string) error {
	// "." и ".." запрещены, чтобы ключи блобов не превращались в относительные пути
	if seg == "." || seg == ".." {
		return fmt.Errorf("segment %q is reserved", seg)
	}
	if !SegmentPattern.MatchString(seg) {
		return fmt.Errorf("segment %q must be 1-128 characters of letters, numbers, '_', '.' or '-'", seg)
	}
	return nil
}
