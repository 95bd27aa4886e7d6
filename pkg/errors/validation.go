package errors

import (
	"strings"
	"unicode"
)

// maxQuantityLength bounds a num/den value. The longest known codes are
// ratio-like group names well below this.
const maxQuantityLength = 256

// ValidateQuantity checks that a num or den value can be placed in a query
// string. It does not check the value against the known quantity codes; the
// server rejects unknown names with a query error.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters (they would split the request line)
//   - No '&', '=' or '#' (they would change the query structure)
//   - Maximum length of 256 characters
func ValidateQuantity(field, name string) error {
	if name == "" {
		return New(ErrCodeInvalidParameter, "%s cannot be empty", field)
	}

	if len(name) > maxQuantityLength {
		return New(ErrCodeInvalidParameter, "%s too long (max %d characters)", field, maxQuantityLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidParameter, "%s contains invalid control characters", field)
		}
	}

	if i := strings.IndexAny(name, "&=#"); i >= 0 {
		return New(ErrCodeInvalidParameter, "%s contains reserved character %q", field, name[i])
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	// Simple scheme validation without full URL parsing
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
