package normalize

import "strings"

// Username returns a normalized form of a display name suitable for storage
// and comparisons. Normalization trims surrounding whitespace; case is
// preserved because the name is a display identity, not an address.
func Username(name string) string {
	return strings.TrimSpace(name)
}
