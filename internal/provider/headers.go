package provider

import (
	"strings"
)

// SplitReferences splits an RFC 5322 References header value into its
// individual message-ID tokens.
func SplitReferences(references string) []string {
	return strings.Fields(references)
}

// CanonicalMessageID normalizes a message-ID for index lookups: trimmed,
// angle brackets stripped, lower-cased. Clients disagree on bracket and case
// preservation, so both sides of a comparison go through this.
func CanonicalMessageID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.TrimPrefix(id, "<")
	id = strings.TrimSuffix(id, ">")
	return strings.ToLower(id)
}
