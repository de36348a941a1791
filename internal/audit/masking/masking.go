// Package masking hides payment and renewal links before they reach the audit store.
package masking

import (
	"net/url"
	"strings"
)

const maskToken = "****"

// MaskSecret keeps only the last four characters of value.
func MaskSecret(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	if len(trimmed) <= 4 {
		return maskToken
	}
	return maskToken + trimmed[len(trimmed)-4:]
}

// MaskURL keeps scheme and host so entries show which provider a link
// pointed at. Path, query and fragment usually carry a checkout token.
func MaskURL(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}

	parsed, err := url.Parse(trimmed)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return MaskSecret(trimmed)
	}

	rest := strings.TrimPrefix(trimmed, parsed.Scheme+"://"+parsed.Host)
	if rest == "" || rest == "/" {
		return parsed.Scheme + "://" + parsed.Host + rest
	}
	return parsed.Scheme + "://" + parsed.Host + "/" + MaskSecret(rest)
}
