// Package apiresponse reads loosely shaped backend payloads. Every lookup is an
// ordered list of extractors and the first one that yields a value wins.
package apiresponse

import "strings"

// Payload is a decoded JSON object.
type Payload = map[string]any

// Extractor returns a non-empty string from a payload, or false.
type Extractor func(Payload) (string, bool)

var (
	// redirect locations, newest response shape first
	RedirectURLExtractors = []Extractor{
		String("data", "url"),
		String("url"),
	}

	MessageExtractors = []Extractor{
		FieldErrors("errorMessages"),
		FieldErrors("errors"),
		String("message"),
	}
)

// First runs extractors in order and returns the first match.
func First(p Payload, extractors ...Extractor) (string, bool) {
	if p == nil {
		return "", false
	}
	for _, extract := range extractors {
		if extract == nil {
			continue
		}
		if value, ok := extract(p); ok {
			return value, true
		}
	}
	return "", false
}

// Lookup walks nested objects along path.
func Lookup(p Payload, path ...string) (any, bool) {
	var current any = p
	for _, key := range path {
		obj, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = obj[key]
		if !ok {
			return nil, false
		}
	}
	return current, current != nil
}

// String extracts a non-blank string at path.
func String(path ...string) Extractor {
	return func(p Payload) (string, bool) {
		value, ok := Lookup(p, path...)
		if !ok {
			return "", false
		}
		s, ok := value.(string)
		if !ok || strings.TrimSpace(s) == "" {
			return "", false
		}
		return s, true
	}
}

// FieldErrors extracts the first message of a per-field error list. Items may be
// plain strings or objects carrying a "message".
func FieldErrors(key string) Extractor {
	return func(p Payload) (string, bool) {
		value, ok := Lookup(p, key)
		if !ok {
			return "", false
		}
		items, ok := value.([]any)
		if !ok {
			return "", false
		}
		for _, item := range items {
			switch v := item.(type) {
			case string:
				if strings.TrimSpace(v) != "" {
					return v, true
				}
			case map[string]any:
				if msg, ok := String("message")(v); ok {
					return msg, true
				}
			}
		}
		return "", false
	}
}

// RedirectURL finds a redirect location in any supported response shape.
func RedirectURL(p Payload) (string, bool) {
	return First(p, RedirectURLExtractors...)
}

// Message returns the most specific user-facing message, or fallback.
func Message(p Payload, fallback string) string {
	if msg, ok := First(p, MessageExtractors...); ok {
		return msg
	}
	return fallback
}

// Truthy mirrors loose truthiness of a JSON value at key.
func Truthy(p Payload, key string) bool {
	value, ok := Lookup(p, key)
	if !ok {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return true
	}
}
