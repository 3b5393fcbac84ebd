package utils

import "strings"

// NormalizeQuery collapses a user query to the form used for cache keys:
// trimmed and lowercased, so "Hola " and "hola" share one entry.
func NormalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func NormalizeEngineName(name string) string {
	return strings.TrimSpace(name)
}
