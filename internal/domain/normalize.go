package domain

import "strings"

// JoinName builds the name shown to the operator from first and last names.
// Missing parts and stray whitespace from the backend collapse away.
func JoinName(first, last string) string {
	return strings.Join(strings.Fields(first+" "+last), " ")
}

// IsBlank reports whether s is empty or whitespace-only.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
