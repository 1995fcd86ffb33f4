package core

import "strings"

// Normalize returns the canonical form of a package name as stored in the
// warehouse: lowercase, with underscores replaced by hyphens.
func Normalize(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), "_", "-")
}
