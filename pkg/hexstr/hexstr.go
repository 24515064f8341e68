// Package hexstr normalizes hex identifiers and shortens them for display.
package hexstr

import "strings"

const (
	prefix = "0x"

	truncateEdge = 5
)

// Add0xPrefix returns v with a leading "0x", adding it only when missing.
func Add0xPrefix(v string) string {
	if strings.HasPrefix(v, prefix) {
		return v
	}
	return prefix + v
}

// Remove0xPrefix strips a leading "0x" from v if present.
func Remove0xPrefix(v string) string {
	return strings.TrimPrefix(v, prefix)
}

// TruncateToken returns the first and last five characters of tok joined by "...".
// Tokens too short to truncate are returned unchanged.
func TruncateToken(tok string) string {
	if len(tok) < 2*truncateEdge {
		return tok
	}
	return tok[:truncateEdge] + "..." + tok[len(tok)-truncateEdge:]
}
