// Package util provides content hashing helpers.
package util

import (
	"crypto/sha256"
	"encoding/hex"
)

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func ContentHashString(content string) string {
	return ContentHash([]byte(content))
}

// ShortHash is the first n hex characters of ContentHash.
func ShortHash(content []byte, n int) string {
	h := ContentHash(content)
	if n <= 0 || n > len(h) {
		return h
	}
	return h[:n]
}
