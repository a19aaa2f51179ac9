package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// BundleFingerprint identifies the exact serialized form of a
// computed statistics bundle, so a stored result can be de-duplicated
// and verified on retrieval.
type BundleFingerprint Hash

func NewBundleFingerprint(serialized []byte) BundleFingerprint {
	return BundleFingerprint(NewHash(serialized))
}

func (f BundleFingerprint) String() string { return Hash(f).String() }
