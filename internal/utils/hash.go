package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashedUserID derives the anonymized identifier that links a user's
// submissions without exposing their identity. Salted sha256, truncated to
// 16 hex chars like the public ids.
func HashedUserID(identity, salt string) string {
	sum := sha256.Sum256([]byte(identity + salt))
	return hex.EncodeToString(sum[:])[:16]
}

// HashORCID hashes a raw ORCID iD for storage. The raw iD is never
// persisted.
func HashORCID(orcidID string) string {
	sum := sha256.Sum256([]byte("orcid:" + orcidID))
	return hex.EncodeToString(sum[:])
}
