// Package fingerprint computes the content hash that tells whether two
// requests presenting the same idempotency key are the same request.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// PartKind identifies what a Part was collected from.
type PartKind string

const (
	PartBody PartKind = "body"
	PartForm PartKind = "form"
	PartFile PartKind = "file"
	PartPath PartKind = "path"
)

// Part is one element of the hashed request data. Exactly one of Bytes, Text
// or Values is meaningful for a given kind.
type Part struct {
	Kind   PartKind            `json:"k"`
	Bytes  []byte              `json:"b,omitempty"`
	Text   string              `json:"t,omitempty"`
	Values map[string][]string `json:"v,omitempty"`
}

// Hasher hashes an ordered list of parts.
type Hasher interface {
	Hash(parts ...Part) (string, error)
}

// SHA256 hashes the canonical JSON form of the parts with SHA-256 and returns
// lowercase hex. It holds no state and is safe for concurrent use.
type SHA256 struct{}

var _ Hasher = SHA256{}

// Hash implements Hasher. Map keys are emitted in sorted order by
// encoding/json, so the serialization of a given part list is stable.
func (SHA256) Hash(parts ...Part) (string, error) {
	if parts == nil {
		parts = []Part{}
	}
	payload, err := json.Marshal(parts)
	if err != nil {
		return "", fmt.Errorf("fingerprint: serialize parts: %w", err)
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
