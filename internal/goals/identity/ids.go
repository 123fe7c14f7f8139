package identity

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Node kinds with their persisted id prefixes.
type Kind string

const (
	KindVision Kind = "gol"
	KindMetric Kind = "met"
	KindAction Kind = "act"
)

// NewID generates a persisted id for the given node kind.
// Format: "prefix_hexstring" (e.g., "met_a1b2c3d4e5f6...").
func NewID(kind Kind) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return fmt.Sprintf("%s_%s", kind, hex.EncodeToString(b)), nil
}
