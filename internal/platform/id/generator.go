// Package id generates opaque public identifiers. Rows keep a serial primary
// key internally; everything that crosses the API boundary is referenced by
// one of these ids instead.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// rawBytes is the entropy per id; the hex form is twice as long.
const rawBytes = 16

type Generator interface {
	NewID() (string, error)
}

// RandomGenerator produces 32-character hex ids from crypto/rand.
type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

func (g *RandomGenerator) NewID() (string, error) {
	buf := make([]byte, rawBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
