// Package idgen generates the opaque bookmark ids assigned by the gateway.
package idgen

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

// Prefix is prepended to every bookmark id.
const Prefix = "bm-"

// alphabet is URL-safe so ids can be used in API paths unescaped.
const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// length of the random part; 62^14 leaves collisions out of practical reach.
const length = 14

// New returns a fresh bookmark id.
func New() (string, error) {
	id, err := nanoid.Generate(alphabet, length)
	if err != nil {
		return "", fmt.Errorf("idgen: %w", err)
	}
	return Prefix + id, nil
}
