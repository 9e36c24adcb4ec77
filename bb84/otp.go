package bb84

import (
	"fmt"

	"github.com/qkdsim/bb84/bb84/bitarray"
)

// Encrypt combines msg with an equal-length one-time pad key by bitwise XOR.
// Returns ErrLengthMismatch when the lengths differ: a short pad reuses key
// material and a long one wastes it, and neither is ever what the caller
// wants.
func Encrypt(msg, key []byte) ([]byte, error) {
	if len(msg) != len(key) {
		return nil, fmt.Errorf("%w: %d-byte message, %d-byte key", ErrLengthMismatch, len(msg), len(key))
	}
	m := bitarray.NewDense(msg, -1)
	k := bitarray.NewDense(key, -1)
	return m.XOr(k).Data(), nil
}

// Decrypt inverts Encrypt under the same key. XOR is an involution, so the two
// are the same operation; the separate name keeps call sites honest.
func Decrypt(ciphertext, key []byte) ([]byte, error) {
	return Encrypt(ciphertext, key)
}
