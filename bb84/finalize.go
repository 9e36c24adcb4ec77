package bb84

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/qkdsim/bb84/bb84/bitarray"
)

// Finalize compresses the post-sample key bits down to keyBits bits of final
// key by multiplying them through a salt-derived toeplitz matrix (privacy
// amplification). The result is a deterministic function of (bits, keyBits,
// salt): the salt expands into the matrix diagonals through a fixed pRNG
// stream, so both parties, and any auditor, can reproduce the exact
// compression. Returns ErrKeyTooShort when fewer bits remain than requested.
func Finalize(bits bitarray.Dense, keyBits int, salt uint64) (bitarray.Dense, error) {
	if keyBits <= 0 {
		return bitarray.Empty(), fmt.Errorf("finalizing to non-positive key length %d", keyBits)
	}
	if bits.Size() < keyBits {
		return bitarray.Empty(), fmt.Errorf("%w: %d bits remain, %d requested",
			ErrKeyTooShort, bits.Size(), keyBits)
	}
	diagBits := keyBits + bits.Size() - 1
	buf := make([]byte, bitarray.BytesFor(diagBits))
	rand.New(rand.NewSource(salt)).Read(buf)
	t := toeplitz{
		diags: bitarray.NewDense(buf, diagBits),
		m:     keyBits,
		n:     bits.Size(),
	}
	return t.Mul(bits)
}
