package bb84

import (
	crand "crypto/rand"
	"encoding/binary"

	"golang.org/x/exp/rand"

	"github.com/qkdsim/bb84/bb84/qubit"
)

// A RandomSource supplies the independent uniform draws the protocol consumes:
// bit values, basis choices, probability draws for the channel models, and
// seeds for the public sampling shuffle. Each session owns exactly one source,
// injected at construction; nothing reads ambient global randomness.
type RandomSource interface {
	// Bit returns a uniformly distributed bit.
	Bit() qubit.Bit
	// Basis returns a uniformly distributed basis choice.
	Basis() qubit.Basis
	// Float64 returns a uniform draw from [0, 1).
	Float64() float64
	// Uint64 returns a uniform 64-bit draw.
	Uint64() uint64
}

// NewSource returns a pRNG-backed RandomSource. Runs sharing a seed and
// parameters replay identically, which makes seeded sources the right choice
// for experiments and tests; they offer no unconditional security.
func NewSource(seed uint64) RandomSource {
	return &prngSource{r: rand.New(rand.NewSource(seed))}
}

type prngSource struct {
	r *rand.Rand
}

func (s *prngSource) Bit() qubit.Bit {
	return qubit.Bit(s.r.Uint64() & 1)
}

func (s *prngSource) Basis() qubit.Basis {
	if s.r.Uint64()&1 == 0 {
		return qubit.Rectilinear
	}
	return qubit.Diagonal
}

func (s *prngSource) Float64() float64 {
	return s.r.Float64()
}

func (s *prngSource) Uint64() uint64 {
	return s.r.Uint64()
}

// NewCryptoSource returns a RandomSource backed by crypto/rand, for runs whose
// keys are meant to be used. Reads that fail panic: an exhausted system
// entropy source is not a recoverable protocol condition.
func NewCryptoSource() RandomSource {
	return cryptoSource{}
}

type cryptoSource struct{}

func (cryptoSource) Bit() qubit.Bit {
	return qubit.Bit(cryptoByte() & 1)
}

func (cryptoSource) Basis() qubit.Basis {
	if cryptoByte()&1 == 0 {
		return qubit.Rectilinear
	}
	return qubit.Diagonal
}

func (cryptoSource) Float64() float64 {
	// 53 uniform mantissa bits, the same construction math/rand uses.
	return float64(cryptoSource{}.Uint64()>>11) / (1 << 53)
}

func (cryptoSource) Uint64() uint64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		panic("bb84: reading system entropy: " + err.Error())
	}
	return binary.LittleEndian.Uint64(buf[:])
}

func cryptoByte() byte {
	var buf [1]byte
	if _, err := crand.Read(buf[:]); err != nil {
		panic("bb84: reading system entropy: " + err.Error())
	}
	return buf[0]
}
