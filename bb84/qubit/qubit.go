// Package qubit models single polarization-encoded qubits and their
// measurement semantics.
//
// A qubit here is a classical stand-in for a quantum state: a (value, basis)
// pair together with the collapse rule that measuring in the wrong basis
// yields a uniformly random outcome. No amplitudes are tracked; the rule in
// Measure is the entirety of the quantum behavior the protocol relies on.
package qubit

// A Bit is a logical bit value, 0 or 1.
type Bit byte

// A Basis is one of the two mutually unbiased encodings a bit may be prepared
// or measured in.
type Basis byte

const (
	// Rectilinear is the horizontal/vertical polarization basis.
	Rectilinear Basis = iota
	// Diagonal is the +45/-45 degree polarization basis.
	Diagonal
)

// String implements fmt.Stringer.
func (b Basis) String() string {
	switch b {
	case Rectilinear:
		return "rectilinear"
	case Diagonal:
		return "diagonal"
	}
	return "unknown"
}

// A Rand supplies single uniform bit draws for measurement outcomes.
type Rand interface {
	Bit() Bit
}

// A Qubit is an immutable (value, basis) pair as prepared by the sender.
type Qubit struct {
	value Bit
	basis Basis
}

// Prepare encodes value in basis.
func Prepare(value Bit, basis Basis) Qubit {
	return Qubit{value: value & 1, basis: basis}
}

// Value returns the bit the qubit was prepared with.
func (q Qubit) Value() Bit {
	return q.value
}

// Basis returns the basis the qubit was prepared in.
func (q Qubit) Basis() Basis {
	return q.basis
}

// Measure observes q in basis. If basis matches the preparation basis the
// prepared value is returned and rng is untouched. Otherwise the outcome is a
// single fresh draw from rng: uniformly 0 or 1, with the original value
// irrecoverably lost. Exactly one draw is consumed on a basis mismatch, zero
// on a match.
func Measure(q Qubit, basis Basis, rng Rand) Bit {
	if basis == q.basis {
		return q.value
	}
	return rng.Bit() & 1
}
