package bb84

import (
	"github.com/qkdsim/bb84/bb84/qubit"
)

// An Eavesdropper is a per-qubit transform the quantum channel applies in
// flight. Implementations model attack strategies; the channel itself stays a
// dumb ordered pipe.
type Eavesdropper interface {
	// Tap observes, and possibly replaces, a single qubit in transit.
	Tap(q qubit.Qubit, rng RandomSource) qubit.Qubit
}

// NoEavesdropper passes every qubit through untouched.
type NoEavesdropper struct{}

// Tap implements the Eavesdropper interface.
func (NoEavesdropper) Tap(q qubit.Qubit, _ RandomSource) qubit.Qubit { return q }

// InterceptResend models the classic intercept-resend attack: with probability
// Prob the attacker measures the qubit in a random basis of her own and
// forwards a fresh qubit prepared from what she saw. When her basis guess is
// wrong (half the time) and the receiver's basis matches the sender's, the
// receiver's outcome disagrees with the sender's half the time, so full
// interception contributes an expected 25% to the observed error rate.
type InterceptResend struct {
	// Prob is the per-qubit interception probability, in [0, 1].
	Prob float64
}

// Tap implements the Eavesdropper interface.
func (e InterceptResend) Tap(q qubit.Qubit, rng RandomSource) qubit.Qubit {
	if rng.Float64() >= e.Prob {
		return q
	}
	basis := rng.Basis()
	seen := qubit.Measure(q, basis, rng)
	return qubit.Prepare(seen, basis)
}

// A Channel transports an ordered sequence of qubits from sender to receiver,
// optionally subjecting each to an eavesdropper's tap and to channel noise. A
// Channel holds no state between transmissions.
type Channel struct {
	// Noise is the per-qubit probability of a channel-induced bit flip,
	// applied independently to each delivered qubit.
	Noise float64

	// Eavesdropper taps each qubit in flight. Nil means an undisturbed
	// channel.
	Eavesdropper Eavesdropper
}

// Transmit delivers qubits in FIFO order. The eavesdropper taps each qubit
// first; noise then acts on whatever travels the remaining fiber to the
// receiver. All probability draws come from rng.
func (c Channel) Transmit(qubits []qubit.Qubit, rng RandomSource) []qubit.Qubit {
	eve := c.Eavesdropper
	if eve == nil {
		eve = NoEavesdropper{}
	}
	out := make([]qubit.Qubit, len(qubits))
	for i, q := range qubits {
		q = eve.Tap(q, rng)
		if c.Noise > 0 && rng.Float64() < c.Noise {
			q = qubit.Prepare(q.Value()^1, q.Basis())
		}
		out[i] = q
	}
	return out
}
