package bb84

import (
	"github.com/qkdsim/bb84/bb84/bitarray"
	"github.com/qkdsim/bb84/bb84/qubit"
)

// A Transcript observes everything a session reveals over the public channel,
// plus the final decision. It exists for audit trails: the callbacks carry
// exactly the information an eavesdropper on the classical channel would see,
// never unrevealed key bits. Implementations must not retain the slices past
// the call.
type Transcript interface {
	// BasesRevealed fires when both parties publish their basis sequences for
	// sifting.
	BasesRevealed(aliceBases, bobBases []qubit.Basis)

	// SampleRevealed fires when the parties compare sampled bit values and
	// agree on the observed error rate.
	SampleRevealed(aliceSample, bobSample bitarray.Dense, qber float64)

	// Decided fires once, with the terminal phase. reason is empty on accept.
	Decided(phase Phase, qber float64, reason string)
}

// nopTranscript is the default observer: it discards everything.
type nopTranscript struct{}

func (nopTranscript) BasesRevealed(_, _ []qubit.Basis)              {}
func (nopTranscript) SampleRevealed(_, _ bitarray.Dense, _ float64) {}
func (nopTranscript) Decided(_ Phase, _ float64, _ string)          {}
