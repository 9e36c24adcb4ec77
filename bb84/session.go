package bb84

import (
	"fmt"

	"github.com/qkdsim/bb84/bb84/bitarray"
	"github.com/qkdsim/bb84/bb84/qubit"
)

// A Phase tags a session's position in the protocol state machine. Phases
// advance strictly forward; Accepted and Aborted are terminal.
type Phase int

const (
	PhaseNew Phase = iota
	PhasePrepared
	PhaseSent
	PhaseMeasured
	PhaseSifted
	PhaseEstimated
	PhaseAccepted
	PhaseAborted
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseNew:
		return "new"
	case PhasePrepared:
		return "prepared"
	case PhaseSent:
		return "sent"
	case PhaseMeasured:
		return "measured"
	case PhaseSifted:
		return "sifted"
	case PhaseEstimated:
		return "estimated"
	case PhaseAccepted:
		return "accepted"
	case PhaseAborted:
		return "aborted"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Terminal reports whether p permits no further transitions.
func (p Phase) Terminal() bool {
	return p == PhaseAccepted || p == PhaseAborted
}

// AbortReasonQBER is the abort reason recorded when the observed error rate
// exceeds the configured threshold.
const AbortReasonQBER = "qber exceeded threshold"

// A Session holds the mutable state of one protocol run and walks it through
// the phases in order. Both logical parties live inside the one session: the
// simulation is synchronous, so each phase method is a rendezvous point that
// completes fully or fails without mutating anything. A Session is confined to
// a single goroutine and must not be shared across runs.
type Session struct {
	cfg   Config
	rng   RandomSource
	trans Transcript
	phase Phase

	aliceBits  []qubit.Bit
	aliceBases []qubit.Basis
	prepared   []qubit.Qubit
	delivered  []qubit.Qubit
	bobBases   []qubit.Basis
	bobBits    []qubit.Bit

	siftedIdx   []int
	aliceSifted bitarray.Dense
	bobSifted   bitarray.Dense

	est         Estimate
	key         bitarray.Dense
	finalSalt   uint64
	finalized   bool
	abortReason string
}

// NewSession returns a session in PhaseNew, configured per cfg with defaults
// applied, or an error if the configuration is nonsensical.
func NewSession(cfg Config) (*Session, error) {
	cfg, err := cfg.withDefaults()
	if err != nil {
		return nil, err
	}
	trans := cfg.Transcript
	if trans == nil {
		trans = nopTranscript{}
	}
	return &Session{
		cfg:   cfg,
		rng:   cfg.Rand,
		trans: trans,
		phase: PhaseNew,
	}, nil
}

// Phase returns the session's current phase.
func (s *Session) Phase() Phase {
	return s.phase
}

// guard rejects a step unless the session sits exactly at from.
func (s *Session) guard(from Phase) error {
	if s.phase.Terminal() {
		return fmt.Errorf("%w: session is %v", ErrSessionClosed, s.phase)
	}
	if s.phase != from {
		return fmt.Errorf("%w: session is %v, step requires %v", ErrInvalidTransition, s.phase, from)
	}
	return nil
}

// Prepare draws Alice's N random bits and basis choices and encodes them as
// qubits. New -> Prepared.
func (s *Session) Prepare() error {
	if err := s.guard(PhaseNew); err != nil {
		return err
	}
	n := s.cfg.N
	s.aliceBits = make([]qubit.Bit, n)
	s.aliceBases = make([]qubit.Basis, n)
	s.prepared = make([]qubit.Qubit, n)
	for i := 0; i < n; i++ {
		s.aliceBits[i] = s.rng.Bit()
		s.aliceBases[i] = s.rng.Basis()
		s.prepared[i] = qubit.Prepare(s.aliceBits[i], s.aliceBases[i])
	}
	s.phase = PhasePrepared
	return nil
}

// Send transmits the prepared qubits through ch, which applies any noise and
// eavesdropping in flight. Prepared -> Sent.
func (s *Session) Send(ch Channel) error {
	if err := s.guard(PhasePrepared); err != nil {
		return err
	}
	s.delivered = ch.Transmit(s.prepared, s.rng)
	s.phase = PhaseSent
	return nil
}

// Measure draws Bob's N random measurement bases and measures each delivered
// qubit. Sent -> Measured.
func (s *Session) Measure() error {
	if err := s.guard(PhaseSent); err != nil {
		return err
	}
	n := len(s.delivered)
	s.bobBases = make([]qubit.Basis, n)
	s.bobBits = make([]qubit.Bit, n)
	for i := 0; i < n; i++ {
		s.bobBases[i] = s.rng.Basis()
		s.bobBits[i] = qubit.Measure(s.delivered[i], s.bobBases[i], s.rng)
	}
	s.phase = PhaseMeasured
	return nil
}

// Sift publishes both basis sequences and retains the bit positions where they
// agree. Only bases cross the public channel; bit values stay private.
// Measured -> Sifted.
func (s *Session) Sift() error {
	if err := s.guard(PhaseMeasured); err != nil {
		return err
	}
	s.trans.BasesRevealed(s.aliceBases, s.bobBases)
	s.siftedIdx = Sift(s.aliceBases, s.bobBases)
	s.aliceSifted = bitarray.Empty()
	s.bobSifted = bitarray.Empty()
	for _, i := range s.siftedIdx {
		s.aliceSifted.AppendBit(s.aliceBits[i] == 1)
		s.bobSifted.AppendBit(s.bobBits[i] == 1)
	}
	s.phase = PhaseSifted
	return nil
}

// Estimate publicly compares a random sample of the sifted bits and records
// the observed QBER. The shuffle seed is itself a public value drawn from the
// session source. On error the session stays in PhaseSifted.
// Sifted -> Estimated.
func (s *Session) Estimate() error {
	if err := s.guard(PhaseSifted); err != nil {
		return err
	}
	seed := s.rng.Uint64()
	est, err := EstimateQBER(s.aliceSifted, s.bobSifted, s.cfg.SampleFraction, seed)
	if err != nil {
		return fmt.Errorf("estimating QBER: %w", err)
	}
	s.est = est
	s.trans.SampleRevealed(est.AliceSample, est.BobSample, est.QBER)
	s.phase = PhaseEstimated
	return nil
}

// Decide compares the observed QBER against the configured threshold and
// moves the session to its terminal phase: Accepted when qber <= threshold,
// Aborted otherwise. An abort is the protocol detecting disturbance and is
// not an error. Estimated -> {Accepted, Aborted}.
func (s *Session) Decide() (Phase, error) {
	if err := s.guard(PhaseEstimated); err != nil {
		return s.phase, err
	}
	if s.est.QBER <= s.cfg.QBERThreshold {
		s.phase = PhaseAccepted
		s.trans.Decided(s.phase, s.est.QBER, "")
	} else {
		s.phase = PhaseAborted
		s.abortReason = AbortReasonQBER
		s.trans.Decided(s.phase, s.est.QBER, s.abortReason)
	}
	return s.phase, nil
}

// FinalKey derives (once) and returns the session's final key: the unsampled
// sifted bits compressed to the configured length by privacy amplification.
// Only an accepted session has a key; an aborted one reports ErrSessionClosed
// and any earlier phase ErrInvalidTransition.
func (s *Session) FinalKey() (bitarray.Dense, error) {
	switch {
	case s.phase == PhaseAborted:
		return bitarray.Empty(), fmt.Errorf("%w: session aborted: %s", ErrSessionClosed, s.abortReason)
	case s.phase != PhaseAccepted:
		return bitarray.Empty(), fmt.Errorf("%w: session is %v, key requires %v",
			ErrInvalidTransition, s.phase, PhaseAccepted)
	}
	if s.finalized {
		return s.key, nil
	}
	keyBits := s.cfg.KeyBits
	if keyBits == 0 {
		keyBits = s.est.AliceKey.Size()
	}
	salt := s.rng.Uint64()
	key, err := Finalize(s.est.AliceKey, keyBits, salt)
	if err != nil {
		return bitarray.Empty(), err
	}
	s.finalSalt = salt
	s.key = key
	s.finalized = true
	return s.key, nil
}

// QBER returns the error rate observed during estimation. Zero before
// PhaseEstimated.
func (s *Session) QBER() float64 {
	return s.est.QBER
}

// AbortReason returns the recorded abort reason, or "" when the session has
// not aborted.
func (s *Session) AbortReason() string {
	return s.abortReason
}

// SiftedIndices returns the positions retained by sifting. The returned slice
// is the session's own; callers must not modify it.
func (s *Session) SiftedIndices() []int {
	return s.siftedIdx
}

// BobKey derives Bob's view of the final key, applying the identical
// amplification to his unsampled bits. It shares FinalKey's phase rules and
// exists so simulations can check that both parties landed on the same key.
func (s *Session) BobKey() (bitarray.Dense, error) {
	if _, err := s.FinalKey(); err != nil {
		return bitarray.Empty(), err
	}
	keyBits := s.cfg.KeyBits
	if keyBits == 0 {
		keyBits = s.est.BobKey.Size()
	}
	return Finalize(s.est.BobKey, keyBits, s.finalSalt)
}
