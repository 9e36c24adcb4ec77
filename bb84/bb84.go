// Package bb84 simulates BB84 quantum key distribution: two logical parties
// negotiate a shared secret over a simulated quantum channel, detect
// eavesdropping through error-rate estimation, and distill the survivors into
// a one-time-pad key.
//
// The simulation is classical throughout. Qubits are (value, basis) pairs with
// the wrong-basis-randomizes measurement rule; the channel applies optional
// noise and an optional intercept-resend attacker per qubit; sifting, QBER
// sampling and privacy amplification follow the textbook protocol. Run drives
// a whole session; Session exposes the individual phases for callers that
// want to step, observe, or inject their own channel.
package bb84

import (
	"errors"
	"fmt"

	"github.com/qkdsim/bb84/bb84/bitarray"
)

// Tunable defaults, applied by Config.withDefaults wherever the corresponding
// field zero-initializes.
var (
	DefaultSampleFraction       = 0.25
	DefaultQBERThreshold        = 0.11
	DefaultInterceptProbability = 1.0
)

// A Config packages together the arguments necessary to run a session. N is
// the only field without a usable default.
type Config struct {
	// N is the number of qubits exchanged in the attempt. Must be positive.
	N int

	// Rand supplies every random draw the session makes. Nil defaults to a
	// crypto/rand-backed source; pass NewSource(seed) for reproducible runs.
	Rand RandomSource

	// NoiseProbability is the per-qubit chance of a channel bit flip.
	NoiseProbability float64

	// Eavesdrop toggles an intercept-resend attacker on the channel, tapping
	// each qubit with InterceptProbability (default: every qubit).
	Eavesdrop            bool
	InterceptProbability float64

	// SampleFraction is the fraction of sifted bits sacrificed to error
	// estimation. Zero selects DefaultSampleFraction; a literal zero fraction
	// is never valid, since estimation needs a nonempty sample.
	SampleFraction float64

	// QBERThreshold is the accept/abort cutoff on the observed error rate.
	// Zero selects DefaultQBERThreshold, whose 0.11 mirrors the threshold
	// commonly quoted for BB84 with one-way post-processing; it is a
	// convention, not a law. Zero-tolerance runs should pass a threshold
	// below 1/sampled, which no nonzero observed rate can satisfy.
	QBERThreshold float64

	// KeyBits is the requested final key length after privacy amplification.
	// Zero keeps every unsampled sifted bit (amplification still runs, as a
	// length-preserving hash).
	KeyBits int

	// Transcript observes public-channel reveals. Nil discards them.
	Transcript Transcript
}

func (c Config) withDefaults() (Config, error) {
	if c.N <= 0 {
		return Config{}, errors.New("config: N must be positive")
	}
	if c.NoiseProbability < 0 || c.NoiseProbability > 1 {
		return Config{}, fmt.Errorf("config: noise probability %v outside [0, 1]", c.NoiseProbability)
	}
	if c.InterceptProbability < 0 || c.InterceptProbability > 1 {
		return Config{}, fmt.Errorf("config: intercept probability %v outside [0, 1]", c.InterceptProbability)
	}
	if c.SampleFraction < 0 || c.SampleFraction > 1 {
		return Config{}, fmt.Errorf("config: sample fraction %v outside [0, 1]", c.SampleFraction)
	}
	if c.KeyBits < 0 {
		return Config{}, fmt.Errorf("config: negative key length %d", c.KeyBits)
	}
	if c.Rand == nil {
		c.Rand = NewCryptoSource()
	}
	if c.SampleFraction == 0 {
		c.SampleFraction = DefaultSampleFraction
	}
	if c.QBERThreshold == 0 {
		c.QBERThreshold = DefaultQBERThreshold
	}
	if c.Eavesdrop && c.InterceptProbability == 0 {
		c.InterceptProbability = DefaultInterceptProbability
	}
	return c, nil
}

// channel assembles the quantum channel a config describes.
func (c Config) channel() Channel {
	ch := Channel{Noise: c.NoiseProbability, Eavesdropper: NoEavesdropper{}}
	if c.Eavesdrop {
		ch.Eavesdropper = InterceptResend{Prob: c.InterceptProbability}
	}
	return ch
}

// Stats packages together a collection of potentially interesting counters
// from a single session.
type Stats struct {
	RawBits     int
	SiftedBits  int
	SampledBits int
	Mismatches  int
	KeyBits     int
}

// A Result is the outcome of a completed session: its terminal phase, the
// observed error rate, and, for accepted runs, the final key.
type Result struct {
	Phase Phase
	QBER  float64

	// Confidence is AbortConfidence evaluated at the accept threshold: the
	// probability that a channel sitting exactly at the threshold would have
	// shown fewer errors than observed.
	Confidence float64

	// Key is empty unless Phase is PhaseAccepted.
	Key bitarray.Dense

	// AbortReason is empty unless Phase is PhaseAborted.
	AbortReason string

	Stats Stats
}

// Run executes one full session under cfg: prepare, send, measure, sift,
// estimate, decide, and, on accept, finalize. Aborting on a high QBER is a
// normal result; errors report configuration or sampling problems only.
// Callers wanting to retry after an abort should run a fresh session so that
// every draw is new.
func Run(cfg Config) (Result, error) {
	s, err := NewSession(cfg)
	if err != nil {
		return Result{}, err
	}
	if err := s.Prepare(); err != nil {
		return Result{}, err
	}
	if err := s.Send(s.cfg.channel()); err != nil {
		return Result{}, err
	}
	if err := s.Measure(); err != nil {
		return Result{}, err
	}
	if err := s.Sift(); err != nil {
		return Result{}, err
	}
	if err := s.Estimate(); err != nil {
		return Result{}, err
	}
	phase, err := s.Decide()
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Phase:       phase,
		QBER:        s.est.QBER,
		Confidence:  AbortConfidence(s.est.Mismatches, s.est.Sampled, s.cfg.QBERThreshold),
		AbortReason: s.abortReason,
		Stats: Stats{
			RawBits:     s.cfg.N,
			SiftedBits:  s.aliceSifted.Size(),
			SampledBits: s.est.Sampled,
			Mismatches:  s.est.Mismatches,
		},
	}
	if phase != PhaseAccepted {
		return res, nil
	}
	key, err := s.FinalKey()
	if err != nil {
		return Result{}, err
	}
	res.Key = key
	res.Stats.KeyBits = key.Size()
	return res, nil
}
