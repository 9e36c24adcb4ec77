package bb84

import (
	"testing"

	"github.com/qkdsim/bb84/bb84/qubit"
)

// A scriptedSource is a RandomSource handing out fixed sequences, so tests can
// pin every probabilistic branch. Draws beyond a script fail the test.
type scriptedSource struct {
	t      *testing.T
	bits   []qubit.Bit
	bases  []qubit.Basis
	floats []float64
	uints  []uint64
}

func (s *scriptedSource) Bit() qubit.Bit {
	if len(s.bits) == 0 {
		s.t.Fatalf("unscripted bit draw")
	}
	b := s.bits[0]
	s.bits = s.bits[1:]
	return b
}

func (s *scriptedSource) Basis() qubit.Basis {
	if len(s.bases) == 0 {
		s.t.Fatalf("unscripted basis draw")
	}
	b := s.bases[0]
	s.bases = s.bases[1:]
	return b
}

func (s *scriptedSource) Float64() float64 {
	if len(s.floats) == 0 {
		s.t.Fatalf("unscripted float draw")
	}
	f := s.floats[0]
	s.floats = s.floats[1:]
	return f
}

func (s *scriptedSource) Uint64() uint64 {
	if len(s.uints) == 0 {
		s.t.Fatalf("unscripted uint64 draw")
	}
	u := s.uints[0]
	s.uints = s.uints[1:]
	return u
}

func (s *scriptedSource) exhausted() bool {
	return len(s.bits) == 0 && len(s.bases) == 0 && len(s.floats) == 0 && len(s.uints) == 0
}

func TestQuietChannelDeliversUntouched(t *testing.T) {
	qubits := []qubit.Qubit{
		qubit.Prepare(0, qubit.Rectilinear),
		qubit.Prepare(1, qubit.Diagonal),
		qubit.Prepare(1, qubit.Rectilinear),
	}
	rng := &scriptedSource{t: t} // no draws permitted
	got := Channel{}.Transmit(qubits, rng)
	for i := range qubits {
		if got[i] != qubits[i] {
			t.Errorf("qubit %d disturbed by quiet channel: got %+v, want %+v", i, got[i], qubits[i])
		}
	}
}

func TestFullNoiseFlipsEveryValue(t *testing.T) {
	qubits := []qubit.Qubit{
		qubit.Prepare(0, qubit.Rectilinear),
		qubit.Prepare(1, qubit.Diagonal),
	}
	rng := &scriptedSource{t: t, floats: []float64{0.5, 0.99}}
	got := Channel{Noise: 1}.Transmit(qubits, rng)
	for i := range qubits {
		if got[i].Value() == qubits[i].Value() {
			t.Errorf("qubit %d value survived a p=1 noise channel", i)
		}
		if got[i].Basis() != qubits[i].Basis() {
			t.Errorf("noise changed qubit %d basis from %v to %v", i, qubits[i].Basis(), got[i].Basis())
		}
	}
	if !rng.exhausted() {
		t.Errorf("noise model did not consume one draw per qubit")
	}
}

func TestInterceptResend(t *testing.T) {
	tcs := []struct {
		name   string
		prob   float64
		in     qubit.Qubit
		floats []float64
		bases  []qubit.Basis
		bits   []qubit.Bit
		eout   qubit.Qubit
	}{
		{
			name:   "never taps at prob zero",
			prob:   0,
			in:     qubit.Prepare(1, qubit.Rectilinear),
			floats: []float64{0},
			eout:   qubit.Prepare(1, qubit.Rectilinear),
		}, {
			name:   "matching basis forwards faithfully",
			prob:   1,
			in:     qubit.Prepare(1, qubit.Rectilinear),
			floats: []float64{0.3},
			bases:  []qubit.Basis{qubit.Rectilinear},
			eout:   qubit.Prepare(1, qubit.Rectilinear),
		}, {
			name:   "mismatched basis re-prepares the measured value",
			prob:   1,
			in:     qubit.Prepare(1, qubit.Rectilinear),
			floats: []float64{0.3},
			bases:  []qubit.Basis{qubit.Diagonal},
			bits:   []qubit.Bit{0},
			eout:   qubit.Prepare(0, qubit.Diagonal),
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			rng := &scriptedSource{t: t, bits: tc.bits, bases: tc.bases, floats: tc.floats}
			got := InterceptResend{Prob: tc.prob}.Tap(tc.in, rng)
			if got != tc.eout {
				t.Errorf("Tap(%+v) == %+v, want %+v", tc.in, got, tc.eout)
			}
			if !rng.exhausted() {
				t.Errorf("Tap left scripted draws unconsumed")
			}
		})
	}
}
