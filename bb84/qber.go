package bb84

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/qkdsim/bb84/bb84/bitarray"
)

// An Estimate is the outcome of error-rate estimation over a sifted key. The
// sampled bits are burned: they were compared in public, so only the unsampled
// remainder may become key material.
type Estimate struct {
	// QBER is the observed error rate over the sample: mismatches / sampled.
	QBER float64

	// Sampled and Mismatches are the sample size and the disagreement count
	// within it.
	Sampled    int
	Mismatches int

	// AliceKey and BobKey hold each party's unsampled sifted bits, in the
	// same (shuffled) order on both sides.
	AliceKey bitarray.Dense
	BobKey   bitarray.Dense

	// AliceSample and BobSample hold the publicly compared bits.
	AliceSample bitarray.Dense
	BobSample   bitarray.Dense
}

// EstimateQBER samples a fraction of the sifted bits, compares the two
// parties' values position by position, and reports the observed error rate.
// Both parties shuffle their sifted strings with the shared seed so that the
// sample covers the same positions on each side; the split into sample and
// remainder is therefore an exact partition and no sampled bit can leak into
// key material. The sample size is fraction*|sifted| rounded to nearest;
// an empty sample yields ErrInsufficientSample.
func EstimateQBER(aliceSifted, bobSifted bitarray.Dense, fraction float64, seed uint64) (Estimate, error) {
	if aliceSifted.Size() != bobSifted.Size() {
		return Estimate{}, fmt.Errorf("estimating QBER over unequal sifted keys: %d != %d",
			aliceSifted.Size(), bobSifted.Size())
	}
	n := aliceSifted.Size()
	k := int(math.Round(fraction * float64(n)))
	if k <= 0 {
		return Estimate{}, fmt.Errorf("%w: %d sifted bits at sample fraction %v",
			ErrInsufficientSample, n, fraction)
	}
	if k > n {
		k = n
	}

	aKey, aSample, err := splitSample(aliceSifted, k, seed)
	if err != nil {
		return Estimate{}, err
	}
	bKey, bSample, err := splitSample(bobSifted, k, seed)
	if err != nil {
		return Estimate{}, err
	}
	mismatches := aSample.XOr(bSample).CountOnes()
	return Estimate{
		QBER:        float64(mismatches) / float64(k),
		Sampled:     k,
		Mismatches:  mismatches,
		AliceKey:    aKey,
		BobKey:      bKey,
		AliceSample: aSample,
		BobSample:   bSample,
	}, nil
}

// splitSample shuffles a copy of bits under seed and slices the last k bits
// off as the sample.
func splitSample(bits bitarray.Dense, k int, seed uint64) (rest, sample bitarray.Dense, err error) {
	shuffled := bitarray.NewDense(bits.Data(), bits.Size())
	shuffled.Shuffle(rand.New(rand.NewSource(seed)))
	n := shuffled.Size()
	rest, err = shuffled.Slice(0, n-k)
	if err != nil {
		return bitarray.Empty(), bitarray.Empty(), err
	}
	sample, err = shuffled.Slice(n-k, n)
	if err != nil {
		return bitarray.Empty(), bitarray.Empty(), err
	}
	return rest, sample, nil
}

// AbortConfidence returns the probability that a channel whose true error rate
// sits exactly at rate would have produced strictly fewer than the observed
// number of mismatches among the sampled bits. Values near one mean the
// observed sample lies deep in the upper tail of what rate explains, i.e. the
// abort decision is well supported; values near zero mean the sample is
// unremarkable at that rate.
func AbortConfidence(mismatches, sampled int, rate float64) float64 {
	if sampled <= 0 || mismatches <= 0 {
		return 0
	}
	if rate <= 0 {
		return 1
	}
	if rate >= 1 {
		return 0
	}
	bin := distuv.Binomial{N: float64(sampled), P: rate}
	return bin.CDF(float64(mismatches) - 0.5)
}
