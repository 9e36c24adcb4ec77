// qkdsim runs a BB84 simulation for each entry in the cartesian product of a
// collection of tuning parameters, e.g. channel noise and intercept-resend
// probability, and outputs a CSV of relevant statistics for each combination,
// e.g. observed QBER and whether the run was accepted.
package main

import (
	"fmt"
	"log"
	"os"
	"text/template"

	flag "github.com/spf13/pflag"

	"github.com/qkdsim/bb84/bb84"
)

var (
	ns = flag.IntSlice("n", []int{2048},
		"The number of qubits to exchange per key negotiation attempt.")
	noises = flag.Float64Slice("noise", []float64{0},
		"The per-qubit channel bit-flip probabilities to simulate.")
	intercepts = flag.Float64Slice("intercept", []float64{0, 1},
		"The per-qubit intercept-resend probabilities to simulate. Zero disables the attacker.")
	seeds = flag.IntSlice("seed", []int{42},
		"The RNG seeds to run each parameterization under.")
	sampleFraction = flag.Float64("sample-fraction", 0.25,
		"The fraction of sifted bits sacrificed to error estimation.")
	threshold = flag.Float64("qber-threshold", 0.11,
		"The accept/abort cutoff on observed QBER.")
	keyBits = flag.Int("key-bits", 128,
		"The requested final key length in bits.")
)

const (
	header   = "N, Noise, Intercept, Seed, Sifted, Sampled, QBER, Confidence, Phase, KeyBits"
	lineTmpl = "{{.N}}, {{.Noise}}, {{.Intercept}}, {{.Seed}}, {{.Sifted}}, {{.Sampled}}, " +
		"{{printf \"%.4f\" .QBER}}, {{printf \"%.4f\" .Confidence}}, {{.Phase}}, {{.KeyBits}}\n"
)

// A Row packages together the result of simulating a single parameterization
// for easy formatting.
type Row struct {
	N          int
	Noise      float64
	Intercept  float64
	Seed       int
	Sifted     int
	Sampled    int
	QBER       float64
	Confidence float64
	Phase      string
	KeyBits    int
}

func main() {
	flag.Parse()
	fmt.Println(header)
	tmpl := template.Must(template.New("line").Parse(lineTmpl))
	for _, n := range *ns {
		for _, noise := range *noises {
			for _, intercept := range *intercepts {
				for _, seed := range *seeds {
					row, err := simulate(n, noise, intercept, seed)
					if err != nil {
						log.Fatalf("Simulating (n: %d, noise: %f, intercept: %f, seed: %d): %v",
							n, noise, intercept, seed, err)
					}
					if err := tmpl.Execute(os.Stdout, row); err != nil {
						log.Fatalf("BUG: could not fill in line template: %v", err)
					}
				}
			}
		}
	}
}

func simulate(n int, noise, intercept float64, seed int) (Row, error) {
	res, err := bb84.Run(bb84.Config{
		N:                    n,
		Rand:                 bb84.NewSource(uint64(seed)),
		NoiseProbability:     noise,
		Eavesdrop:            intercept > 0,
		InterceptProbability: intercept,
		SampleFraction:       *sampleFraction,
		QBERThreshold:        *threshold,
		KeyBits:              *keyBits,
	})
	if err != nil {
		return Row{}, err
	}
	return Row{
		N:          n,
		Noise:      noise,
		Intercept:  intercept,
		Seed:       seed,
		Sifted:     res.Stats.SiftedBits,
		Sampled:    res.Stats.SampledBits,
		QBER:       res.QBER,
		Confidence: res.Confidence,
		Phase:      res.Phase.String(),
		KeyBits:    res.Stats.KeyBits,
	}, nil
}
