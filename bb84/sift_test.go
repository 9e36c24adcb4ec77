package bb84

import (
	"testing"

	"github.com/qkdsim/bb84/bb84/qubit"
)

func TestSift(t *testing.T) {
	r, d := qubit.Rectilinear, qubit.Diagonal
	tcs := []struct {
		name  string
		alice []qubit.Basis
		bob   []qubit.Basis
		eout  []int
	}{
		{
			name:  "all match",
			alice: []qubit.Basis{r, d, r},
			bob:   []qubit.Basis{r, d, r},
			eout:  []int{0, 1, 2},
		}, {
			name:  "none match",
			alice: []qubit.Basis{r, d, r},
			bob:   []qubit.Basis{d, r, d},
			eout:  nil,
		}, {
			name:  "interleaved",
			alice: []qubit.Basis{r, d, d, r, d, r},
			bob:   []qubit.Basis{r, r, d, d, d, r},
			eout:  []int{0, 2, 4, 5},
		}, {
			name:  "bob short",
			alice: []qubit.Basis{r, d, d, r},
			bob:   []qubit.Basis{r, d},
			eout:  []int{0, 1},
		}, {
			name: "both empty",
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			got := Sift(tc.alice, tc.bob)
			if len(got) != len(tc.eout) {
				t.Fatalf("Sift == %v, want %v", got, tc.eout)
			}
			for i := range got {
				if got[i] != tc.eout[i] {
					t.Errorf("Sift == %v, want %v", got, tc.eout)
					break
				}
			}
		})
	}
}
