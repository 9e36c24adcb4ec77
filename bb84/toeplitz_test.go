package bb84

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/qkdsim/bb84/bb84/bitarray"
)

func TestToeplitzMul(t *testing.T) {
	tcs := []struct {
		mat  toeplitz
		vec  bitarray.Dense
		eout bitarray.Dense
	}{
		{
			// (0 1 0)
			// (0 0 1)
			// (1 0 0)
			mat: toeplitz{
				diags: bitarray.NewDense([]byte{0b01001}, 5),
				m:     3,
				n:     3,
			},
			// (0 1 1)^T
			vec: bitarray.NewDense([]byte{0b110}, 3),
			// (1 1 0)^T
			eout: bitarray.NewDense([]byte{0b011}, 3),
		}, {
			// (0 0)
			// (1 0)
			// (0 1)
			// (1 0)
			mat: toeplitz{
				diags: bitarray.NewDense([]byte{0b00101}, 5),
				m:     4,
				n:     2,
			},
			// (1 0)^T
			vec: bitarray.NewDense([]byte{0b01}, 2),
			// (0 1 0 1)^T
			eout: bitarray.NewDense([]byte{0b1010}, 4),
		}, {
			// (1 1 1 0)
			// (0 1 1 1)
			mat: toeplitz{
				diags: bitarray.NewDense([]byte{0b01110}, 5),
				m:     2,
				n:     4,
			},
			// (0 1 0 1)^T
			vec: bitarray.NewDense([]byte{0b01}, 4),
			// (1 0)^T
			eout: bitarray.NewDense([]byte{0b01}, 2),
		},
	}

	for _, tc := range tcs {
		t.Run(fmt.Sprintf("%dx%d", tc.mat.m, tc.mat.n), func(t *testing.T) {
			out, err := tc.mat.Mul(tc.vec)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if out.Size() != tc.eout.Size() {
				t.Errorf("got bitarray of len %d, want %d", out.Size(), tc.eout.Size())
			}
			if !bytes.Equal(out.Data(), tc.eout.Data()) {
				t.Errorf("T*v == %v, want %v", out.Data(), tc.eout.Data())
			}
		})
	}
}

func TestToeplitzShape(t *testing.T) {
	tcs := []struct {
		name string
		mat  toeplitz
		vec  bitarray.Dense
	}{
		{
			name: "too few diagonals",
			mat: toeplitz{
				diags: bitarray.NewDense([]byte{0b0110}, 4),
				m:     3,
				n:     3,
			},
			vec: bitarray.NewDense([]byte{0b110}, 3),
		}, {
			name: "vector dimension mismatch",
			mat: toeplitz{
				diags: bitarray.NewDense([]byte{0b01001}, 5),
				m:     3,
				n:     3,
			},
			vec: bitarray.NewDense([]byte{0b11}, 2),
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.mat.Mul(tc.vec); err == nil {
				t.Errorf("expected shape error, got none")
			}
		})
	}
}
