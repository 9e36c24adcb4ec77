package bb84

import (
	"github.com/qkdsim/bb84/bb84/qubit"
)

// Sift returns the indices at which the two parties chose the same basis, in
// increasing order. It is a pure function of the revealed basis sequences and
// touches no bit values; for independent uniform basis choices the returned
// set covers roughly half the positions. Positions beyond the shorter sequence
// are discarded.
func Sift(aliceBases, bobBases []qubit.Basis) []int {
	n := len(aliceBases)
	if len(bobBases) < n {
		n = len(bobBases)
	}
	var idx []int
	for i := 0; i < n; i++ {
		if aliceBases[i] == bobBases[i] {
			idx = append(idx, i)
		}
	}
	return idx
}
