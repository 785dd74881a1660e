package circuit

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/test"
)

// cmpCircuit asserts GreaterEq(A, B) == Want at the fixed bit-width.
type cmpCircuit struct {
	A    frontend.Variable `gnark:",public"`
	B    frontend.Variable `gnark:",public"`
	Want frontend.Variable `gnark:",public"`
}

func (c *cmpCircuit) Define(api frontend.API) error {
	api.AssertIsEqual(GreaterEq(api, c.A, c.B, AttributeBits), c.Want)
	return nil
}

// TestGreaterEq_Boundaries tests the comparator on the boundary values the
// verifier depends on, including equality and the extremes of the range.
func TestGreaterEq_Boundaries(t *testing.T) {
	cases := []struct {
		name string
		a, b uint64
		want int
	}{
		{"above", 25, 18, 1},
		{"equal", 18, 18, 1},
		{"below", 16, 18, 0},
		{"adjacent_below", 17, 18, 0},
		{"adjacent_above", 19, 18, 1},
		{"zero_vs_one", 0, 1, 0},
		{"one_vs_zero", 1, 0, 1},
		{"zero_vs_zero", 0, 0, 1},
		{"max_vs_max", MaxAttributeValue, MaxAttributeValue, 1},
		{"max_vs_zero", MaxAttributeValue, 0, 1},
		{"zero_vs_max", 0, MaxAttributeValue, 0},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			assert := test.NewAssert(t)

			witness := &cmpCircuit{A: tc.a, B: tc.b, Want: tc.want}
			var circuit cmpCircuit
			assert.ProverSucceeded(&circuit, witness, test.WithCurves(ecc.BN254))

			// The complementary claim must be unsatisfiable.
			wrong := &cmpCircuit{A: tc.a, B: tc.b, Want: 1 - tc.want}
			assert.ProverFailed(&circuit, wrong, test.WithCurves(ecc.BN254))
		})
	}
}

// TestGreaterEq_RejectsOutOfRangeOperands tests that operands beyond the
// bit-width fail the range decomposition rather than wrapping around.
func TestGreaterEq_RejectsOutOfRangeOperands(t *testing.T) {
	assert := test.NewAssert(t)

	oversized := new(big.Int).Lsh(big.NewInt(1), AttributeBits)

	var circuit cmpCircuit
	assert.ProverFailed(&circuit, &cmpCircuit{A: oversized, B: 0, Want: 1}, test.WithCurves(ecc.BN254))
	assert.ProverFailed(&circuit, &cmpCircuit{A: 0, B: oversized, Want: 0}, test.WithCurves(ecc.BN254))
}
