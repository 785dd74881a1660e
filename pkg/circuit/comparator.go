// Package circuit defines the arithmetic constraint systems that prove
// "this attribute was bound by the issuer AND attribute >= threshold"
// without revealing the attribute.
package circuit

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
)

// AttributeBits is the canonical bit-width of attribute and threshold
// values. It is fixed for the lifetime of every circuit in this package;
// callers must range-check values against 2^AttributeBits - 1 before
// building a witness.
const AttributeBits = 32

// MaxAttributeValue is the largest attribute or threshold value the
// comparator can represent.
const MaxAttributeValue = uint64(1)<<AttributeBits - 1

// GreaterEq constrains a and b to nbBits bits and returns a variable that
// is 1 when a >= b and 0 otherwise.
//
// Both operands are decomposed into nbBits binary digits. The decomposition
// enforces that every digit is 0 or 1 and that the digits recompose to the
// original value, which rules out overflow and wraparound forgeries. The
// comparison itself reads the top bit of a - b + 2^nbBits: the sum lies in
// [1, 2^(nbBits+1) - 1], and bit nbBits is set exactly when no borrow
// propagates out of the subtraction, i.e. when a >= b.
func GreaterEq(api frontend.API, a, b frontend.Variable, nbBits int) frontend.Variable {
	// Range checks. The returned bits are not needed; the constraints are.
	api.ToBinary(a, nbBits)
	api.ToBinary(b, nbBits)

	shift := new(big.Int).Lsh(big.NewInt(1), uint(nbBits))
	diff := api.Add(api.Sub(a, b), shift)

	bits := api.ToBinary(diff, nbBits+1)
	return bits[nbBits]
}
