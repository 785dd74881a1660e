// Package fieldhash provides a collision-resistant hash over the BN254 scalar
// field, usable both inside and outside an arithmetic circuit.
//
// The same MiMC parameters back gnark's in-circuit gadget
// (gnark/std/hash/mimc) and gnark-crypto's native implementation
// (gnark-crypto/ecc/bn254/fr/mimc). As long as every input is written as its
// canonical 32-byte field encoding, an in-circuit evaluation and an
// out-of-circuit evaluation of the same inputs agree bit-for-bit. That
// agreement is what lets a credential tag computed by the issuer be
// recomputed and checked inside the verification circuit.
package fieldhash

import (
	"errors"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
)

// ErrNoInput is returned when Hash is called with no elements.
var ErrNoInput = errors.New("fieldhash: hash requires at least one input")

// Hash computes MiMC over the given field elements, in order.
// Each element is reduced into the field and written as its canonical
// 32-byte big-endian encoding, matching the in-circuit gadget's convention.
func Hash(inputs ...*big.Int) (*big.Int, error) {
	if len(inputs) == 0 {
		return nil, ErrNoInput
	}

	h := mimc.NewMiMC()
	for _, in := range inputs {
		var elem fr.Element
		elem.SetBigInt(in)
		b := elem.Bytes()
		h.Write(b[:])
	}

	var out fr.Element
	out.SetBytes(h.Sum(nil))
	return out.BigInt(new(big.Int)), nil
}

// HashUint64 is a convenience wrapper hashing small integer inputs.
func HashUint64(inputs ...uint64) (*big.Int, error) {
	elems := make([]*big.Int, len(inputs))
	for i, in := range inputs {
		elems[i] = new(big.Int).SetUint64(in)
	}
	return Hash(elems...)
}

// RandomElement samples a uniformly random field element.
// Used for blinding factors and issuance nonces.
func RandomElement() (*big.Int, error) {
	var elem fr.Element
	if _, err := elem.SetRandom(); err != nil {
		return nil, err
	}
	return elem.BigInt(new(big.Int)), nil
}

// Modulus returns the BN254 scalar field modulus.
func Modulus() *big.Int {
	return fr.Modulus()
}

// Reduce returns v reduced into the field as a fresh big.Int.
func Reduce(v *big.Int) *big.Int {
	var elem fr.Element
	elem.SetBigInt(v)
	return elem.BigInt(new(big.Int))
}
