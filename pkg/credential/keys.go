package credential

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
)

// scalarBytes encodes a field element as its canonical 32-byte form.
func scalarBytes(v *big.Int) []byte {
	var e fr.Element
	e.SetBigInt(v)
	b := e.Bytes()
	return b[:]
}

// scalarFromBytes decodes a canonical 32-byte field element.
func scalarFromBytes(b []byte) (*big.Int, error) {
	if len(b) != fr.Bytes {
		return nil, fmt.Errorf("%w: scalar key must be %d bytes, got %d", ErrInvalidKey, fr.Bytes, len(b))
	}
	var e fr.Element
	e.SetBytes(b)
	return e.BigInt(new(big.Int)), nil
}

// ScalarKeyElement decodes a symmetric-scheme public key into the field
// element that appears in the circuit's public signals.
func ScalarKeyElement(pub []byte) (*big.Int, error) {
	return scalarFromBytes(pub)
}

// EdDSAKeyCoords decodes a compressed EdDSA public key into the affine
// coordinates that appear in the circuit's public signals (A.X, A.Y).
func EdDSAKeyCoords(pub []byte) (x, y *big.Int, err error) {
	var pk eddsa.PublicKey
	if _, err := pk.SetBytes(pub); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return pk.A.X.BigInt(new(big.Int)), pk.A.Y.BigInt(new(big.Int)), nil
}

// AttributeMessage is the canonical 32-byte encoding of an attribute value,
// used as the EdDSA message and for any byte-level binding of the
// attribute. Sign, Verify, and the in-circuit check all use this encoding.
func AttributeMessage(attribute uint64) []byte {
	var e fr.Element
	e.SetUint64(attribute)
	b := e.Bytes()
	return b[:]
}
