package circuit

import (
	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/algebra/native/twistededwards"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/consensys/gnark/std/signature/eddsa"
)

// EdDSACircuit proves possession of a credential issued under the
// digital-signature scheme: an EdDSA signature over the attribute, on the
// Baby Jubjub curve embedded in BN254, with MiMC as the signature hash.
//
// Curve arithmetic dominates the constraint count here; this circuit is an
// order of magnitude larger than the hash-based variants. Use it when
// non-repudiation of the issuer matters and the constraint budget allows.
type EdDSACircuit struct {
	// Public inputs, in signal order. The public key contributes two
	// signals (A.X then A.Y).
	IsVerified frontend.Variable `gnark:",public"`
	Threshold  frontend.Variable `gnark:",public"`
	PublicKey  eddsa.PublicKey   `gnark:",public"`

	// Private witness.
	Attribute frontend.Variable
	Signature eddsa.Signature
}

// Define implements frontend.Circuit.
func (c *EdDSACircuit) Define(api frontend.API) error {
	curve, err := twistededwards.NewEdCurve(api, tedwards.BN254)
	if err != nil {
		return err
	}

	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	// Binding check: the signature must verify over the raw attribute.
	if err := eddsa.Verify(curve, c.Signature, c.Attribute, c.PublicKey, &h); err != nil {
		return err
	}

	ok := GreaterEq(api, c.Attribute, c.Threshold, AttributeBits)
	api.AssertIsEqual(c.IsVerified, ok)

	return nil
}
