package circuit

import (
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
)

// Public signal ordering.
//
// gnark lays out public inputs in struct declaration order, so the field
// order below is a wire-format contract, not a style choice. Reordering
// fields silently breaks every deployed verifier. The indices are exported
// as constants in pkg/zkproof/signals.go and covered by tests.

// HashSignatureCircuit proves possession of a credential issued under the
// symmetric hash-signature scheme:
//
//	BindingTag == MiMC(Attribute, IssuerKey)  AND  Attribute >= Threshold
//
// The issuer key doubles as the public key in this scheme, which is why it
// appears as a public input. This is the lightweight reference mode; see
// CommitmentCircuit for the default.
type HashSignatureCircuit struct {
	// Public inputs, in signal order.
	IsVerified frontend.Variable `gnark:",public"`
	Threshold  frontend.Variable `gnark:",public"`
	IssuerKey  frontend.Variable `gnark:",public"`

	// Private witness.
	Attribute  frontend.Variable
	BindingTag frontend.Variable
}

// Define implements frontend.Circuit.
func (c *HashSignatureCircuit) Define(api frontend.API) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	// Binding check: recompute the tag in-circuit and assert equality.
	// A forged tag makes the circuit unsatisfiable; no proof can exist.
	h.Write(c.Attribute, c.IssuerKey)
	api.AssertIsEqual(h.Sum(), c.BindingTag)

	// Threshold check, inclusive.
	ok := GreaterEq(api, c.Attribute, c.Threshold, AttributeBits)
	api.AssertIsEqual(c.IsVerified, ok)

	return nil
}

// CommitmentCircuit proves possession of a credential issued under the
// commitment-plus-signed-nonce scheme:
//
//	Commitment == MiMC(Attribute, Blinding)
//	BindingTag == MiMC(MiMC(Commitment, Nonce), IssuerKey)
//	Attribute  >= Threshold
//
// The commitment is public (published alongside the proof); the blinding
// factor keeps the attribute hidden, and the nonce binds the tag to one
// issuance so a proof cannot be replayed under a re-issued credential.
type CommitmentCircuit struct {
	// Public inputs, in signal order.
	IsVerified frontend.Variable `gnark:",public"`
	Threshold  frontend.Variable `gnark:",public"`
	IssuerKey  frontend.Variable `gnark:",public"`
	Commitment frontend.Variable `gnark:",public"`

	// Private witness.
	Attribute  frontend.Variable
	Blinding   frontend.Variable
	Nonce      frontend.Variable
	BindingTag frontend.Variable
}

// Define implements frontend.Circuit.
func (c *CommitmentCircuit) Define(api frontend.API) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	// Commitment opening: the witnessed attribute and blinding factor
	// must open the public commitment.
	h.Write(c.Attribute, c.Blinding)
	api.AssertIsEqual(h.Sum(), c.Commitment)

	// Binding check: tag = MiMC(MiMC(commitment, nonce), issuerKey).
	h.Reset()
	h.Write(c.Commitment, c.Nonce)
	inner := h.Sum()

	h.Reset()
	h.Write(inner, c.IssuerKey)
	api.AssertIsEqual(h.Sum(), c.BindingTag)

	ok := GreaterEq(api, c.Attribute, c.Threshold, AttributeBits)
	api.AssertIsEqual(c.IsVerified, ok)

	return nil
}

// FixedThresholdCircuit is the explicitly weaker variant of
// HashSignatureCircuit with the threshold baked into the constraint system
// at compile time instead of passed as a public input.
//
// A verification key generated from this circuit only ever checks the one
// threshold it was compiled with, and the threshold does not appear in the
// public signals, so the session cross-check of the input-based variant is
// unavailable. Offered for compatibility; prefer HashSignatureCircuit.
type FixedThresholdCircuit struct {
	// Public inputs, in signal order.
	IsVerified frontend.Variable `gnark:",public"`
	IssuerKey  frontend.Variable `gnark:",public"`

	// Private witness.
	Attribute  frontend.Variable
	BindingTag frontend.Variable

	// Threshold is a compile-time constant of the constraint system.
	// It must be set on the template passed to frontend.Compile.
	Threshold uint64
}

// Define implements frontend.Circuit.
func (c *FixedThresholdCircuit) Define(api frontend.API) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}

	h.Write(c.Attribute, c.IssuerKey)
	api.AssertIsEqual(h.Sum(), c.BindingTag)

	ok := GreaterEq(api, c.Attribute, c.Threshold, AttributeBits)
	api.AssertIsEqual(c.IsVerified, ok)

	return nil
}
