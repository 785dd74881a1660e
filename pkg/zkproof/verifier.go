package zkproof

import (
	"crypto/subtle"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/frontend"

	"github.com/zkattest/zkattest/pkg/credential"
)

// Verifier checks proofs against the fixed verification key and the
// session's expectations. It never sees the attribute; everything it
// consumes is public.
//
// The checks in Verify run in a fixed order and short-circuit on the first
// failure:
//
//  1. cryptographic proof check            -> ErrInvalidProof
//  2. positional signal extraction         -> ErrInvalidProof
//  3. threshold equals session threshold   -> ErrThresholdMismatch
//  4. issuer key equals pinned issuer key  -> ErrUntrustedIssuer
//  5. verification bit is one              -> ErrRequirementNotMet
//
// Steps 3 and 4 are what stand in for true session binding: a proof
// generated for a lower threshold, or under a different issuer, is
// cryptographically valid and still rejected here.
type Verifier struct {
	artifacts *Artifacts
}

// NewVerifier creates a Verifier over compiled circuit artifacts.
func NewVerifier(artifacts *Artifacts) *Verifier {
	return &Verifier{artifacts: artifacts}
}

// Verify checks proof and signals against this session's threshold and
// pinned issuer public key (the scheme-specific encoding from
// credential.KeyPair.Public). Callers must fetch and pin the issuer key
// once per session; accepting it from the proof's own signals would defeat
// check 4.
func (v *Verifier) Verify(proof *Proof, signals PublicSignals, expectedThreshold uint64, expectedIssuerKey []byte) error {
	opts := v.artifacts.Options
	layout := LayoutFor(opts)

	// Step 1+2a: the cryptographic check needs the public witness, so the
	// signals are parsed positionally first; anything unusable is an
	// invalid proof. The distinction is kept in the wrapped message for
	// internal logs but not in the sentinel.
	gnarkProof, err := decodeProof(proof)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	assignment, err := publicAssignment(opts, signals)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	publicWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField(), frontend.PublicOnly())
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if err := groth16.Verify(gnarkProof, v.artifacts.VerifyingKey, publicWitness); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}

	// Step 3: session threshold cross-check.
	if layout.Threshold >= 0 {
		threshold, err := signals.Element(layout.Threshold)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProof, err)
		}
		if threshold.Cmp(new(big.Int).SetUint64(expectedThreshold)) != 0 {
			return ErrThresholdMismatch
		}
	} else if expectedThreshold != opts.FixedThreshold {
		// Fixed-threshold circuits carry no threshold signal; the only
		// threshold they can attest to is the compiled-in one.
		return ErrThresholdMismatch
	}

	// Step 4: pinned issuer cross-check.
	if err := v.checkIssuer(signals, layout, expectedIssuerKey); err != nil {
		return err
	}

	// Step 5: the verification bit itself.
	isVerified, err := signals.Element(layout.IsVerified)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProof, err)
	}
	if isVerified.Cmp(big.NewInt(1)) != 0 {
		return ErrRequirementNotMet
	}

	return nil
}

// checkIssuer compares the issuer-key signals against the pinned key.
func (v *Verifier) checkIssuer(signals PublicSignals, layout SignalLayout, expectedIssuerKey []byte) error {
	var want []*big.Int
	switch v.artifacts.Options.Variant {
	case credential.VariantEdDSA:
		x, y, err := credential.EdDSAKeyCoords(expectedIssuerKey)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUntrustedIssuer, err)
		}
		want = []*big.Int{x, y}
	default:
		elem, err := credential.ScalarKeyElement(expectedIssuerKey)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrUntrustedIssuer, err)
		}
		want = []*big.Int{elem}
	}

	if len(want) != len(layout.IssuerKey) {
		return ErrUntrustedIssuer
	}
	mismatch := 0
	for i, idx := range layout.IssuerKey {
		got, err := signals.Element(idx)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProof, err)
		}
		// Constant-time over the key comparison; the comparison count
		// is already public via the layout.
		mismatch |= subtle.ConstantTimeCompare(got.Bytes(), want[i].Bytes()) ^ 1
	}
	if mismatch != 0 {
		return ErrUntrustedIssuer
	}
	return nil
}
