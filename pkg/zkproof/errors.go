// Package zkproof produces and checks Groth16 proofs that a credential's
// attribute satisfies a public threshold.
//
// This file defines the sentinel errors of the proof/verification contract.
// All of them wrap cleanly with errors.Is. Messages never contain attribute
// values or binding-tag internals.
package zkproof

import "errors"

var (
	// ErrWitnessShape is returned when credential contents do not match
	// the circuit's structural contract (wrong scheme variant, missing or
	// unparseable tag components, wrong fixed threshold). Raised before
	// proof generation is attempted.
	ErrWitnessShape = errors.New("zkproof: witness shape mismatch")

	// ErrInvalidProof is returned when the cryptographic proof check
	// fails, including structurally unusable proofs and public signals.
	ErrInvalidProof = errors.New("zkproof: proof verification failed")

	// ErrThresholdMismatch is returned when a proof's threshold signal
	// differs from the threshold expected for this session.
	ErrThresholdMismatch = errors.New("zkproof: proof threshold does not match session threshold")

	// ErrUntrustedIssuer is returned when a proof's issuer-key signals
	// differ from the issuer key pinned for this session.
	ErrUntrustedIssuer = errors.New("zkproof: proof issuer key does not match pinned issuer")

	// ErrRequirementNotMet is returned for a cryptographically valid
	// proof whose verification bit is zero: the attribute does not meet
	// the threshold.
	ErrRequirementNotMet = errors.New("zkproof: attribute does not meet threshold")
)
