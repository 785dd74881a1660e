package zkproof

import (
	"context"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/backend/witness"
	"github.com/consensys/gnark/frontend"

	"github.com/zkattest/zkattest/pkg/circuit"
	"github.com/zkattest/zkattest/pkg/credential"
)

// Prover generates proofs that a credential's attribute meets a threshold,
// without the attribute or any binding-tag internals ever leaving this
// process: only the Proof and the PublicSignals cross the trust boundary.
//
// A Prover is stateless apart from the shared immutable Artifacts and is
// safe for concurrent use; each call allocates its own witness.
type Prover struct {
	artifacts *Artifacts
	scheme    credential.Scheme
}

// NewProver creates a Prover over compiled circuit artifacts.
func NewProver(artifacts *Artifacts) (*Prover, error) {
	// SecurityDemo here only bypasses the issuance gate; the prover
	// merely recomputes tags for its pre-flight binding check.
	scheme, err := credential.New(artifacts.Options.Variant, credential.SecurityDemo)
	if err != nil {
		return nil, err
	}
	return &Prover{artifacts: artifacts, scheme: scheme}, nil
}

// GenerateProof proves that cred's attribute is >= threshold.
//
// The credential is validated against the circuit's structural contract
// first: bit-widths, scheme variant, tag shape, and the binding itself are
// all checked before the proof system is invoked, so malformed input fails
// fast (ErrWitnessShape, credential.ErrRange) instead of producing a wrong
// proof or an opaque solver failure.
//
// Proof generation is CPU-bound and may take seconds. The context bounds
// how long the caller waits; the underlying computation has no meaningful
// cancellation point and runs to completion in its goroutine even after
// the caller abandons it.
func (p *Prover) GenerateProof(ctx context.Context, cred *credential.Credential, threshold uint64) (*Proof, PublicSignals, error) {
	if cred == nil {
		return nil, nil, fmt.Errorf("%w: nil credential", ErrWitnessShape)
	}
	if err := credential.CheckAttributeRange(threshold); err != nil {
		return nil, nil, fmt.Errorf("threshold: %w", err)
	}
	if err := credential.CheckAttributeRange(cred.AttributeValue); err != nil {
		return nil, nil, err
	}

	opts := p.artifacts.Options
	if cred.BindingTag.Variant != opts.Variant {
		return nil, nil, fmt.Errorf("%w: credential uses scheme %q, circuit expects %q",
			ErrWitnessShape, cred.BindingTag.Variant, opts.Variant)
	}
	if opts.FixedThreshold > 0 && threshold != opts.FixedThreshold {
		return nil, nil, fmt.Errorf("%w: circuit has threshold fixed at %d",
			ErrWitnessShape, opts.FixedThreshold)
	}

	// Pre-flight binding check. A tag not produced under the issuer key
	// would make the circuit unsatisfiable; catching it here gives a
	// deterministic error instead of a solver failure.
	if err := p.checkBinding(cred); err != nil {
		return nil, nil, err
	}

	var isVerified uint64
	if cred.AttributeValue >= threshold {
		isVerified = 1
	}

	assignment, err := proverAssignment(opts, cred, threshold, isVerified)
	if err != nil {
		return nil, nil, err
	}

	fullWitness, err := frontend.NewWitness(assignment, ecc.BN254.ScalarField())
	if err != nil {
		return nil, nil, fmt.Errorf("%w: build witness: %v", ErrWitnessShape, err)
	}

	// Run the proof on its own goroutine so the caller can stop waiting
	// on ctx. The channel is buffered: an abandoned computation still
	// completes and is collected, it just has no reader in a hurry.
	type result struct {
		proof groth16.Proof
		err   error
	}
	ch := make(chan result, 1)
	go func() {
		proof, err := groth16.Prove(p.artifacts.ConstraintSystem, p.artifacts.ProvingKey, fullWitness)
		ch <- result{proof: proof, err: err}
	}()

	var proof groth16.Proof
	select {
	case <-ctx.Done():
		return nil, nil, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return nil, nil, fmt.Errorf("generate proof: %w", r.err)
		}
		proof = r.proof
	}

	signals, err := extractSignals(fullWitness)
	if err != nil {
		return nil, nil, err
	}

	wire, err := encodeProof(proof)
	if err != nil {
		return nil, nil, err
	}
	return wire, signals, nil
}

// checkBinding recomputes the binding out-of-circuit. For the symmetric
// schemes the published key is the signing key, so the prover can verify
// directly; for eddsa only the public half is needed anyway.
func (p *Prover) checkBinding(cred *credential.Credential) error {
	pub, err := credential.DecodePublicKey(cred.IssuerPublicKey)
	if err != nil {
		return fmt.Errorf("%w: issuer key: %v", ErrWitnessShape, err)
	}
	key := &credential.KeyPair{
		Variant: p.artifacts.Options.Variant,
		Public:  pub,
	}
	// The symmetric schemes verify by re-signing, which reads Private; the
	// published key is the signing key there, so mirror it. EdDSA verifies
	// against Public alone and never needs the private half.
	if key.Variant != credential.VariantEdDSA {
		key.Private = pub
	}
	if err := p.scheme.Verify(cred.AttributeValue, &cred.BindingTag, key); err != nil {
		return fmt.Errorf("%w: %v", ErrWitnessShape, err)
	}
	return nil
}

// MaxThreshold reports the largest threshold any circuit in this package
// accepts.
func MaxThreshold() uint64 { return circuit.MaxAttributeValue }

// extractSignals reads the public part of a full witness as ordered
// decimal strings. Taking them from the witness, rather than re-deriving
// them, guarantees the list matches the prover's actual public inputs in
// gnark's layout order.
func extractSignals(w witness.Witness) (PublicSignals, error) {
	pub, err := w.Public()
	if err != nil {
		return nil, fmt.Errorf("extract public witness: %w", err)
	}
	vec, ok := pub.Vector().(fr.Vector)
	if !ok {
		return nil, fmt.Errorf("unexpected public witness vector type %T", pub.Vector())
	}
	signals := make(PublicSignals, len(vec))
	for i := range vec {
		signals[i] = vec[i].String()
	}
	return signals, nil
}
