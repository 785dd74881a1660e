package zkproof

import (
	"fmt"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/backend/groth16"
	"github.com/consensys/gnark/constraint"
	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/frontend/cs/r1cs"

	"github.com/zkattest/zkattest/pkg/circuit"
	"github.com/zkattest/zkattest/pkg/credential"
)

// Options selects which circuit to compile.
type Options struct {
	// Variant selects the credential binding scheme the circuit checks.
	Variant credential.Variant

	// FixedThreshold, when nonzero, bakes the threshold into the
	// constraint system instead of taking it as a public input. This is
	// the explicitly weaker configuration: the resulting verification
	// key checks exactly one threshold, and the session-level threshold
	// cross-check is unavailable. Only valid with VariantHashSignature.
	FixedThreshold uint64
}

// Validate checks the option combination.
func (o Options) Validate() error {
	if _, err := credential.ParseVariant(string(o.Variant)); err != nil {
		return err
	}
	if o.FixedThreshold > 0 {
		if o.Variant != credential.VariantHashSignature {
			return fmt.Errorf("fixed-threshold mode is only supported with the %s scheme",
				credential.VariantHashSignature)
		}
		if o.FixedThreshold > circuit.MaxAttributeValue {
			return fmt.Errorf("%w: fixed threshold needs more than %d bits",
				credential.ErrRange, circuit.AttributeBits)
		}
	}
	return nil
}

// Artifacts bundles everything needed to prove and verify for one circuit
// configuration: the compiled constraint system and the Groth16 key pair.
// Artifacts are immutable after Setup and safe for concurrent use.
type Artifacts struct {
	Options Options

	ConstraintSystem constraint.ConstraintSystem
	ProvingKey       groth16.ProvingKey
	VerifyingKey     groth16.VerifyingKey
}

// Setup compiles the circuit for opts and runs the Groth16 setup. This
// takes seconds for the hash-based variants and considerably longer for
// eddsa; prefer Load, which memoizes per configuration.
func Setup(opts Options) (*Artifacts, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	tmpl, err := template(opts)
	if err != nil {
		return nil, err
	}

	cs, err := frontend.Compile(ecc.BN254.ScalarField(), r1cs.NewBuilder, tmpl)
	if err != nil {
		return nil, fmt.Errorf("compile circuit: %w", err)
	}

	pk, vk, err := groth16.Setup(cs)
	if err != nil {
		return nil, fmt.Errorf("groth16 setup: %w", err)
	}

	return &Artifacts{
		Options:          opts,
		ConstraintSystem: cs,
		ProvingKey:       pk,
		VerifyingKey:     vk,
	}, nil
}

// template returns the zero-value circuit for compilation. The
// fixed-threshold variant needs its constant set on the template.
func template(opts Options) (frontend.Circuit, error) {
	switch opts.Variant {
	case credential.VariantHashSignature:
		if opts.FixedThreshold > 0 {
			return &circuit.FixedThresholdCircuit{Threshold: opts.FixedThreshold}, nil
		}
		return &circuit.HashSignatureCircuit{}, nil
	case credential.VariantCommitment:
		return &circuit.CommitmentCircuit{}, nil
	case credential.VariantEdDSA:
		return &circuit.EdDSACircuit{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", credential.ErrUnknownVariant, opts.Variant)
	}
}

// cacheEntry memoizes one Setup call. The sync.Once makes concurrent
// loaders of the same configuration await the single in-flight setup
// instead of each compiling the circuit redundantly.
type cacheEntry struct {
	once sync.Once
	art  *Artifacts
	err  error
}

var (
	cacheMu sync.Mutex
	cache   = make(map[Options]*cacheEntry)
)

// Load returns memoized Artifacts for opts, running Setup on first use.
// All callers of the same configuration share one instance.
func Load(opts Options) (*Artifacts, error) {
	cacheMu.Lock()
	entry, ok := cache[opts]
	if !ok {
		entry = &cacheEntry{}
		cache[opts] = entry
	}
	cacheMu.Unlock()

	entry.once.Do(func() {
		entry.art, entry.err = Setup(opts)
	})
	return entry.art, entry.err
}

// ResetCache drops all memoized artifacts. Mainly useful for tests.
func ResetCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cache = make(map[Options]*cacheEntry)
}
