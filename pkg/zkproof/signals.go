package zkproof

import (
	"fmt"
	"math/big"

	"github.com/zkattest/zkattest/pkg/credential"
	"github.com/zkattest/zkattest/pkg/fieldhash"
)

// PublicSignals is the ordered list of a proof's public inputs as decimal
// field-element strings. Position carries meaning: the layout below is part
// of the circuit's public contract and must be published alongside the
// verification key. Reordering breaks interoperability without any compile
// error, which is why the layout is spelled out here and pinned by tests.
type PublicSignals []string

// SignalLayout maps semantic signal names to positions for one circuit
// variant. An index of -1 means the signal does not exist in that variant.
type SignalLayout struct {
	// IsVerified is the index of the boolean verification output.
	IsVerified int
	// Threshold is the index of the threshold input, or -1 when the
	// threshold is baked into the constraint system (fixed-threshold
	// mode).
	Threshold int
	// IssuerKey holds the index (or, for eddsa, the two coordinate
	// indices A.X, A.Y) of the issuer public key.
	IssuerKey []int
	// Commitment is the index of the attribute commitment, or -1 for
	// schemes without one.
	Commitment int
	// Count is the total number of signals.
	Count int
}

// LayoutFor returns the signal layout for a circuit configuration.
//
// Layouts:
//
//	hash-signature:          [isVerified, threshold, issuerKey]
//	hash-signature (fixed):  [isVerified, issuerKey]
//	commitment:              [isVerified, threshold, issuerKey, commitment]
//	eddsa:                   [isVerified, threshold, issuerKey.X, issuerKey.Y]
func LayoutFor(opts Options) SignalLayout {
	switch opts.Variant {
	case credential.VariantCommitment:
		return SignalLayout{IsVerified: 0, Threshold: 1, IssuerKey: []int{2}, Commitment: 3, Count: 4}
	case credential.VariantEdDSA:
		return SignalLayout{IsVerified: 0, Threshold: 1, IssuerKey: []int{2, 3}, Commitment: -1, Count: 4}
	default: // hash-signature
		if opts.FixedThreshold > 0 {
			return SignalLayout{IsVerified: 0, Threshold: -1, IssuerKey: []int{1}, Commitment: -1, Count: 2}
		}
		return SignalLayout{IsVerified: 0, Threshold: 1, IssuerKey: []int{2}, Commitment: -1, Count: 3}
	}
}

// Element parses the signal at index i as a field element.
func (s PublicSignals) Element(i int) (*big.Int, error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("signal index %d out of range (%d signals)", i, len(s))
	}
	v, ok := new(big.Int).SetString(s[i], 10)
	if !ok || v.Sign() < 0 || v.Cmp(fieldhash.Modulus()) >= 0 {
		return nil, fmt.Errorf("signal %d is not a field element", i)
	}
	return v, nil
}
