// Package credential implements the schemes that bind a private attribute
// value to an issuer key, producing a verifiable binding tag.
//
// Three schemes are provided, selected by configuration:
//
//   - hash-signature: tag = MiMC(attribute, key). Symmetric; the signing key
//     and the "public" key are the same field element. Demo-grade only.
//   - commitment: commitment = MiMC(attribute, blinding),
//     tag = MiMC(MiMC(commitment, nonce), key). Still symmetric, but the
//     fresh nonce binds the tag to a single issuance, giving replay
//     resistance. This is the default.
//   - eddsa: a real EdDSA signature over the attribute on the Baby Jubjub
//     curve embedded in BN254. Non-repudiable, but in-circuit verification
//     costs orders of magnitude more constraints.
//
// Every scheme produces a tag checkable by pkg/circuit using only
// field-native operations (EdDSA being the deliberate, expensive exception).
package credential

import (
	"errors"
	"fmt"
)

// Variant identifies a credential binding scheme.
type Variant string

// Supported scheme variants.
const (
	VariantHashSignature Variant = "hash-signature"
	VariantCommitment    Variant = "commitment"
	VariantEdDSA         Variant = "eddsa"
)

// SecurityLevel gates which schemes may be constructed.
//
// The symmetric hash-signature scheme exposes its signing key as the
// "public" key: anyone who can verify a tag can also forge one. That is an
// acceptable simplification for demos and tests, and a real flaw anywhere
// else, so constructing it requires SecurityDemo explicitly.
type SecurityLevel string

// Security levels.
const (
	SecurityDemo       SecurityLevel = "demo"
	SecurityProduction SecurityLevel = "production"
)

// Scheme errors.
var (
	// ErrUnknownVariant is returned for an unrecognized scheme name.
	ErrUnknownVariant = errors.New("credential: unknown scheme variant")

	// ErrSecurityLevel is returned when a scheme is not allowed at the
	// requested security level.
	ErrSecurityLevel = errors.New("credential: scheme not permitted at this security level")

	// ErrRange is returned when an attribute or threshold exceeds the
	// fixed bit-width contract. Values are never silently truncated.
	ErrRange = errors.New("credential: value exceeds fixed bit-width")

	// ErrInvalidKey is returned for malformed or missing key material.
	ErrInvalidKey = errors.New("credential: invalid key material")

	// ErrInvalidTag is returned when a binding tag does not verify
	// against the attribute and key.
	ErrInvalidTag = errors.New("credential: binding tag does not verify")

	// ErrTagShape is returned when a binding tag is structurally wrong
	// for its scheme (missing or unparseable components).
	ErrTagShape = errors.New("credential: malformed binding tag")
)

// KeyPair holds an issuer key pair in scheme-specific encoding.
//
// For the symmetric schemes both halves are the canonical 32-byte encoding
// of the same field element. For eddsa, Private is the gnark-crypto EdDSA
// private key encoding and Public the 32-byte compressed public key.
type KeyPair struct {
	Variant Variant
	Private []byte
	Public  []byte
}

// Scheme binds attribute values to an issuer key.
//
// Sign produces a BindingTag whose private components (blinding factor,
// nonce) travel inside the credential to the prover and never further.
// Verify is the out-of-circuit counterpart of the in-circuit binding check;
// the two must agree bit-for-bit.
type Scheme interface {
	// Variant reports which scheme this is.
	Variant() Variant

	// KeyGen generates a fresh issuer key pair.
	KeyGen() (*KeyPair, error)

	// Sign binds the attribute to the issuer key.
	// Returns ErrRange if the attribute exceeds the bit-width contract.
	Sign(attribute uint64, key *KeyPair) (*BindingTag, error)

	// Verify checks a tag against the attribute and key.
	// Returns ErrInvalidTag on mismatch.
	Verify(attribute uint64, tag *BindingTag, key *KeyPair) error
}

// New constructs the scheme for a variant, enforcing the security level.
func New(variant Variant, level SecurityLevel) (Scheme, error) {
	switch variant {
	case VariantHashSignature:
		if level != SecurityDemo {
			return nil, fmt.Errorf("%w: %s requires security level %q",
				ErrSecurityLevel, variant, SecurityDemo)
		}
		return &hashSignatureScheme{}, nil
	case VariantCommitment:
		return &commitmentScheme{}, nil
	case VariantEdDSA:
		return &eddsaScheme{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVariant, variant)
	}
}

// ParseVariant validates a scheme name from configuration or the wire.
func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case VariantHashSignature, VariantCommitment, VariantEdDSA:
		return Variant(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, s)
	}
}
