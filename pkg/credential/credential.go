package credential

import (
	"fmt"
	"math/big"

	"github.com/mr-tron/base58"

	"github.com/zkattest/zkattest/pkg/circuit"
)

// Credential is the issuer's attestation that an attribute value belongs to
// a subject. It is created once by the issuer, held by the prover, and
// never mutated. The JSON field names are the wire contract.
type Credential struct {
	SubjectID       string     `json:"subjectId"`
	AttributeValue  uint64     `json:"attributeValue"`
	BindingTag      BindingTag `json:"bindingTag"`
	IssuerPublicKey string     `json:"issuerPublicKey"` // base58 of KeyPair.Public
	IssuedAt        int64      `json:"issuedAt"`        // unix seconds
}

// BindingTag is the scheme-specific cryptographic value linking an
// attribute to an issuer. Field elements travel as decimal strings;
// curve signatures as base58. Unused components are omitted.
//
// Blinding and Nonce are private witness material: they must reach the
// prover (inside the credential) and must never appear in public signals,
// logs, or error messages.
type BindingTag struct {
	Variant Variant `json:"variant"`

	// Tag is the hash-signature value (hash-signature and commitment
	// schemes), as a decimal field element.
	Tag string `json:"tag,omitempty"`

	// Commitment and its opening (commitment scheme only).
	Commitment string `json:"commitment,omitempty"`
	Blinding   string `json:"blinding,omitempty"`
	Nonce      string `json:"nonce,omitempty"`

	// Signature is the base58 EdDSA signature (eddsa scheme only).
	Signature string `json:"signature,omitempty"`
}

// CheckAttributeRange rejects values outside the circuit's fixed bit-width.
func CheckAttributeRange(v uint64) error {
	if v > circuit.MaxAttributeValue {
		return fmt.Errorf("%w: value needs more than %d bits", ErrRange, circuit.AttributeBits)
	}
	return nil
}

// PublicKeyString encodes a public key for the credential wire shape.
func PublicKeyString(pub []byte) string {
	return base58.Encode(pub)
}

// DecodePublicKey reverses PublicKeyString.
func DecodePublicKey(s string) ([]byte, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return b, nil
}

// fieldElement parses a decimal field-element string from a tag component.
// The component name is included in errors; the value never is.
func fieldElement(name, s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrTagShape, name)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("%w: unparseable %s", ErrTagShape, name)
	}
	return v, nil
}

// TagElement returns the tag as a field element.
func (t *BindingTag) TagElement() (*big.Int, error) {
	return fieldElement("tag", t.Tag)
}

// CommitmentElement returns the commitment as a field element.
func (t *BindingTag) CommitmentElement() (*big.Int, error) {
	return fieldElement("commitment", t.Commitment)
}

// BlindingElement returns the blinding factor as a field element.
func (t *BindingTag) BlindingElement() (*big.Int, error) {
	return fieldElement("blinding", t.Blinding)
}

// NonceElement returns the issuance nonce as a field element.
func (t *BindingTag) NonceElement() (*big.Int, error) {
	return fieldElement("nonce", t.Nonce)
}

// SignatureBytes returns the decoded EdDSA signature.
func (t *BindingTag) SignatureBytes() ([]byte, error) {
	if t.Signature == "" {
		return nil, fmt.Errorf("%w: missing signature", ErrTagShape)
	}
	b, err := base58.Decode(t.Signature)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable signature", ErrTagShape)
	}
	return b, nil
}
