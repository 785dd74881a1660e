package credential

import (
	"crypto/rand"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"github.com/mr-tron/base58"
)

// eddsaScheme is the digital-signature variant: an EdDSA signature over
// the attribute on the Baby Jubjub curve embedded in BN254, with MiMC as
// the signature hash so the in-circuit verifier stays field-native.
//
// The only variant with non-repudiation, and by far the most expensive to
// verify in-circuit.
type eddsaScheme struct{}

func (eddsaScheme) Variant() Variant { return VariantEdDSA }

// KeyGen generates a fresh EdDSA key pair.
func (eddsaScheme) KeyGen() (*KeyPair, error) {
	priv, err := eddsa.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("generate eddsa key: %w", err)
	}
	return &KeyPair{
		Variant: VariantEdDSA,
		Private: priv.Bytes(),
		Public:  priv.PublicKey.Bytes(),
	}, nil
}

// Sign signs the attribute's canonical field encoding.
func (eddsaScheme) Sign(attribute uint64, key *KeyPair) (*BindingTag, error) {
	if err := CheckAttributeRange(attribute); err != nil {
		return nil, err
	}

	var priv eddsa.PrivateKey
	if _, err := priv.SetBytes(key.Private); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	sig, err := priv.Sign(AttributeMessage(attribute), mimc.NewMiMC())
	if err != nil {
		return nil, fmt.Errorf("sign attribute: %w", err)
	}

	return &BindingTag{
		Variant:   VariantEdDSA,
		Signature: base58.Encode(sig),
	}, nil
}

// Verify checks the signature against the public half of the key pair.
func (eddsaScheme) Verify(attribute uint64, tag *BindingTag, key *KeyPair) error {
	if err := CheckAttributeRange(attribute); err != nil {
		return err
	}

	var pub eddsa.PublicKey
	if _, err := pub.SetBytes(key.Public); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	sig, err := tag.SignatureBytes()
	if err != nil {
		return err
	}

	ok, err := pub.Verify(sig, AttributeMessage(attribute), mimc.NewMiMC())
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	if !ok {
		return ErrInvalidTag
	}
	return nil
}
