package credential

import (
	"fmt"
	"math/big"

	"github.com/zkattest/zkattest/pkg/fieldhash"
)

// hashSignatureScheme is the symmetric reference scheme:
//
//	tag = MiMC(attribute, key)
//
// One field element serves as both signing and verification key, so the
// scheme offers no non-repudiation and no replay resistance on its own.
// New() only hands it out at SecurityDemo.
type hashSignatureScheme struct{}

func (hashSignatureScheme) Variant() Variant { return VariantHashSignature }

// KeyGen samples one random field element; both halves of the pair carry
// the same bytes.
func (hashSignatureScheme) KeyGen() (*KeyPair, error) {
	k, err := fieldhash.RandomElement()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	b := scalarBytes(k)
	return &KeyPair{
		Variant: VariantHashSignature,
		Private: b,
		Public:  b,
	}, nil
}

// Sign computes tag = MiMC(attribute, key).
func (s hashSignatureScheme) Sign(attribute uint64, key *KeyPair) (*BindingTag, error) {
	if err := CheckAttributeRange(attribute); err != nil {
		return nil, err
	}
	priv, err := scalarFromBytes(key.Private)
	if err != nil {
		return nil, err
	}

	tag, err := fieldhash.Hash(new(big.Int).SetUint64(attribute), priv)
	if err != nil {
		return nil, fmt.Errorf("sign attribute: %w", err)
	}

	return &BindingTag{
		Variant: VariantHashSignature,
		Tag:     tag.String(),
	}, nil
}

// Verify recomputes the tag and compares.
func (s hashSignatureScheme) Verify(attribute uint64, tag *BindingTag, key *KeyPair) error {
	want, err := s.Sign(attribute, key)
	if err != nil {
		return err
	}
	got, err := tag.TagElement()
	if err != nil {
		return err
	}
	wantElem, err := want.TagElement()
	if err != nil {
		return err
	}
	if got.Cmp(wantElem) != 0 {
		return ErrInvalidTag
	}
	return nil
}
