package credential

import (
	"fmt"
	"math/big"

	"github.com/zkattest/zkattest/pkg/fieldhash"
)

// commitmentScheme is the default scheme:
//
//	commitment = MiMC(attribute, blinding)
//	tag        = MiMC(MiMC(commitment, nonce), key)
//
// The blinding factor hides the attribute behind the commitment; the
// nonce, sampled fresh per issuance, ties the tag to exactly one issuance
// so a proof cannot be replayed under a re-issued credential. Like the
// hash-signature scheme the key is symmetric, but the key is still
// permitted at SecurityProduction because the commitment carries the
// hiding/binding properties the circuit depends on.
type commitmentScheme struct{}

func (commitmentScheme) Variant() Variant { return VariantCommitment }

// KeyGen samples one random field element; the scheme is symmetric.
func (commitmentScheme) KeyGen() (*KeyPair, error) {
	k, err := fieldhash.RandomElement()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	b := scalarBytes(k)
	return &KeyPair{
		Variant: VariantCommitment,
		Private: b,
		Public:  b,
	}, nil
}

// Sign commits to the attribute with a fresh blinding factor, then tags the
// commitment under a fresh nonce.
func (commitmentScheme) Sign(attribute uint64, key *KeyPair) (*BindingTag, error) {
	if err := CheckAttributeRange(attribute); err != nil {
		return nil, err
	}
	priv, err := scalarFromBytes(key.Private)
	if err != nil {
		return nil, err
	}

	blinding, err := fieldhash.RandomElement()
	if err != nil {
		return nil, fmt.Errorf("sample blinding factor: %w", err)
	}
	nonce, err := fieldhash.RandomElement()
	if err != nil {
		return nil, fmt.Errorf("sample nonce: %w", err)
	}

	commitment, err := fieldhash.Hash(new(big.Int).SetUint64(attribute), blinding)
	if err != nil {
		return nil, fmt.Errorf("commit attribute: %w", err)
	}
	inner, err := fieldhash.Hash(commitment, nonce)
	if err != nil {
		return nil, fmt.Errorf("bind nonce: %w", err)
	}
	tag, err := fieldhash.Hash(inner, priv)
	if err != nil {
		return nil, fmt.Errorf("sign commitment: %w", err)
	}

	return &BindingTag{
		Variant:    VariantCommitment,
		Tag:        tag.String(),
		Commitment: commitment.String(),
		Blinding:   blinding.String(),
		Nonce:      nonce.String(),
	}, nil
}

// Verify checks the commitment opening and the tag chain.
func (commitmentScheme) Verify(attribute uint64, tag *BindingTag, key *KeyPair) error {
	if err := CheckAttributeRange(attribute); err != nil {
		return err
	}
	priv, err := scalarFromBytes(key.Private)
	if err != nil {
		return err
	}

	commitment, err := tag.CommitmentElement()
	if err != nil {
		return err
	}
	blinding, err := tag.BlindingElement()
	if err != nil {
		return err
	}
	nonce, err := tag.NonceElement()
	if err != nil {
		return err
	}
	tagElem, err := tag.TagElement()
	if err != nil {
		return err
	}

	wantCommitment, err := fieldhash.Hash(new(big.Int).SetUint64(attribute), blinding)
	if err != nil {
		return err
	}
	if wantCommitment.Cmp(commitment) != 0 {
		return fmt.Errorf("%w: commitment opening", ErrInvalidTag)
	}

	inner, err := fieldhash.Hash(commitment, nonce)
	if err != nil {
		return err
	}
	wantTag, err := fieldhash.Hash(inner, priv)
	if err != nil {
		return err
	}
	if wantTag.Cmp(tagElem) != 0 {
		return ErrInvalidTag
	}
	return nil
}

// Commit computes MiMC(attribute, blinding) for a caller-chosen blinding
// factor. Exposed for tests of the hiding and binding properties.
func Commit(attribute uint64, blinding *big.Int) (*big.Int, error) {
	if err := CheckAttributeRange(attribute); err != nil {
		return nil, err
	}
	return fieldhash.Hash(new(big.Int).SetUint64(attribute), blinding)
}
