package crypto

import (
	"bytes"
	"crypto/sha512"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/twistededwards/eddsa"
	"github.com/tyler-smith/go-bip39"

	"github.com/zkattest/zkattest/pkg/credential"
)

// ErrInvalidMnemonic is returned when an invalid BIP-39 mnemonic phrase is provided.
var ErrInvalidMnemonic = errors.New("crypto: invalid mnemonic phrase")

// NewKeyPairWithMnemonic generates a fresh issuer key pair for the scheme
// variant together with a 24-word BIP-39 mnemonic that recovers it.
// The mnemonic should be written down; it is the only backup of the key.
func NewKeyPairWithMnemonic(variant credential.Variant) (*credential.KeyPair, string, error) {
	entropy, err := bip39.NewEntropy(256) // 24 words
	if err != nil {
		return nil, "", err
	}

	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return nil, "", err
	}

	key, err := KeyPairFromMnemonic(variant, mnemonic)
	if err != nil {
		return nil, "", err
	}
	return key, mnemonic, nil
}

// KeyPairFromMnemonic recovers an issuer key pair from a BIP-39 mnemonic.
// Deterministic: the same mnemonic and variant always produce the same key.
func KeyPairFromMnemonic(variant credential.Variant, mnemonic string) (*credential.KeyPair, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, ErrInvalidMnemonic
	}

	// Derive seed from mnemonic (no passphrase), then stretch once more
	// so the raw seed never doubles as key material.
	seed := bip39.NewSeed(mnemonic, "")
	h := sha512.Sum512(seed)

	switch variant {
	case credential.VariantHashSignature, credential.VariantCommitment:
		// Symmetric schemes: one field element, reduced from the digest.
		var elem fr.Element
		elem.SetBytes(h[:fr.Bytes])
		b := elem.Bytes()
		return &credential.KeyPair{
			Variant: variant,
			Private: b[:],
			Public:  b[:],
		}, nil

	case credential.VariantEdDSA:
		priv, err := eddsa.GenerateKey(bytes.NewReader(h[:]))
		if err != nil {
			return nil, fmt.Errorf("derive eddsa key: %w", err)
		}
		return &credential.KeyPair{
			Variant: variant,
			Private: priv.Bytes(),
			Public:  priv.PublicKey.Bytes(),
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", credential.ErrUnknownVariant, variant)
	}
}

// GenerateKeyPair generates a fresh key pair without a mnemonic backup.
func GenerateKeyPair(variant credential.Variant, level credential.SecurityLevel) (*credential.KeyPair, error) {
	scheme, err := credential.New(variant, level)
	if err != nil {
		return nil, err
	}
	return scheme.KeyGen()
}
