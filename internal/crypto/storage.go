// Package crypto manages the issuer's key material at rest: encrypted
// storage of the scheme key pair and a BIP-39 mnemonic backup path.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/argon2"

	"github.com/zkattest/zkattest/pkg/credential"
)

// serializedKeyPair is the JSON structure inside the encrypted key file.
type serializedKeyPair struct {
	Variant string `json:"variant"`
	Private []byte `json:"private"`
	Public  []byte `json:"public"`
}

// deriveKey uses Argon2id to derive an AES-256 key from the passphrase.
func deriveKey(passphrase string, salt []byte) []byte {
	return argon2.IDKey([]byte(passphrase), salt, 1, 64*1024, 4, 32)
}

// SaveKeyPair encrypts the issuer key pair and writes it to path.
// File layout: 16-byte salt, GCM nonce, ciphertext.
func SaveKeyPair(key *credential.KeyPair, path, passphrase string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	data, err := json.Marshal(serializedKeyPair{
		Variant: string(key.Variant),
		Private: key.Private,
		Public:  key.Public,
	})
	if err != nil {
		return fmt.Errorf("failed to serialize key pair: %w", err)
	}

	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return fmt.Errorf("failed to generate salt: %w", err)
	}

	aead, err := newAEAD(passphrase, salt)
	if err != nil {
		return err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	ciphertext := aead.Seal(nil, nonce, data, nil)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	for _, chunk := range [][]byte{salt, nonce, ciphertext} {
		if _, err := f.Write(chunk); err != nil {
			return err
		}
	}
	return nil
}

// LoadKeyPair decrypts and loads the issuer key pair from path.
func LoadKeyPair(path, passphrase string) (*credential.KeyPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) < 28 { // 16 salt + 12 nonce minimum
		return nil, fmt.Errorf("key file too short")
	}

	salt := data[:16]
	aead, err := newAEAD(passphrase, salt)
	if err != nil {
		return nil, err
	}

	nonceSize := aead.NonceSize()
	if len(data) < 16+nonceSize {
		return nil, fmt.Errorf("key file too short")
	}
	nonce := data[16 : 16+nonceSize]
	ciphertext := data[16+nonceSize:]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, fmt.Errorf("decryption failed (wrong passphrase?): %w", err)
	}

	var stored serializedKeyPair
	if err := json.Unmarshal(plaintext, &stored); err != nil {
		return nil, fmt.Errorf("failed to deserialize key pair: %w", err)
	}

	variant, err := credential.ParseVariant(stored.Variant)
	if err != nil {
		return nil, err
	}
	return &credential.KeyPair{
		Variant: variant,
		Private: stored.Private,
		Public:  stored.Public,
	}, nil
}

// newAEAD builds the AES-GCM cipher for a passphrase and salt.
func newAEAD(passphrase string, salt []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(deriveKey(passphrase, salt))
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
