package issuer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	internalcrypto "github.com/zkattest/zkattest/internal/crypto"
	"github.com/zkattest/zkattest/pkg/credential"
)

// KeyStore owns the issuer key pair with an init-once lifecycle: the first
// caller of Key triggers load-or-generate, concurrent callers block on the
// same in-flight initialization, and every later call returns the memoized
// result. The key is immutable for the life of the process.
//
// Construction is cheap and never touches the disk; all I/O happens inside
// the memoized initialization so test code can inject paths freely.
type KeyStore struct {
	path       string
	passphrase string
	variant    credential.Variant
	level      credential.SecurityLevel

	once sync.Once
	key  *credential.KeyPair
	err  error
}

// NewKeyStore creates a key store for the given key file and scheme.
func NewKeyStore(path, passphrase string, variant credential.Variant, level credential.SecurityLevel) *KeyStore {
	return &KeyStore{
		path:       path,
		passphrase: passphrase,
		variant:    variant,
		level:      level,
	}
}

// Key returns the issuer key pair, initializing it on first use.
// Any failure is ErrKeyInit and is sticky: the process must not retry its
// way into issuing under a different key than it first reported.
func (ks *KeyStore) Key() (*credential.KeyPair, error) {
	ks.once.Do(func() {
		ks.key, ks.err = ks.init()
		if ks.err != nil {
			ks.err = fmt.Errorf("%w: %v", ErrKeyInit, ks.err)
		}
	})
	return ks.key, ks.err
}

// init loads the key file, generating and persisting a fresh key pair when
// the file does not exist yet. A corrupt or undecryptable file is an error,
// never a trigger for silent regeneration.
func (ks *KeyStore) init() (*credential.KeyPair, error) {
	key, err := internalcrypto.LoadKeyPair(ks.path, ks.passphrase)
	switch {
	case err == nil:
		if key.Variant != ks.variant {
			return nil, fmt.Errorf("key file holds a %q key, config wants %q", key.Variant, ks.variant)
		}
		slog.Info("issuer key loaded", "path", ks.path, "scheme", key.Variant)
		return key, nil

	case errors.Is(err, os.ErrNotExist):
		key, err = internalcrypto.GenerateKeyPair(ks.variant, ks.level)
		if err != nil {
			return nil, err
		}
		if err := internalcrypto.SaveKeyPair(key, ks.path, ks.passphrase); err != nil {
			return nil, err
		}
		slog.Info("issuer key generated", "path", ks.path, "scheme", key.Variant)
		return key, nil

	default:
		return nil, err
	}
}

// PublicKey returns the public half, initializing the store if needed.
func (ks *KeyStore) PublicKey() ([]byte, error) {
	key, err := ks.Key()
	if err != nil {
		return nil, err
	}
	return key.Public, nil
}
