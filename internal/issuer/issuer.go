package issuer

import (
	"log/slog"
	"time"

	"github.com/zkattest/zkattest/pkg/credential"
)

// Issuer issues credentials binding a subject's attribute to the issuer
// key. It is stateless per request: each Issue call reads the registry,
// signs, and returns, sharing only the immutable key and the read-mostly
// registry snapshot.
type Issuer struct {
	keys     *KeyStore
	registry *Registry
	scheme   credential.Scheme

	// now is indirected for tests.
	now func() time.Time
}

// New creates an Issuer from its collaborators.
func New(keys *KeyStore, registry *Registry, scheme credential.Scheme) *Issuer {
	return &Issuer{
		keys:     keys,
		registry: registry,
		scheme:   scheme,
		now:      time.Now,
	}
}

// Issue looks up the subject's attribute, signs it, and returns the
// credential. Fails with ErrSubjectNotFound for unknown subjects and
// ErrKeyInit if the key store cannot initialize; in both cases no partial
// credential is produced.
func (i *Issuer) Issue(subjectID string) (*credential.Credential, error) {
	attr, err := i.registry.Lookup(subjectID)
	if err != nil {
		return nil, err
	}

	key, err := i.keys.Key()
	if err != nil {
		return nil, err
	}

	tag, err := i.scheme.Sign(attr, key)
	if err != nil {
		return nil, err
	}

	cred := &credential.Credential{
		SubjectID:       subjectID,
		AttributeValue:  attr,
		BindingTag:      *tag,
		IssuerPublicKey: credential.PublicKeyString(key.Public),
		IssuedAt:        i.now().Unix(),
	}

	// The attribute value itself is deliberately absent from the log.
	slog.Info("credential issued", "subject", subjectID, "scheme", i.scheme.Variant())
	return cred, nil
}

// PublicKey returns the issuer's public key. Verifiers must fetch and pin
// it once per session; trusting a key carried inside proof material would
// permit issuer substitution.
func (i *Issuer) PublicKey() ([]byte, error) {
	return i.keys.PublicKey()
}
