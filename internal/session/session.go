package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/zkattest/zkattest/pkg/credential"
	"github.com/zkattest/zkattest/pkg/zkproof"
)

// State is a verification session's position in its lifecycle.
type State string

// Session states. Transitions only move forward:
//
//	REQUESTED -> CREDENTIAL_ISSUED -> PROOF_GENERATED -> ACCEPTED | REJECTED
//
// REJECTED and ACCEPTED are terminal; a rejected session must not be
// retried with the same proof material (see ReplayGuard).
const (
	StateRequested        State = "REQUESTED"
	StateCredentialIssued State = "CREDENTIAL_ISSUED"
	StateProofGenerated   State = "PROOF_GENERATED"
	StateAccepted         State = "ACCEPTED"
	StateRejected         State = "REJECTED"
)

// Session carries the state of one verification flow. The threshold and
// the pinned issuer key are fixed at creation; proofs generated for any
// other pair fail the verifier's cross-checks.
//
// Sessions are independent; nothing here is shared between sessions except
// the immutable circuit artifacts. A Session itself is not safe for
// concurrent use — within one session, operations are strictly sequential.
type Session struct {
	mu sync.Mutex

	state     State
	threshold uint64
	issuerKey []byte

	credential *credential.Credential
	proof      *zkproof.Proof
	signals    zkproof.PublicSignals

	// reason is set when state == StateRejected. Internal only.
	reason Reason
}

// NewSession opens a session for one threshold and pinned issuer key.
// The issuer key must come from Issuer.PublicKey, fetched once and pinned.
func NewSession(threshold uint64, issuerKey []byte) (*Session, error) {
	if err := credential.CheckAttributeRange(threshold); err != nil {
		return nil, err
	}
	if len(issuerKey) == 0 {
		return nil, errors.New("session: issuer key must be pinned at creation")
	}
	key := make([]byte, len(issuerKey))
	copy(key, issuerKey)
	return &Session{
		state:     StateRequested,
		threshold: threshold,
		issuerKey: key,
	}, nil
}

// State reports the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Threshold returns the session's threshold.
func (s *Session) Threshold() uint64 { return s.threshold }

// IssuerKey returns the pinned issuer key.
func (s *Session) IssuerKey() []byte { return s.issuerKey }

// AttachCredential records the issued credential.
func (s *Session) AttachCredential(cred *credential.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRequested {
		return fmt.Errorf("%w: attach credential in state %s", ReasonOrdering, s.state)
	}
	s.credential = cred
	s.state = StateCredentialIssued
	return nil
}

// AttachProof records the generated proof and its public signals.
func (s *Session) AttachProof(proof *zkproof.Proof, signals zkproof.PublicSignals) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCredentialIssued {
		return fmt.Errorf("%w: attach proof in state %s", ReasonOrdering, s.state)
	}
	s.proof = proof
	s.signals = signals
	s.state = StateProofGenerated
	return nil
}

// ImportProof records a proof that was generated out of band, e.g. one
// received over the wire by a verifier that never saw the credential. The
// session moves straight to PROOF_GENERATED.
func (s *Session) ImportProof(proof *zkproof.Proof, signals zkproof.PublicSignals) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateRequested {
		return fmt.Errorf("%w: import proof in state %s", ReasonOrdering, s.state)
	}
	s.proof = proof
	s.signals = signals
	s.state = StateProofGenerated
	return nil
}

// Credential returns the attached credential, if any.
func (s *Session) Credential() *credential.Credential {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

// Proof returns the attached proof material, if any.
func (s *Session) Proof() (*zkproof.Proof, zkproof.PublicSignals) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.proof, s.signals
}

// accept moves the session to its terminal ACCEPTED state.
func (s *Session) accept() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateProofGenerated {
		return fmt.Errorf("%w: accept in state %s", ReasonOrdering, s.state)
	}
	s.state = StateAccepted
	return nil
}

// reject moves the session to its terminal REJECTED state and reports
// whether the transition happened. A session that already reached a
// terminal state keeps its recorded outcome.
func (s *Session) reject(reason Reason) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateAccepted || s.state == StateRejected {
		return false
	}
	s.state = StateRejected
	s.reason = reason
	return true
}

// RejectReason returns the internal rejection reason, or "" if the session
// is not rejected. For logs and tests; never expose it to the proving
// party.
func (s *Session) RejectReason() Reason {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reason
}
