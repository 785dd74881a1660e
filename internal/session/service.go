// Package session drives one verification session end to end.
//
// Service wraps circuit setup, proving, and verification into the session
// lifecycle. The issuing party, the proving party, and the verifying party
// are separate roles; Service exists so a host process (CLI, test harness,
// or an embedding application) can run any of them without touching the
// proof system directly.
//
// # Thread Safety
//
// Service is safe for concurrent use from multiple goroutines. Sessions
// are independent; each proof gets its own witness allocation. Metrics are
// tracked using atomic operations.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/zkattest/zkattest/internal/issuer"
	"github.com/zkattest/zkattest/pkg/zkproof"
)

// Outcome is the externally visible result of a verification session.
// Deliberately binary: every rejection looks the same to the proving
// party, whatever its internal reason.
type Outcome string

// Session outcomes.
const (
	OutcomeAccepted Outcome = "ACCEPTED"
	OutcomeRejected Outcome = "REJECTED"
)

// Service runs sessions over one circuit configuration.
type Service struct {
	opts    zkproof.Options
	timeout time.Duration

	artifacts *zkproof.Artifacts
	prover    *zkproof.Prover
	verifier  *zkproof.Verifier
	guard     *ReplayGuard

	// Metrics tracked atomically.
	proofsGenerated uint64
	accepted        uint64
	rejected        uint64
}

// NewService compiles (or fetches memoized) circuit artifacts for opts and
// wires up the prover and verifier. Compilation takes seconds on first use
// per configuration; later services for the same opts share the artifacts.
func NewService(opts zkproof.Options, proofTimeout time.Duration) (*Service, error) {
	artifacts, err := zkproof.Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load circuit artifacts: %w", err)
	}
	prover, err := zkproof.NewProver(artifacts)
	if err != nil {
		return nil, err
	}
	return &Service{
		opts:      opts,
		timeout:   proofTimeout,
		artifacts: artifacts,
		prover:    prover,
		verifier:  zkproof.NewVerifier(artifacts),
		guard:     NewReplayGuard(),
	}, nil
}

// Options returns the circuit configuration this service runs.
func (svc *Service) Options() zkproof.Options { return svc.opts }

// Prove generates the session's proof from its attached credential and
// records it on the session. The wait is bounded by the service timeout;
// the proof computation itself is non-cancellable once started.
func (svc *Service) Prove(ctx context.Context, sess *Session) error {
	cred := sess.Credential()
	if cred == nil {
		return fmt.Errorf("%w: prove before credential issued", ReasonOrdering)
	}

	ctx, cancel := context.WithTimeout(ctx, svc.timeout)
	defer cancel()

	proof, signals, err := svc.prover.GenerateProof(ctx, cred, sess.Threshold())
	if err != nil {
		return err
	}
	if err := sess.AttachProof(proof, signals); err != nil {
		return err
	}

	atomic.AddUint64(&svc.proofsGenerated, 1)
	return nil
}

// Verify checks the session's proof and moves the session to its terminal
// state. The returned Outcome is all the proving party learns; the
// internal reason lands in the session and the log.
func (svc *Service) Verify(sess *Session) Outcome {
	// ACCEPTED and REJECTED are terminal; re-verifying a decided session
	// returns the recorded outcome instead of running the checks again.
	switch sess.State() {
	case StateAccepted:
		return OutcomeAccepted
	case StateRejected:
		return OutcomeRejected
	}

	proof, signals := sess.Proof()
	if proof == nil {
		return svc.rejectSession(sess, ReasonOrdering)
	}

	fresh, err := svc.guard.Remember(proof, signals)
	if err != nil {
		return svc.rejectSession(sess, ReasonInvalidProof)
	}
	if !fresh {
		return svc.rejectSession(sess, ReasonReplay)
	}

	if err := svc.verifier.Verify(proof, signals, sess.Threshold(), sess.IssuerKey()); err != nil {
		return svc.rejectSession(sess, reasonFor(err))
	}

	if err := sess.accept(); err != nil {
		return svc.rejectSession(sess, ReasonOrdering)
	}
	atomic.AddUint64(&svc.accepted, 1)
	slog.Info("session accepted", "threshold", sess.Threshold())
	return OutcomeAccepted
}

// Run executes a complete session against an issuer: issue, prove, verify.
// Pre-verification failures (unknown subject, malformed credential) are
// returned as errors; once a proof exists, the result is an Outcome.
func (svc *Service) Run(ctx context.Context, iss *issuer.Issuer, subjectID string, threshold uint64) (*Session, Outcome, error) {
	issuerKey, err := iss.PublicKey()
	if err != nil {
		return nil, "", err
	}

	sess, err := NewSession(threshold, issuerKey)
	if err != nil {
		return nil, "", err
	}

	cred, err := iss.Issue(subjectID)
	if err != nil {
		return sess, "", err
	}
	if err := sess.AttachCredential(cred); err != nil {
		return sess, "", err
	}

	if err := svc.Prove(ctx, sess); err != nil {
		return sess, "", err
	}

	return sess, svc.Verify(sess), nil
}

// rejectSession finalizes a rejection and logs the internal reason.
func (svc *Service) rejectSession(sess *Session, reason Reason) Outcome {
	if sess.reject(reason) {
		atomic.AddUint64(&svc.rejected, 1)
		// Internal log keeps the reason; the outcome does not.
		slog.Info("session rejected", "threshold", sess.Threshold(), "reason", string(reason))
	}
	return OutcomeRejected
}

// reasonFor maps verifier sentinels onto reason codes.
func reasonFor(err error) Reason {
	switch {
	case errors.Is(err, zkproof.ErrThresholdMismatch):
		return ReasonThresholdMismatch
	case errors.Is(err, zkproof.ErrUntrustedIssuer):
		return ReasonUntrustedIssuer
	case errors.Is(err, zkproof.ErrRequirementNotMet):
		return ReasonRequirementNotMet
	default:
		return ReasonInvalidProof
	}
}

// Stats returns the current metrics for session operations.
func (svc *Service) Stats() (proofsGenerated, accepted, rejected uint64) {
	return atomic.LoadUint64(&svc.proofsGenerated),
		atomic.LoadUint64(&svc.accepted),
		atomic.LoadUint64(&svc.rejected)
}
