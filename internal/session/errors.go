package session

// Rejection reason codes. Using a string type allows for easy
// serialization and comparison while keeping reasons out of the externally
// visible outcome: the proving party sees only Accepted/Rejected, and the
// reason stays in internal logs so verification cannot be used as a
// what-failed oracle.

// Reason categorizes why a session was rejected.
type Reason string

// Rejection reasons. They mirror the sentinel errors of pkg/zkproof plus
// session-level conditions (replay, ordering).
const (
	// ReasonInvalidProof covers cryptographic and structural proof
	// failures.
	ReasonInvalidProof Reason = "invalid_proof"

	// ReasonThresholdMismatch means the proof's threshold signal differs
	// from the session threshold.
	ReasonThresholdMismatch Reason = "threshold_mismatch"

	// ReasonUntrustedIssuer means the proof's issuer-key signals differ
	// from the issuer pinned for this session.
	ReasonUntrustedIssuer Reason = "untrusted_issuer"

	// ReasonRequirementNotMet means the proof is valid but its
	// verification bit is zero.
	ReasonRequirementNotMet Reason = "requirement_not_met"

	// ReasonReplay means this (proof, signals) pair was already seen by
	// a terminal session.
	ReasonReplay Reason = "replayed_proof"

	// ReasonOrdering means a session operation arrived out of state
	// order (e.g. verify before prove).
	ReasonOrdering Reason = "out_of_order_operation"
)

// Error implements the error interface for Reason.
func (r Reason) Error() string {
	return string(r)
}
