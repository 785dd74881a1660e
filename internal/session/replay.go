package session

import (
	"crypto/sha256"
	"sync"

	"github.com/zkattest/zkattest/pkg/zkproof"
)

// ReplayGuard remembers every (proof, signals) pair that reached a
// terminal state so a rejected proof cannot be retried and an accepted
// one cannot be presented twice. The digest covers both the proof points
// and the signals: reusing a proof with different signals already fails
// cryptographically, and reusing the exact pair fails here.
//
// The guard is process-local. Deployments that verify across processes
// need a shared store behind the same interface; for this core, one
// verifier process per session domain is assumed.
type ReplayGuard struct {
	mu   sync.Mutex
	seen map[[32]byte]struct{}
}

// NewReplayGuard creates an empty guard.
func NewReplayGuard() *ReplayGuard {
	return &ReplayGuard{seen: make(map[[32]byte]struct{})}
}

// digest hashes the proof material into the guard key.
func digest(proof *zkproof.Proof, signals zkproof.PublicSignals) ([32]byte, error) {
	h := sha256.New()
	raw, err := proof.Marshal()
	if err != nil {
		return [32]byte{}, err
	}
	h.Write(raw)
	for _, s := range signals {
		h.Write([]byte{0}) // separator
		h.Write([]byte(s))
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out, nil
}

// Remember records the pair. Returns false if it was already present.
func (g *ReplayGuard) Remember(proof *zkproof.Proof, signals zkproof.PublicSignals) (bool, error) {
	d, err := digest(proof, signals)
	if err != nil {
		return false, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, dup := g.seen[d]; dup {
		return false, nil
	}
	g.seen[d] = struct{}{}
	return true, nil
}
