package zkproof

import (
	"encoding/json"
	"fmt"

	"github.com/consensys/gnark/backend/groth16"
	groth16bn254 "github.com/consensys/gnark/backend/groth16/bn254"
)

// Wire-format constants. Every proof this package emits or accepts carries
// them; they are checked on decode so a proof from a different system or
// curve fails fast instead of failing cryptographically.
const (
	ProtocolGroth16 = "groth16"
	CurveBN254      = "bn254"
)

// Proof is the wire shape of a Groth16 proof: three curve points as decimal
// coordinate strings, in the layout snarkjs and on-chain verifiers expect.
// A Proof is produced once per session and never mutated; pairing it with
// public signals it was not generated for makes verification fail.
type Proof struct {
	PiA      [3]string    `json:"pi_a"`
	PiB      [3][2]string `json:"pi_b"`
	PiC      [3]string    `json:"pi_c"`
	Protocol string       `json:"protocol"`
	Curve    string       `json:"curve"`
}

// encodeProof converts a gnark proof to the wire shape. The third affine
// coordinate is the constant "1" (G1) / ["1","0"] (G2).
func encodeProof(proof groth16.Proof) (*Proof, error) {
	p, ok := proof.(*groth16bn254.Proof)
	if !ok {
		return nil, fmt.Errorf("unexpected proof type %T", proof)
	}
	return &Proof{
		PiA: [3]string{p.Ar.X.String(), p.Ar.Y.String(), "1"},
		PiB: [3][2]string{
			{p.Bs.X.A0.String(), p.Bs.X.A1.String()},
			{p.Bs.Y.A0.String(), p.Bs.Y.A1.String()},
			{"1", "0"},
		},
		PiC:      [3]string{p.Krs.X.String(), p.Krs.Y.String(), "1"},
		Protocol: ProtocolGroth16,
		Curve:    CurveBN254,
	}, nil
}

// decodeProof converts the wire shape back into a gnark proof. It checks
// the protocol/curve identifiers and the affine marker coordinates;
// curve-membership of the points is left to groth16.Verify.
func decodeProof(w *Proof) (groth16.Proof, error) {
	if w == nil {
		return nil, fmt.Errorf("nil proof")
	}
	if w.Protocol != ProtocolGroth16 {
		return nil, fmt.Errorf("unsupported protocol %q", w.Protocol)
	}
	if w.Curve != CurveBN254 {
		return nil, fmt.Errorf("unsupported curve %q", w.Curve)
	}
	if w.PiA[2] != "1" || w.PiC[2] != "1" || w.PiB[2] != [2]string{"1", "0"} {
		return nil, fmt.Errorf("proof points are not in affine form")
	}

	var p groth16bn254.Proof
	if _, err := p.Ar.X.SetString(w.PiA[0]); err != nil {
		return nil, fmt.Errorf("pi_a x: %w", err)
	}
	if _, err := p.Ar.Y.SetString(w.PiA[1]); err != nil {
		return nil, fmt.Errorf("pi_a y: %w", err)
	}
	if _, err := p.Bs.X.A0.SetString(w.PiB[0][0]); err != nil {
		return nil, fmt.Errorf("pi_b x0: %w", err)
	}
	if _, err := p.Bs.X.A1.SetString(w.PiB[0][1]); err != nil {
		return nil, fmt.Errorf("pi_b x1: %w", err)
	}
	if _, err := p.Bs.Y.A0.SetString(w.PiB[1][0]); err != nil {
		return nil, fmt.Errorf("pi_b y0: %w", err)
	}
	if _, err := p.Bs.Y.A1.SetString(w.PiB[1][1]); err != nil {
		return nil, fmt.Errorf("pi_b y1: %w", err)
	}
	if _, err := p.Krs.X.SetString(w.PiC[0]); err != nil {
		return nil, fmt.Errorf("pi_c x: %w", err)
	}
	if _, err := p.Krs.Y.SetString(w.PiC[1]); err != nil {
		return nil, fmt.Errorf("pi_c y: %w", err)
	}
	return &p, nil
}

// Marshal renders the proof as canonical JSON.
func (p *Proof) Marshal() ([]byte, error) {
	return json.Marshal(p)
}

// UnmarshalProof parses a wire proof from JSON.
func UnmarshalProof(data []byte) (*Proof, error) {
	var p Proof
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse proof: %w", err)
	}
	return &p, nil
}
