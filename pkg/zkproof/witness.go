package zkproof

import (
	"fmt"
	"math/big"

	tedwards "github.com/consensys/gnark-crypto/ecc/twistededwards"
	"github.com/consensys/gnark/frontend"

	"github.com/zkattest/zkattest/pkg/circuit"
	"github.com/zkattest/zkattest/pkg/credential"
)

// proverAssignment builds the full witness assignment (public and private)
// for one proof. The credential's tag components are parsed here; any
// structural problem surfaces as ErrWitnessShape before the proof system
// is invoked. Error messages never include the parsed values.
func proverAssignment(opts Options, cred *credential.Credential, threshold, isVerified uint64) (frontend.Circuit, error) {
	pubKey, err := credential.DecodePublicKey(cred.IssuerPublicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: issuer key: %v", ErrWitnessShape, err)
	}

	switch opts.Variant {
	case credential.VariantHashSignature:
		keyElem, err := credential.ScalarKeyElement(pubKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWitnessShape, err)
		}
		tag, err := cred.BindingTag.TagElement()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWitnessShape, err)
		}
		if opts.FixedThreshold > 0 {
			return &circuit.FixedThresholdCircuit{
				IsVerified: isVerified,
				IssuerKey:  keyElem,
				Attribute:  cred.AttributeValue,
				BindingTag: tag,
				Threshold:  opts.FixedThreshold,
			}, nil
		}
		return &circuit.HashSignatureCircuit{
			IsVerified: isVerified,
			Threshold:  threshold,
			IssuerKey:  keyElem,
			Attribute:  cred.AttributeValue,
			BindingTag: tag,
		}, nil

	case credential.VariantCommitment:
		keyElem, err := credential.ScalarKeyElement(pubKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWitnessShape, err)
		}
		tag, err := cred.BindingTag.TagElement()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWitnessShape, err)
		}
		commitment, err := cred.BindingTag.CommitmentElement()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWitnessShape, err)
		}
		blinding, err := cred.BindingTag.BlindingElement()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWitnessShape, err)
		}
		nonce, err := cred.BindingTag.NonceElement()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWitnessShape, err)
		}
		return &circuit.CommitmentCircuit{
			IsVerified: isVerified,
			Threshold:  threshold,
			IssuerKey:  keyElem,
			Commitment: commitment,
			Attribute:  cred.AttributeValue,
			Blinding:   blinding,
			Nonce:      nonce,
			BindingTag: tag,
		}, nil

	case credential.VariantEdDSA:
		if _, _, err := credential.EdDSAKeyCoords(pubKey); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWitnessShape, err)
		}
		sig, err := cred.BindingTag.SignatureBytes()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrWitnessShape, err)
		}
		assignment := &circuit.EdDSACircuit{
			IsVerified: isVerified,
			Threshold:  threshold,
			Attribute:  cred.AttributeValue,
		}
		assignment.PublicKey.Assign(tedwards.BN254, pubKey)
		assignment.Signature.Assign(tedwards.BN254, sig)
		return assignment, nil

	default:
		return nil, fmt.Errorf("%w: %q", credential.ErrUnknownVariant, opts.Variant)
	}
}

// publicAssignment rebuilds the public half of the witness from wire
// signals, per the positional contract in LayoutFor. A signal that fails to
// parse, or a signal list of the wrong length, is unusable for the
// cryptographic check and reported as ErrInvalidProof by the caller.
func publicAssignment(opts Options, signals PublicSignals) (frontend.Circuit, error) {
	layout := LayoutFor(opts)
	if len(signals) != layout.Count {
		return nil, fmt.Errorf("expected %d public signals, got %d", layout.Count, len(signals))
	}

	isVerified, err := signals.Element(layout.IsVerified)
	if err != nil {
		return nil, err
	}

	var threshold *big.Int
	if layout.Threshold >= 0 {
		if threshold, err = signals.Element(layout.Threshold); err != nil {
			return nil, err
		}
	}

	switch opts.Variant {
	case credential.VariantHashSignature:
		keyElem, err := signals.Element(layout.IssuerKey[0])
		if err != nil {
			return nil, err
		}
		if opts.FixedThreshold > 0 {
			return &circuit.FixedThresholdCircuit{
				IsVerified: isVerified,
				IssuerKey:  keyElem,
				Threshold:  opts.FixedThreshold,
			}, nil
		}
		return &circuit.HashSignatureCircuit{
			IsVerified: isVerified,
			Threshold:  threshold,
			IssuerKey:  keyElem,
		}, nil

	case credential.VariantCommitment:
		keyElem, err := signals.Element(layout.IssuerKey[0])
		if err != nil {
			return nil, err
		}
		commitment, err := signals.Element(layout.Commitment)
		if err != nil {
			return nil, err
		}
		return &circuit.CommitmentCircuit{
			IsVerified: isVerified,
			Threshold:  threshold,
			IssuerKey:  keyElem,
			Commitment: commitment,
		}, nil

	case credential.VariantEdDSA:
		x, err := signals.Element(layout.IssuerKey[0])
		if err != nil {
			return nil, err
		}
		y, err := signals.Element(layout.IssuerKey[1])
		if err != nil {
			return nil, err
		}
		assignment := &circuit.EdDSACircuit{
			IsVerified: isVerified,
			Threshold:  threshold,
		}
		assignment.PublicKey.A.X = x
		assignment.PublicKey.A.Y = y
		return assignment, nil

	default:
		return nil, fmt.Errorf("%w: %q", credential.ErrUnknownVariant, opts.Variant)
	}
}
