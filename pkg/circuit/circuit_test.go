package circuit

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"github.com/consensys/gnark/test"
)

// hashForTest computes the out-of-circuit MiMC digest of field elements,
// using the same canonical 32-byte encoding the circuit gadget expects.
func hashForTest(inputs ...*big.Int) *big.Int {
	h := mimc.NewMiMC()
	for _, in := range inputs {
		var elem fr.Element
		elem.SetBigInt(in)
		b := elem.Bytes()
		h.Write(b[:])
	}
	var out fr.Element
	out.SetBytes(h.Sum(nil))
	return out.BigInt(new(big.Int))
}

func randomElement(t *testing.T) *big.Int {
	t.Helper()
	var elem fr.Element
	if _, err := elem.SetRandom(); err != nil {
		t.Fatal(err)
	}
	return elem.BigInt(new(big.Int))
}

// hashSignatureWitness builds an honest witness for the symmetric scheme.
func hashSignatureWitness(attribute, threshold uint64, issuerKey *big.Int) *HashSignatureCircuit {
	attr := new(big.Int).SetUint64(attribute)
	tag := hashForTest(attr, issuerKey)

	isVerified := 0
	if attribute >= threshold {
		isVerified = 1
	}

	return &HashSignatureCircuit{
		IsVerified: isVerified,
		Threshold:  threshold,
		IssuerKey:  issuerKey,
		Attribute:  attribute,
		BindingTag: tag,
	}
}

// TestHashSignatureCircuit_AttributeAboveThreshold tests the happy path:
// attribute 25, threshold 18, output bit 1.
func TestHashSignatureCircuit_AttributeAboveThreshold(t *testing.T) {
	assert := test.NewAssert(t)

	key := randomElement(t)
	witness := hashSignatureWitness(25, 18, key)

	var circuit HashSignatureCircuit
	assert.ProverSucceeded(&circuit, witness, test.WithCurves(ecc.BN254))
}

// TestHashSignatureCircuit_AttributeEqualsThreshold tests that the
// comparison is inclusive: attribute 18, threshold 18 yields output 1.
func TestHashSignatureCircuit_AttributeEqualsThreshold(t *testing.T) {
	assert := test.NewAssert(t)

	key := randomElement(t)
	witness := hashSignatureWitness(18, 18, key)
	if witness.IsVerified != 1 {
		t.Fatal("honest witness for a == t must claim 1")
	}

	var circuit HashSignatureCircuit
	assert.ProverSucceeded(&circuit, witness, test.WithCurves(ecc.BN254))
}

// TestHashSignatureCircuit_BelowThresholdHonest tests that an honest
// witness below the threshold (output bit 0) is still satisfiable. The
// verifier is the one that rejects a 0 bit.
func TestHashSignatureCircuit_BelowThresholdHonest(t *testing.T) {
	assert := test.NewAssert(t)

	key := randomElement(t)
	witness := hashSignatureWitness(16, 18, key)
	if witness.IsVerified != 0 {
		t.Fatal("honest witness for a < t must claim 0")
	}

	var circuit HashSignatureCircuit
	assert.ProverSucceeded(&circuit, witness, test.WithCurves(ecc.BN254))
}

// TestHashSignatureCircuit_RejectsLyingOutputBit tests that claiming 1
// while the attribute is below the threshold makes the circuit
// unsatisfiable.
func TestHashSignatureCircuit_RejectsLyingOutputBit(t *testing.T) {
	assert := test.NewAssert(t)

	key := randomElement(t)
	witness := hashSignatureWitness(16, 18, key)
	witness.IsVerified = 1 // lie

	var circuit HashSignatureCircuit
	assert.ProverFailed(&circuit, witness, test.WithCurves(ecc.BN254))
}

// TestHashSignatureCircuit_RejectsForgedTag tests that a tag not produced
// by the issuer key makes the circuit unsatisfiable.
func TestHashSignatureCircuit_RejectsForgedTag(t *testing.T) {
	assert := test.NewAssert(t)

	key := randomElement(t)
	witness := hashSignatureWitness(25, 18, key)
	witness.BindingTag = hashForTest(big.NewInt(25), randomElement(t))

	var circuit HashSignatureCircuit
	assert.ProverFailed(&circuit, witness, test.WithCurves(ecc.BN254))
}

// TestHashSignatureCircuit_RejectsWrongIssuerKey tests that a tag issued
// under one key does not satisfy the circuit under another public key.
func TestHashSignatureCircuit_RejectsWrongIssuerKey(t *testing.T) {
	assert := test.NewAssert(t)

	witness := hashSignatureWitness(25, 18, randomElement(t))
	witness.IssuerKey = randomElement(t)

	var circuit HashSignatureCircuit
	assert.ProverFailed(&circuit, witness, test.WithCurves(ecc.BN254))
}

// TestHashSignatureCircuit_RejectsOversizedAttribute tests that the range
// decomposition rules out attributes beyond the fixed bit-width, closing
// the field-wraparound forgery.
func TestHashSignatureCircuit_RejectsOversizedAttribute(t *testing.T) {
	assert := test.NewAssert(t)

	key := randomElement(t)
	oversized := new(big.Int).Lsh(big.NewInt(1), AttributeBits) // 2^32

	witness := &HashSignatureCircuit{
		IsVerified: 1,
		Threshold:  18,
		IssuerKey:  key,
		Attribute:  oversized,
		BindingTag: hashForTest(oversized, key),
	}

	var circuit HashSignatureCircuit
	assert.ProverFailed(&circuit, witness, test.WithCurves(ecc.BN254))
}

// commitmentWitness builds an honest witness for the commitment scheme.
func commitmentWitness(t *testing.T, attribute, threshold uint64, issuerKey *big.Int) *CommitmentCircuit {
	t.Helper()

	attr := new(big.Int).SetUint64(attribute)
	blinding := randomElement(t)
	nonce := randomElement(t)

	commitment := hashForTest(attr, blinding)
	inner := hashForTest(commitment, nonce)
	tag := hashForTest(inner, issuerKey)

	isVerified := 0
	if attribute >= threshold {
		isVerified = 1
	}

	return &CommitmentCircuit{
		IsVerified: isVerified,
		Threshold:  threshold,
		IssuerKey:  issuerKey,
		Commitment: commitment,
		Attribute:  attribute,
		Blinding:   blinding,
		Nonce:      nonce,
		BindingTag: tag,
	}
}

// TestCommitmentCircuit_Valid tests the happy path for the default scheme.
func TestCommitmentCircuit_Valid(t *testing.T) {
	assert := test.NewAssert(t)

	witness := commitmentWitness(t, 25, 18, randomElement(t))

	var circuit CommitmentCircuit
	assert.ProverSucceeded(&circuit, witness, test.WithCurves(ecc.BN254))
}

// TestCommitmentCircuit_RejectsWrongBlinding tests that the commitment
// opening check fails when the blinding factor does not open the public
// commitment.
func TestCommitmentCircuit_RejectsWrongBlinding(t *testing.T) {
	assert := test.NewAssert(t)

	witness := commitmentWitness(t, 25, 18, randomElement(t))
	witness.Blinding = randomElement(t)

	var circuit CommitmentCircuit
	assert.ProverFailed(&circuit, witness, test.WithCurves(ecc.BN254))
}

// TestCommitmentCircuit_RejectsWrongNonce tests that the tag chain breaks
// when the issuance nonce is substituted.
func TestCommitmentCircuit_RejectsWrongNonce(t *testing.T) {
	assert := test.NewAssert(t)

	witness := commitmentWitness(t, 25, 18, randomElement(t))
	witness.Nonce = randomElement(t)

	var circuit CommitmentCircuit
	assert.ProverFailed(&circuit, witness, test.WithCurves(ecc.BN254))
}

// TestCommitmentCircuit_RejectsLyingOutputBit tests the output-bit
// soundness of the commitment variant.
func TestCommitmentCircuit_RejectsLyingOutputBit(t *testing.T) {
	assert := test.NewAssert(t)

	witness := commitmentWitness(t, 16, 18, randomElement(t))
	witness.IsVerified = 1

	var circuit CommitmentCircuit
	assert.ProverFailed(&circuit, witness, test.WithCurves(ecc.BN254))
}

// TestFixedThresholdCircuit tests the compile-time threshold variant: the
// constraint system only proves against the threshold it was built with.
func TestFixedThresholdCircuit(t *testing.T) {
	assert := test.NewAssert(t)

	key := randomElement(t)
	tag := hashForTest(big.NewInt(25), key)

	circuit := &FixedThresholdCircuit{Threshold: 18}

	witness := &FixedThresholdCircuit{
		IsVerified: 1,
		IssuerKey:  key,
		Attribute:  25,
		BindingTag: tag,
		Threshold:  18,
	}
	assert.ProverSucceeded(circuit, witness, test.WithCurves(ecc.BN254))

	// Below the baked-in threshold, a claim of 1 is unsatisfiable.
	lowTag := hashForTest(big.NewInt(16), key)
	lying := &FixedThresholdCircuit{
		IsVerified: 1,
		IssuerKey:  key,
		Attribute:  16,
		BindingTag: lowTag,
		Threshold:  18,
	}
	assert.ProverFailed(circuit, lying, test.WithCurves(ecc.BN254))
}
