package fieldhash

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestHash_Deterministic tests that the same inputs always hash to the
// same field element.
func TestHash_Deterministic(t *testing.T) {
	a, err := Hash(big.NewInt(25), big.NewInt(1234))
	require.NoError(t, err)

	b, err := Hash(big.NewInt(25), big.NewInt(1234))
	require.NoError(t, err)

	assert.Equal(t, 0, a.Cmp(b), "hash must be deterministic")
}

// TestHash_OrderSensitive tests that input order changes the digest.
func TestHash_OrderSensitive(t *testing.T) {
	a, err := Hash(big.NewInt(1), big.NewInt(2))
	require.NoError(t, err)

	b, err := Hash(big.NewInt(2), big.NewInt(1))
	require.NoError(t, err)

	assert.NotEqual(t, 0, a.Cmp(b), "hash must depend on input order")
}

// TestHash_InputSensitive tests that changing any input changes the digest.
func TestHash_InputSensitive(t *testing.T) {
	base, err := Hash(big.NewInt(25), big.NewInt(1234))
	require.NoError(t, err)

	changed, err := Hash(big.NewInt(26), big.NewInt(1234))
	require.NoError(t, err)

	assert.NotEqual(t, 0, base.Cmp(changed))
}

// TestHash_NoInput tests that hashing zero inputs is rejected.
func TestHash_NoInput(t *testing.T) {
	_, err := Hash()
	assert.ErrorIs(t, err, ErrNoInput)
}

// TestHash_ReducesOversizedInput tests that inputs beyond the modulus are
// reduced before hashing, so v and v+modulus hash identically.
func TestHash_ReducesOversizedInput(t *testing.T) {
	v := big.NewInt(42)
	oversized := new(big.Int).Add(v, Modulus())

	a, err := Hash(v)
	require.NoError(t, err)

	b, err := Hash(oversized)
	require.NoError(t, err)

	assert.Equal(t, 0, a.Cmp(b), "inputs congruent mod p must hash equal")
}

// TestHash_OutputInField tests that the digest is a canonical field element.
func TestHash_OutputInField(t *testing.T) {
	out, err := Hash(big.NewInt(7))
	require.NoError(t, err)

	assert.True(t, out.Sign() >= 0)
	assert.True(t, out.Cmp(Modulus()) < 0, "digest must be below the modulus")
}

// TestHashUint64_MatchesHash tests that the uint64 wrapper agrees with the
// big.Int form.
func TestHashUint64_MatchesHash(t *testing.T) {
	a, err := HashUint64(25, 99)
	require.NoError(t, err)

	b, err := Hash(big.NewInt(25), big.NewInt(99))
	require.NoError(t, err)

	assert.Equal(t, 0, a.Cmp(b))
}

// TestRandomElement tests that sampled elements are in-field and do not
// trivially repeat.
func TestRandomElement(t *testing.T) {
	a, err := RandomElement()
	require.NoError(t, err)
	require.True(t, a.Cmp(Modulus()) < 0)

	b, err := RandomElement()
	require.NoError(t, err)

	assert.NotEqual(t, 0, a.Cmp(b), "two random samples should differ")
}

// TestReduce tests modular reduction of out-of-range values.
func TestReduce(t *testing.T) {
	v := new(big.Int).Add(Modulus(), big.NewInt(5))
	assert.Equal(t, int64(5), Reduce(v).Int64())

	assert.Equal(t, int64(5), Reduce(big.NewInt(5)).Int64(), "in-range values pass through")
}
