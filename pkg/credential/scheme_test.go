package credential

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zkattest/zkattest/pkg/circuit"
)

// TestNew_SchemeSelection tests the variant/security gate: the symmetric
// hash-signature scheme is demo-only, the others are available at both
// levels.
func TestNew_SchemeSelection(t *testing.T) {
	cases := []struct {
		variant Variant
		level   SecurityLevel
		wantErr error
	}{
		{VariantHashSignature, SecurityDemo, nil},
		{VariantHashSignature, SecurityProduction, ErrSecurityLevel},
		{VariantCommitment, SecurityDemo, nil},
		{VariantCommitment, SecurityProduction, nil},
		{VariantEdDSA, SecurityProduction, nil},
		{Variant("bogus"), SecurityDemo, ErrUnknownVariant},
	}

	for _, tc := range cases {
		scheme, err := New(tc.variant, tc.level)
		if tc.wantErr != nil {
			assert.ErrorIs(t, err, tc.wantErr, "%s/%s", tc.variant, tc.level)
			assert.Nil(t, scheme)
			continue
		}
		require.NoError(t, err, "%s/%s", tc.variant, tc.level)
		assert.Equal(t, tc.variant, scheme.Variant())
	}
}

// TestParseVariant tests string-to-variant parsing.
func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("commitment")
	require.NoError(t, err)
	assert.Equal(t, VariantCommitment, v)

	_, err = ParseVariant("rsa")
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

// TestCheckAttributeRange tests the bit-width bound shared by every
// scheme.
func TestCheckAttributeRange(t *testing.T) {
	assert.NoError(t, CheckAttributeRange(0))
	assert.NoError(t, CheckAttributeRange(circuit.MaxAttributeValue))
	assert.ErrorIs(t, CheckAttributeRange(circuit.MaxAttributeValue+1), ErrRange)
}

// TestSchemeRoundTrip tests KeyGen/Sign/Verify for every variant.
func TestSchemeRoundTrip(t *testing.T) {
	for _, variant := range []Variant{VariantHashSignature, VariantCommitment, VariantEdDSA} {
		variant := variant
		t.Run(string(variant), func(t *testing.T) {
			scheme, err := New(variant, SecurityDemo)
			require.NoError(t, err)

			key, err := scheme.KeyGen()
			require.NoError(t, err)
			require.Equal(t, variant, key.Variant)
			require.NotEmpty(t, key.Public)

			tag, err := scheme.Sign(25, key)
			require.NoError(t, err)
			require.Equal(t, variant, tag.Variant)

			assert.NoError(t, scheme.Verify(25, tag, key))
		})
	}
}

// TestSchemeRejectsWrongAttribute tests that a tag over one attribute does
// not verify for another.
func TestSchemeRejectsWrongAttribute(t *testing.T) {
	for _, variant := range []Variant{VariantHashSignature, VariantCommitment, VariantEdDSA} {
		variant := variant
		t.Run(string(variant), func(t *testing.T) {
			scheme, err := New(variant, SecurityDemo)
			require.NoError(t, err)

			key, err := scheme.KeyGen()
			require.NoError(t, err)

			tag, err := scheme.Sign(25, key)
			require.NoError(t, err)

			assert.ErrorIs(t, scheme.Verify(26, tag, key), ErrInvalidTag)
		})
	}
}

// TestSchemeRejectsForeignKey tests that a tag does not verify under a
// different key pair.
func TestSchemeRejectsForeignKey(t *testing.T) {
	for _, variant := range []Variant{VariantHashSignature, VariantCommitment, VariantEdDSA} {
		variant := variant
		t.Run(string(variant), func(t *testing.T) {
			scheme, err := New(variant, SecurityDemo)
			require.NoError(t, err)

			key, err := scheme.KeyGen()
			require.NoError(t, err)
			other, err := scheme.KeyGen()
			require.NoError(t, err)

			tag, err := scheme.Sign(25, key)
			require.NoError(t, err)

			assert.Error(t, scheme.Verify(25, tag, other))
		})
	}
}

// TestSchemeRejectsOutOfRangeAttribute tests the signing-side range check.
func TestSchemeRejectsOutOfRangeAttribute(t *testing.T) {
	scheme, err := New(VariantCommitment, SecurityProduction)
	require.NoError(t, err)

	key, err := scheme.KeyGen()
	require.NoError(t, err)

	_, err = scheme.Sign(circuit.MaxAttributeValue+1, key)
	assert.ErrorIs(t, err, ErrRange)
}
