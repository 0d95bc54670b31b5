package pin

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "stocktrail/pkg/domain-errors"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name  string
		pin   string
		valid bool
	}{
		{"four digits", "1234", true},
		{"eight digits", "12345678", true},
		{"six digits", "111111", true},
		{"too short", "123", false},
		{"too long", "123456789", false},
		{"letters", "12a4", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.pin)
			if tc.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		})
	}
}

func TestHashAndVerify(t *testing.T) {
	digest, err := Hash("111111")
	require.NoError(t, err)

	assert.NotContains(t, digest, "111111")
	assert.True(t, strings.HasPrefix(digest, "$2"))
	assert.False(t, IsLegacy(digest))
	assert.True(t, Verify("111111", digest))
	assert.False(t, Verify("222222", digest))

	other, err := Hash("111111")
	require.NoError(t, err)
	assert.NotEqual(t, digest, other, "digests are salted")
}

func TestHashRejectsInvalidPIN(t *testing.T) {
	_, err := Hash("12")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestVerifyLegacyDigest(t *testing.T) {
	digest := LegacyDigest("4321")

	assert.True(t, IsLegacy(digest))
	assert.True(t, Verify("4321", digest))
	assert.True(t, Verify("4321", strings.ToUpper(digest)))
	assert.False(t, Verify("1234", digest))
}

func TestVerifyMalformed(t *testing.T) {
	assert.False(t, Verify("1234", ""))
	assert.False(t, Verify("", LegacyDigest("1234")))
	assert.False(t, Verify("1234", "not-a-digest"))
}
