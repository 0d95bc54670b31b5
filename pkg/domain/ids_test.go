package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "stocktrail/pkg/domain-errors"
)

// TestParseID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseSlipID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseStaffID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseBranchID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID with surrounding whitespace", func(t *testing.T) {
		raw := uuid.New()
		parsed, err := ParseProductID("  " + raw.String() + " ")
		require.NoError(t, err)
		assert.Equal(t, ProductID(raw), parsed)
	})
}

func TestIDJSON(t *testing.T) {
	type payload struct {
		Branch BranchID `json:"branch"`
		Staff  *StaffID `json:"staff,omitempty"`
		Slip   SlipID   `json:"slip"`
	}
	in := payload{Branch: NewBranchID(), Slip: NewSlipID()}

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), in.Branch.String())

	var out payload
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in.Branch, out.Branch)
	assert.Equal(t, in.Slip, out.Slip)
	assert.Nil(t, out.Staff)
}

func TestIsNil(t *testing.T) {
	assert.True(t, StaffID{}.IsNil())
	assert.False(t, NewStaffID().IsNil())
}
