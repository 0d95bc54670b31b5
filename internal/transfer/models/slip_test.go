package models

import (
	"bytes"
	"crypto/rand"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "stocktrail/pkg/domain"
	dErrors "stocktrail/pkg/domain-errors"
)

func newTestSlip(t *testing.T) *Slip {
	t.Helper()
	now := time.Now()
	s, err := NewSlip(id.NewSlipID(), NewHumanID(now), id.NewProductID(), "Chair", 4,
		id.NewBranchID(), id.NewBranchID(), id.NewStaffID(), "", now)
	require.NoError(t, err)
	return s
}

func TestNewSlipInvariants(t *testing.T) {
	branch := id.NewBranchID()
	now := time.Now()

	_, err := NewSlip(id.NewSlipID(), "TRF-X-Y", id.NewProductID(), "Chair", 1, branch, branch, id.NewStaffID(), "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	_, err = NewSlip(id.NewSlipID(), "TRF-X-Y", id.NewProductID(), "Chair", 0, branch, id.NewBranchID(), id.NewStaffID(), "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	s := newTestSlip(t)
	assert.Equal(t, StatusInTransit, s.Status)
	assert.Nil(t, s.ReceivedBy)
	slipID, err := DecodeQRPayload(s.QRPayload)
	require.NoError(t, err)
	assert.Equal(t, s.ID, slipID)
}

func TestSlipTransitionsAreForwardOnly(t *testing.T) {
	staff := id.NewStaffID()
	at := time.Now()

	t.Run("completed slips reject every transition", func(t *testing.T) {
		s := newTestSlip(t)
		require.NoError(t, s.Complete(staff, at))
		assert.Equal(t, StatusCompleted, s.Status)
		assert.Equal(t, staff, *s.ReceivedBy)

		assert.True(t, dErrors.HasCode(s.Complete(staff, at), dErrors.CodeTransferCompleted))
		assert.True(t, dErrors.HasCode(s.Cancel(staff, at), dErrors.CodeTransferCompleted))
	})

	t.Run("cancelled slips reject every transition", func(t *testing.T) {
		s := newTestSlip(t)
		require.NoError(t, s.Cancel(staff, at))
		assert.Equal(t, StatusCancelled, s.Status)
		assert.Nil(t, s.ReceivedBy)

		assert.True(t, dErrors.HasCode(s.Complete(staff, at), dErrors.CodeTransferCancelled))
		assert.True(t, dErrors.HasCode(s.Cancel(staff, at), dErrors.CodeTransferCancelled))
	})
}

func TestHumanIDFormat(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_000)
	ref := NewHumanID(now)
	assert.Regexp(t, regexp.MustCompile(`^TRF-[0-9A-Z]+-[0-9A-Z]{4}$`), ref)
	assert.Contains(t, ref, "TRF-LOYW3V28-")
}

func TestRandomSuffixIsUniform(t *testing.T) {
	t.Run("out of range draws are rejected, not folded", func(t *testing.T) {
		// 0xFF masks to 63, which is past the alphabet; a modulo would map it to 'D'.
		assert.Equal(t, "A", randomSuffix(bytes.NewReader([]byte{0xFF, 0x00}), 1))
	})

	t.Run("every character is reachable", func(t *testing.T) {
		seen := make(map[rune]bool)
		for range 1000 {
			for _, c := range randomSuffix(rand.Reader, 4) {
				seen[c] = true
			}
		}
		assert.Len(t, seen, len(humanIDAlphabet))
		for c := range seen {
			assert.True(t, strings.ContainsRune(humanIDAlphabet, c))
		}
	})
}

func TestDecodeQRPayloadRejectsForeignCodes(t *testing.T) {
	_, err := DecodeQRPayload(`{"type":"product","transferId":"x"}`)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = DecodeQRPayload("not json")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestFilterMatches(t *testing.T) {
	s := newTestSlip(t)
	completed := StatusCompleted
	other := id.NewBranchID()

	assert.True(t, Filter{}.Matches(s))
	assert.True(t, Filter{FromBranch: &s.FromBranch, ProductID: &s.ProductID}.Matches(s))
	assert.False(t, Filter{Status: &completed}.Matches(s))
	assert.False(t, Filter{ToBranch: &other}.Matches(s))
}

func TestInitiateRequestValidation(t *testing.T) {
	branch := id.NewBranchID().String()
	base := func() *InitiateRequest {
		return &InitiateRequest{
			ProductID:   id.NewProductID().String(),
			Quantity:    2,
			FromBranch:  branch,
			ToBranch:    id.NewBranchID().String(),
			RequestedBy: id.NewStaffID().String(),
			PIN:         "1234",
		}
	}

	assert.NoError(t, base().Validate())

	same := base()
	same.ToBranch = branch
	assert.True(t, dErrors.HasCode(same.Validate(), dErrors.CodeValidation))

	zero := base()
	zero.Quantity = 0
	assert.True(t, dErrors.HasCode(zero.Validate(), dErrors.CodeValidation))

	badID := base()
	badID.ProductID = "nope"
	assert.True(t, dErrors.HasCode(badID.Validate(), dErrors.CodeInvalidInput))
}
