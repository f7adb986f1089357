package loan

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pending(score float64) *Loan {
	return &Loan{LoanID: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", RiskScore: score, Status: StatusPending}
}

func TestDecide_Override(t *testing.T) {
	now := time.Date(2025, 9, 6, 10, 0, 0, 0, time.UTC)

	l := pending(0.99)
	src, err := l.Decide(StatusApproved, now)
	require.NoError(t, err)
	assert.Equal(t, SourceManual, src)
	assert.Equal(t, StatusApproved, l.Status)
	assert.Equal(t, now, l.StatusUpdatedAt)

	l = pending(0.01)
	src, err = l.Decide(StatusRejected, now)
	require.NoError(t, err)
	assert.Equal(t, SourceManual, src)
	assert.Equal(t, StatusRejected, l.Status)
}

func TestDecide_AutoUsesPolicy(t *testing.T) {
	now := time.Now()

	l := pending(0.4999)
	src, err := l.Decide("", now)
	require.NoError(t, err)
	assert.Equal(t, SourceAuto, src)
	assert.Equal(t, StatusApproved, l.Status)

	l = pending(0.5)
	_, err = l.Decide("", now)
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, l.Status)

	// PENDING is not an override
	l = pending(0.1)
	src, err = l.Decide(StatusPending, now)
	require.NoError(t, err)
	assert.Equal(t, SourceAuto, src)
	assert.Equal(t, StatusApproved, l.Status)
}

func TestDecide_SecondAttemptConflicts(t *testing.T) {
	l := pending(0.2)
	_, err := l.Decide(StatusRejected, time.Now())
	require.NoError(t, err)
	stamp := l.StatusUpdatedAt

	_, err = l.Decide(StatusApproved, time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConflict))

	var ce *ConflictError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, StatusRejected, ce.Current)
	assert.Contains(t, err.Error(), "already REJECTED")

	assert.Equal(t, StatusRejected, l.Status)
	assert.Equal(t, stamp, l.StatusUpdatedAt)
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"PENDING", "APPROVED", "REJECTED"} {
		got, err := ParseStatus(s)
		require.NoError(t, err)
		assert.Equal(t, s, got.String())
	}
	_, err := ParseStatus("approved")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}
