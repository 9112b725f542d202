package gerr

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConflictSentinels(t *testing.T) {
	for _, err := range []error{ErrIdentityJoined, ErrWalletTaken, ErrSpotTaken} {
		assert.ErrorIs(t, err, ErrConflict)
	}
	assert.Equal(t, "identity already joined", ConflictReason(fmt.Errorf("admit: %w", ErrIdentityJoined)))
	assert.Equal(t, "wallet already on waitlist", ConflictReason(ErrWalletTaken))
	assert.Equal(t, "position already taken", ConflictReason(ErrSpotTaken))
}

func TestUniqueViolationError_Conflict(t *testing.T) {
	assert.ErrorIs(t, (&UniqueViolationError{Field: UniqueSpotIndex}).Conflict(), ErrSpotTaken)
	assert.ErrorIs(t, (&UniqueViolationError{Field: UniqueWalletAddress}).Conflict(), ErrWalletTaken)
	assert.ErrorIs(t, (&UniqueViolationError{Field: UniqueExternalUserId}).Conflict(), ErrIdentityJoined)
	assert.Equal(t, ErrConflict, (&UniqueViolationError{Field: "other"}).Conflict())
}

func TestRateLimitedError(t *testing.T) {
	err := error(&RateLimitedError{RetryAfter: 1500 * time.Millisecond})
	assert.ErrorIs(t, err, ErrRateLimited)

	var rl *RateLimitedError
	assert.True(t, errors.As(err, &rl))
	assert.Equal(t, 2, rl.RetryAfterSeconds())
	assert.Equal(t, 1, (&RateLimitedError{}).RetryAfterSeconds())
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: map[string]string{"name": "required", "avatar": "too large"}}
	assert.Equal(t, "validation failed: avatar: too large; name: required", err.Error())
}
