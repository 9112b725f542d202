package gerr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var (
	ErrUnauthenticated = errors.New("authentication required")

	// ErrConflict is wrapped by every uniqueness conflict below.
	ErrConflict       = errors.New("conflict")
	ErrIdentityJoined = fmt.Errorf("%w: identity already joined", ErrConflict)
	ErrWalletTaken    = fmt.Errorf("%w: wallet already on waitlist", ErrConflict)
	ErrSpotTaken      = fmt.Errorf("%w: position already taken", ErrConflict)

	ErrWaitlistFull     = errors.New("waitlist full")
	ErrRateLimited      = errors.New("rate limit exceeded")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrEntryNotFound    = errors.New("waitlist entry not found")
)

// ConflictReason returns the client facing reason of a conflict error.
func ConflictReason(err error) string {
	switch {
	case errors.Is(err, ErrIdentityJoined):
		return "identity already joined"
	case errors.Is(err, ErrWalletTaken):
		return "wallet already on waitlist"
	case errors.Is(err, ErrSpotTaken):
		return "position already taken"
	}
	return "conflict"
}

// ValidationError carries field level detail for client fixable input errors.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns a ValidationError for a single field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// RateLimitedError is returned when a client exceeded its request ceiling.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

func (e *RateLimitedError) Unwrap() error {
	return ErrRateLimited
}

// RetryAfterSeconds rounds the retry hint up to whole seconds.
func (e *RateLimitedError) RetryAfterSeconds() int {
	secs := int((e.RetryAfter + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

// UniqueField names the column a store uniqueness constraint protects.
type UniqueField string

const (
	UniqueSpotIndex      UniqueField = "spot_index"
	UniqueWalletAddress  UniqueField = "wallet_address"
	UniqueExternalUserId UniqueField = "external_user_id"
)

// UniqueViolationError is returned by the store when an insert hits a unique key.
type UniqueViolationError struct {
	Field UniqueField
	Err   error
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("unique violation on %s", e.Field)
}

func (e *UniqueViolationError) Unwrap() error {
	return e.Err
}

// Conflict maps the violated field to the matching conflict sentinel.
func (e *UniqueViolationError) Conflict() error {
	switch e.Field {
	case UniqueSpotIndex:
		return ErrSpotTaken
	case UniqueWalletAddress:
		return ErrWalletTaken
	case UniqueExternalUserId:
		return ErrIdentityJoined
	}
	return ErrConflict
}
