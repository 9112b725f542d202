package httpapi

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/globelend/waitlist-manager/internal/dependency"
	"github.com/globelend/waitlist-manager/internal/entity"
	gerr "github.com/globelend/waitlist-manager/internal/errors"
)

// memRepo is an in-memory repository enforcing the schema's unique keys.
type memRepo struct {
	mu      sync.Mutex
	entries []entity.WaitlistEntry
	pingErr error
}

func (m *memRepo) Waitlist() dependency.Waitlist { return m }
func (m *memRepo) Ping(context.Context) error { return m.pingErr }
func (m *memRepo) Now() time.Time { return time.Now() }
func (m *memRepo) Close() {}

func (m *memRepo) find(match func(e entity.WaitlistEntry) bool) (*entity.WaitlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if match(e) {
			e := e
			return &e, nil
		}
	}
	return nil, gerr.ErrEntryNotFound
}

func (m *memRepo) GetEntryByExternalUserId(_ context.Context, id string) (*entity.WaitlistEntry, error) {
	return m.find(func(e entity.WaitlistEntry) bool { return e.ExternalUserId == id })
}

func (m *memRepo) GetEntryByWalletAddress(_ context.Context, wallet string) (*entity.WaitlistEntry, error) {
	return m.find(func(e entity.WaitlistEntry) bool { return e.WalletAddress == wallet })
}

func (m *memRepo) GetEntryBySpotIndex(_ context.Context, spot int) (*entity.WaitlistEntry, error) {
	return m.find(func(e entity.WaitlistEntry) bool { return e.SpotIndex == spot })
}

func (m *memRepo) AddEntry(_ context.Context, in *entity.WaitlistEntryInsert) (*entity.WaitlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		switch {
		case e.SpotIndex == in.SpotIndex:
			return nil, &gerr.UniqueViolationError{Field: gerr.UniqueSpotIndex}
		case e.WalletAddress == in.WalletAddress:
			return nil, &gerr.UniqueViolationError{Field: gerr.UniqueWalletAddress}
		case e.ExternalUserId == in.ExternalUserId:
			return nil, &gerr.UniqueViolationError{Field: gerr.UniqueExternalUserId}
		}
	}
	now := time.Now().UTC()
	e := entity.WaitlistEntry{
		Id:             fmt.Sprintf("entry-%d", len(m.entries)+1),
		SpotIndex:      in.SpotIndex,
		DisplayName:    in.DisplayName,
		WalletAddress:  in.WalletAddress,
		WalletKind:     in.WalletKind,
		ExternalUserId: in.ExternalUserId,
		ExternalHandle: sql.NullString{String: in.ExternalHandle, Valid: in.ExternalHandle != ""},
		CreatedAt:      now,
		UpdatedAt:      now,
		Avatar:         in.Avatar,
	}
	m.entries = append(m.entries, e)
	return &e, nil
}

func (m *memRepo) CountEntries(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries), nil
}

func (m *memRepo) ListEntries(context.Context) ([]entity.WaitlistEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.WaitlistEntry(nil), m.entries...), nil
}
