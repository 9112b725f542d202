package admission

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/globelend/waitlist-manager/internal/dependency/mocks"
	"github.com/globelend/waitlist-manager/internal/entity"
	gerr "github.com/globelend/waitlist-manager/internal/errors"
)

// memStore is an in-memory entry store with the same unique keys as the
// database schema.
type memStore struct {
	mu      sync.Mutex
	entries []entity.WaitlistEntry
	seq     int
}

func (s *memStore) find(match func(e entity.WaitlistEntry) bool) (*entity.WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if match(e) {
			e := e
			return &e, nil
		}
	}
	return nil, gerr.ErrEntryNotFound
}

func (s *memStore) GetEntryByExternalUserId(_ context.Context, id string) (*entity.WaitlistEntry, error) {
	return s.find(func(e entity.WaitlistEntry) bool { return e.ExternalUserId == id })
}

func (s *memStore) GetEntryByWalletAddress(_ context.Context, wallet string) (*entity.WaitlistEntry, error) {
	return s.find(func(e entity.WaitlistEntry) bool { return e.WalletAddress == wallet })
}

func (s *memStore) GetEntryBySpotIndex(_ context.Context, spot int) (*entity.WaitlistEntry, error) {
	return s.find(func(e entity.WaitlistEntry) bool { return e.SpotIndex == spot })
}

func (s *memStore) AddEntry(_ context.Context, in *entity.WaitlistEntryInsert) (*entity.WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		switch {
		case e.SpotIndex == in.SpotIndex:
			return nil, &gerr.UniqueViolationError{Field: gerr.UniqueSpotIndex}
		case e.WalletAddress == in.WalletAddress:
			return nil, &gerr.UniqueViolationError{Field: gerr.UniqueWalletAddress}
		case e.ExternalUserId == in.ExternalUserId:
			return nil, &gerr.UniqueViolationError{Field: gerr.UniqueExternalUserId}
		}
	}
	s.seq++
	now := time.Now()
	e := entity.WaitlistEntry{
		Id:             fmt.Sprintf("entry-%d", s.seq),
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
	s.entries = append(s.entries, e)
	return &e, nil
}

func (s *memStore) CountEntries(context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries), nil
}

func (s *memStore) ListEntries(context.Context) ([]entity.WaitlistEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entity.WaitlistEntry(nil), s.entries...), nil
}

// exactCapacity always reports the store's true size.
type exactCapacity struct {
	store       *memStore
	invalidated atomic.Int32
}

func (c *exactCapacity) Size(ctx context.Context) int {
	n, _ := c.store.CountEntries(ctx)
	return n
}

func (c *exactCapacity) Invalidate() { c.invalidated.Add(1) }

// fixedCapacity reports a constant size.
type fixedCapacity int

func (c fixedCapacity) Size(context.Context) int { return int(c) }
func (c fixedCapacity) Invalidate() {}

func newTestController(cfg Config) (*Controller, *memStore, *exactCapacity) {
	store := &memStore{}
	capacity := &exactCapacity{store: store}
	return New(store, capacity, cfg), store, capacity
}

func wallet(n int) string {
	return fmt.Sprintf("0x%040x", n)
}

func claim(user string, walletN, spot int) Request {
	return Request{
		ExternalUserId: user,
		DisplayHandle:  "@" + user,
		DisplayName:    " " + user + " ",
		RawAddress:     wallet(walletN),
		SpotIndex:      spot,
		Avatar: entity.Avatar{
			Type:  entity.AvatarSeed,
			Seed:  sql.NullString{String: "seed-" + user, Valid: true},
			Style: sql.NullString{String: "adventurer", Valid: true},
		},
	}
}

func TestConfig_WithDefaults(t *testing.T) {
	assert.Equal(t, Config{MaxSpots: 250, MaxCapacity: 10000}, Config{}.WithDefaults())
	assert.Equal(t, 200, Config{MaxSpots: 20}.WithDefaults().MaxSpots)
	assert.Equal(t, 300, Config{MaxSpots: 5000}.WithDefaults().MaxSpots)
	assert.Equal(t, 275, Config{MaxSpots: 275}.WithDefaults().MaxSpots)
	assert.Equal(t, 10000, Config{MaxCapacity: -1}.WithDefaults().MaxCapacity)
}

func TestAdmit_Created(t *testing.T) {
	c, store, capacity := newTestController(Config{})
	ctx := context.Background()

	req := claim("alice", 1, 5)
	req.RawAddress = strings.ToUpper(req.RawAddress[2:])
	req.RawAddress = "0x" + req.RawAddress

	res, err := c.Admit(ctx, req)
	require.NoError(t, err)
	assert.False(t, res.Replayed)
	assert.Equal(t, 5, res.Entry.SpotIndex)
	assert.Equal(t, wallet(1), res.Entry.WalletAddress)
	assert.Equal(t, "ethereum", res.Entry.WalletKind)
	assert.Equal(t, "alice", res.Entry.DisplayName)
	assert.Equal(t, "@alice", res.Entry.ExternalHandle.String)
	assert.EqualValues(t, 1, capacity.invalidated.Load())
	assert.Len(t, store.entries, 1)
}

func TestAdmit_ExampleSequence(t *testing.T) {
	c, store, _ := newTestController(Config{})
	ctx := context.Background()

	first, err := c.Admit(ctx, claim("alice", 1, 5))
	require.NoError(t, err)

	again, err := c.Admit(ctx, claim("alice", 1, 5))
	require.NoError(t, err)
	assert.True(t, again.Replayed)
	assert.Equal(t, first.Entry.Id, again.Entry.Id)

	_, err = c.Admit(ctx, claim("bob", 2, 5))
	assert.ErrorIs(t, err, gerr.ErrSpotTaken)
	assert.Equal(t, "position already taken", gerr.ConflictReason(err))

	_, err = c.Admit(ctx, claim("alice", 1, 6))
	assert.ErrorIs(t, err, gerr.ErrIdentityJoined)

	_, err = c.Admit(ctx, claim("alice", 3, 6))
	assert.ErrorIs(t, err, gerr.ErrIdentityJoined)

	_, err = c.Admit(ctx, claim("carol", 1, 6))
	assert.ErrorIs(t, err, gerr.ErrWalletTaken)

	_, err = c.Admit(ctx, claim("carol", 1, 5))
	assert.ErrorIs(t, err, gerr.ErrWalletTaken)

	assert.Len(t, store.entries, 1)
}

func TestAdmit_SameWalletAndSpotFromOtherIdentityIsNotReplay(t *testing.T) {
	c, store, _ := newTestController(Config{})
	ctx := context.Background()

	first, err := c.Admit(ctx, claim("alice", 1, 5))
	require.NoError(t, err)

	res, err := c.Admit(ctx, claim("mallory", 1, 5))
	require.ErrorIs(t, err, gerr.ErrWalletTaken)
	assert.Nil(t, res)
	assert.Equal(t, "wallet already on waitlist", gerr.ConflictReason(err))

	require.Len(t, store.entries, 1)
	assert.Equal(t, first.Entry.Id, store.entries[0].Id)
	assert.Equal(t, "alice", store.entries[0].ExternalUserId)
}

func TestAdmit_Rejected(t *testing.T) {
	c, store, _ := newTestController(Config{MaxSpots: 250})
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(r *Request)
		field  string
	}{
		{"spot zero", func(r *Request) { r.SpotIndex = 0 }, "profileId"},
		{"spot above max", func(r *Request) { r.SpotIndex = 251 }, "profileId"},
		{"bad address", func(r *Request) { r.RawAddress = "0xnothex" }, "walletAddress"},
		{"blank name", func(r *Request) { r.DisplayName = "   " }, "name"},
		{"long name", func(r *Request) { r.DisplayName = strings.Repeat("é", 256) }, "name"},
		{"two avatars", func(r *Request) {
			r.Avatar.Image = sql.NullString{String: "data:image/png;base64,AA==", Valid: true}
		}, "avatar"},
		{"no avatar", func(r *Request) { r.Avatar = entity.Avatar{Type: entity.AvatarUpload} }, "avatar"},
		{"unknown avatar", func(r *Request) { r.Avatar.Type = "gif" }, "avatarType"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := claim("alice", 1, 5)
			tt.mutate(&req)
			_, err := c.Admit(ctx, req)
			var ve *gerr.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tt.field)
		})
	}
	assert.Empty(t, store.entries)

	res, err := c.Admit(ctx, claim("alice", 1, 250))
	require.NoError(t, err)
	assert.Equal(t, 250, res.Entry.SpotIndex)
}

func TestAdmit_Unauthenticated(t *testing.T) {
	c, _, _ := newTestController(Config{})
	_, err := c.Admit(context.Background(), claim("", 1, 5))
	assert.ErrorIs(t, err, gerr.ErrUnauthenticated)
}

func TestAdmit_CapacityGate(t *testing.T) {
	store := &memStore{}
	c := New(store, &exactCapacity{store: store}, Config{MaxCapacity: 2})
	ctx := context.Background()

	_, err := c.Admit(ctx, claim("u1", 1, 1))
	require.NoError(t, err)
	_, err = c.Admit(ctx, claim("u2", 2, 2))
	require.NoError(t, err)

	_, err = c.Admit(ctx, claim("u3", 3, 3))
	assert.ErrorIs(t, err, gerr.ErrWaitlistFull)

	// full also wins over a conflict for a different spot
	_, err = c.Admit(ctx, claim("u1", 1, 9))
	assert.ErrorIs(t, err, gerr.ErrWaitlistFull)

	res, err := c.Admit(ctx, claim("u1", 1, 1))
	require.NoError(t, err)
	assert.True(t, res.Replayed)
}

func TestAdmit_UsesApproximateSize(t *testing.T) {
	store := &memStore{}
	c := New(store, fixedCapacity(10000), Config{})

	_, err := c.Admit(context.Background(), claim("alice", 1, 5))
	assert.ErrorIs(t, err, gerr.ErrWaitlistFull)
	assert.Empty(t, store.entries)
}

func TestAdmit_ConcurrentClaimsSameSpot(t *testing.T) {
	c, store, _ := newTestController(Config{})
	ctx := context.Background()

	const n = 50
	var (
		wg      sync.WaitGroup
		created atomic.Int32
		taken   atomic.Int32
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Admit(ctx, claim(fmt.Sprintf("user-%d", i), i+1, 7))
			switch {
			case err == nil:
				created.Add(1)
			case assert.ErrorIs(t, err, gerr.ErrSpotTaken):
				taken.Add(1)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, created.Load())
	assert.EqualValues(t, n-1, taken.Load())
	assert.Len(t, store.entries, 1)
}

func TestAdmit_ConcurrentDistinctClaimsStayUnique(t *testing.T) {
	c, store, _ := newTestController(Config{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			// users collide on wallets and spots in overlapping ways
			_, _ = c.Admit(ctx, claim(fmt.Sprintf("user-%d", i%40), i%30+1, i%25+1))
		}(i)
	}
	wg.Wait()

	spots := map[int]bool{}
	wallets := map[string]bool{}
	users := map[string]bool{}
	for _, e := range store.entries {
		assert.False(t, spots[e.SpotIndex], "duplicate spot %d", e.SpotIndex)
		assert.False(t, wallets[e.WalletAddress], "duplicate wallet %s", e.WalletAddress)
		assert.False(t, users[e.ExternalUserId], "duplicate user %s", e.ExternalUserId)
		spots[e.SpotIndex] = true
		wallets[e.WalletAddress] = true
		users[e.ExternalUserId] = true
	}
}

func TestAdmit_LostRaceMapsConflict(t *testing.T) {
	ctx := context.Background()
	cases := map[gerr.UniqueField]error{
		gerr.UniqueSpotIndex:      gerr.ErrSpotTaken,
		gerr.UniqueWalletAddress:  gerr.ErrWalletTaken,
		gerr.UniqueExternalUserId: gerr.ErrIdentityJoined,
	}
	for field, want := range cases {
		t.Run(string(field), func(t *testing.T) {
			store := mocks.NewWaitlist(t)
			store.EXPECT().GetEntryByExternalUserId(mock.Anything, "alice").Return(nil, gerr.ErrEntryNotFound)
			store.EXPECT().GetEntryByWalletAddress(mock.Anything, wallet(1)).Return(nil, gerr.ErrEntryNotFound)
			store.EXPECT().GetEntryBySpotIndex(mock.Anything, 5).Return(nil, gerr.ErrEntryNotFound)
			store.EXPECT().AddEntry(mock.Anything, mock.Anything).
				Return(nil, &gerr.UniqueViolationError{Field: field})

			c := New(store, fixedCapacity(0), Config{})
			_, err := c.Admit(ctx, claim("alice", 1, 5))
			assert.ErrorIs(t, err, want)
		})
	}
}

func TestAdmit_LostRaceToOwnRetryIsReplay(t *testing.T) {
	ctx := context.Background()
	existing := &entity.WaitlistEntry{Id: "e1", SpotIndex: 5, WalletAddress: wallet(1), ExternalUserId: "alice"}

	store := mocks.NewWaitlist(t)
	store.EXPECT().GetEntryByExternalUserId(mock.Anything, "alice").Return(nil, gerr.ErrEntryNotFound).Once()
	store.EXPECT().GetEntryByWalletAddress(mock.Anything, wallet(1)).Return(nil, gerr.ErrEntryNotFound)
	store.EXPECT().GetEntryBySpotIndex(mock.Anything, 5).Return(nil, gerr.ErrEntryNotFound)
	store.EXPECT().AddEntry(mock.Anything, mock.Anything).
		Return(nil, &gerr.UniqueViolationError{Field: gerr.UniqueExternalUserId})
	store.EXPECT().GetEntryByExternalUserId(mock.Anything, "alice").Return(existing, nil).Once()

	c := New(store, fixedCapacity(0), Config{})
	res, err := c.Admit(ctx, claim("alice", 1, 5))
	require.NoError(t, err)
	assert.True(t, res.Replayed)
	assert.Equal(t, "e1", res.Entry.Id)
}

func TestAdmit_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	down := fmt.Errorf("get entry: %w: %w", gerr.ErrStoreUnavailable, sql.ErrConnDone)

	t.Run("lookup", func(t *testing.T) {
		store := mocks.NewWaitlist(t)
		store.EXPECT().GetEntryByExternalUserId(mock.Anything, "alice").Return(nil, down)

		c := New(store, fixedCapacity(0), Config{})
		_, err := c.Admit(ctx, claim("alice", 1, 5))
		assert.ErrorIs(t, err, gerr.ErrStoreUnavailable)
		assert.NotErrorIs(t, err, gerr.ErrConflict)
	})

	t.Run("insert", func(t *testing.T) {
		store := mocks.NewWaitlist(t)
		store.EXPECT().GetEntryByExternalUserId(mock.Anything, "alice").Return(nil, gerr.ErrEntryNotFound)
		store.EXPECT().GetEntryByWalletAddress(mock.Anything, wallet(1)).Return(nil, gerr.ErrEntryNotFound)
		store.EXPECT().GetEntryBySpotIndex(mock.Anything, 5).Return(nil, gerr.ErrEntryNotFound)
		store.EXPECT().AddEntry(mock.Anything, mock.Anything).Return(nil, down)

		c := New(store, fixedCapacity(0), Config{})
		_, err := c.Admit(ctx, claim("alice", 1, 5))
		assert.ErrorIs(t, err, gerr.ErrStoreUnavailable)
	})
}
