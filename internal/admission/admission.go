// Package admission decides whether a claim on a globe spot becomes a
// waitlist entry.
package admission

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/globelend/waitlist-manager/internal/address"
	"github.com/globelend/waitlist-manager/internal/dependency"
	"github.com/globelend/waitlist-manager/internal/entity"
	gerr "github.com/globelend/waitlist-manager/internal/errors"
)

const (
	DefaultMaxSpots    = 250
	MinMaxSpots        = 200
	MaxMaxSpots        = 300
	DefaultMaxCapacity = 10000

	maxNameLength = 255
)

// Config bounds the waitlist.
type Config struct {
	MaxSpots    int `mapstructure:"max_spots"`
	MaxCapacity int `mapstructure:"max_capacity"`
}

// WithDefaults fills unset values and clamps MaxSpots to [MinMaxSpots, MaxMaxSpots].
func (c Config) WithDefaults() Config {
	switch {
	case c.MaxSpots <= 0:
		c.MaxSpots = DefaultMaxSpots
	case c.MaxSpots < MinMaxSpots:
		c.MaxSpots = MinMaxSpots
	case c.MaxSpots > MaxMaxSpots:
		c.MaxSpots = MaxMaxSpots
	}
	if c.MaxCapacity <= 0 {
		c.MaxCapacity = DefaultMaxCapacity
	}
	return c
}

// Request is an authenticated claim. RawAddress is normalized by Admit.
type Request struct {
	ExternalUserId string
	DisplayHandle  string
	DisplayName    string
	RawAddress     string
	SpotIndex      int
	Avatar         entity.Avatar
}

// Result is a successful admission. Replayed is set when the entry already
// existed for the same identity, wallet and spot.
type Result struct {
	Entry    *entity.WaitlistEntry
	Replayed bool
}

// Controller enforces the waitlist invariants on top of the entry store.
type Controller struct {
	store    dependency.Waitlist
	capacity dependency.CapacityTracker
	cfg      Config
}

func New(store dependency.Waitlist, capacity dependency.CapacityTracker, cfg Config) *Controller {
	return &Controller{
		store:    store,
		capacity: capacity,
		cfg:      cfg.WithDefaults(),
	}
}

// Config returns the effective configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Admit runs a claim through validation, capacity and uniqueness checks and
// inserts the entry. Errors are one of *gerr.ValidationError,
// gerr.ErrWaitlistFull, a gerr.ErrConflict variant or gerr.ErrStoreUnavailable.
func (c *Controller) Admit(ctx context.Context, req Request) (*Result, error) {
	if req.ExternalUserId == "" {
		return nil, gerr.ErrUnauthenticated
	}
	if req.SpotIndex < 1 || req.SpotIndex > c.cfg.MaxSpots {
		return nil, gerr.NewValidationError("profileId", "invalid spot")
	}
	addr := address.Validate(req.RawAddress)
	if !addr.Valid {
		return nil, gerr.NewValidationError("walletAddress", "invalid address")
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return nil, gerr.NewValidationError("name", "invalid name")
	}
	if err := validateAvatar(req.Avatar); err != nil {
		return nil, err
	}

	full := c.capacity.Size(ctx) >= c.cfg.MaxCapacity

	mine, err := c.lookup(ctx, func(ctx context.Context) (*entity.WaitlistEntry, error) {
		return c.store.GetEntryByExternalUserId(ctx, req.ExternalUserId)
	})
	if err != nil {
		return nil, err
	}
	if mine != nil && isReplay(mine, addr.Normalized, req.SpotIndex) {
		return &Result{Entry: mine, Replayed: true}, nil
	}
	if full {
		return nil, gerr.ErrWaitlistFull
	}
	if mine != nil {
		return nil, gerr.ErrIdentityJoined
	}

	byWallet, err := c.lookup(ctx, func(ctx context.Context) (*entity.WaitlistEntry, error) {
		return c.store.GetEntryByWalletAddress(ctx, addr.Normalized)
	})
	if err != nil {
		return nil, err
	}
	if byWallet != nil {
		return nil, gerr.ErrWalletTaken
	}

	bySpot, err := c.lookup(ctx, func(ctx context.Context) (*entity.WaitlistEntry, error) {
		return c.store.GetEntryBySpotIndex(ctx, req.SpotIndex)
	})
	if err != nil {
		return nil, err
	}
	if bySpot != nil {
		return nil, gerr.ErrSpotTaken
	}

	entry, err := c.store.AddEntry(ctx, &entity.WaitlistEntryInsert{
		SpotIndex:      req.SpotIndex,
		DisplayName:    name,
		WalletAddress:  addr.Normalized,
		WalletKind:     string(addr.Kind),
		ExternalUserId: req.ExternalUserId,
		ExternalHandle: req.DisplayHandle,
		Avatar:         req.Avatar,
	})
	if err != nil {
		var uv *gerr.UniqueViolationError
		if errors.As(err, &uv) {
			return c.lostRace(ctx, req, addr.Normalized, uv)
		}
		return nil, fmt.Errorf("add entry: %w", err)
	}

	c.capacity.Invalidate()
	return &Result{Entry: entry}, nil
}

// lostRace resolves an insert that hit a unique key. A concurrent identical
// claim from the same identity is a replay, anything else is a conflict.
func (c *Controller) lostRace(ctx context.Context, req Request, wallet string, uv *gerr.UniqueViolationError) (*Result, error) {
	slog.Default().DebugContext(ctx, "admission lost insert race",
		slog.String("field", string(uv.Field)),
		slog.Int("spot_index", req.SpotIndex),
	)
	mine, err := c.store.GetEntryByExternalUserId(ctx, req.ExternalUserId)
	if err == nil && isReplay(mine, wallet, req.SpotIndex) {
		return &Result{Entry: mine, Replayed: true}, nil
	}
	return nil, uv.Conflict()
}

// lookup turns gerr.ErrEntryNotFound into a nil entry.
func (c *Controller) lookup(ctx context.Context, get func(context.Context) (*entity.WaitlistEntry, error)) (*entity.WaitlistEntry, error) {
	e, err := get(ctx)
	if errors.Is(err, gerr.ErrEntryNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("lookup entry: %w", err)
	}
	return e, nil
}

func isReplay(e *entity.WaitlistEntry, wallet string, spotIndex int) bool {
	return e != nil && e.WalletAddress == wallet && e.SpotIndex == spotIndex
}

func validateAvatar(a entity.Avatar) error {
	switch a.Type {
	case entity.AvatarUpload:
		if !a.Image.Valid || a.Image.String == "" || a.Seed.Valid || a.Style.Valid {
			return gerr.NewValidationError("avatar", "exactly one avatar representation is required")
		}
	case entity.AvatarSeed:
		if !a.Seed.Valid || a.Seed.String == "" || a.Image.Valid {
			return gerr.NewValidationError("avatar", "exactly one avatar representation is required")
		}
	default:
		return gerr.NewValidationError("avatarType", "unknown avatar type")
	}
	return nil
}
