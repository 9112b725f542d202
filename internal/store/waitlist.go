package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/globelend/waitlist-manager/internal/dependency"
	"github.com/globelend/waitlist-manager/internal/entity"
	gerr "github.com/globelend/waitlist-manager/internal/errors"
	"github.com/google/uuid"
)

const entryColumns = `id, spot_index, display_name, wallet_address, wallet_kind,
	external_user_id, external_handle, avatar_type, avatar_image, avatar_seed, avatar_style,
	created_at, updated_at`

type waitlistStore struct {
	*MYSQLStore
}

func (ms *MYSQLStore) Waitlist() dependency.Waitlist {
	return &waitlistStore{
		MYSQLStore: ms,
	}
}

// getEntryBy looks up a single entry by a unique column.
func (ms *waitlistStore) getEntryBy(ctx context.Context, column string, value any) (*entity.WaitlistEntry, error) {
	ctx, cancel := ms.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM waitlist_entries WHERE %s = :value`, entryColumns, column)
	entry, err := QueryNamedOne[entity.WaitlistEntry](ctx, ms.DB(), query, map[string]any{
		"value": value,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gerr.ErrEntryNotFound
		}
		return nil, unavailable("get entry by "+column, err)
	}
	return &entry, nil
}

// GetEntryByExternalUserId returns the entry claimed by an identity provider user.
func (ms *waitlistStore) GetEntryByExternalUserId(ctx context.Context, externalUserId string) (*entity.WaitlistEntry, error) {
	return ms.getEntryBy(ctx, "external_user_id", externalUserId)
}

// GetEntryByWalletAddress returns the entry holding a normalized wallet address.
func (ms *waitlistStore) GetEntryByWalletAddress(ctx context.Context, walletAddress string) (*entity.WaitlistEntry, error) {
	return ms.getEntryBy(ctx, "wallet_address", walletAddress)
}

// GetEntryBySpotIndex returns the entry occupying a globe spot.
func (ms *waitlistStore) GetEntryBySpotIndex(ctx context.Context, spotIndex int) (*entity.WaitlistEntry, error) {
	return ms.getEntryBy(ctx, "spot_index", spotIndex)
}

// AddEntry inserts a new waitlist entry. The unique keys on spot, wallet and
// external user id are the source of truth for conflicts.
func (ms *waitlistStore) AddEntry(ctx context.Context, e *entity.WaitlistEntryInsert) (*entity.WaitlistEntry, error) {
	ctx, cancel := ms.withTimeout(ctx)
	defer cancel()

	now := ms.Now().UTC().Truncate(time.Millisecond)
	entry := &entity.WaitlistEntry{
		Id:             uuid.NewString(),
		SpotIndex:      e.SpotIndex,
		DisplayName:    e.DisplayName,
		WalletAddress:  e.WalletAddress,
		WalletKind:     e.WalletKind,
		ExternalUserId: e.ExternalUserId,
		ExternalHandle: sql.NullString{String: e.ExternalHandle, Valid: e.ExternalHandle != ""},
		CreatedAt:      now,
		UpdatedAt:      now,
		Avatar:         e.Avatar,
	}

	query := `
	INSERT INTO waitlist_entries (id, spot_index, display_name, wallet_address, wallet_kind,
		external_user_id, external_handle, avatar_type, avatar_image, avatar_seed, avatar_style,
		created_at, updated_at)
	VALUES (:id, :spotIndex, :displayName, :walletAddress, :walletKind,
		:externalUserId, :externalHandle, :avatarType, :avatarImage, :avatarSeed, :avatarStyle,
		:createdAt, :updatedAt)`
	params := map[string]any{
		"id":             entry.Id,
		"spotIndex":      entry.SpotIndex,
		"displayName":    entry.DisplayName,
		"walletAddress":  entry.WalletAddress,
		"walletKind":     entry.WalletKind,
		"externalUserId": entry.ExternalUserId,
		"externalHandle": entry.ExternalHandle,
		"avatarType":     entry.Avatar.Type,
		"avatarImage":    entry.Avatar.Image,
		"avatarSeed":     entry.Avatar.Seed,
		"avatarStyle":    entry.Avatar.Style,
		"createdAt":      entry.CreatedAt,
		"updatedAt":      entry.UpdatedAt,
	}

	if err := ExecNamed(ctx, ms.DB(), query, params); err != nil {
		if uv := uniqueViolation(err); uv != nil {
			return nil, uv
		}
		return nil, unavailable("add entry", err)
	}

	return entry, nil
}

// CountEntries returns the exact number of waitlist entries.
func (ms *waitlistStore) CountEntries(ctx context.Context) (int, error) {
	ctx, cancel := ms.withTimeout(ctx)
	defer cancel()

	count, err := QueryCountNamed(ctx, ms.DB(), `SELECT COUNT(*) FROM waitlist_entries`, nil)
	if err != nil {
		return 0, unavailable("count entries", err)
	}
	return count, nil
}

// ListEntries returns all entries, oldest first.
func (ms *waitlistStore) ListEntries(ctx context.Context) ([]entity.WaitlistEntry, error) {
	ctx, cancel := ms.withTimeout(ctx)
	defer cancel()

	query := fmt.Sprintf(`SELECT %s FROM waitlist_entries ORDER BY created_at ASC, id ASC`, entryColumns)
	entries, err := QueryListNamed[entity.WaitlistEntry](ctx, ms.DB(), query, nil)
	if err != nil {
		return nil, unavailable("list entries", err)
	}
	return entries, nil
}
