package dependency

import (
	"context"
	"database/sql"
	"time"

	"github.com/globelend/waitlist-manager/internal/entity"
	"github.com/jmoiron/sqlx"
)

//go:generate mockery --with-expecter --case underscore --all --output=./mocks
type (
	// Waitlist is the entry store gateway. Lookups return gerr.ErrEntryNotFound
	// when nothing matches, AddEntry returns *gerr.UniqueViolationError when a
	// unique key fires, every other failure wraps gerr.ErrStoreUnavailable.
	Waitlist interface {
		GetEntryByExternalUserId(ctx context.Context, externalUserId string) (*entity.WaitlistEntry, error)
		GetEntryByWalletAddress(ctx context.Context, walletAddress string) (*entity.WaitlistEntry, error)
		GetEntryBySpotIndex(ctx context.Context, spotIndex int) (*entity.WaitlistEntry, error)
		// AddEntry inserts a new entry and returns it as stored.
		AddEntry(ctx context.Context, e *entity.WaitlistEntryInsert) (*entity.WaitlistEntry, error)
		CountEntries(ctx context.Context) (int, error)
		// ListEntries returns all entries ordered by creation time.
		ListEntries(ctx context.Context) ([]entity.WaitlistEntry, error)
	}

	Repository interface {
		Waitlist() Waitlist
		Ping(ctx context.Context) error
		Now() time.Time
		Close()
	}

	// CapacityTracker reports an approximate waitlist size.
	CapacityTracker interface {
		Size(ctx context.Context) int
		Invalidate()
	}

	// DB represents database interface.
	DB interface {
		ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
		GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
		QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
		QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error)
		SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	}
)
