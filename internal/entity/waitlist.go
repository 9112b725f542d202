package entity

import (
	"database/sql"
	"time"
)

// AvatarType tells which avatar representation an entry carries.
type AvatarType string

const (
	AvatarUpload AvatarType = "upload"
	AvatarSeed   AvatarType = "avatar_seed"
)

// Avatar is either an uploaded image or a generated-avatar reference, never both.
type Avatar struct {
	Type  AvatarType     `db:"avatar_type"`
	Image sql.NullString `db:"avatar_image"`
	Seed  sql.NullString `db:"avatar_seed"`
	Style sql.NullString `db:"avatar_style"`
}

// WaitlistEntry represents one claimed globe spot.
type WaitlistEntry struct {
	Id             string         `db:"id"`
	SpotIndex      int            `db:"spot_index"`
	DisplayName    string         `db:"display_name"`
	WalletAddress  string         `db:"wallet_address"`
	WalletKind     string         `db:"wallet_kind"`
	ExternalUserId string         `db:"external_user_id"`
	ExternalHandle sql.NullString `db:"external_handle"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
	Avatar
}

// WaitlistEntryInsert holds everything the admission controller persists for a new entry.
type WaitlistEntryInsert struct {
	SpotIndex      int
	DisplayName    string
	WalletAddress  string
	WalletKind     string
	ExternalUserId string
	ExternalHandle string
	Avatar         Avatar
}
