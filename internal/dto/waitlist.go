package dto

import (
	"sort"
	"time"

	"github.com/globelend/waitlist-manager/internal/avatar"
	"github.com/globelend/waitlist-manager/internal/entity"
)

// Entry is the public shape of a waitlist entry.
type Entry struct {
	Id            string    `json:"id"`
	SpotIndex     int       `json:"spotIndex"`
	ProfileId     int       `json:"profileId"`
	Name          string    `json:"name"`
	WalletAddress string    `json:"walletAddress"`
	WalletKind    string    `json:"walletKind"`
	Avatar        string    `json:"avatar"`
	AvatarType    string    `json:"avatarType"`
	AvatarSeed    string    `json:"avatarSeed,omitempty"`
	AvatarStyle   string    `json:"avatarStyle,omitempty"`
	Handle        string    `json:"handle,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Stats is a snapshot for client side UX.
type Stats struct {
	Size               int `json:"size"`
	Capacity           int `json:"capacity"`
	RateLimitPerMinute int `json:"rateLimitPerMinute"`

	// Remaining and WindowSeconds describe the caller's own rate limit window.
	Remaining     int      `json:"remaining"`
	WindowSeconds int      `json:"windowSeconds"`
	AvatarStyles  []string `json:"avatarStyles"`
}

// ConvertStyles lists generated avatar styles by name.
func ConvertStyles(styles []avatar.Style) []string {
	out := make([]string, 0, len(styles))
	for _, st := range styles {
		out = append(out, string(st))
	}
	return out
}

// Spot is one claimed position in the globe feed.
type Spot struct {
	SpotIndex int    `json:"spotIndex"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Handle    string `json:"handle,omitempty"`
}

// SpotsFeed lists every claimed spot ordered by spot index.
type SpotsFeed struct {
	MaxSpots int    `json:"maxSpots"`
	Spots    []Spot `json:"spots"`
}

// AvatarImage returns the image an entry is displayed with: the uploaded
// image, or the rendered URL of a generated avatar.
func AvatarImage(a entity.Avatar) string {
	if a.Type == entity.AvatarSeed {
		return avatar.URL(a.Seed.String, avatar.Style(a.Style.String))
	}
	return a.Image.String
}

func ConvertEntityEntryToDto(e *entity.WaitlistEntry) *Entry {
	if e == nil {
		return nil
	}
	return &Entry{
		Id:            e.Id,
		SpotIndex:     e.SpotIndex,
		ProfileId:     e.SpotIndex,
		Name:          e.DisplayName,
		WalletAddress: e.WalletAddress,
		WalletKind:    e.WalletKind,
		Avatar:        AvatarImage(e.Avatar),
		AvatarType:    string(e.Avatar.Type),
		AvatarSeed:    e.Avatar.Seed.String,
		AvatarStyle:   e.Avatar.Style.String,
		Handle:        e.ExternalHandle.String,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

func ConvertEntriesToSpotsFeed(entries []entity.WaitlistEntry, maxSpots int) *SpotsFeed {
	spots := make([]Spot, 0, len(entries))
	for _, e := range entries {
		spots = append(spots, Spot{
			SpotIndex: e.SpotIndex,
			Name:      e.DisplayName,
			Avatar:    AvatarImage(e.Avatar),
			Handle:    e.ExternalHandle.String,
		})
	}
	sort.Slice(spots, func(i, j int) bool {
		return spots[i].SpotIndex < spots[j].SpotIndex
	})
	return &SpotsFeed{
		MaxSpots: maxSpots,
		Spots:    spots,
	}
}
