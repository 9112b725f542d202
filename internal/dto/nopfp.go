package dto

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/globelend/waitlist-manager/internal/avatar"
	"github.com/globelend/waitlist-manager/internal/entity"
)

// NoPictureEntry is an entry without a real uploaded profile picture.
type NoPictureEntry struct {
	Id              string    `json:"id"`
	Name            string    `json:"name"`
	TwitterUsername string    `json:"twitter_username"`
	WalletAddress   string    `json:"wallet_address"`
	ProfileId       int       `json:"profile_id"`
	AvatarType      string    `json:"avatar_type"`
	Avatar          string    `json:"avatar"`
	CreatedAt       time.Time `json:"created_at"`
}

// NoPictureReport is the json form of the export.
type NoPictureReport struct {
	Count int              `json:"count"`
	Users []NoPictureEntry `json:"users"`
}

var noPictureHeader = []string{
	"id",
	"name",
	"twitter_username",
	"wallet_address",
	"profile_id",
	"avatar_type",
	"avatar",
	"created_at",
}

// FilterNoPicture keeps entries lacking a real picture, preserving order.
func FilterNoPicture(entries []entity.WaitlistEntry) []NoPictureEntry {
	out := []NoPictureEntry{}
	for _, e := range entries {
		img := AvatarImage(e.Avatar)
		if !avatar.IsNoPicture(string(e.Avatar.Type), img) {
			continue
		}
		out = append(out, NoPictureEntry{
			Id:              e.Id,
			Name:            e.DisplayName,
			TwitterUsername: e.ExternalHandle.String,
			WalletAddress:   e.WalletAddress,
			ProfileId:       e.SpotIndex,
			AvatarType:      string(e.Avatar.Type),
			Avatar:          img,
			CreatedAt:       e.CreatedAt,
		})
	}
	return out
}

// WriteNoPictureCSV writes the export with every value double quoted.
func WriteNoPictureCSV(w io.Writer, entries []NoPictureEntry) error {
	bw := bufio.NewWriter(w)
	writeCSVRow(bw, noPictureHeader)
	for _, e := range entries {
		bw.WriteByte('\n')
		writeCSVRow(bw, []string{
			e.Id,
			e.Name,
			e.TwitterUsername,
			e.WalletAddress,
			strconv.Itoa(e.ProfileId),
			e.AvatarType,
			e.Avatar,
			e.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	return bw.Flush()
}

func writeCSVRow(w *bufio.Writer, values []string) {
	for i, v := range values {
		if i > 0 {
			w.WriteByte(',')
		}
		w.WriteByte('"')
		w.WriteString(strings.ReplaceAll(v, `"`, `""`))
		w.WriteByte('"')
	}
}
