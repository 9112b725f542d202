package form

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/asaskevich/govalidator"
	v "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/unicode/norm"

	"github.com/globelend/waitlist-manager/internal/address"
	"github.com/globelend/waitlist-manager/internal/avatar"
	"github.com/globelend/waitlist-manager/internal/entity"
)

// MaxNameLength bounds display names in characters.
const MaxNameLength = 255

// JoinWaitlistRequest is the body of a claim request.
type JoinWaitlistRequest struct {
	Name          string `json:"name"`
	WalletAddress string `json:"walletAddress"`
	Avatar        string `json:"avatar"`
	AvatarType    string `json:"avatarType"`
	AvatarSeed    string `json:"avatarSeed,omitempty"`
	AvatarStyle   string `json:"avatarStyle,omitempty"`
	ProfileId     int    `json:"profileId"`
}

// Normalize trims free text fields and puts the name in NFC form.
func (r *JoinWaitlistRequest) Normalize() {
	r.Name = norm.NFC.String(strings.TrimSpace(r.Name))
	r.WalletAddress = strings.TrimSpace(r.WalletAddress)
	r.Avatar = strings.TrimSpace(r.Avatar)
	r.AvatarSeed = strings.TrimSpace(r.AvatarSeed)
	r.AvatarStyle = strings.TrimSpace(r.AvatarStyle)
}

// Validate checks the request shape. Inline images larger than
// maxAvatarBytes once decoded are rejected.
func (r *JoinWaitlistRequest) Validate(maxAvatarBytes int) error {
	if maxAvatarBytes <= 0 {
		maxAvatarBytes = avatar.DefaultMaxImageBytes
	}
	upload := r.AvatarType == string(entity.AvatarUpload)
	seeded := r.AvatarType == string(entity.AvatarSeed)

	return ValidateStruct(r,
		v.Field(&r.Name, v.Required.Error("name is required"), v.RuneLength(1, MaxNameLength)),
		v.Field(&r.WalletAddress, v.By(validateWalletAddress)),
		v.Field(&r.ProfileId, v.Required.Error("profile id is required"), v.Min(1)),
		v.Field(&r.AvatarType,
			v.Required,
			v.In(string(entity.AvatarUpload), string(entity.AvatarSeed)).Error("must be upload or avatar_seed"),
		),
		v.Field(&r.Avatar,
			v.When(upload, v.Required.Error("avatar image is required"), v.By(uploadedImage(maxAvatarBytes))),
			v.When(seeded, v.By(r.generatedEcho)),
		),
		v.Field(&r.AvatarSeed,
			v.When(upload, v.Empty.Error("must be empty for uploaded avatars")),
			v.When(seeded, v.Required.Error("avatar seed is required"), v.RuneLength(1, avatar.MaxSeedLength)),
		),
		v.Field(&r.AvatarStyle,
			v.When(upload, v.Empty.Error("must be empty for uploaded avatars")),
			v.When(seeded, v.By(validateStyle)),
		),
	)
}

// EntityAvatar returns the single avatar representation to persist.
// Call only after Validate succeeded.
func (r *JoinWaitlistRequest) EntityAvatar() entity.Avatar {
	if r.AvatarType == string(entity.AvatarSeed) {
		style, _ := avatar.ParseStyle(r.AvatarStyle)
		return entity.Avatar{
			Type:  entity.AvatarSeed,
			Seed:  sql.NullString{String: r.AvatarSeed, Valid: true},
			Style: sql.NullString{String: string(style), Valid: true},
		}
	}
	return entity.Avatar{
		Type:  entity.AvatarUpload,
		Image: sql.NullString{String: r.Avatar, Valid: true},
	}
}

func validateWalletAddress(value interface{}) error {
	s, _ := value.(string)
	res := address.Validate(s)
	if !res.Valid {
		return errors.New(res.Reason)
	}
	return nil
}

func validateStyle(value interface{}) error {
	s, _ := value.(string)
	if _, ok := avatar.ParseStyle(s); !ok {
		return fmt.Errorf("unknown avatar style %q", s)
	}
	return nil
}

func uploadedImage(maxBytes int) v.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		switch {
		case avatar.IsDataURI(s):
			if !govalidator.IsDataURI(s) {
				return errors.New("invalid base64 image")
			}
			n, err := avatar.DataURISize(s)
			if err != nil {
				return err
			}
			if n > maxBytes {
				return fmt.Errorf("image exceeds %d bytes", maxBytes)
			}
		case avatar.IsHTTPURL(s):
			if len(s) > avatar.MaxImageURLLength || !govalidator.IsURL(s) {
				return errors.New("invalid image url")
			}
		default:
			return errors.New("must be a data URI or an http(s) URL")
		}
		return nil
	}
}

// generatedEcho allows a generated avatar request to carry the rendered URL
// of that same avatar and nothing else.
func (r *JoinWaitlistRequest) generatedEcho(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	style, ok := avatar.ParseStyle(r.AvatarStyle)
	if !ok || s != avatar.URL(r.AvatarSeed, style) {
		return errors.New("must be empty or the generated avatar url")
	}
	return nil
}
