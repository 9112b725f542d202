package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/globelend/waitlist-manager/internal/admission"
	"github.com/globelend/waitlist-manager/internal/avatar"
	"github.com/globelend/waitlist-manager/internal/dto"
	gerr "github.com/globelend/waitlist-manager/internal/errors"
	"github.com/globelend/waitlist-manager/internal/form"
	mw "github.com/globelend/waitlist-manager/internal/middleware"
)

const (
	// bodyEnvelope is the allowance for json fields around a base64 avatar.
	bodyEnvelope = 64 << 10

	headerRateLimitRemaining = "X-RateLimit-Remaining"
)

func (s *Server) maxAvatarBytes() int {
	if s.d.MaxAvatarBytes <= 0 {
		return avatar.DefaultMaxImageBytes
	}
	return s.d.MaxAvatarBytes
}

func (s *Server) maxBodyBytes() int64 {
	// base64 grows the payload by 4/3
	return int64(s.maxAvatarBytes())/3*4 + 4 + bodyEnvelope
}

// joinWaitlist claims a spot for the authenticated caller.
func (s *Server) joinWaitlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	key := mw.GetClientKey(ctx)
	size := s.d.Capacity.Size(ctx)
	if err := s.d.Limiter.CheckAndConsume(key, size); err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set(headerRateLimitRemaining, strconv.Itoa(s.d.Limiter.GetRemaining(key, size)))

	id, err := s.d.Gate.RequireSession(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	req, err := s.decodeJoin(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.d.Admission.Admit(ctx, admission.Request{
		ExternalUserId: id.ExternalUserId,
		DisplayHandle:  id.DisplayHandle(),
		DisplayName:    req.Name,
		RawAddress:     req.WalletAddress,
		SpotIndex:      req.ProfileId,
		Avatar:         req.EntityAvatar(),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	writeJSON(w, r, status, dto.ConvertEntityEntryToDto(res.Entry))
}

func (s *Server) decodeJoin(w http.ResponseWriter, r *http.Request) (*form.JoinWaitlistRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes())

	req := &form.JoinWaitlistRequest{}
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, gerr.NewValidationError("body", fmt.Sprintf("Request body exceeds %d bytes.", tooLarge.Limit))
		}
		return nil, gerr.NewValidationError("body", "Malformed json.")
	}

	req.Normalize()
	if err := req.Validate(s.maxAvatarBytes()); err != nil {
		return nil, err
	}
	return req, nil
}

// waitlistStats returns the approximate size, the capacity and the current per-window ceiling.
func (s *Server) waitlistStats(w http.ResponseWriter, r *http.Request) {
	size := s.d.Capacity.Size(r.Context())
	writeJSON(w, r, http.StatusOK, dto.Stats{
		Size:               size,
		Capacity:           s.d.Admission.Config().MaxCapacity,
		RateLimitPerMinute: s.d.Limiter.Ceiling(size),
		Remaining:          s.d.Limiter.GetRemaining(mw.GetClientKey(r.Context()), size),
		WindowSeconds:      int(s.d.Limiter.Window().Seconds()),
		AvatarStyles:       dto.ConvertStyles(avatar.Styles()),
	})
}

type myEntryResponse struct {
	Entry *dto.Entry `json:"entry"`
}

// myEntry returns the caller's entry, or null for anonymous callers and
// users who have not joined.
func (s *Server) myEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := s.d.Gate.OptionalSession(r)
	if !ok {
		writeJSON(w, r, http.StatusOK, myEntryResponse{})
		return
	}

	e, err := s.d.Repo.Waitlist().GetEntryByExternalUserId(r.Context(), id.ExternalUserId)
	if errors.Is(err, gerr.ErrEntryNotFound) {
		writeJSON(w, r, http.StatusOK, myEntryResponse{})
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, myEntryResponse{Entry: dto.ConvertEntityEntryToDto(e)})
}

// spotsFeed lists the claimed spots for the globe.
func (s *Server) spotsFeed(w http.ResponseWriter, r *http.Request) {
	entries, err := s.d.Repo.Waitlist().ListEntries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, dto.ConvertEntriesToSpotsFeed(entries, s.d.Admission.Config().MaxSpots))
}
