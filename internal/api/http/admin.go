package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/globelend/waitlist-manager/internal/dto"
)

type healthResponse struct {
	Ok    bool   `json:"ok"`
	Table string `json:"table"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

// health pings the store and counts entries.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp := healthResponse{Table: "waitlist_entries"}

	err := s.d.Repo.Ping(ctx)
	if err == nil {
		resp.Count, err = s.d.Repo.Waitlist().CountEntries(ctx)
	}
	if err != nil {
		slog.Default().ErrorContext(ctx, "health check failed",
			slog.String("err", err.Error()),
		)
		resp.Error = "database unavailable"
		writeJSON(w, r, http.StatusInternalServerError, resp)
		return
	}

	resp.Ok = true
	writeJSON(w, r, http.StatusOK, resp)
}

// noPictureExport lists entries without a real profile picture as json,
// a bare count, or csv.
func (s *Server) noPictureExport(w http.ResponseWriter, r *http.Request) {
	if !s.d.Gate.AdminEnabled() {
		http.NotFound(w, r)
		return
	}
	if !s.d.Gate.IsAdmin(r) {
		writeJSON(w, r, http.StatusUnauthorized, &ErrResponse{ErrorText: "unauthorized"})
		return
	}

	entries, err := s.d.Repo.Waitlist().ListEntries(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	noPicture := dto.FilterNoPicture(entries)

	switch r.URL.Query().Get("format") {
	case "count":
		writeJSON(w, r, http.StatusOK, map[string]int{"count": len(noPicture)})
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename=users_no_pfp.csv")
		w.WriteHeader(http.StatusOK)
		if err := dto.WriteNoPictureCSV(w, noPicture); err != nil {
			slog.Default().ErrorContext(r.Context(), "can't write csv export",
				slog.String("err", err.Error()),
			)
		}
	default:
		writeJSON(w, r, http.StatusOK, dto.NoPictureReport{Count: len(noPicture), Users: noPicture})
	}
}
