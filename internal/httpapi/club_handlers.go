package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"clubhub.org/internal/audit"
	"clubhub.org/internal/auth"
	"clubhub.org/internal/club"
)

func (a *API) listClubs(w http.ResponseWriter, r *http.Request) {
	clubs, err := a.clubs.List(r.Context())
	if err != nil {
		writeInternal(w, err)
		return
	}
	if clubs == nil {
		clubs = []club.Club{}
	}
	writeSuccess(w, http.StatusOK, "Clubs retrieved successfully", clubs)
}

func (a *API) getClub(w http.ResponseWriter, r *http.Request) {
	c, err := a.clubs.Get(r.Context(), chi.URLParam(r, "clubID"))
	switch {
	case errors.Is(err, club.ErrNotFound):
		writeNotFound(w, "Club")
	case err != nil:
		writeInternal(w, err)
	default:
		writeSuccess(w, http.StatusOK, "Club retrieved successfully", c)
	}
}

func (a *API) createClub(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var in club.New
	if !decodeJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.ClubName) == "" {
		writeFailure(w, http.StatusBadRequest, "Club name is required")
		return
	}

	c, err := a.clubs.Create(r.Context(), id.UserID, in)
	if err != nil {
		writeInternal(w, err)
		return
	}
	_ = audit.LogEvent(r.Context(), "club.create", map[string]any{"club_id": c.ClubID})
	writeSuccess(w, http.StatusCreated, "Club created successfully", c)
}

func (a *API) updateClub(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	clubID := chi.URLParam(r, "clubID")

	var upd club.Update
	if !decodeJSON(w, r, &upd) {
		return
	}

	c, err := a.clubs.Update(r.Context(), clubID, id.UserID, upd)
	switch {
	case errors.Is(err, club.ErrNotFound):
		writeNotFound(w, "Club")
	case errors.Is(err, club.ErrNotClubAdmin):
		writeFailure(w, http.StatusForbidden, "Only club admins can update this club")
	case err != nil:
		writeInternal(w, err)
	default:
		_ = audit.LogEvent(r.Context(), "club.update", map[string]any{"club_id": c.ClubID})
		writeSuccess(w, http.StatusOK, "Club updated successfully", c)
	}
}

func (a *API) deleteClub(w http.ResponseWriter, r *http.Request) {
	clubID := chi.URLParam(r, "clubID")

	err := a.clubs.Delete(r.Context(), clubID)
	switch {
	case errors.Is(err, club.ErrNotFound):
		writeNotFound(w, "Club")
	case err != nil:
		writeInternal(w, err)
	default:
		_ = audit.LogEvent(r.Context(), "club.delete", map[string]any{"club_id": clubID})
		writeSuccess(w, http.StatusOK, "Club deleted successfully", nil)
	}
}

func (a *API) joinClub(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	clubID := chi.URLParam(r, "clubID")

	c, err := a.clubs.Join(r.Context(), clubID, id.UserID)
	switch {
	case errors.Is(err, club.ErrNotFound):
		writeNotFound(w, "Club")
	case errors.Is(err, club.ErrAlreadyMember):
		writeFailure(w, http.StatusConflict, "Already a member of this club")
	case err != nil:
		writeInternal(w, err)
	default:
		_ = audit.LogEvent(r.Context(), "club.join", map[string]any{"club_id": c.ClubID})
		writeSuccess(w, http.StatusOK, "Successfully joined the club", c)
	}
}
