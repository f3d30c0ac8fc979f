package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"clubhub.org/internal/audit"
	"clubhub.org/internal/auth"
	"clubhub.org/internal/profile"
)

type createProfileRequest struct {
	UserID   string `json:"userId"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

func (a *API) createProfile(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.Email) == "" {
		writeFailure(w, http.StatusBadRequest, "userId and email are required")
		return
	}

	p, err := a.profiles.Create(r.Context(), req.UserID, req.Email, req.FullName)
	switch {
	case errors.Is(err, profile.ErrAlreadyExists):
		writeFailure(w, http.StatusConflict, "User profile already exists")
	case err != nil:
		writeInternal(w, err)
	default:
		_ = audit.LogEvent(r.Context(), "profile.create", map[string]any{"user_id": p.UserID})
		writeSuccess(w, http.StatusCreated, "User profile created successfully", p)
	}
}

func (a *API) getProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	p, err := a.profiles.Get(r.Context(), id.UserID)
	switch {
	case errors.Is(err, profile.ErrNotFound):
		writeNotFound(w, "User profile")
	case err != nil:
		writeInternal(w, err)
	default:
		writeSuccess(w, http.StatusOK, "User profile retrieved successfully", p)
	}
}

func (a *API) updateProfile(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var upd profile.Update
	if !decodeJSON(w, r, &upd) {
		return
	}

	p, err := a.profiles.Update(r.Context(), id.UserID, upd)
	switch {
	case errors.Is(err, profile.ErrNotFound):
		writeNotFound(w, "User profile")
	case err != nil:
		writeInternal(w, err)
	default:
		_ = audit.LogEvent(r.Context(), "profile.update", map[string]any{"user_id": p.UserID})
		writeSuccess(w, http.StatusOK, "User profile updated successfully", p)
	}
}
