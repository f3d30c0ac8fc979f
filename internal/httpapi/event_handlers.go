package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"clubhub.org/internal/audit"
	"clubhub.org/internal/auth"
	"clubhub.org/internal/event"
)

func (a *API) listEvents(w http.ResponseWriter, r *http.Request) {
	events, err := a.events.List(r.Context())
	if err != nil {
		writeInternal(w, err)
		return
	}
	if events == nil {
		events = []event.Event{}
	}
	writeSuccess(w, http.StatusOK, "Events retrieved successfully", events)
}

func (a *API) listClubEvents(w http.ResponseWriter, r *http.Request) {
	events, err := a.events.ListByClub(r.Context(), chi.URLParam(r, "clubID"))
	if err != nil {
		writeInternal(w, err)
		return
	}
	if events == nil {
		events = []event.Event{}
	}
	writeSuccess(w, http.StatusOK, "Events retrieved successfully", events)
}

func (a *API) getEvent(w http.ResponseWriter, r *http.Request) {
	e, err := a.events.Get(r.Context(), chi.URLParam(r, "eventID"))
	switch {
	case errors.Is(err, event.ErrNotFound):
		writeNotFound(w, "Event")
	case err != nil:
		writeInternal(w, err)
	default:
		writeSuccess(w, http.StatusOK, "Event retrieved successfully", e)
	}
}

func (a *API) createEvent(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())

	var in event.New
	if !decodeJSON(w, r, &in) {
		return
	}
	if strings.TrimSpace(in.ClubID) == "" || strings.TrimSpace(in.EventName) == "" ||
		strings.TrimSpace(in.Date) == "" {
		writeFailure(w, http.StatusBadRequest, "clubId, eventName, and date are required")
		return
	}

	e, err := a.events.Create(r.Context(), id.UserID, in)
	switch {
	case errors.Is(err, event.ErrClubNotFound):
		writeNotFound(w, "Club")
	case err != nil:
		writeInternal(w, err)
	default:
		_ = audit.LogEvent(r.Context(), "event.create", map[string]any{
			"event_id": e.EventID,
			"club_id":  e.ClubID,
		})
		writeSuccess(w, http.StatusCreated, "Event created successfully", e)
	}
}

func (a *API) updateEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	var upd event.Update
	if !decodeJSON(w, r, &upd) {
		return
	}

	e, err := a.events.Update(r.Context(), eventID, upd)
	switch {
	case errors.Is(err, event.ErrNotFound):
		writeNotFound(w, "Event")
	case err != nil:
		writeInternal(w, err)
	default:
		_ = audit.LogEvent(r.Context(), "event.update", map[string]any{"event_id": e.EventID})
		writeSuccess(w, http.StatusOK, "Event updated successfully", e)
	}
}

func (a *API) deleteEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventID")

	err := a.events.Delete(r.Context(), eventID)
	switch {
	case errors.Is(err, event.ErrNotFound):
		writeNotFound(w, "Event")
	case err != nil:
		writeInternal(w, err)
	default:
		_ = audit.LogEvent(r.Context(), "event.delete", map[string]any{"event_id": eventID})
		writeSuccess(w, http.StatusOK, "Event deleted successfully", nil)
	}
}

func (a *API) registerForEvent(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	eventID := chi.URLParam(r, "eventID")

	e, reg, err := a.events.Register(r.Context(), eventID, id.UserID)
	switch {
	case errors.Is(err, event.ErrNotFound):
		writeNotFound(w, "Event")
	case errors.Is(err, event.ErrAlreadyRegistered):
		writeFailure(w, http.StatusConflict, "Already registered for this event")
	case errors.Is(err, event.ErrEventFull):
		writeFailure(w, http.StatusBadRequest, "Event is full")
	case err != nil:
		writeInternal(w, err)
	default:
		_ = audit.LogEvent(r.Context(), "event.register", map[string]any{
			"event_id":        e.EventID,
			"registration_id": reg.RegistrationID,
		})
		writeSuccess(w, http.StatusOK, "Successfully registered for the event", map[string]any{
			"event":        e,
			"registration": reg,
		})
	}
}
