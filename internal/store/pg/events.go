package pg

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"clubhub.org/internal/event"
	"clubhub.org/internal/ids"
)

// EventStore implements event.Service on Postgres. Registered users derive
// from event_registrations rows, so the event list and the registration
// record can no longer disagree; the unique key on (event_id, user_id) plus
// a row lock on the event enforce the duplicate and capacity guards under
// concurrency.
type EventStore struct {
	db *sql.DB
}

var _ event.Service = (*EventStore)(nil)

const eventColumns = `event_id, club_id, event_name, description, event_date, venue,
	max_participants, status, created_by, created_at, updated_at`

func (s *EventStore) Create(ctx context.Context, creatorID string, in event.New) (event.Event, error) {
	var clubExists bool
	if err := s.db.QueryRowContext(ctx,
		`select exists(select 1 from clubs where club_id = $1)`, in.ClubID).Scan(&clubExists); err != nil {
		return event.Event{}, err
	}
	if !clubExists {
		return event.Event{}, event.ErrClubNotFound
	}

	venue := strings.TrimSpace(in.Venue)
	if venue == "" {
		venue = event.DefaultVenue
	}
	maxParticipants := in.MaxParticipants
	if maxParticipants <= 0 {
		maxParticipants = event.DefaultMaxParticipants
	}
	id := ids.New("event")
	now := time.Now().UTC()

	if _, err := s.db.ExecContext(ctx, `
		insert into events(event_id, club_id, event_name, description, event_date, venue,
			max_participants, status, created_by, created_at, updated_at)
		values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
	`, id, in.ClubID, in.EventName, in.Description, in.Date, venue,
		maxParticipants, event.StatusUpcoming, creatorID, now); err != nil {
		return event.Event{}, err
	}

	return event.Event{
		EventID:         id,
		ClubID:          in.ClubID,
		EventName:       in.EventName,
		Description:     in.Description,
		Date:            in.Date,
		Venue:           venue,
		MaxParticipants: maxParticipants,
		RegisteredUsers: []string{},
		Status:          event.StatusUpcoming,
		CreatedBy:       creatorID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (s *EventStore) List(ctx context.Context) ([]event.Event, error) {
	return s.list(ctx, `select `+eventColumns+` from events order by event_id`)
}

func (s *EventStore) ListByClub(ctx context.Context, clubID string) ([]event.Event, error) {
	return s.list(ctx, `select `+eventColumns+` from events where club_id = $1 order by event_id`, clubID)
}

func (s *EventStore) Get(ctx context.Context, eventID string) (event.Event, error) {
	var e event.Event
	err := s.db.QueryRowContext(ctx, `select `+eventColumns+` from events where event_id = $1`, eventID).
		Scan(&e.EventID, &e.ClubID, &e.EventName, &e.Description, &e.Date, &e.Venue,
			&e.MaxParticipants, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return event.Event{}, event.ErrNotFound
	}
	if err != nil {
		return event.Event{}, err
	}

	e.RegisteredUsers, err = s.registrants(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}
	return e, nil
}

func (s *EventStore) Update(ctx context.Context, eventID string, upd event.Update) (event.Event, error) {
	res, err := s.db.ExecContext(ctx, `
		update events set
			event_name  = coalesce(nullif($2,''), event_name),
			description = coalesce(nullif($3,''), description),
			event_date  = coalesce(nullif($4,''), event_date),
			venue       = coalesce(nullif($5,''), venue),
			status      = coalesce(nullif($6,''), status),
			max_participants = case when $7 > 0 then $7 else max_participants end,
			updated_at  = $8
		where event_id = $1
	`, eventID, strings.TrimSpace(upd.EventName), strings.TrimSpace(upd.Description),
		strings.TrimSpace(upd.Date), strings.TrimSpace(upd.Venue), strings.TrimSpace(upd.Status),
		upd.MaxParticipants, time.Now().UTC())
	if err != nil {
		return event.Event{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return event.Event{}, err
	}
	if affected == 0 {
		return event.Event{}, event.ErrNotFound
	}
	return s.Get(ctx, eventID)
}

func (s *EventStore) Delete(ctx context.Context, eventID string) error {
	// Registration records are append-only and survive the event.
	res, err := s.db.ExecContext(ctx, `delete from events where event_id = $1`, eventID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return event.ErrNotFound
	}
	return nil
}

func (s *EventStore) Register(ctx context.Context, eventID, userID string) (event.Event, event.Registration, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return event.Event{}, event.Registration{}, err
	}
	defer func() { _ = tx.Rollback() }()

	// Lock the event row so concurrent registrations serialize on the
	// capacity check.
	var maxParticipants int
	err = tx.QueryRowContext(ctx,
		`select max_participants from events where event_id = $1 for update`, eventID).Scan(&maxParticipants)
	if errors.Is(err, sql.ErrNoRows) {
		return event.Event{}, event.Registration{}, event.ErrNotFound
	}
	if err != nil {
		return event.Event{}, event.Registration{}, err
	}

	var registered bool
	if err := tx.QueryRowContext(ctx, `
		select exists(select 1 from event_registrations where event_id = $1 and user_id = $2)
	`, eventID, userID).Scan(&registered); err != nil {
		return event.Event{}, event.Registration{}, err
	}
	if registered {
		return event.Event{}, event.Registration{}, event.ErrAlreadyRegistered
	}

	var count int
	if err := tx.QueryRowContext(ctx,
		`select count(*) from event_registrations where event_id = $1`, eventID).Scan(&count); err != nil {
		return event.Event{}, event.Registration{}, err
	}
	if count >= maxParticipants {
		return event.Event{}, event.Registration{}, event.ErrEventFull
	}

	now := time.Now().UTC()
	reg := event.Registration{
		RegistrationID:   ids.New("reg"),
		EventID:          eventID,
		UserID:           userID,
		RegisteredDate:   now,
		Status:           event.RegistrationConfirmed,
		AttendanceStatus: event.AttendanceNotAttended,
	}
	if _, err := tx.ExecContext(ctx, `
		insert into event_registrations(registration_id, event_id, user_id, registered_date, status, attendance_status)
		values ($1,$2,$3,$4,$5,$6)
	`, reg.RegistrationID, reg.EventID, reg.UserID, reg.RegisteredDate, reg.Status, reg.AttendanceStatus); err != nil {
		return event.Event{}, event.Registration{}, err
	}
	if _, err := tx.ExecContext(ctx,
		`update events set updated_at = $2 where event_id = $1`, eventID, now); err != nil {
		return event.Event{}, event.Registration{}, err
	}
	if err := tx.Commit(); err != nil {
		return event.Event{}, event.Registration{}, err
	}

	e, err := s.Get(ctx, eventID)
	if err != nil {
		return event.Event{}, event.Registration{}, err
	}
	return e, reg, nil
}

func (s *EventStore) list(ctx context.Context, query string, args ...any) ([]event.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		var e event.Event
		if err := rows.Scan(&e.EventID, &e.ClubID, &e.EventName, &e.Description, &e.Date, &e.Venue,
			&e.MaxParticipants, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.RegisteredUsers = []string{}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(events) == 0 {
		return events, nil
	}
	registrants, err := s.registrantLists(ctx)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if list, ok := registrants[events[i].EventID]; ok {
			events[i].RegisteredUsers = list
		}
	}
	return events, nil
}

func (s *EventStore) registrants(ctx context.Context, eventID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		select user_id from event_registrations where event_id = $1 order by registered_date, user_id
	`, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []string{}
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, err
		}
		list = append(list, userID)
	}
	return list, rows.Err()
}

func (s *EventStore) registrantLists(ctx context.Context) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		select event_id, user_id from event_registrations order by registered_date, user_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := make(map[string][]string)
	for rows.Next() {
		var eventID, userID string
		if err := rows.Scan(&eventID, &userID); err != nil {
			return nil, err
		}
		lists[eventID] = append(lists[eventID], userID)
	}
	return lists, rows.Err()
}
