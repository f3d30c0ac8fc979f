package pg

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"clubhub.org/internal/profile"
)

// ProfileStore implements profile.Service on Postgres.
type ProfileStore struct {
	db *sql.DB
}

var _ profile.Service = (*ProfileStore)(nil)

func (s *ProfileStore) Create(ctx context.Context, userID, email, fullName string) (profile.Profile, error) {
	if strings.TrimSpace(fullName) == "" {
		fullName = profile.DefaultFullName(email)
	}
	now := time.Now().UTC()

	res, err := s.db.ExecContext(ctx, `
		insert into profiles(user_id, email, full_name, role, created_at, last_login, updated_at)
		values ($1,$2,$3,$4,$5,$5,$5)
		on conflict (user_id) do nothing
	`, userID, email, fullName, profile.DefaultRole, now)
	if err != nil {
		return profile.Profile{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return profile.Profile{}, err
	}
	if affected == 0 {
		return profile.Profile{}, profile.ErrAlreadyExists
	}

	return profile.Profile{
		UserID:    userID,
		Email:     email,
		FullName:  fullName,
		Role:      profile.DefaultRole,
		Clubs:     []string{},
		CreatedAt: now,
		LastLogin: now,
		UpdatedAt: now,
	}, nil
}

func (s *ProfileStore) Get(ctx context.Context, userID string) (profile.Profile, error) {
	var p profile.Profile
	err := s.db.QueryRowContext(ctx, `
		select user_id, email, full_name, role, phone, bio, created_at, last_login, updated_at
		from profiles where user_id = $1
	`, userID).Scan(&p.UserID, &p.Email, &p.FullName, &p.Role, &p.Phone, &p.Bio,
		&p.CreatedAt, &p.LastLogin, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return profile.Profile{}, profile.ErrNotFound
	}
	if err != nil {
		return profile.Profile{}, err
	}
	p.Clubs = []string{}
	return p, nil
}

func (s *ProfileStore) Update(ctx context.Context, userID string, upd profile.Update) (profile.Profile, error) {
	res, err := s.db.ExecContext(ctx, `
		update profiles set
			full_name = coalesce(nullif($2,''), full_name),
			phone     = coalesce(nullif($3,''), phone),
			bio       = coalesce(nullif($4,''), bio),
			updated_at = $5
		where user_id = $1
	`, userID, strings.TrimSpace(upd.FullName), strings.TrimSpace(upd.Phone),
		strings.TrimSpace(upd.Bio), time.Now().UTC())
	if err != nil {
		return profile.Profile{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return profile.Profile{}, err
	}
	if affected == 0 {
		return profile.Profile{}, profile.ErrNotFound
	}
	return s.Get(ctx, userID)
}
