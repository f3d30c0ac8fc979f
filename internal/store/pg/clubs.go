package pg

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"clubhub.org/internal/club"
	"clubhub.org/internal/ids"
)

// ClubStore implements club.Service on Postgres. Admin and member lists live
// in club_admins / club_members rows keyed (club_id, user_id), which makes
// the join-once invariant a primary-key constraint rather than an
// application-level check.
type ClubStore struct {
	db *sql.DB
}

var _ club.Service = (*ClubStore)(nil)

func (s *ClubStore) Create(ctx context.Context, creatorID string, in club.New) (club.Club, error) {
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = club.DefaultCategory
	}
	id := ids.New("club")
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return club.Club{}, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		insert into clubs(club_id, club_name, description, category, created_by, created_at, updated_at)
		values ($1,$2,$3,$4,$5,$6,$6)
	`, id, in.ClubName, in.Description, category, creatorID, now); err != nil {
		return club.Club{}, err
	}
	if _, err := tx.ExecContext(ctx, `
		insert into club_admins(club_id, user_id, added_at) values ($1,$2,$3)
	`, id, creatorID, now); err != nil {
		return club.Club{}, err
	}
	if err := tx.Commit(); err != nil {
		return club.Club{}, err
	}

	return club.Club{
		ClubID:            id,
		ClubName:          in.ClubName,
		Description:       in.Description,
		Category:          category,
		Admins:            []string{creatorID},
		Members:           []string{},
		EventCoordinators: []string{},
		CreatedBy:         creatorID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (s *ClubStore) List(ctx context.Context) ([]club.Club, error) {
	rows, err := s.db.QueryContext(ctx, `
		select club_id, club_name, description, category, created_by, upcoming_events, created_at, updated_at
		from clubs order by club_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clubs []club.Club
	for rows.Next() {
		var c club.Club
		if err := rows.Scan(&c.ClubID, &c.ClubName, &c.Description, &c.Category,
			&c.CreatedBy, &c.UpcomingEvents, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		c.Admins = []string{}
		c.Members = []string{}
		c.EventCoordinators = []string{}
		clubs = append(clubs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	admins, err := s.memberLists(ctx, adminListsQuery)
	if err != nil {
		return nil, err
	}
	members, err := s.memberLists(ctx, memberListsQuery)
	if err != nil {
		return nil, err
	}
	for i := range clubs {
		if list, ok := admins[clubs[i].ClubID]; ok {
			clubs[i].Admins = list
		}
		if list, ok := members[clubs[i].ClubID]; ok {
			clubs[i].Members = list
		}
		clubs[i].TotalMembers = len(clubs[i].Members)
	}
	return clubs, nil
}

func (s *ClubStore) Get(ctx context.Context, clubID string) (club.Club, error) {
	var c club.Club
	err := s.db.QueryRowContext(ctx, `
		select club_id, club_name, description, category, created_by, upcoming_events, created_at, updated_at
		from clubs where club_id = $1
	`, clubID).Scan(&c.ClubID, &c.ClubName, &c.Description, &c.Category,
		&c.CreatedBy, &c.UpcomingEvents, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return club.Club{}, club.ErrNotFound
	}
	if err != nil {
		return club.Club{}, err
	}

	c.Admins, err = s.memberList(ctx, adminListQuery, clubID)
	if err != nil {
		return club.Club{}, err
	}
	c.Members, err = s.memberList(ctx, memberListQuery, clubID)
	if err != nil {
		return club.Club{}, err
	}
	c.EventCoordinators = []string{}
	c.TotalMembers = len(c.Members)
	return c, nil
}

func (s *ClubStore) Update(ctx context.Context, clubID, callerID string, upd club.Update) (club.Club, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return club.Club{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var dummy int
	err = tx.QueryRowContext(ctx, `select 1 from clubs where club_id = $1 for update`, clubID).Scan(&dummy)
	if errors.Is(err, sql.ErrNoRows) {
		return club.Club{}, club.ErrNotFound
	}
	if err != nil {
		return club.Club{}, err
	}

	var isAdmin bool
	if err := tx.QueryRowContext(ctx, `
		select exists(select 1 from club_admins where club_id = $1 and user_id = $2)
	`, clubID, callerID).Scan(&isAdmin); err != nil {
		return club.Club{}, err
	}
	if !isAdmin {
		return club.Club{}, club.ErrNotClubAdmin
	}

	if _, err := tx.ExecContext(ctx, `
		update clubs set
			club_name   = coalesce(nullif($2,''), club_name),
			description = coalesce(nullif($3,''), description),
			category    = coalesce(nullif($4,''), category),
			updated_at  = $5
		where club_id = $1
	`, clubID, strings.TrimSpace(upd.ClubName), strings.TrimSpace(upd.Description),
		strings.TrimSpace(upd.Category), time.Now().UTC()); err != nil {
		return club.Club{}, err
	}
	if err := tx.Commit(); err != nil {
		return club.Club{}, err
	}
	return s.Get(ctx, clubID)
}

func (s *ClubStore) Delete(ctx context.Context, clubID string) error {
	res, err := s.db.ExecContext(ctx, `delete from clubs where club_id = $1`, clubID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return club.ErrNotFound
	}
	return nil
}

func (s *ClubStore) Join(ctx context.Context, clubID, userID string) (club.Club, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return club.Club{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var dummy int
	err = tx.QueryRowContext(ctx, `select 1 from clubs where club_id = $1 for update`, clubID).Scan(&dummy)
	if errors.Is(err, sql.ErrNoRows) {
		return club.Club{}, club.ErrNotFound
	}
	if err != nil {
		return club.Club{}, err
	}

	// The primary key on (club_id, user_id) makes the append conditional;
	// two concurrent joins for different users both land, a duplicate is
	// reported without changing the list.
	res, err := tx.ExecContext(ctx, `
		insert into club_members(club_id, user_id, joined_at)
		values ($1,$2,$3)
		on conflict (club_id, user_id) do nothing
	`, clubID, userID, time.Now().UTC())
	if err != nil {
		return club.Club{}, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return club.Club{}, err
	}
	if affected == 0 {
		return club.Club{}, club.ErrAlreadyMember
	}

	if _, err := tx.ExecContext(ctx, `update clubs set updated_at = $2 where club_id = $1`,
		clubID, time.Now().UTC()); err != nil {
		return club.Club{}, err
	}
	if err := tx.Commit(); err != nil {
		return club.Club{}, err
	}
	return s.Get(ctx, clubID)
}

// ClubExists satisfies the event package's club directory.
func (s *ClubStore) ClubExists(ctx context.Context, clubID string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `select exists(select 1 from clubs where club_id = $1)`, clubID).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

const (
	adminListQuery  = `select user_id from club_admins where club_id = $1 order by added_at, user_id`
	memberListQuery = `select user_id from club_members where club_id = $1 order by joined_at, user_id`

	adminListsQuery  = `select club_id, user_id from club_admins order by added_at, user_id`
	memberListsQuery = `select club_id, user_id from club_members order by joined_at, user_id`
)

func (s *ClubStore) memberList(ctx context.Context, query, clubID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, clubID)
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

func (s *ClubStore) memberLists(ctx context.Context, query string) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lists := make(map[string][]string)
	for rows.Next() {
		var clubID, userID string
		if err := rows.Scan(&clubID, &userID); err != nil {
			return nil, err
		}
		lists[clubID] = append(lists[clubID], userID)
	}
	return lists, rows.Err()
}
