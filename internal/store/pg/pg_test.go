package pg

import (
	"context"
	"errors"
	"reflect"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"clubhub.org/internal/club"
	"clubhub.org/internal/event"
	"clubhub.org/internal/profile"
)

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db), mock
}

func TestProfileGetNotFound(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("from profiles where user_id = $1")).
		WithArgs("user-missing").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	_, err := store.Profiles().Get(context.Background(), "user-missing")
	if !errors.Is(err, profile.ErrNotFound) {
		t.Fatalf("expected profile.ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProfileCreateConflict(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("insert into profiles")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := store.Profiles().Create(context.Background(), "user-1", "jo@example.com", "")
	if !errors.Is(err, profile.ErrAlreadyExists) {
		t.Fatalf("expected profile.ErrAlreadyExists, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestClubDeleteNotFound(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta("delete from clubs where club_id = $1")).
		WithArgs("club-missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.Clubs().Delete(context.Background(), "club-missing")
	if !errors.Is(err, club.ErrNotFound) {
		t.Fatalf("expected club.ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestClubGetAssemblesMemberLists(t *testing.T) {
	store, mock := newMock(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("from clubs where club_id = $1")).
		WithArgs("club-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"club_id", "club_name", "description", "category", "created_by",
			"upcoming_events", "created_at", "updated_at",
		}).AddRow("club-1", "Chess Club", "", "General", "admin-1", 0, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("select user_id from club_admins where club_id = $1")).
		WithArgs("club-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("admin-1"))
	mock.ExpectQuery(regexp.QuoteMeta("select user_id from club_members where club_id = $1")).
		WithArgs("club-1").
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow("member-1").AddRow("member-2"))

	c, err := store.Clubs().Get(context.Background(), "club-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !reflect.DeepEqual(c.Admins, []string{"admin-1"}) {
		t.Fatalf("admins = %v", c.Admins)
	}
	if !reflect.DeepEqual(c.Members, []string{"member-1", "member-2"}) || c.TotalMembers != 2 {
		t.Fatalf("members = %v totalMembers = %d", c.Members, c.TotalMembers)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestClubJoinDuplicateRollsBack(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("select 1 from clubs where club_id = $1 for update")).
		WithArgs("club-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("insert into club_members")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := store.Clubs().Join(context.Background(), "club-1", "user-1")
	if !errors.Is(err, club.ErrAlreadyMember) {
		t.Fatalf("expected club.ErrAlreadyMember, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEventCreateMissingClub(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("select exists(select 1 from clubs where club_id = $1)")).
		WithArgs("club-missing").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err := store.Events().Create(context.Background(), "user-1", event.New{
		ClubID:    "club-missing",
		EventName: "Demo Night",
		Date:      "2026-10-01",
	})
	if !errors.Is(err, event.ErrClubNotFound) {
		t.Fatalf("expected event.ErrClubNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestEventRegisterFullRollsBack(t *testing.T) {
	store, mock := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("select max_participants from events where event_id = $1 for update")).
		WithArgs("event-1").
		WillReturnRows(sqlmock.NewRows([]string{"max_participants"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta("select exists(select 1 from event_registrations")).
		WithArgs("event-1", "user-3").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(regexp.QuoteMeta("select count(*) from event_registrations where event_id = $1")).
		WithArgs("event-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectRollback()

	_, _, err := store.Events().Register(context.Background(), "event-1", "user-3")
	if !errors.Is(err, event.ErrEventFull) {
		t.Fatalf("expected event.ErrEventFull, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
