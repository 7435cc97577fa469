package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"

	"devconnect/internal/database"
	"devconnect/internal/domain/user"
)

func newMockRepo(t *testing.T) (*PostgresUserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresUserRepository(database.NewSQLAdapter(db)), mock
}

func userColumns() []string {
	return []string{"id", "name", "email", "password_hash", "avatar", "created_at", "updated_at"}
}

func TestUserCreate(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectExec(`INSERT INTO users`).
		WithArgs(id, "Alice", "alice@example.com", "hash", "//avatar").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), user.User{
		ID: id, Name: "Alice", Email: "alice@example.com",
		PasswordHash: "hash", Avatar: "//avatar",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUserGetByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT id, name, email, password_hash, avatar, created_at, updated_at\s+FROM users WHERE email`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()).
			AddRow(id.String(), "Alice", "alice@example.com", "hash", "//avatar", now, now))

	u, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if u.ID != id || u.Name != "Alice" || u.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUserGetByEmailNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT id, name, email, password_hash, avatar, created_at, updated_at\s+FROM users WHERE email`).
		WithArgs("nobody@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns()))

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected user.ErrNotFound, got %v", err)
	}
}

func TestUserExistsByEmail(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.ExistsByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("ExistsByEmail: %v", err)
	}
	if !ok {
		t.Fatal("expected true")
	}
}

func TestUserDeleteTransactional(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM profiles WHERE user_id`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM users WHERE id`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := repo.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestUserDeleteMissingRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM profiles WHERE user_id`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM users WHERE id`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := repo.Delete(context.Background(), id); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected user.ErrNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
