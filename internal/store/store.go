package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mind-engage/mindengage-quiz/internal/db"
)

var (
	ErrNotFound             = errors.New("store: not found")
	ErrUsernameTaken        = errors.New("store: username already taken")
	ErrInvalidCredentials   = errors.New("store: invalid username or password")
	ErrDuplicateTopic       = errors.New("store: topic title already used")
	ErrDuplicateQuestionSet = errors.New("store: question set description already used in topic")
)

// SQLStore persists users, topics, question sets and questions. All
// multi-row writes run in one transaction.
type SQLStore struct {
	db *db.DB
}

func New(d *db.DB) *SQLStore { return &SQLStore{db: d} }

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (s *SQLStore) withTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return db.WithTx(ctx, s.db, fn)
}
