package database

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLAdapter implements DB on top of a stdlib *sql.DB. Repository tests
// drive it with go-sqlmock; it also lets the migration runner share one
// handle with the repositories.
type SQLAdapter struct {
	db *sql.DB
}

func NewSQLAdapter(db *sql.DB) *SQLAdapter {
	return &SQLAdapter{db: db}
}

func (a *SQLAdapter) Ping(ctx context.Context) error {
	if a == nil || a.db == nil {
		return fmt.Errorf("nil db")
	}
	return a.db.PingContext(ctx)
}

func (a *SQLAdapter) Close() error {
	if a == nil || a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *SQLAdapter) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if a == nil || a.db == nil {
		return 0, fmt.Errorf("nil db")
	}
	res, err := a.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (a *SQLAdapter) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	if a == nil || a.db == nil {
		return nil, fmt.Errorf("nil db")
	}
	r, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows: r}, nil
}

func (a *SQLAdapter) QueryRow(ctx context.Context, query string, args ...any) Row {
	if a == nil || a.db == nil {
		return errRow{}
	}
	return a.db.QueryRowContext(ctx, query, args...)
}

func (a *SQLAdapter) Begin(ctx context.Context) (Tx, error) {
	if a == nil || a.db == nil {
		return nil, fmt.Errorf("nil db")
	}
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return sqlTx{tx: tx}, nil
}

func (a *SQLAdapter) SQLDB() *sql.DB {
	if a == nil {
		return nil
	}
	return a.db
}

type sqlTx struct {
	tx *sql.Tx
}

func (t sqlTx) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (t sqlTx) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	r, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return sqlRows{rows: r}, nil
}

func (t sqlTx) QueryRow(ctx context.Context, query string, args ...any) Row {
	return t.tx.QueryRowContext(ctx, query, args...)
}

func (t sqlTx) Commit(ctx context.Context) error {
	return t.tx.Commit()
}

func (t sqlTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback()
}

type sqlRows struct {
	rows *sql.Rows
}

func (r sqlRows) Close() {
	_ = r.rows.Close()
}

func (r sqlRows) Next() bool {
	return r.rows.Next()
}

func (r sqlRows) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

func (r sqlRows) Err() error {
	return r.rows.Err()
}

type errRow struct{}

func (errRow) Scan(_ ...any) error {
	return fmt.Errorf("nil db")
}
