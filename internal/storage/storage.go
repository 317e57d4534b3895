// Package storage provides the data persistence layer for the industry catalog.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
)

// ErrUnsupportedDriver is returned by Open for an unknown driver name.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

func (d dialect) String() string {
	if d == dialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}

// SQLStorage implements service.Storage on database/sql.
type SQLStorage struct {
	db      *sql.DB
	dialect dialect
}

// Open opens the catalog for the named driver ("sqlite3" or "postgres").
// For SQLite the source is a file path; for PostgreSQL it is a connection URL.
func Open(driver, source string) (*SQLStorage, error) {
	switch driver {
	case "sqlite3", "sqlite":
		return NewSQLiteStorage(source)
	case "postgres", "postgresql":
		return NewPostgresStorage(source)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, driver)
	}
}

// Close closes the database connection.
func (s *SQLStorage) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable.
func (s *SQLStorage) Ping(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// rebind rewrites ? placeholders to the dialect's bind syntax.
func (s *SQLStorage) rebind(query string) string {
	if s.dialect != dialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// placeholders returns "?, ?, ..." with n markers.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// isUniqueViolation reports whether err is a unique constraint failure from either driver.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	return false
}

// IsPermanent reports whether err comes from configuration or credentials and
// will not clear up by retrying.
func IsPermanent(err error) bool {
	switch {
	case errors.Is(err, ErrUnsupportedDriver),
		errors.Is(err, ErrEmptyString),
		errors.Is(err, ErrNilContext),
		errors.Is(err, ErrNilParameter):
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		// 28: invalid authorization, 3D: unknown database.
		switch pqErr.Code.Class() {
		case "28", "3D":
			return true
		}
	}

	return false
}
