package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
)

// DefaultPostgresTable holds one row per code.
const DefaultPostgresTable = "icd10cm_codes"

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// PostgresSource answers lookups from a table with code and name columns.
type PostgresSource struct {
	db    *sqlx.DB
	query string
}

type codeRow struct {
	Code string         `db:"code"`
	Name sql.NullString `db:"name"`
}

// OpenPostgres connects to dsn through the pgx driver and checks the
// connection.
func OpenPostgres(ctx context.Context, dsn, table string) (*PostgresSource, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, errors.New("postgres dsn required")
	}
	query, err := lookupQuery(table)
	if err != nil {
		return nil, err
	}

	db, err := sqlx.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(2)
	db.SetConnMaxIdleTime(time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, DefaultLookupTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &PostgresSource{db: db, query: query}, nil
}

// NewPostgresSource wraps an open database handle.
func NewPostgresSource(db *sqlx.DB, table string) (*PostgresSource, error) {
	if db == nil {
		return nil, errors.New("postgres handle is nil")
	}
	query, err := lookupQuery(table)
	if err != nil {
		return nil, err
	}
	return &PostgresSource{db: db, query: query}, nil
}

func lookupQuery(table string) (string, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		table = DefaultPostgresTable
	}
	if !tableNamePattern.MatchString(table) {
		return "", fmt.Errorf("invalid postgres table name %q", table)
	}
	return fmt.Sprintf("SELECT code, name FROM %s WHERE code = $1 LIMIT 1", table), nil
}

// Lookup selects the row for code.
func (s *PostgresSource) Lookup(ctx context.Context, code string) (Entry, error) {
	if s == nil || s.db == nil {
		return Entry{}, errors.New("postgres source not initialised")
	}
	var row codeRow
	if err := s.db.GetContext(ctx, &row, s.query, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Entry{}, fmt.Errorf("%s: %w", code, ErrNotFound)
		}
		return Entry{}, fmt.Errorf("select code: %w", err)
	}
	return Entry{Code: row.Code, Name: row.Name.String}, nil
}

// Close releases the connection pool.
func (s *PostgresSource) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
