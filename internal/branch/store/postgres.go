package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"docroute/internal/branch/models"
	id "docroute/pkg/domain"
	"docroute/pkg/platform/sentinel"
)

// Clock supplies timestamps; injected for deterministic tests.
type Clock func() time.Time

// Postgres persists the branch directory.
type Postgres struct {
	db    *sql.DB
	clock Clock
}

// PostgresOption configures a Postgres store.
type PostgresOption func(*Postgres)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) PostgresOption {
	return func(s *Postgres) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// NewPostgres constructs a PostgreSQL-backed branch store.
func NewPostgres(db *sql.DB, opts ...PostgresOption) *Postgres {
	s := &Postgres{db: db, clock: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Postgres) Create(ctx context.Context, branch *models.Branch) error {
	query := `
		INSERT INTO branches (code, name, region_code, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query,
		int(branch.Code), branch.Name, branch.RegionCode, s.clock())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert branch: %w", err)
	}
	return nil
}

func (s *Postgres) FindByCode(ctx context.Context, code id.BranchCode) (*models.Branch, error) {
	query := `
		SELECT code, name, region_code, created_at
		FROM branches
		WHERE code = $1
	`
	branch, err := scanBranch(s.db.QueryRowContext(ctx, query, int(code)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find branch: %w", err)
	}
	return branch, nil
}

func (s *Postgres) ListAll(ctx context.Context) ([]*models.Branch, error) {
	query := `
		SELECT code, name, region_code, created_at
		FROM branches
		ORDER BY code
	`
	return s.list(ctx, query)
}

func (s *Postgres) ListByRegion(ctx context.Context, regionCode int) ([]*models.Branch, error) {
	query := `
		SELECT code, name, region_code, created_at
		FROM branches
		WHERE region_code = $1
		ORDER BY code
	`
	return s.list(ctx, query, regionCode)
}

func (s *Postgres) list(ctx context.Context, query string, args ...any) ([]*models.Branch, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", err)
	}
	defer rows.Close()

	var out []*models.Branch
	for rows.Next() {
		branch, err := scanBranch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan branch: %w", err)
		}
		out = append(out, branch)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBranch(row rowScanner) (*models.Branch, error) {
	var b models.Branch
	var code int
	if err := row.Scan(&code, &b.Name, &b.RegionCode, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.Code = id.BranchCode(code)
	return &b, nil
}
