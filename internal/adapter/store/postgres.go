package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/worklens/worklens/internal/domain"
	"github.com/worklens/worklens/internal/port"
)

// PostgresStore handles all relational database operations.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// --- Repositories ---

// FindRepository resolves a repository by name.
func (s *PostgresStore) FindRepository(ctx context.Context, name string) (*domain.Repository, error) {
	query := `SELECT id, name, created_at FROM repositories WHERE name = $1`

	var r domain.Repository
	err := s.db.QueryRowContext(ctx, query, name).Scan(&r.ID, &r.Name, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrRepoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find repository: %w", err)
	}
	return &r, nil
}

// ListRepositories returns all tracked repositories, newest first.
func (s *PostgresStore) ListRepositories(ctx context.Context) ([]domain.Repository, error) {
	query := `SELECT id, name, created_at FROM repositories ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list repositories: %w", err)
	}
	defer rows.Close()

	var repos []domain.Repository
	for rows.Next() {
		var r domain.Repository
		if err := rows.Scan(&r.ID, &r.Name, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan repository: %w", err)
		}
		repos = append(repos, r)
	}
	return repos, rows.Err()
}

// --- Commits ---

const commitColumns = `id, repository_id, hash, subject, COALESCE(category, ''), weight, created_at`

func scanCommits(rows *sql.Rows) ([]domain.Commit, error) {
	var commits []domain.Commit
	for rows.Next() {
		var c domain.Commit
		if err := rows.Scan(
			&c.ID, &c.RepositoryID, &c.Hash, &c.Subject, &c.Category, &c.Weight, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan commit: %w", err)
		}
		commits = append(commits, c)
	}
	return commits, rows.Err()
}

// ListCommits returns every commit, optionally scoped to one repository,
// oldest first.
func (s *PostgresStore) ListCommits(ctx context.Context, repoID string) ([]domain.Commit, error) {
	query := `SELECT ` + commitColumns + ` FROM commits`
	args := []interface{}{}
	if repoID != "" {
		query += ` WHERE repository_id = $1`
		args = append(args, repoID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list commits: %w", err)
	}
	defer rows.Close()

	return scanCommits(rows)
}

// ListUncategorized returns commits with no category yet, optionally scoped
// to one repository.
func (s *PostgresStore) ListUncategorized(ctx context.Context, repoID string) ([]domain.Commit, error) {
	query := `SELECT ` + commitColumns + ` FROM commits WHERE category IS NULL`
	args := []interface{}{}
	if repoID != "" {
		query += ` AND repository_id = $1`
		args = append(args, repoID)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list uncategorized commits: %w", err)
	}
	defer rows.Close()

	return scanCommits(rows)
}

// --- Categories ---

// ListCategories returns all categories ordered by name.
func (s *PostgresStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query := `SELECT name, weight, usage_count, created_at, updated_at
	          FROM categories ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.Name, &c.Weight, &c.UsageCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

// GetCategory returns one category by name.
func (s *PostgresStore) GetCategory(ctx context.Context, name string) (*domain.Category, error) {
	query := `SELECT name, weight, usage_count, created_at, updated_at
	          FROM categories WHERE name = $1`

	var c domain.Category
	err := s.db.QueryRowContext(ctx, query, name).Scan(
		&c.Name, &c.Weight, &c.UsageCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get category: %w", err)
	}
	return &c, nil
}

// SetCategoryWeight updates a category's administrator-set weight and
// returns the updated row.
func (s *PostgresStore) SetCategoryWeight(ctx context.Context, name string, weight int) (*domain.Category, error) {
	query := `UPDATE categories SET weight = $1, updated_at = NOW()
	          WHERE name = $2
	          RETURNING name, weight, usage_count, created_at, updated_at`

	var c domain.Category
	err := s.db.QueryRowContext(ctx, query, weight, name).Scan(
		&c.Name, &c.Weight, &c.UsageCount, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrCategoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set category weight: %w", err)
	}
	return &c, nil
}

// CategoryTally splits a category's commits by weight state relative to
// targetWeight: out-of-sync (positive weight that differs), in-sync, and
// reverted (zero weight, off-limits to synchronization).
func (s *PostgresStore) CategoryTally(ctx context.Context, name string, targetWeight int, repoID string) (domain.CategoryTally, error) {
	query := `SELECT
	            COUNT(*) FILTER (WHERE weight > 0 AND weight <> $2),
	            COUNT(*) FILTER (WHERE weight > 0 AND weight = $2),
	            COUNT(*) FILTER (WHERE weight = 0)
	          FROM commits WHERE category = $1`
	args := []interface{}{name, targetWeight}
	if repoID != "" {
		query += ` AND repository_id = $3`
		args = append(args, repoID)
	}

	var t domain.CategoryTally
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&t.OutOfSync, &t.InSync, &t.Reverted)
	if err != nil {
		return domain.CategoryTally{}, fmt.Errorf("tally category: %w", err)
	}
	return t, nil
}

// --- Audit Logs ---

// WriteAudit records an administrative action.
func (s *PostgresStore) WriteAudit(ctx context.Context, actor, action, resource, resourceID, detail string) error {
	query := `INSERT INTO audit_logs (actor, action, resource, resource_id, detail)
	          VALUES ($1, $2, $3, $4, $5::jsonb)`
	_, err := s.db.ExecContext(ctx, query, actor, action, resource, resourceID, detail)
	return err
}

// ListAuditLogs returns recent audit logs with an optional action filter.
func (s *PostgresStore) ListAuditLogs(ctx context.Context, limit int, action string) ([]domain.AuditLog, error) {
	query := `SELECT id, actor, action, resource, resource_id, COALESCE(detail::text, '{}'), created_at
	          FROM audit_logs`
	args := []interface{}{}
	argIdx := 1

	if action != "" {
		query += fmt.Sprintf(" WHERE action = $%d", argIdx)
		args = append(args, action)
		argIdx++
	}

	query += " ORDER BY created_at DESC"

	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.AuditLog
	for rows.Next() {
		var l domain.AuditLog
		if err := rows.Scan(
			&l.ID, &l.Actor, &l.Action, &l.Resource, &l.ResourceID, &l.Detail, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

// --- Transactions ---

// Begin opens the write transaction a live pass wraps its mutations in.
func (s *PostgresStore) Begin(ctx context.Context) (port.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &pgTx{tx: tx}, nil
}

type pgTx struct {
	tx *sql.Tx
}

func (t *pgTx) SetCommitCategory(ctx context.Context, commitID, category string) error {
	query := `UPDATE commits SET category = $1 WHERE id = $2`
	_, err := t.tx.ExecContext(ctx, query, category, commitID)
	return err
}

func (t *pgTx) SetCommitWeight(ctx context.Context, commitID string, weight int) error {
	query := `UPDATE commits SET weight = $1 WHERE id = $2`
	_, err := t.tx.ExecContext(ctx, query, weight, commitID)
	return err
}

// BumpCategoryUsage inserts a category with usage_count=1 or atomically
// increments the counter. The atomic upsert is load-bearing: concurrent
// extractor runs must not lose updates.
func (t *pgTx) BumpCategoryUsage(ctx context.Context, name string) error {
	query := `INSERT INTO categories (name, weight, usage_count)
	          VALUES ($1, $2, 1)
	          ON CONFLICT (name) DO UPDATE SET
	              usage_count = categories.usage_count + 1,
	              updated_at = NOW()`
	_, err := t.tx.ExecContext(ctx, query, name, domain.WeightMax)
	return err
}

func (t *pgTx) ApplyCategoryWeight(ctx context.Context, name string, weight int, repoID string) (int64, error) {
	query := `UPDATE commits SET weight = $1
	          WHERE category = $2 AND weight > 0 AND weight <> $1`
	args := []interface{}{weight, name}
	if repoID != "" {
		query += ` AND repository_id = $3`
		args = append(args, repoID)
	}

	res, err := t.tx.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (t *pgTx) Commit() error {
	return t.tx.Commit()
}

func (t *pgTx) Rollback() error {
	return t.tx.Rollback()
}
