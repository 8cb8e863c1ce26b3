package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/soundline/catalog-sync/pkg/types"
)

const defaultPoolSize = 10

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
//
// TODO(test): PostgresStore methods require live Postgres, tested via integration tests.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	if cfg.MaxConns == 0 {
		cfg.MaxConns = defaultPoolSize
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := RunMigrations(ctx, s.pool)
	return err
}

// InsertSyncRun records the start of a run and returns its ID.
func (s *PostgresStore) InsertSyncRun(ctx context.Context, fileName string) (string, error) {
	var id string
	if err := s.pool.QueryRow(ctx, queryInsertSyncRun, fileName).Scan(&id); err != nil {
		return "", fmt.Errorf("inserting sync run: %w", err)
	}
	return id, nil
}

// CompleteSyncRun finalizes a run with its status and summary.
func (s *PostgresStore) CompleteSyncRun(
	ctx context.Context,
	id string,
	status string,
	errText string,
	summary domain.RunSummary,
) error {
	args := pgx.NamedArgs{
		"id":             id,
		"status":         status,
		"error_text":     errText,
		"records_total":  summary.RecordsTotal,
		"created":        summary.Created,
		"updated":        summary.Updated,
		"skipped":        summary.Skipped,
		"failed":         summary.Failed,
		"cache_degraded": summary.CacheDegraded,
	}

	tag, err := s.pool.Exec(ctx, queryCompleteSyncRun, args)
	if err != nil {
		return fmt.Errorf("completing sync run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// GetSyncRun retrieves one run by ID.
func (s *PostgresStore) GetSyncRun(ctx context.Context, id string) (*domain.SyncRun, error) {
	run, err := scanSyncRun(s.pool.QueryRow(ctx, queryGetSyncRun, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting sync run: %w", err)
	}
	return run, nil
}

// ListSyncRuns returns the most recent runs, newest first.
func (s *PostgresStore) ListSyncRuns(ctx context.Context, limit int) ([]domain.SyncRun, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.pool.Query(ctx, queryListSyncRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("querying sync runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.SyncRun
	for rows.Next() {
		run, err := scanSyncRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sync run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sync runs: %w", err)
	}

	return runs, nil
}

// InsertMatchResults persists a batch of results for one run.
func (s *PostgresStore) InsertMatchResults(
	ctx context.Context,
	runID string,
	results []domain.MatchResult,
) error {
	batch := &pgx.Batch{}
	for i := range results {
		r := &results[i]

		var matchedID, matchedName string
		if r.Matched != nil {
			matchedID = r.Matched.ID
			matchedName = r.Matched.Name
		}

		batch.Queue(queryInsertMatchResult, pgx.NamedArgs{
			"run_id":       runID,
			"source_row":   r.Record.SourceRow,
			"record_name":  r.Record.Name,
			"record_model": r.Record.Model,
			"record_sku":   r.Record.SKU,
			"record_price": r.Record.PriceRaw,
			"matched_id":   matchedID,
			"matched_name": matchedName,
			"match_type":   string(r.MatchType),
			"confidence":   r.ConfidenceScore,
			"tier":         string(r.ConfidenceTier),
			"action":       string(r.Action),
			"price_delta":  r.PriceDelta,
			"issues":       r.Issues,
		})
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range results {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("inserting match result: %w", err)
		}
	}
	return nil
}

// ListMatchResults queries results for one run with optional filters,
// returning rows and the total count before limiting.
func (s *PostgresStore) ListMatchResults(
	ctx context.Context,
	runID string,
	opts *ResultQuery,
) ([]domain.StoredMatch, int, error) {
	if opts == nil {
		opts = &ResultQuery{}
	}

	where := []string{"run_id = $1"}
	args := []any{runID}

	if opts.Action != nil {
		args = append(args, *opts.Action)
		where = append(where, "action = $"+strconv.Itoa(len(args)))
	}
	if opts.MatchType != nil {
		args = append(args, *opts.MatchType)
		where = append(where, "match_type = $"+strconv.Itoa(len(args)))
	}

	whereSQL := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := s.pool.QueryRow(ctx, queryCountMatchResultsPrefix+whereSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting match results: %w", err)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit)
	limitSQL := " ORDER BY source_row ASC LIMIT $" + strconv.Itoa(len(args))
	args = append(args, opts.Offset)
	limitSQL += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.pool.Query(ctx, queryListMatchResultsPrefix+whereSQL+limitSQL, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying match results: %w", err)
	}
	defer rows.Close()

	var matches []domain.StoredMatch
	for rows.Next() {
		var m domain.StoredMatch
		if err := rows.Scan(
			&m.ID, &m.RunID, &m.SourceRow, &m.RecordName,
			&m.RecordModel, &m.RecordSKU, &m.RecordPrice,
			&m.MatchedID, &m.MatchedName,
			&m.MatchType, &m.Confidence, &m.Tier, &m.Action,
			&m.PriceDelta, &m.Issues, &m.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scanning match result: %w", err)
		}
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating match results: %w", err)
	}

	return matches, total, nil
}

func scanSyncRun(row pgx.Row) (*domain.SyncRun, error) {
	run := &domain.SyncRun{}
	err := row.Scan(
		&run.ID, &run.FileName, &run.Status, &run.ErrorText,
		&run.Summary.RecordsTotal, &run.Summary.Created, &run.Summary.Updated,
		&run.Summary.Skipped, &run.Summary.Failed, &run.Summary.CacheDegraded,
		&run.StartedAt, &run.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return run, nil
}
