package store

// SQL query constants organized by entity.
// All SQL lives here; PostgresStore methods reference these constants.

// Sync run queries.
const (
	queryInsertSyncRun = `
		INSERT INTO sync_runs (file_name, status, started_at)
		VALUES ($1, 'running', now())
		RETURNING id`

	queryCompleteSyncRun = `
		UPDATE sync_runs SET
			status = @status,
			error_text = @error_text,
			records_total = @records_total,
			created = @created,
			updated = @updated,
			skipped = @skipped,
			failed = @failed,
			cache_degraded = @cache_degraded,
			completed_at = now()
		WHERE id = @id`

	queryGetSyncRun = `
		SELECT id, file_name, status, COALESCE(error_text, ''),
			records_total, created, updated, skipped, failed, cache_degraded,
			started_at, completed_at
		FROM sync_runs
		WHERE id = $1`

	queryListSyncRuns = `
		SELECT id, file_name, status, COALESCE(error_text, ''),
			records_total, created, updated, skipped, failed, cache_degraded,
			started_at, completed_at
		FROM sync_runs
		ORDER BY started_at DESC
		LIMIT $1`
)

// Match result queries.
const (
	queryInsertMatchResult = `
		INSERT INTO match_results (
			run_id, source_row, record_name, record_model, record_sku, record_price,
			matched_id, matched_name, match_type, confidence, tier, action,
			price_delta, issues, created_at
		) VALUES (
			@run_id, @source_row, @record_name, @record_model, @record_sku, @record_price,
			@matched_id, @matched_name, @match_type, @confidence, @tier, @action,
			@price_delta, @issues, now()
		)`

	queryListMatchResultsPrefix = `
		SELECT id, run_id, source_row, record_name,
			COALESCE(record_model, ''), COALESCE(record_sku, ''), COALESCE(record_price, ''),
			COALESCE(matched_id, ''), COALESCE(matched_name, ''),
			match_type, confidence, tier, action, price_delta, issues, created_at
		FROM match_results`

	queryCountMatchResultsPrefix = `SELECT COUNT(*) FROM match_results`
)
