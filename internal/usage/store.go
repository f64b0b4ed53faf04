package usage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/cerebro/internal/db"
	"github.com/ziadkadry99/cerebro/internal/llm"
)

// Store provides append-only persistence for usage records.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Insert appends a record. If r.ID is empty a UUID is generated; a zero
// RecordedAt is set to now.
func (s *Store) Insert(ctx context.Context, r Record) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.RecordedAt.IsZero() {
		r.RecordedAt = time.Now().UTC()
	}
	if r.Category == "" {
		r.Category = "general"
	}

	var userID sql.NullString
	if r.UserID != "" {
		userID = sql.NullString{String: r.UserID, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO usage_records (id, recorded_at, service_name, category, model,
			prompt_tokens, completion_tokens, total_tokens, response_time_ms, success, error_kind, user_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.RecordedAt.UTC().Format(time.DateTime), r.ServiceName, r.Category, r.Model,
		r.Usage.PromptTokens, r.Usage.CompletionTokens, r.Usage.TotalTokens,
		r.ResponseTimeMs, boolToInt(r.Success), r.ErrorKind, userID,
	)
	if err != nil {
		return fmt.Errorf("inserting usage record: %w", err)
	}
	return nil
}

// Recent returns the newest records, up to limit (default 50).
func (s *Store) Recent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, recorded_at, service_name, category, model, prompt_tokens, completion_tokens,
			total_tokens, response_time_ms, success, error_kind, user_id
		FROM usage_records ORDER BY recorded_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying usage records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r       Record
			ts      string
			success int
			userID  sql.NullString
		)
		if err := rows.Scan(&r.ID, &ts, &r.ServiceName, &r.Category, &r.Model,
			&r.Usage.PromptTokens, &r.Usage.CompletionTokens, &r.Usage.TotalTokens,
			&r.ResponseTimeMs, &success, &r.ErrorKind, &userID); err != nil {
			return nil, fmt.Errorf("scanning usage record: %w", err)
		}
		r.RecordedAt = parseTime(ts)
		r.Success = success == 1
		r.UserID = userID.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// Summary aggregates records per service, category and model.
func (s *Store) Summary(ctx context.Context, filter SummaryFilter) ([]SummaryRow, error) {
	var (
		where []string
		args  []any
	)
	if filter.ServiceName != "" {
		where = append(where, "service_name = ?")
		args = append(args, filter.ServiceName)
	}
	if filter.Since != nil {
		where = append(where, "recorded_at >= ?")
		args = append(args, filter.Since.UTC().Format(time.DateTime))
	}

	query := `
		SELECT service_name, category, model, COUNT(*),
			SUM(CASE WHEN success = 0 THEN 1 ELSE 0 END),
			SUM(prompt_tokens), SUM(completion_tokens), SUM(total_tokens),
			AVG(response_time_ms)
		FROM usage_records`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " GROUP BY service_name, category, model ORDER BY service_name, category, model"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("summarizing usage: %w", err)
	}
	defer rows.Close()

	var out []SummaryRow
	for rows.Next() {
		var row SummaryRow
		if err := rows.Scan(&row.ServiceName, &row.Category, &row.Model, &row.Requests, &row.Failures,
			&row.PromptTokens, &row.CompletionTokens, &row.TotalTokens, &row.AvgResponseTimeMs); err != nil {
			return nil, fmt.Errorf("scanning usage summary: %w", err)
		}
		row.EstimatedCostUSD = llm.EstimateCost(row.Model, row.PromptTokens, row.CompletionTokens)
		out = append(out, row)
	}
	return out, rows.Err()
}

func parseTime(ts string) time.Time {
	if t, err := time.Parse(time.DateTime, ts); err == nil {
		return t
	}
	if t, err := time.Parse(time.RFC3339, ts); err == nil {
		return t
	}
	return time.Time{}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
