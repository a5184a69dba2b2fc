package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	pq "github.com/lib/pq"

	"github.com/guttosm/iosplus-extract/internal/domain/models"
)

// ExtractRepository defines contract for extract_log operations.
type ExtractRepository interface {
	HasExtract(ctx context.Context, key models.ExtractKey) (bool, error)
	RecordExtract(ctx context.Context, run models.ExtractRun) error
	ListExtracts(ctx context.Context, filter models.ExtractFilter) ([]models.ExtractRun, error)
	Ping(ctx context.Context) error
}

type extractRepository struct {
	db *sql.DB
}

func NewExtractRepository(db *sql.DB) ExtractRepository {
	return &extractRepository{db: db}
}

// HasExtract checks if an extract was already recorded for a report type, date and server.
func (r *extractRepository) HasExtract(ctx context.Context, key models.ExtractKey) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM extract_log WHERE report_type = $1 AND report_date = $2 AND server = $3)`,
		int(key.ReportType), dateOnly(key.ReportDate), key.Server,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

// RecordExtract records (or replaces) the extract_log entry of a run.
func (r *extractRepository) RecordExtract(ctx context.Context, run models.ExtractRun) error {
	at := run.ExtractedAt
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO extract_log (report_type, report_date, server, filename, row_count, extracted_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (report_type, report_date, server)
		DO UPDATE SET filename = EXCLUDED.filename,
					  row_count = EXCLUDED.row_count,
					  extracted_at = EXCLUDED.extracted_at
	`, int(run.ReportType), dateOnly(run.ReportDate), run.Server, run.Filename, run.RowCount, at)
	return err
}

// ListExtracts returns recorded runs, newest report date first.
func (r *extractRepository) ListExtracts(ctx context.Context, filter models.ExtractFilter) ([]models.ExtractRun, error) {
	// Build dynamic conditions; placeholders follow the order of args.
	var conds []string
	var args []interface{}
	if len(filter.ReportTypes) > 0 {
		types := make([]int64, len(filter.ReportTypes))
		for i, t := range filter.ReportTypes {
			types[i] = int64(t)
		}
		args = append(args, pq.Array(types))
		conds = append(conds, fmt.Sprintf("report_type = ANY($%d)", len(args)))
	}
	if filter.From != nil {
		args = append(args, dateOnly(*filter.From))
		conds = append(conds, fmt.Sprintf("report_date >= $%d", len(args)))
	}
	if filter.To != nil {
		args = append(args, dateOnly(*filter.To))
		conds = append(conds, fmt.Sprintf("report_date <= $%d", len(args)))
	}

	query := `SELECT report_type, report_date, server, filename, row_count, extracted_at FROM extract_log`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY report_date DESC, report_type, server"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.ExtractRun{}
	for rows.Next() {
		var run models.ExtractRun
		var rt int
		if err := rows.Scan(&rt, &run.ReportDate, &run.Server, &run.Filename, &run.RowCount, &run.ExtractedAt); err != nil {
			return nil, err
		}
		run.ReportType = models.ReportType(rt)
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Ping verifies the database is reachable.
func (r *extractRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
