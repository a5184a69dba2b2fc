// Package extract runs one report extraction end to end: session setup,
// paginated fetch, reference-data enrichment, file output and teardown.
package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guttosm/iosplus-extract/internal/domain/models"
	"github.com/guttosm/iosplus-extract/internal/export"
	"github.com/guttosm/iosplus-extract/internal/fetch"
	"github.com/guttosm/iosplus-extract/internal/logger"
	"github.com/guttosm/iosplus-extract/internal/mapper"
	"github.com/guttosm/iosplus-extract/internal/refdata"
	"github.com/guttosm/iosplus-extract/internal/remote"
	"github.com/guttosm/iosplus-extract/internal/session"
)

var (
	ErrOuterLogin = errors.New("identity session login failed")
	ErrInnerLogin = errors.New("service session login failed")
)

// State is the position of a run in its lifecycle.
type State int

const (
	Uninitialized State = iota
	OuterSessionEstablished
	InnerSessionEstablished
	Fetching
	Enriching
	Writing
	Complete
	Aborted
	Skipped
)

var stateNames = [...]string{
	"uninitialized",
	"outer_session_established",
	"inner_session_established",
	"fetching",
	"enriching",
	"writing",
	"complete",
	"aborted",
	"skipped",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("state(%d)", int(s))
	}
	return stateNames[s]
}

// Config describes one run.
type Config struct {
	ReportType models.ReportType
	ReportDate time.Time
	OutputDir  string
	Server     string
	// RequestTimeout is sent in every data request header.
	RequestTimeout time.Duration
	BatchSize      int
	Parallel       int
	// Force re-extracts even when the journal already has the report.
	Force bool
}

// Journal records produced extracts. Optional.
type Journal interface {
	HasExtract(ctx context.Context, key models.ExtractKey) (bool, error)
	RecordExtract(ctx context.Context, run models.ExtractRun) error
}

// Outcome summarizes a finished run.
type Outcome struct {
	State State
	File  string
	Rows  int
}

// Runner executes extract runs.
type Runner struct {
	client   remote.Client
	sessions *session.Manager
	exporter export.Exporter
	journal  Journal
	cfg      Config
	now      func() time.Time
}

// NewRunner wires a Runner. journal may be nil.
func NewRunner(client remote.Client, sessions *session.Manager, exp export.Exporter, cfg Config, journal Journal) *Runner {
	return &Runner{
		client:   client,
		sessions: sessions,
		exporter: exp,
		journal:  journal,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Run performs one extraction.
//
// Behavior:
//   - Skips (State Skipped) when the journal already holds the extract and
//     Force is not set.
//   - Opens the identity session, then the service session. A failed inner
//     login has already logged the outer session out when it returns.
//   - Once both sessions exist they are always closed, inner first, even
//     if ctx is cancelled.
//   - Fetches the configured report, enriches every row with SEDOL/ISIN
//     and writes the output file atomically.
//
// Returns:
//   - Outcome: final state, output path and row count
//   - error: ErrOuterLogin/ErrInnerLogin wrapping the remote cause, or the
//     fetch, enrichment or write error
func (r *Runner) Run(ctx context.Context) (Outcome, error) {
	out := Outcome{State: Uninitialized}
	log := logger.L().With().
		Str("report_type", r.cfg.ReportType.String()).
		Str("report_date", r.cfg.ReportDate.Format("2006-01-02")).
		Str("server", r.cfg.Server).
		Logger()

	key := models.ExtractKey{ReportType: r.cfg.ReportType, ReportDate: r.cfg.ReportDate, Server: r.cfg.Server}
	if r.journal != nil && !r.cfg.Force {
		exists, err := r.journal.HasExtract(ctx, key)
		if err != nil {
			out.State = Aborted
			return out, fmt.Errorf("check extract log: %w", err)
		}
		if exists {
			log.Info().Bool("skipped", true).Msg("extract already produced")
			out.State = Skipped
			return out, nil
		}
	}

	start := time.Now()
	log.Info().Msg("extract start")

	outer := r.sessions.LoginOuter(ctx)
	if !outer.OK() {
		log.Error().Err(outer.Err).Msg("identity login failed")
		out.State = Aborted
		return out, fmt.Errorf("%w: %w", ErrOuterLogin, outer.Err)
	}
	sess := models.Sessions{Outer: outer.Session}
	out.State = OuterSessionEstablished

	inner := r.sessions.LoginInner(ctx, sess.Outer)
	if !inner.OK() {
		log.Error().Err(inner.Err).Msg("service login failed")
		out.State = Aborted
		return out, fmt.Errorf("%w: %w", ErrInnerLogin, inner.Err)
	}
	sess.Inner = inner.Session
	out.State = InnerSessionEstablished

	defer r.teardown(context.WithoutCancel(ctx), sess)

	var err error
	switch r.cfg.ReportType {
	case models.Trades:
		from, to := dayRange(r.cfg.ReportDate)
		p := remote.TradeGetByUserParams{TradeDateTimeFrom: from, TradeDateTimeTo: to}
		err = run(ctx, r, sess, &out, "TradeGetByUser", func(ctx context.Context, h remote.Header) (*remote.Response[models.TradeRow], error) {
			return r.client.TradeGetByUser(ctx, p, h)
		})
	case models.AuditTrail:
		from, to := dayRange(r.cfg.ReportDate)
		p := remote.AuditTrailGetByUserParams{AuditLogDateTimeFrom: from, AuditLogDateTimeTo: to}
		err = run(ctx, r, sess, &out, "AuditTrailGetByUser", func(ctx context.Context, h remote.Header) (*remote.Response[models.AuditTrailRow], error) {
			return r.client.AuditTrailGetByUser(ctx, p, h)
		})
	case models.OrderSearch:
		from, to := dayRange(r.cfg.ReportDate)
		p := remote.OrderSearchGetByUserParams{DateTimeFrom: from, DateTimeTo: to}
		err = run(ctx, r, sess, &out, "OrderSearchGetByUser", func(ctx context.Context, h remote.Header) (*remote.Response[models.OrderSearchRow], error) {
			return r.client.OrderSearchGetByUser(ctx, p, h)
		})
	default:
		err = fmt.Errorf("unknown report type %s", r.cfg.ReportType)
	}
	if err != nil {
		log.Error().Str("stage", out.State.String()).Err(err).Msg("extract failed")
		out.State = Aborted
		return out, err
	}

	out.State = Complete
	log.Info().Str("file", out.File).Int("rows", out.Rows).Dur("elapsed", time.Since(start)).Msg("extract done")

	if r.journal != nil {
		rec := models.ExtractRun{
			ReportType:  key.ReportType,
			ReportDate:  key.ReportDate,
			Server:      key.Server,
			Filename:    filepath.Base(out.File),
			RowCount:    out.Rows,
			ExtractedAt: r.now(),
		}
		if err := r.journal.RecordExtract(context.WithoutCancel(ctx), rec); err != nil {
			log.Warn().Err(err).Msg("record extract log failed")
		}
	}
	return out, nil
}

// run drives the Fetching, Enriching and Writing stages for one row type.
func run[R models.RawRow](
	ctx context.Context,
	r *Runner,
	sess models.Sessions,
	out *Outcome,
	op string,
	call func(context.Context, remote.Header) (*remote.Response[R], error),
) error {
	schema, err := mapper.For(r.cfg.ReportType)
	if err != nil {
		return err
	}

	out.State = Fetching
	h := remote.Header{
		ServiceSessionKey: string(sess.Inner),
		Updates:           false,
		RequestID:         uuid.NewString(),
		Timeout:           int(r.cfg.RequestTimeout / time.Second),
	}
	rows, err := fetch.All[R](ctx, op, func(ctx context.Context) (*remote.Response[R], error) {
		return call(ctx, h)
	})
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	logger.L().Info().Str("op", op).Str("request_id", h.RequestID).Int("rows", len(rows)).Msg("report fetched")

	out.State = Enriching
	cache := refdata.New(refdata.RemoteFetcher(r.client, sess.Outer, r.cfg.RequestTimeout), r.cfg.BatchSize, r.cfg.Parallel)
	if err := cache.Populate(ctx, DistinctKeys(rows)); err != nil {
		return fmt.Errorf("enrich: %w", err)
	}
	recs := make([]mapper.Record, 0, len(rows))
	for i, row := range rows {
		var ref models.ReferenceData
		if k, ok := row.SecurityKey(); ok {
			ref, _ = cache.Lookup(k)
		}
		rec, err := schema.Map(row, ref)
		if err != nil {
			return fmt.Errorf("map row %d: %w", i+1, err)
		}
		recs = append(recs, rec)
	}

	out.State = Writing
	if err := os.MkdirAll(r.cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(r.cfg.OutputDir, FileName(r.cfg.ReportType, r.cfg.ReportDate, r.cfg.Server, r.now(), r.exporter.Ext()))
	if err := export.WriteFile(r.exporter, path, schema, recs); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	out.File, out.Rows = path, len(recs)
	return nil
}

func (r *Runner) teardown(ctx context.Context, sess models.Sessions) {
	if err := r.sessions.LogoutInner(ctx, sess.Inner); err != nil {
		logger.L().Warn().Err(err).Msg("service session logout failed")
	}
	if err := r.sessions.LogoutOuter(ctx, sess.Outer); err != nil {
		logger.L().Warn().Err(err).Msg("identity session logout failed")
	}
}

// DistinctKeys returns the security keys of rows in first-seen order.
// Rows without both a security code and an exchange are skipped.
func DistinctKeys[R models.RawRow](rows []R) []models.SecurityKey {
	seen := make(map[models.SecurityKey]struct{})
	var out []models.SecurityKey
	for _, row := range rows {
		k, ok := row.SecurityKey()
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	return out
}

// FileName builds "{type}_extract_for_{yyyyMMdd}_{server}_at_{HHmmss}.{ext}".
// The server name is lower-cased.
func FileName(t models.ReportType, date time.Time, server string, at time.Time, ext string) string {
	return fmt.Sprintf("%s_extract_for_%s_%s_at_%s.%s",
		t, date.Format("20060102"), strings.ToLower(server), at.Format("150405"), ext)
}

// dayRange returns 00:00:00 and 23:59:59 of date.
func dayRange(date time.Time) (string, string) {
	y, m, d := date.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, date.Location())
	to := time.Date(y, m, d, 23, 59, 59, 0, date.Location())
	return from.Format(remote.DateTimeLayout), to.Format(remote.DateTimeLayout)
}
