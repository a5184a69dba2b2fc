package service

import (
	"context"
	"time"

	"github.com/guttosm/iosplus-extract/internal/domain/models"
	"github.com/guttosm/iosplus-extract/internal/storage"
)

// DefaultWindow is the listing window used when no range is given.
const DefaultWindow = 7 * 24 * time.Hour

// ExtractService defines business logic over the extract journal.
type ExtractService interface {
	ListExtracts(ctx context.Context, filter models.ExtractFilter) ([]models.ExtractRun, error)
	Ready(ctx context.Context) error
}

type extractService struct {
	repo storage.ExtractRepository
	now  func() time.Time
}

func NewExtractService(repo storage.ExtractRepository) ExtractService {
	return &extractService{repo: repo, now: time.Now}
}

// ListExtracts applies the default window and returns recorded runs.
//
// Behavior:
//   - No From and no To: the last 7 days up to today.
//   - Only To: the 7 days ending at To.
//   - Only From: From up to today.
//
// The applied bounds are written back into filter for the caller.
func (s *extractService) ListExtracts(ctx context.Context, filter models.ExtractFilter) ([]models.ExtractRun, error) {
	applyWindow(&filter, s.now())
	return s.repo.ListExtracts(ctx, filter)
}

func (s *extractService) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Window returns the bounds ListExtracts will use for from/to at now.
func Window(from, to *time.Time, now time.Time) (time.Time, time.Time) {
	f := models.ExtractFilter{From: from, To: to}
	applyWindow(&f, now)
	return *f.From, *f.To
}

func applyWindow(f *models.ExtractFilter, now time.Time) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if f.To == nil {
		f.To = &today
	}
	if f.From == nil {
		from := f.To.Add(-DefaultWindow)
		f.From = &from
	}
}
