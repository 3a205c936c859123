package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	repo "github.com/mamadbah2/herdwise/internal/repository/sheets"
	"github.com/mamadbah2/herdwise/internal/service/state"
)

const (
	dateLayout      = "2006-01-02"
	statsWriteRange = "Stats!A:H"
)

// SnapshotSource is the slice of the state provider the exporter needs.
type SnapshotSource interface {
	Snapshot() state.State
}

// Service exports daily farm aggregates to the reporting spreadsheet.
type Service struct {
	repo   repo.Repository
	source SnapshotSource
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(repository repo.Repository, source SnapshotSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repository, source: source, logger: logger, now: time.Now}
}

// AppendDailySnapshot writes one row of derived stats for today. If a row
// for today already exists the append is skipped, so reruns of the cron job
// stay idempotent.
func (s *Service) AppendDailySnapshot(ctx context.Context) error {
	today := s.now().UTC().Format(dateLayout)

	exists, err := s.rowExists(ctx, today)
	if err != nil {
		s.logger.Debug("duplicate check failed, appending anyway", zap.Error(err))
	}
	if exists {
		s.logger.Info("stats row already present, skipping", zap.String("date", today))
		return nil
	}

	snap := s.source.Snapshot()
	stats := snap.Stats

	row := []interface{}{
		today,
		stats.Active,
		stats.Sold,
		stats.Deceased,
		stats.TotalIncome,
		stats.TotalExpenses,
		stats.Balance,
		stats.PendingTasks,
	}

	if err := s.repo.WriteRow(ctx, statsWriteRange, row); err != nil {
		return fmt.Errorf("append stats row: %w", err)
	}

	s.logger.Info("daily stats exported",
		zap.String("date", today),
		zap.Int("active", stats.Active),
		zap.Float64("balance", stats.Balance))
	return nil
}

func (s *Service) rowExists(ctx context.Context, date string) (bool, error) {
	rows, err := s.repo.ReadRange(ctx, statsWriteRange)
	if err != nil {
		return false, err
	}

	for i := len(rows) - 1; i >= 0; i-- {
		if len(rows[i]) == 0 {
			continue
		}
		if fmt.Sprint(rows[i][0]) == date {
			return true, nil
		}
	}
	return false, nil
}
