package reliability

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dowhat/dowhat-backend/internal/data/repos/attendance"
	types "github.com/dowhat/dowhat-backend/internal/domain/reliability"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

const (
	shortWindowDays = 30
	longWindowDays  = 90
)

// Service assembles the windowed aggregates for one user and scores them.
// The same unit backs the on-demand endpoint and the nightly aggregation.
type Service struct {
	log  *logger.Logger
	repo attendance.Repo
	now  func() time.Time
}

func NewService(log *logger.Logger, repo attendance.Repo) *Service {
	return &Service{
		log:  log.With("service", "ReliabilityService"),
		repo: repo,
		now:  time.Now,
	}
}

// ScoreUser computes the current reliability score for a user from trailing
// 30/90 day attendance windows and the 90-day review aggregate.
func (s *Service) ScoreUser(ctx context.Context, userID uuid.UUID) (*types.ScoreResult, error) {
	now := s.now()
	since30 := now.AddDate(0, 0, -shortWindowDays)
	since90 := now.AddDate(0, 0, -longWindowDays)

	w30, err := s.repo.WindowCounts(ctx, userID, since30)
	if err != nil {
		return nil, fmt.Errorf("30d window: %w", err)
	}
	w90, err := s.repo.WindowCounts(ctx, userID, since90)
	if err != nil {
		return nil, fmt.Errorf("90d window: %w", err)
	}

	review, err := s.repo.ReviewAggregate(ctx, userID, since90)
	if err != nil {
		return nil, fmt.Errorf("review aggregate: %w", err)
	}
	hosted, err := s.repo.HostedCount(ctx, userID, since90)
	if err != nil {
		return nil, fmt.Errorf("hosted count: %w", err)
	}
	lastEventAt, err := s.repo.LastEventAt(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("last event: %w", err)
	}

	var daysSinceLast *float64
	if lastEventAt != nil {
		days := now.Sub(*lastEventAt).Hours() / 24
		if days < 0 {
			days = 0
		}
		daysSinceLast = &days
	}

	// Negative counts would be a store-level corruption; the formulas treat
	// non-negative inputs as a precondition, so clamp here at the boundary.
	result := ComputeScore(Inputs{
		Window30:           clampWindow(w30),
		Window90:           clampWindow(w90),
		Review:             &review,
		HostedEvents90:     hosted,
		DaysSinceLastEvent: daysSinceLast,
	})
	return &result, nil
}

func clampWindow(w types.MetricsWindow) types.MetricsWindow {
	clampInt := func(v int) int {
		if v < 0 {
			return 0
		}
		return v
	}
	return types.MetricsWindow{
		Attended:    clampInt(w.Attended),
		NoShows:     clampInt(w.NoShows),
		LateCancels: clampInt(w.LateCancels),
		Excused:     clampInt(w.Excused),
		OnTime:      clampInt(w.OnTime),
		Late:        clampInt(w.Late),
		Reviews:     clampInt(w.Reviews),
	}
}
