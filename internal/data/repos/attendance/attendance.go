package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dowhat/dowhat-backend/internal/domain/reliability"
	"github.com/dowhat/dowhat-backend/internal/pkg/logger"
)

// Repo aggregates attendance history and peer reviews into the windowed
// counts the reliability scorer consumes.
type Repo interface {
	WindowCounts(ctx context.Context, userID uuid.UUID, since time.Time) (reliability.MetricsWindow, error)
	ReviewAggregate(ctx context.Context, userID uuid.UUID, since time.Time) (reliability.ReviewAggregate, error)
	HostedCount(ctx context.Context, userID uuid.UUID, since time.Time) (int, error)
	LastEventAt(ctx context.Context, userID uuid.UUID) (*time.Time, error)
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, baseLog *logger.Logger) Repo {
	return &repo{db: db, log: baseLog.With("repo", "AttendanceRepo")}
}

type windowRow struct {
	Attended    int `gorm:"column:attended"`
	NoShows     int `gorm:"column:no_shows"`
	LateCancels int `gorm:"column:late_cancels"`
	Excused     int `gorm:"column:excused"`
	OnTime      int `gorm:"column:on_time"`
	Late        int `gorm:"column:late"`
}

func (r *repo) WindowCounts(ctx context.Context, userID uuid.UUID, since time.Time) (reliability.MetricsWindow, error) {
	var row windowRow
	err := r.db.WithContext(ctx).
		Raw(`
			SELECT
				COUNT(*) FILTER (WHERE status = 'attended')                AS attended,
				COUNT(*) FILTER (WHERE status = 'no_show')                 AS no_shows,
				COUNT(*) FILTER (WHERE status = 'late_cancel')             AS late_cancels,
				COUNT(*) FILTER (WHERE status = 'excused')                 AS excused,
				COUNT(*) FILTER (WHERE punctuality = 'on_time')            AS on_time,
				COUNT(*) FILTER (WHERE punctuality = 'late')               AS late
			FROM attendance_event
			WHERE user_id = ? AND occurred_at >= ?`, userID, since).
		Scan(&row).Error
	if err != nil {
		return reliability.MetricsWindow{}, err
	}
	return reliability.MetricsWindow{
		Attended:    row.Attended,
		NoShows:     row.NoShows,
		LateCancels: row.LateCancels,
		Excused:     row.Excused,
		OnTime:      row.OnTime,
		Late:        row.Late,
	}, nil
}

type reviewRow struct {
	WeightedAverage   float64 `gorm:"column:weighted_average"`
	Count             int     `gorm:"column:review_count"`
	DistinctReviewers int     `gorm:"column:distinct_reviewers"`
}

func (r *repo) ReviewAggregate(ctx context.Context, userID uuid.UUID, since time.Time) (reliability.ReviewAggregate, error) {
	var row reviewRow
	err := r.db.WithContext(ctx).
		Raw(`
			SELECT
				COALESCE(AVG(rating), 0)     AS weighted_average,
				COUNT(*)                     AS review_count,
				COUNT(DISTINCT reviewer_id)  AS distinct_reviewers
			FROM venue_review
			WHERE reviewee_id = ? AND created_at >= ?`, userID, since).
		Scan(&row).Error
	if err != nil {
		return reliability.ReviewAggregate{}, err
	}
	return reliability.ReviewAggregate{
		WeightedAverage:   row.WeightedAverage,
		Count:             row.Count,
		DistinctReviewers: row.DistinctReviewers,
	}, nil
}

func (r *repo) HostedCount(ctx context.Context, userID uuid.UUID, since time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&reliability.AttendanceEvent{}).
		Where("user_id = ? AND hosted = TRUE AND occurred_at >= ?", userID, since).
		Count(&count).Error
	return int(count), err
}

func (r *repo) LastEventAt(ctx context.Context, userID uuid.UUID) (*time.Time, error) {
	var event reliability.AttendanceEvent
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("occurred_at DESC").
		First(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &event.OccurredAt, nil
}
