package reliability

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusAttended   = "attended"
	StatusNoShow     = "no_show"
	StatusLateCancel = "late_cancel"
	StatusExcused    = "excused"

	PunctualityOnTime = "on_time"
	PunctualityLate   = "late"
)

// AttendanceEvent is the source-of-truth row the trailing windows are
// aggregated from.
type AttendanceEvent struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;column:user_id;index" json:"user_id"`
	ActivityID  uuid.UUID `gorm:"type:uuid;not null;column:activity_id" json:"activity_id"`
	Status      string    `gorm:"not null;column:status" json:"status"`
	Punctuality string    `gorm:"column:punctuality" json:"punctuality"`
	Hosted      bool      `gorm:"column:hosted" json:"hosted"`
	OccurredAt  time.Time `gorm:"not null;column:occurred_at;index" json:"occurred_at"`
}

func (AttendanceEvent) TableName() string { return "attendance_event" }

// VenueReview is a peer star rating left for a user after a session.
type VenueReview struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	RevieweeID uuid.UUID `gorm:"type:uuid;not null;column:reviewee_id;index" json:"reviewee_id"`
	ReviewerID uuid.UUID `gorm:"type:uuid;not null;column:reviewer_id" json:"reviewer_id"`
	ActivityID uuid.UUID `gorm:"type:uuid;not null;column:activity_id" json:"activity_id"`
	Rating     float64   `gorm:"not null;column:rating" json:"rating"`
	Comment    string    `gorm:"column:comment" json:"comment"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (VenueReview) TableName() string { return "venue_review" }

// MetricsWindow holds attendance counts for one trailing period (30 or 90
// days) for one user. It is a derived aggregate, recomputable at any time.
type MetricsWindow struct {
	Attended    int `json:"attended"`
	NoShows     int `json:"no_shows"`
	LateCancels int `json:"late_cancels"`
	Excused     int `json:"excused"`
	OnTime      int `json:"on_time"`
	Late        int `json:"late"`
	Reviews     int `json:"reviews,omitempty"`
}

// TotalActivities is the four-way activity sum used by the attendance score
// denominator and the confidence volume term.
func (w MetricsWindow) TotalActivities() int {
	return w.Attended + w.NoShows + w.LateCancels + w.Excused
}

// ReviewAggregate is the pre-aggregated peer review signal for one user.
type ReviewAggregate struct {
	WeightedAverage   float64 `json:"weighted_average"`
	Count             int     `json:"count"`
	DistinctReviewers int     `json:"distinct_reviewers"`
}

// ScoreComponents exposes the sub-scores the final fusion was built from.
// RS is nil when fewer than two reviews exist.
type ScoreComponents struct {
	AS30      float64  `json:"AS_30"`
	AS90      float64  `json:"AS_90"`
	RS        *float64 `json:"RS"`
	HostBonus float64  `json:"host_bonus"`
}

// ScoreResult is the bounded reliability score with its confidence estimate.
type ScoreResult struct {
	Score      float64         `json:"score"`
	Confidence float64         `json:"confidence"`
	Components ScoreComponents `json:"components"`
}
