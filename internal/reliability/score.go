package reliability

import (
	"math"

	types "github.com/dowhat/dowhat-backend/internal/domain/reliability"
)

// Fixed weights of the scoring formulas. The recency blend weights sum to 1.
const (
	NoShowWeight     = 0.6
	LateCancelWeight = 0.25
	RecencyBlend30   = 0.6
	RecencyBlend90   = 0.4

	// ReviewScoreMinCount is the sample floor below which the review score
	// is nil and the final score degenerates to attendance only.
	ReviewScoreMinCount = 2

	// MaxHostBonus caps the flat bonus for hosting events.
	MaxHostBonus = 5.0

	reviewFusionWeight = 0.25
	attendanceFusion   = 0.75

	confidenceBase          = 0.25
	confidenceVolumeWeight  = 0.35
	confidenceReviewWeight  = 0.20
	confidenceDiverseWeight = 0.10
	confidenceRecencyWeight = 0.10

	recencyDecayDays = 21.0
)

// Inputs carries the pre-aggregated signals for one user. Counts must be
// non-negative; the formulas do not validate, callers clamp at the boundary.
type Inputs struct {
	Window30           types.MetricsWindow
	Window90           types.MetricsWindow
	Review             *types.ReviewAggregate
	HostedEvents90     int
	DaysSinceLastEvent *float64
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// AttendanceScore maps one window's counts to a bounded 0..100 sub-score:
// the attendance rate as a base, penalized for no-shows and late cancels,
// adjusted by punctuality in the -5..+5 range.
func AttendanceScore(w types.MetricsWindow) float64 {
	totalActs := w.TotalActivities()
	attendanceRate := ratio(w.Attended, totalActs)
	noShowRate := ratio(w.NoShows, w.Attended+w.NoShows)
	lateCancelRate := ratio(w.LateCancels, totalActs)
	punctuality := ratio(w.OnTime, w.OnTime+w.Late)

	base := 100 * attendanceRate
	penalty := 100 * (NoShowWeight*noShowRate + LateCancelWeight*lateCancelRate)
	punctualityAdj := 10 * (punctuality - 0.5)

	return clamp(base-penalty+punctualityAdj, 0, 100)
}

// ReviewScore maps a 1..5 star weighted average linearly onto 0..100. It is
// nil below the review sample floor or when the average itself is absent.
func ReviewScore(weightedAverage float64, count int) *float64 {
	if count < ReviewScoreMinCount || weightedAverage == 0 {
		return nil
	}
	rs := clamp(25*(weightedAverage-1), 0, 100)
	return &rs
}

// Confidence estimates how much signal backs a score, from activity volume,
// review volume, reviewer diversity and recency of the last event.
func Confidence(total90Activities, reviewCount90, distinctReviewers int, daysSinceLastEvent *float64) float64 {
	vol := clamp(float64(total90Activities)/10, 0, 1)
	rev := clamp(float64(reviewCount90)/5, 0, 1)
	div := clamp(float64(distinctReviewers)/3, 0, 1)
	rec := 0.0
	if daysSinceLastEvent != nil {
		rec = math.Exp(-*daysSinceLastEvent / recencyDecayDays)
	}
	return clamp(confidenceBase+
		confidenceVolumeWeight*vol+
		confidenceReviewWeight*rev+
		confidenceDiverseWeight*div+
		confidenceRecencyWeight*rec, 0, 1)
}

// ComputeScore fuses the attendance and review sub-scores into the final
// bounded reliability score with its confidence estimate.
func ComputeScore(in Inputs) types.ScoreResult {
	as30 := AttendanceScore(in.Window30)
	as90 := AttendanceScore(in.Window90)
	as := RecencyBlend30*as30 + RecencyBlend90*as90

	var rs *float64
	reviewCount := 0
	distinctReviewers := 0
	if in.Review != nil {
		rs = ReviewScore(in.Review.WeightedAverage, in.Review.Count)
		reviewCount = in.Review.Count
		distinctReviewers = in.Review.DistinctReviewers
	}

	score := as
	if rs != nil {
		score = attendanceFusion*as + reviewFusionWeight**rs
	}

	hosted := in.HostedEvents90
	if hosted < 0 {
		hosted = 0
	}
	hostBonus := math.Min(MaxHostBonus, 2*float64(hosted))
	score = clamp(score+hostBonus, 0, 100)

	return types.ScoreResult{
		Score:      score,
		Confidence: Confidence(in.Window90.TotalActivities(), reviewCount, distinctReviewers, in.DaysSinceLastEvent),
		Components: types.ScoreComponents{
			AS30:      as30,
			AS90:      as90,
			RS:        rs,
			HostBonus: hostBonus,
		},
	}
}
