package spaced_repetition

import (
	"sort"
	"time"

	"github.com/example/studyplan/pkg/models"
)

// SM2 implements the SuperMemo-2 algorithm for spaced repetition
type SM2 struct {
	// Lowest quality that counts as a successful recall
	PassThreshold int
	// Upper bound for the review interval in days
	MaxInterval int
	// Fixed intervals in days for the first repetitions
	InitialIntervals []int
}

// DefaultEaseFactor is the ease factor of a newly created item
const DefaultEaseFactor = 2.5

// MinEaseFactor keeps intervals from collapsing
const MinEaseFactor = 1.3

// NewSM2 creates a new SM2 instance with default settings
func NewSM2() *SM2 {
	return &SM2{
		PassThreshold:    3,
		MaxInterval:      365,
		InitialIntervals: []int{1, 2, 3, 7, 10, 15, 20, 30},
	}
}

// QualityResponse represents the quality of response in SM-2
type QualityResponse int

const (
	// Complete blackout, unable to recall
	QualityBlackout QualityResponse = 0
	// Incorrect response but remembered upon seeing the correct answer
	QualityIncorrect QualityResponse = 1
	// Incorrect response but the correct answer felt familiar
	QualityIncorrectFamiliar QualityResponse = 2
	// Correct response but required significant effort
	QualityCorrectDifficult QualityResponse = 3
	// Correct response after some hesitation
	QualityCorrectHesitation QualityResponse = 4
	// Perfect response with no hesitation
	QualityPerfect QualityResponse = 5
)

// QualityFromDifficulty maps a session difficulty rating (1 easy .. 5 hard)
// to a recall quality: clamp(6 - rating, 0, 5).
func QualityFromDifficulty(rating int) QualityResponse {
	q := 6 - rating
	if q < 0 {
		q = 0
	}
	if q > 5 {
		q = 5
	}
	return QualityResponse(q)
}

// Process applies one review of the given quality at time now
func (sm *SM2) Process(item *models.ReviewItem, quality QualityResponse, now time.Time) {
	item.LastReviewDate = now
	item.LastQuality = int(quality)

	q := float64(quality)
	newEF := item.EaseFactor + (0.1 - (5.0-q)*(0.08+(5.0-q)*0.02))
	if newEF < MinEaseFactor {
		newEF = MinEaseFactor
	}
	item.EaseFactor = newEF

	if int(quality) >= sm.PassThreshold {
		var nextInterval int
		if item.Repetitions < len(sm.InitialIntervals) {
			nextInterval = sm.InitialIntervals[item.Repetitions]
		} else {
			nextInterval = int(float64(item.IntervalDays) * item.EaseFactor)
		}
		if nextInterval > sm.MaxInterval {
			nextInterval = sm.MaxInterval
		}
		item.IntervalDays = nextInterval
		item.Repetitions++
	} else {
		// Failed recall: back to tomorrow. Repetitions are kept for statistics.
		item.IntervalDays = 1
	}

	item.NextReviewDate = now.AddDate(0, 0, item.IntervalDays)
}

// Prioritize orders due items for working through them, never-reviewed and
// hardest first, then most overdue, and keeps at most limit of them.
func (sm *SM2) Prioritize(items []models.ReviewItem, limit int) []models.ReviewItem {
	due := append([]models.ReviewItem(nil), items...)

	sort.SliceStable(due, func(i, j int) bool {
		// Never-reviewed items first
		if (due[i].Repetitions == 0) != (due[j].Repetitions == 0) {
			return due[i].Repetitions == 0
		}
		if due[i].EaseFactor != due[j].EaseFactor {
			return due[i].EaseFactor < due[j].EaseFactor
		}
		return due[i].NextReviewDate.Before(due[j].NextReviewDate)
	})

	if limit > 0 && len(due) > limit {
		return due[:limit]
	}
	return due
}

// IsMastered reports whether a unit is considered learned:
// five or more repetitions, last quality 4+, interval of at least 30 days.
func (sm *SM2) IsMastered(item *models.ReviewItem) bool {
	return item.Repetitions >= 5 &&
		item.LastQuality >= int(QualityCorrectHesitation) &&
		item.IntervalDays >= 30
}
