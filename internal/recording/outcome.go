package recording

import (
	"fmt"

	"github.com/example/studyplan/pkg/models"
)

// Effect names a best-effort step that runs after the session is stored
type Effect string

const (
	EffectReviewAdvance Effect = "review_advance"
	EffectReviewCreate  Effect = "review_create"
	EffectPoints        Effect = "points"
	EffectStats         Effect = "stats"
	EffectLevelUp       Effect = "level_up_notify"
	EffectRoundAdvance  Effect = "round_advance"
)

// SecondaryFailure is a failed effect of an otherwise successful recording
type SecondaryFailure struct {
	Effect Effect `json:"effect"`
	Target string `json:"target,omitempty"`
	Err    error  `json:"-"`
}

func (f SecondaryFailure) Error() string {
	if f.Target != "" {
		return fmt.Sprintf("%s %s: %v", f.Effect, f.Target, f.Err)
	}
	return fmt.Sprintf("%s: %v", f.Effect, f.Err)
}

// Outcome is the result of recording or editing a session. The session is
// stored whenever an Outcome is returned; SecondaryFailures lists the effects
// that did not apply and can be retried.
type Outcome struct {
	Session           *models.StudySession `json:"session"`
	PointsAwarded     int                  `json:"points_awarded"`
	LeveledUp         bool                 `json:"leveled_up"`
	Level             int                  `json:"level"`
	ReviewsAdvanced   int                  `json:"reviews_advanced"`
	ReviewsCreated    int                  `json:"reviews_created"`
	RoundAdvanced     bool                 `json:"round_advanced"`
	SecondaryFailures []SecondaryFailure   `json:"secondary_failures,omitempty"`
}

// OK reports whether every secondary effect applied
func (o *Outcome) OK() bool {
	return len(o.SecondaryFailures) == 0
}

func (o *Outcome) fail(effect Effect, target string, err error) {
	o.SecondaryFailures = append(o.SecondaryFailures, SecondaryFailure{Effect: effect, Target: target, Err: err})
}
