package recording

import "github.com/example/studyplan/pkg/models"

// SessionIntent says what a recorded session completed. It is either
// ReviewIntent or LearningIntent; a nil intent records learning.
type SessionIntent interface {
	kind() models.SessionIntent
}

// ReviewIntent completes review work. ItemIDs are the exact review items the
// session covers; when empty, due items inside the session range are used.
type ReviewIntent struct {
	ItemIDs []string
}

func (ReviewIntent) kind() models.SessionIntent { return models.IntentReview }

// LearningIntent studies units of the plan for the first time in this round
type LearningIntent struct{}

func (LearningIntent) kind() models.SessionIntent { return models.IntentLearning }

func intentKind(i SessionIntent) models.SessionIntent {
	if i == nil {
		return models.IntentLearning
	}
	return i.kind()
}

func reviewItemIDs(i SessionIntent) []string {
	if r, ok := i.(ReviewIntent); ok {
		return r.ItemIDs
	}
	if r, ok := i.(*ReviewIntent); ok && r != nil {
		return r.ItemIDs
	}
	return nil
}
