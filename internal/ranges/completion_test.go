package ranges

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/studyplan/pkg/models"
)

func rangedSession(start, end int) models.StudySession {
	s := models.StudySession{}
	s.SetRange(start, end)
	return s
}

func TestCalculateTaskProgress(t *testing.T) {
	assert.Equal(t, 1.0, CalculateTaskProgress(10, 10))
	assert.Equal(t, 0.5, CalculateTaskProgress(5, 10))
	assert.Equal(t, 1.0, CalculateTaskProgress(15, 10))
	assert.Equal(t, 0.0, CalculateTaskProgress(0, 10))
	assert.Equal(t, 1.0, CalculateTaskProgress(0, 0))
}

func TestExtractCompletedRanges_StaysInsideTask(t *testing.T) {
	sessions := []models.StudySession{
		rangedSession(1, 4),
		rangedSession(8, 30),
		rangedSession(40, 50),
		{UnitsCompleted: 12}, // quantity session without a range
	}

	got := ExtractCompletedRanges(sessions, 3, 20)
	assert.Equal(t, []Range{{3, 4}, {8, 20}}, got)
	for _, r := range got {
		assert.GreaterOrEqual(t, r.Start, 3)
		assert.LessOrEqual(t, r.End, 20)
	}
}

func TestCalculateCompletedUnits(t *testing.T) {
	assert.Equal(t, 0, CalculateCompletedUnits(nil))
	assert.Equal(t, 7, CalculateCompletedUnits([]Range{{1, 3}, {10, 13}}))
}

func TestTaskCompletion_OverlappingSessions(t *testing.T) {
	sessions := []models.StudySession{
		rangedSession(1, 5),
		rangedSession(4, 7),
		rangedSession(8, 8),
	}
	// 1..8 covered out of 1..10
	assert.InDelta(t, 0.8, TaskCompletion(sessions, 1, 10), 1e-9)
	assert.Equal(t, 1.0, TaskCompletion(sessions, 2, 6))
	assert.Equal(t, 0.0, TaskCompletion(nil, 2, 6))
}
