package ranges

import "github.com/example/studyplan/pkg/models"

// ExtractCompletedRanges intersects every session's explicit unit range with
// [taskStart, taskEnd]. Sessions without a range contribute nothing.
func ExtractCompletedRanges(sessions []models.StudySession, taskStart, taskEnd int) []Range {
	var out []Range
	for i := range sessions {
		s := &sessions[i]
		if !s.HasRange() {
			continue
		}
		start, end := *s.StartUnit, *s.EndUnit
		if start < taskStart {
			start = taskStart
		}
		if end > taskEnd {
			end = taskEnd
		}
		if start > end {
			continue
		}
		out = append(out, Range{Start: start, End: end})
	}
	return out
}

// CalculateCompletedUnits sums the size of already merged ranges
func CalculateCompletedUnits(merged []Range) int {
	total := 0
	for _, r := range merged {
		total += r.Len()
	}
	return total
}

// CalculateTaskProgress returns completed/total clamped to [0,1].
// A task without units counts as done.
func CalculateTaskProgress(completedUnits, totalUnits int) float64 {
	if totalUnits <= 0 {
		return 1
	}
	if completedUnits <= 0 {
		return 0
	}
	p := float64(completedUnits) / float64(totalUnits)
	if p > 1 {
		return 1
	}
	return p
}

// TaskCompletion is the completion fraction of [start, end] given a slice of sessions
func TaskCompletion(sessions []models.StudySession, start, end int) float64 {
	merged := MergeRanges(ExtractCompletedRanges(sessions, start, end))
	total := 0
	if end >= start {
		total = end - start + 1
	}
	return CalculateTaskProgress(CalculateCompletedUnits(merged), total)
}
