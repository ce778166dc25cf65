package excel

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/example/studyplan/pkg/models"
)

// sessionSheet is the default sheet of a new workbook
const sessionSheet = "Sheet1"

var sessionHeader = []interface{}{
	"Date", "Plan", "Intent", "Start", "End", "Units", "Minutes", "Concentration", "Difficulty", "Round",
}

// ExportSessions writes sessions as an xlsx workbook with one row per session.
// plans resolves plan ids to titles; unknown plans show their id.
func ExportSessions(w io.Writer, sessions []models.StudySession, plans map[string]*models.StudyPlan) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(sessionSheet, "A1", &sessionHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, s := range sessions {
		title := s.PlanID
		if p, ok := plans[s.PlanID]; ok && p.Title != "" {
			title = p.Title
		}
		var start, end interface{}
		if s.HasRange() {
			start, end = *s.StartUnit, *s.EndUnit
		}
		row := []interface{}{
			s.Date.Format(dateLayout), title, string(s.Intent), start, end,
			s.UnitsCompleted, s.DurationMinutes, s.Concentration, s.DifficultyRating, s.Round,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sessionSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
