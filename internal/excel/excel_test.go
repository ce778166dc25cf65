package excel

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/studyplan/internal/database"
	"github.com/example/studyplan/internal/logger"
	"github.com/example/studyplan/internal/plans"
	"github.com/example/studyplan/internal/store"
	"github.com/example/studyplan/pkg/models"
)

var testNow = time.Date(2026, 4, 6, 10, 0, 0, 0, time.UTC)

func newPlanService() *plans.Service {
	s := store.NewMemoryStore()
	return plans.NewService(database.NewPlanRepository(s), database.NewSessionRepository(s), logger.Nop(), func() time.Time { return testNow })
}

func TestImportPlans_CSV(t *testing.T) {
	ctx := context.Background()
	svc := newPlanService()
	_, err := svc.Create(ctx, plans.CreateRequest{UserID: "u1", Title: "Existing", TotalUnits: 5, Deadline: testNow.AddDate(0, 1, 0)})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "plans.csv")
	content := "title,units,deadline,difficulty,rounds,days,label\n" +
		"Grammar book,120,2026-06-30,hard,2,\"1,3,5\",page\n" +
		"existing,10,2026-06-30,,,,\n" +
		",10,2026-06-30,,,,\n" +
		"Bad days,10,2026-06-30,,,9,\n" +
		"\n" +
		"Kanji,50,2026-05-01,easy,,,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	config := DefaultImportConfig()
	config.FilePath = path
	result, err := ImportPlans(ctx, config, "u1", svc)
	require.NoError(t, err)
	assert.Equal(t, 5, result.TotalProcessed)
	assert.Equal(t, 2, result.Created)
	assert.Equal(t, 1, result.Skipped)
	assert.Len(t, result.Errors, 2)

	all, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 3)

	var grammar *models.StudyPlan
	for i := range all {
		if all[i].Title == "Grammar book" {
			grammar = &all[i]
		}
	}
	require.NotNil(t, grammar)
	assert.Equal(t, 120, grammar.TotalUnits)
	assert.Equal(t, models.DifficultyHard, grammar.Difficulty)
	assert.Equal(t, 2, grammar.TargetRounds)
	assert.Equal(t, []int{1, 3, 5}, grammar.StudyDays)
	assert.Equal(t, "page", grammar.UnitLabel)
}

func TestImportPlans_Excel(t *testing.T) {
	ctx := context.Background()
	svc := newPlanService()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"title", "units", "deadline"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"Vocabulary", 300, "2026-12-31"}))
	path := filepath.Join(t.TempDir(), "plans.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	config := DefaultImportConfig()
	config.FilePath = path
	result, err := ImportPlans(ctx, config, "u1", svc)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created, result.Errors)

	all, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, 300, all[0].EndUnit)
}

func TestImportPlans_MissingFile(t *testing.T) {
	config := DefaultImportConfig()
	config.FilePath = filepath.Join(t.TempDir(), "nope.csv")
	_, err := ImportPlans(context.Background(), config, "u1", newPlanService())
	assert.Error(t, err)
}

func TestExportSessions(t *testing.T) {
	s1 := models.StudySession{PlanID: "p1", Date: testNow, Intent: models.IntentLearning, DurationMinutes: 30, DifficultyRating: 3, Round: 1}
	s1.SetRange(1, 10)
	s2 := models.StudySession{PlanID: "gone", Date: testNow, Intent: models.IntentReview, UnitsCompleted: 4, DurationMinutes: 10, Round: 1}

	var buf bytes.Buffer
	plansByID := map[string]*models.StudyPlan{"p1": {ID: "p1", Title: "Vocabulary"}}
	require.NoError(t, ExportSessions(&buf, []models.StudySession{s1, s2}, plansByID))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sessionSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Date", rows[0][0])
	assert.Equal(t, []string{"2026-04-06", "Vocabulary", "learning", "1", "10", "10", "30"}, rows[1][:7])
	assert.Equal(t, "gone", rows[2][1])
	assert.Equal(t, "", rows[2][3])
	assert.Equal(t, "4", rows[2][5])
}
