// Package excel imports study plans from spreadsheets and exports session
// history to xlsx.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/example/studyplan/internal/plans"
	"github.com/example/studyplan/pkg/models"
)

const dateLayout = "2006-01-02"

// PlanService is what the importer needs to create plans
type PlanService interface {
	Create(ctx context.Context, req plans.CreateRequest) (*models.StudyPlan, error)
	List(ctx context.Context, userID string) ([]models.StudyPlan, error)
}

// ImportConfig defines the import configuration
type ImportConfig struct {
	FilePath           string // Path to the Excel or CSV file
	TitleColumn        string
	TotalUnitsColumn   string
	DeadlineColumn     string // YYYY-MM-DD
	DifficultyColumn   string // easy, normal or hard
	TargetRoundsColumn string
	StudyDaysColumn    string // ISO weekdays, e.g. "1,3,5"
	UnitLabelColumn    string
	SheetName          string // Name of the sheet to import
	StartRow           int    // The row to start importing from (1-based index)
	Location           *time.Location
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		TitleColumn:        "A",
		TotalUnitsColumn:   "B",
		DeadlineColumn:     "C",
		DifficultyColumn:   "D",
		TargetRoundsColumn: "E",
		StudyDaysColumn:    "F",
		UnitLabelColumn:    "G",
		SheetName:          "Sheet1",
		StartRow:           2, // skip header
		Location:           time.UTC,
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ImportPlans creates a plan for userID from every row of an xlsx or csv
// file. Rows whose title matches an existing plan are skipped.
func ImportPlans(ctx context.Context, config ImportConfig, userID string, svc PlanService) (*ImportResult, error) {
	rows, err := readRows(config)
	if err != nil {
		return nil, err
	}

	existing, err := svc.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get existing plans: %w", err)
	}
	titles := make(map[string]bool, len(existing))
	for _, p := range existing {
		titles[strings.ToLower(p.Title)] = true
	}

	result := &ImportResult{Errors: make([]string, 0)}
	for i, row := range rows {
		if i < config.StartRow-1 || isBlank(row) {
			continue
		}
		result.TotalProcessed++

		req, err := parseRow(row, config, userID)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		key := strings.ToLower(req.Title)
		if titles[key] {
			result.Skipped++
			continue
		}
		if _, err := svc.Create(ctx, req); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
			continue
		}
		titles[key] = true
		result.Created++
	}
	return result, nil
}

func readRows(config ImportConfig) ([][]string, error) {
	if strings.ToLower(filepath.Ext(config.FilePath)) == ".csv" {
		file, err := os.Open(config.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer file.Close()
		return readCSV(file)
	}

	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseRow(row []string, config ImportConfig, userID string) (plans.CreateRequest, error) {
	cell := func(column string) string {
		if column == "" {
			return ""
		}
		if idx := columnToIndex(column); idx >= 0 && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	req := plans.CreateRequest{
		UserID:     userID,
		Title:      cell(config.TitleColumn),
		UnitLabel:  cell(config.UnitLabelColumn),
		Difficulty: models.Difficulty(strings.ToLower(cell(config.DifficultyColumn))),
	}
	if req.Title == "" {
		return req, fmt.Errorf("title cannot be empty")
	}

	total, err := strconv.Atoi(cell(config.TotalUnitsColumn))
	if err != nil {
		return req, fmt.Errorf("invalid unit count %q", cell(config.TotalUnitsColumn))
	}
	req.TotalUnits = total

	loc := config.Location
	if loc == nil {
		loc = time.UTC
	}
	deadline, err := time.ParseInLocation(dateLayout, cell(config.DeadlineColumn), loc)
	if err != nil {
		return req, fmt.Errorf("invalid deadline %q", cell(config.DeadlineColumn))
	}
	req.Deadline = deadline

	if v := cell(config.TargetRoundsColumn); v != "" {
		rounds, err := strconv.Atoi(v)
		if err != nil {
			return req, fmt.Errorf("invalid round count %q", v)
		}
		req.TargetRounds = rounds
	}

	days, err := parseStudyDays(cell(config.StudyDaysColumn))
	if err != nil {
		return req, err
	}
	req.StudyDays = days
	return req, nil
}

// parseStudyDays reads weekdays separated by commas, semicolons or spaces
func parseStudyDays(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' '
	})
	days := make([]int, 0, len(fields))
	for _, f := range fields {
		d, err := strconv.Atoi(f)
		if err != nil || d < 1 || d > 7 {
			return nil, fmt.Errorf("invalid study day %q", f)
		}
		days = append(days, d)
	}
	return days, nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
