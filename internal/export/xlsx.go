package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/diet-planner/internal/guidance"
	"github.com/joseph-ayodele/diet-planner/internal/plan"
)

const (
	planSheet       = "Diet Plan"
	guidelinesSheet = "Guidelines"
)

// PlanXLSX writes one row per day with a column per meal, plus a guidelines
// sheet. With no parsed days the raw plan text goes into a single cell.
func PlanXLSX(g guidance.DietGuidelines, prediction string, planText string, days []plan.Day) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", planSheet); err != nil {
		return nil, err
	}

	write := func(sheet string, col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	if len(days) == 0 {
		write(planSheet, 1, 1, "Plan")
		write(planSheet, 1, 2, planText)
		_ = f.SetColWidth(planSheet, "A", "A", 100)
	} else {
		headers := []string{"Day", "Breakfast", "Lunch", "Dinner", "Snacks", "Notes", "Other"}
		for i, h := range headers {
			write(planSheet, i+1, 1, h)
		}
		for i, d := range days {
			row := i + 2
			for col, v := range []string{d.Title, d.Breakfast, d.Lunch, d.Dinner, d.Snacks, d.Notes, d.Other} {
				write(planSheet, col+1, row, strings.TrimRight(v, "\n"))
			}
		}
		_ = f.SetColWidth(planSheet, "A", "A", 18)
		_ = f.SetColWidth(planSheet, "B", "G", 36)
	}

	if _, err := f.NewSheet(guidelinesSheet); err != nil {
		return nil, err
	}
	rows := [][2]string{
		{"Condition", g.Condition},
		{"Risk", prediction},
		{"Diet plan", g.DietPlan},
		{"Lifestyle advice", g.LifestyleAdvice},
		{"Allowed foods", strings.Join(g.AllowedFoods, ", ")},
		{"Restricted foods", strings.Join(g.RestrictedFoods, ", ")},
	}
	for i, r := range rows {
		write(guidelinesSheet, 1, i+1, r[0])
		write(guidelinesSheet, 2, i+1, r[1])
	}
	_ = f.SetColWidth(guidelinesSheet, "A", "A", 20)
	_ = f.SetColWidth(guidelinesSheet, "B", "B", 80)

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
