package report

import (
	"fmt"

	"github.com/quiz-platform/quiz-service/internal/models"
	"github.com/xuri/excelize/v2"
)

// RenderXLSX builds the workbook variant of the report: a Summary sheet with
// the header statistics and a Results sheet with the ranked table, capped at
// MaxRankedRows like the PDF.
func RenderXLSX(quiz *models.Quiz, results []*models.Result) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summarySheet = "Summary"
	const resultsSheet = "Results"

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	if _, err := f.NewSheet(resultsSheet); err != nil {
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}

	st := Summarize(quiz, results)
	summaryRows := [][]interface{}{
		{"Quiz", quiz.Title},
		{"Status", string(quiz.Status)},
		{"Created", quiz.CreatedAt.Format("2006-01-02 15:04:05")},
		{"Attempts", st.Attempts},
		{"Maximum points", st.MaxPoints},
		{"Average score", st.Average},
		{"Best score", st.Best},
	}
	for i, row := range summaryRows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	header := []interface{}{"Rank", "Player email", "Points", "Maximum", "Percentage", "Time (s)"}
	if err := f.SetSheetRow(resultsSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write results header: %w", err)
	}

	for i, r := range rankedTop(results) {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{i + 1, r.PlayerEmail, r.Awarded, r.Maximum, r.Percentage, r.ElapsedSeconds}
		if err := f.SetSheetRow(resultsSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write results row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to render xlsx report: %w", err)
	}
	return buf.Bytes(), nil
}
