package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/quiz-platform/quiz-service/internal/models"
)

const (
	pdfMarginLeft = 15.0
	pdfTopY       = 20.0
	pdfBreakY     = 275.0 // A4 is 297mm; break before running off the page

	colRank  = 15.0
	colEmail = 30.0
	colScore = 120.0
	colTime  = 155.0
)

// RenderPDF builds the paginated PDF report: quiz header, summary statistics
// and the ranked results table capped at MaxRankedRows. When vertical space
// runs out the table continues on a new page with its header repeated.
func RenderPDF(quiz *models.Quiz, results []*models.Result) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	y := pdfTopY
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Text(pdfMarginLeft, y, "Quiz results report")
	y += 10

	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(pdfMarginLeft, y, "Title: "+quiz.Title)
	y += 7
	pdf.Text(pdfMarginLeft, y, "Status: "+string(quiz.Status))
	y += 7
	pdf.Text(pdfMarginLeft, y, "Created: "+quiz.CreatedAt.Format("2006-01-02 15:04:05"))
	y += 10

	st := Summarize(quiz, results)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(pdfMarginLeft, y, "Statistics")
	y += 7
	pdf.SetFont("Helvetica", "", 11)
	pdf.Text(pdfMarginLeft, y, fmt.Sprintf("Attempts: %d", st.Attempts))
	y += 7
	pdf.Text(pdfMarginLeft, y, fmt.Sprintf("Maximum points: %d", st.MaxPoints))
	y += 7
	pdf.Text(pdfMarginLeft, y, fmt.Sprintf("Average score: %.2f", st.Average))
	y += 7
	pdf.Text(pdfMarginLeft, y, fmt.Sprintf("Best score: %d", st.Best))
	y += 10

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(pdfMarginLeft, y, "Top results")
	y += 7
	y = writeTableHeader(pdf, y)

	pdf.SetFont("Helvetica", "", 10)
	for i, r := range rankedTop(results) {
		if y > pdfBreakY {
			pdf.AddPage()
			y = pdfTopY
			pdf.SetFont("Helvetica", "B", 12)
			pdf.Text(pdfMarginLeft, y, "Top results (continued)")
			y += 7
			y = writeTableHeader(pdf, y)
			pdf.SetFont("Helvetica", "", 10)
		}

		email := truncate(r.PlayerEmail, 40)
		pdf.Text(colRank, y, fmt.Sprintf("%d", i+1))
		pdf.Text(colEmail, y, email)
		pdf.Text(colScore, y, fmt.Sprintf("%d/%d", r.Awarded, r.Maximum))
		pdf.Text(colTime, y, fmt.Sprintf("%ds", r.ElapsedSeconds))
		y += 6
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf report: %w", err)
	}
	return buf.Bytes(), nil
}

// truncate cuts s to at most max runes. Cutting by bytes could split a
// multi-byte character in the player email.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func writeTableHeader(pdf *gofpdf.Fpdf, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.Text(colRank, y, "#")
	pdf.Text(colEmail, y, "Email")
	pdf.Text(colScore, y, "Points")
	pdf.Text(colTime, y, "Time")
	return y + 6
}
