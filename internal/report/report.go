// Package report renders quiz result reports as in-memory documents for mail
// attachment. Rendering is deterministic: identical quiz and result inputs
// produce an identical ranking order and identical statistics.
package report

import (
	"fmt"
	"sort"

	"github.com/quiz-platform/quiz-service/internal/models"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatXLSX Format = "xlsx"
)

// MaxRankedRows caps the ranked results table.
const MaxRankedRows = 20

// Stats are the summary figures shown in the report header.
type Stats struct {
	Attempts  int
	MaxPoints int
	Average   float64
	Best      int
}

// Summarize computes the header statistics from the quiz definition and its
// recorded results.
func Summarize(quiz *models.Quiz, results []*models.Result) Stats {
	st := Stats{
		Attempts:  len(results),
		MaxPoints: quiz.MaxPoints(),
	}

	total := 0
	for _, r := range results {
		total += r.Awarded
		if r.Awarded > st.Best {
			st.Best = r.Awarded
		}
	}
	if st.Attempts > 0 {
		st.Average = float64(total) / float64(st.Attempts)
	}
	return st
}

// Rank orders results by awarded points descending, elapsed time ascending.
// The sort is stable so equal (points, time) pairs keep the relative order
// the store returned them in.
func Rank(results []*models.Result) []*models.Result {
	ranked := make([]*models.Result, len(results))
	copy(ranked, results)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Awarded != ranked[j].Awarded {
			return ranked[i].Awarded > ranked[j].Awarded
		}
		return ranked[i].ElapsedSeconds < ranked[j].ElapsedSeconds
	})
	return ranked
}

// rankedTop ranks the results and trims the table to MaxRankedRows. Both
// renderers go through it so the cap cannot drift between formats.
func rankedTop(results []*models.Result) []*models.Result {
	ranked := Rank(results)
	if len(ranked) > MaxRankedRows {
		ranked = ranked[:MaxRankedRows]
	}
	return ranked
}

// Render produces the report in the requested format.
func Render(format Format, quiz *models.Quiz, results []*models.Result) ([]byte, error) {
	switch format {
	case FormatXLSX:
		return RenderXLSX(quiz, results)
	case FormatPDF, "":
		return RenderPDF(quiz, results)
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

// Filename returns the attachment name for a rendered report.
func Filename(format Format, quizID uint) string {
	if format == FormatXLSX {
		return fmt.Sprintf("quiz_report_%d.xlsx", quizID)
	}
	return fmt.Sprintf("quiz_report_%d.pdf", quizID)
}

// ContentType returns the MIME type for a rendered report.
func ContentType(format Format) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}
