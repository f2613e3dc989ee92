package insight

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ScoreColumns are the four numeric columns the aggregator works over, in
// reporting order.
var ScoreColumns = []string{"stress_score", "social_media_score", "education_score", "emotion_score"}

// MissingColumnsError names the score columns absent from the input.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

// CorrelationResult holds the pairwise Pearson matrix over the four score
// columns plus qualitative interpretations.
type CorrelationResult struct {
	Matrix          map[string]map[string]float64 `json:"correlation_matrix"`
	Interpretations map[string]string             `json:"interpretations"`
	Rows            int                           `json:"rows"`
	DroppedRows     int                           `json:"dropped_rows"`
}

func scoreOf(r Row, col string) *float64 {
	switch col {
	case "stress_score":
		return r.StressScore
	case "social_media_score":
		return r.SocialMediaScore
	case "education_score":
		return r.EducationScore
	case "emotion_score":
		return r.EmotionScore
	}
	return nil
}

// Correlate computes the Pearson correlation matrix over the four score
// columns. A column with no value in any row is reported as missing; rows
// where any score failed numeric coercion are dropped and counted.
func Correlate(rows []Row) (*CorrelationResult, error) {
	var missing []string
	for _, col := range ScoreColumns {
		present := false
		for _, r := range rows {
			if scoreOf(r, col) != nil {
				present = true
				break
			}
		}
		if !present {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}

	series := make(map[string][]float64, len(ScoreColumns))
	dropped := 0
	for _, r := range rows {
		usable := true
		for _, col := range ScoreColumns {
			v := scoreOf(r, col)
			if v == nil || math.IsNaN(*v) {
				usable = false
				break
			}
		}
		if !usable {
			dropped++
			continue
		}
		for _, col := range ScoreColumns {
			series[col] = append(series[col], *scoreOf(r, col))
		}
	}

	matrix := make(map[string]map[string]float64, len(ScoreColumns))
	interpretations := make(map[string]string)
	for _, col := range ScoreColumns {
		matrix[col] = make(map[string]float64, len(ScoreColumns))
		for _, target := range ScoreColumns {
			r := stat.Correlation(series[col], series[target], nil)
			if math.IsNaN(r) {
				// Zero-variance column; report no relationship.
				r = 0
			}
			matrix[col][target] = r
			if col == target {
				continue
			}
			interpretations[col+"_vs_"+target] = interpret(r)
		}
	}

	return &CorrelationResult{
		Matrix:          matrix,
		Interpretations: interpretations,
		Rows:            len(rows) - dropped,
		DroppedRows:     dropped,
	}, nil
}

func interpret(r float64) string {
	switch {
	case math.Abs(r) > 0.7:
		if r > 0 {
			return "strong positive correlation"
		}
		return "strong negative correlation"
	case math.Abs(r) > 0.4:
		if r > 0 {
			return "moderate positive correlation"
		}
		return "moderate negative correlation"
	default:
		return "weak or no correlation"
	}
}
