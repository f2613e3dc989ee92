package insight

import (
	"errors"
	"math"
	"testing"
)

func fullRow(stress, social, education, emotion float64) Row {
	return Row{
		StressScore:      &stress,
		SocialMediaScore: &social,
		EducationScore:   &education,
		EmotionScore:     &emotion,
	}
}

func TestCorrelateMissingColumns(t *testing.T) {
	t.Parallel()
	one := 1.0
	rows := []Row{{StressScore: &one}, {StressScore: &one}}

	_, err := Correlate(rows)
	var missing *MissingColumnsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingColumnsError, got %v", err)
	}
	want := []string{"social_media_score", "education_score", "emotion_score"}
	if len(missing.Columns) != len(want) {
		t.Fatalf("missing columns = %v, want %v", missing.Columns, want)
	}
	for i, col := range want {
		if missing.Columns[i] != col {
			t.Fatalf("missing columns = %v, want %v", missing.Columns, want)
		}
	}
}

func TestCorrelatePerfectRelationships(t *testing.T) {
	t.Parallel()
	// stress and social rise together; education moves opposite to stress.
	rows := []Row{
		fullRow(1, 2, 5, 3),
		fullRow(2, 4, 4, 1),
		fullRow(3, 6, 3, -1),
		fullRow(4, 8, 2, -3),
	}

	res, err := Correlate(rows)
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}
	if res.Rows != 4 || res.DroppedRows != 0 {
		t.Fatalf("rows = %d dropped = %d", res.Rows, res.DroppedRows)
	}
	if r := res.Matrix["stress_score"]["stress_score"]; math.Abs(r-1) > 1e-9 {
		t.Fatalf("self correlation = %v, want 1", r)
	}
	if r := res.Matrix["stress_score"]["social_media_score"]; math.Abs(r-1) > 1e-9 {
		t.Fatalf("stress vs social = %v, want 1", r)
	}
	if r := res.Matrix["stress_score"]["education_score"]; math.Abs(r+1) > 1e-9 {
		t.Fatalf("stress vs education = %v, want -1", r)
	}
	if got := res.Interpretations["stress_score_vs_social_media_score"]; got != "strong positive correlation" {
		t.Fatalf("interpretation = %q", got)
	}
	if got := res.Interpretations["stress_score_vs_education_score"]; got != "strong negative correlation" {
		t.Fatalf("interpretation = %q", got)
	}
	if _, ok := res.Interpretations["stress_score_vs_stress_score"]; ok {
		t.Fatalf("diagonal must not be interpreted")
	}
}

func TestCorrelateDropsUnusableRows(t *testing.T) {
	t.Parallel()
	nan := math.NaN()
	rows := []Row{
		fullRow(1, 1, 1, 1),
		fullRow(2, 2, 2, 2),
		fullRow(3, 3, 3, 3),
		{StressScore: &nan, SocialMediaScore: ptr(1.0), EducationScore: ptr(1.0), EmotionScore: ptr(1.0)},
		{SocialMediaScore: ptr(1.0), EducationScore: ptr(1.0), EmotionScore: ptr(1.0)},
	}

	res, err := Correlate(rows)
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}
	if res.Rows != 3 || res.DroppedRows != 2 {
		t.Fatalf("rows = %d dropped = %d, want 3/2", res.Rows, res.DroppedRows)
	}
}

func TestCorrelateZeroVariance(t *testing.T) {
	t.Parallel()
	rows := []Row{
		fullRow(2, 1, 5, 3),
		fullRow(2, 4, 2, 0),
		fullRow(2, 2, 3, 1),
	}

	res, err := Correlate(rows)
	if err != nil {
		t.Fatalf("Correlate() error = %v", err)
	}
	if r := res.Matrix["stress_score"]["social_media_score"]; r != 0 {
		t.Fatalf("zero-variance correlation = %v, want 0", r)
	}
	if got := res.Interpretations["stress_score_vs_social_media_score"]; got != "weak or no correlation" {
		t.Fatalf("interpretation = %q", got)
	}
}

func TestInterpretThresholds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		r    float64
		want string
	}{
		{0.75, "strong positive correlation"},
		{-0.9, "strong negative correlation"},
		{0.5, "moderate positive correlation"},
		{-0.41, "moderate negative correlation"},
		{0.4, "weak or no correlation"},
		{0.2, "weak or no correlation"},
		{0, "weak or no correlation"},
	}
	for _, tt := range tests {
		if got := interpret(tt.r); got != tt.want {
			t.Fatalf("interpret(%v) = %q, want %q", tt.r, got, tt.want)
		}
	}
}

func ptr(v float64) *float64 { return &v }
