package insight

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fawad57/psyplex/internal/csvtable"
)

// Row is one annotated (or to-be-annotated) visit. Score pointers are nil
// when the value is absent and NaN when a value was present but not numeric;
// both count as coercion failures during aggregation.
type Row struct {
	Title             string
	URLDomain         string
	Time              time.Time
	PredictedCategory string
	PredictedEmotion  string
	EmotionScore      *float64
	StressScore       *float64
	SocialMediaScore  *float64
	EducationScore    *float64
}

// ScoreValue accepts a JSON number or a numeric string; anything else is
// kept as an invalid value so the row can be dropped during aggregation
// instead of failing the whole request.
type ScoreValue struct {
	Value float64
	Valid bool
}

func (s *ScoreValue) UnmarshalJSON(b []byte) error {
	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		s.Value, s.Valid = n, true
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err == nil {
		if v, err := strconv.ParseFloat(strings.TrimSpace(str), 64); err == nil {
			s.Value, s.Valid = v, true
			return nil
		}
	}
	s.Valid = false
	return nil
}

// RowPayload is the wire form of a row accepted by the correlation endpoint.
type RowPayload struct {
	Title             string      `json:"title"`
	URLDomain         string      `json:"url_domain"`
	Time              string      `json:"time"`
	PredictedCategory string      `json:"predicted_category"`
	PredictedEmotion  string      `json:"predicted_emotion"`
	EmotionScore      *ScoreValue `json:"emotion_score"`
	StressScore       *ScoreValue `json:"stress_score"`
	SocialMediaScore  *ScoreValue `json:"social_media_score"`
	EducationScore    *ScoreValue `json:"education_score"`
}

// Row converts the wire form into the typed record.
func (p RowPayload) Row() Row {
	r := Row{
		Title:             p.Title,
		URLDomain:         p.URLDomain,
		PredictedCategory: p.PredictedCategory,
		PredictedEmotion:  p.PredictedEmotion,
		EmotionScore:      scorePtr(p.EmotionScore),
		StressScore:       scorePtr(p.StressScore),
		SocialMediaScore:  scorePtr(p.SocialMediaScore),
		EducationScore:    scorePtr(p.EducationScore),
	}
	if p.Time != "" {
		if t, err := parseTime(p.Time); err == nil {
			r.Time = t
		}
	}
	return r
}

func scorePtr(s *ScoreValue) *float64 {
	if s == nil {
		return nil
	}
	v := s.Value
	if !s.Valid {
		v = math.NaN()
	}
	return &v
}

// RowsFromTable builds typed rows out of a CSV table, coercing score columns
// to numbers. Non-numeric values become NaN so they are dropped, not
// propagated.
func RowsFromTable(t *csvtable.Table) []Row {
	rows := make([]Row, len(t.Records))
	for i := range t.Records {
		r := Row{
			Title:             t.Get(i, "title"),
			URLDomain:         t.Get(i, "url_domain"),
			PredictedCategory: t.Get(i, "predicted_category"),
			PredictedEmotion:  t.Get(i, "predicted_emotion"),
		}
		if ts := t.Get(i, "time"); ts != "" {
			if parsed, err := parseTime(ts); err == nil {
				r.Time = parsed
			}
		}
		r.EmotionScore = coerceColumn(t, i, "emotion_score")
		r.StressScore = coerceColumn(t, i, "stress_score")
		r.SocialMediaScore = coerceColumn(t, i, "social_media_score")
		r.EducationScore = coerceColumn(t, i, "education_score")
		rows[i] = r
	}
	return rows
}

func coerceColumn(t *csvtable.Table, i int, col string) *float64 {
	if !t.HasColumn(col) {
		return nil
	}
	raw := strings.TrimSpace(t.Get(i, col))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		v = math.NaN()
	}
	return &v
}

func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", s)
}

func formatScore(v *float64) string {
	if v == nil || math.IsNaN(*v) {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// ApplyToTable writes the annotation columns of rows back onto the table the
// rows were built from, preserving every upstream column.
func ApplyToTable(t *csvtable.Table, rows []Row) {
	for _, col := range []string{
		"predicted_category", "predicted_emotion", "emotion_score",
		"stress_score", "social_media_score", "education_score",
	} {
		t.AddColumn(col)
	}
	for i, r := range rows {
		t.Set(i, "predicted_category", r.PredictedCategory)
		t.Set(i, "predicted_emotion", r.PredictedEmotion)
		t.Set(i, "emotion_score", formatScore(r.EmotionScore))
		t.Set(i, "stress_score", formatScore(r.StressScore))
		t.Set(i, "social_media_score", formatScore(r.SocialMediaScore))
		t.Set(i, "education_score", formatScore(r.EducationScore))
	}
}
