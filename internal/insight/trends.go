package insight

import (
	"fmt"
	"math"
	"sort"
)

// minutesPerVisit is the assumed constant dwell time used for the emotion
// distribution.
const minutesPerVisit = 5

// TrendPoint is one period bucket of the mood trend summary.
type TrendPoint struct {
	PeriodLabel    string  `json:"period_label"`
	MoodScore      float64 `json:"mood_score"`
	AvgStress      float64 `json:"avg_stress"`
	AvgSocialMedia float64 `json:"avg_social_media"`
	AvgEducation   float64 `json:"avg_education"`
	MoodLabel      string  `json:"mood_label"`
}

// EmotionSlice is one entry of the overall per-emotion visit distribution.
type EmotionSlice struct {
	Emotion      string `json:"emotion"`
	VisitCount   int    `json:"visit_count"`
	TotalMinutes int    `json:"total_minutes"`
}

// TrendReport is the full mood-trend response.
type TrendReport struct {
	Points              []TrendPoint   `json:"points"`
	EmotionDistribution []EmotionSlice `json:"emotion_distribution"`
}

// MoodTrends buckets annotated rows by period (daily, weekly or monthly) and
// reports the per-bucket mean of each score and the modal emotion, plus the
// overall emotion distribution. Rows with an unusable timestamp or a score
// that failed coercion are dropped.
func MoodTrends(rows []Row, period string) (*TrendReport, error) {
	switch period {
	case "daily", "weekly", "monthly":
	default:
		return nil, fmt.Errorf("invalid period %q: want daily, weekly or monthly", period)
	}

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

	type bucket struct {
		emotionSum     float64
		stressSum      float64
		socialSum      float64
		educationSum   float64
		count          int
		emotionsByName map[string]int
	}
	buckets := make(map[string]*bucket)
	distribution := make(map[string]int)

	for _, r := range rows {
		if r.Time.IsZero() || r.PredictedEmotion == "" {
			continue
		}
		usable := true
		for _, col := range ScoreColumns {
			v := scoreOf(r, col)
			if v == nil || math.IsNaN(*v) {
				usable = false
				break
			}
		}
		if !usable {
			continue
		}

		var label string
		switch period {
		case "daily":
			label = r.Time.Format("2006-01-02")
		case "weekly":
			year, week := r.Time.ISOWeek()
			label = fmt.Sprintf("%04d-W%02d", year, week)
		case "monthly":
			label = r.Time.Format("2006-01")
		}

		b, ok := buckets[label]
		if !ok {
			b = &bucket{emotionsByName: make(map[string]int)}
			buckets[label] = b
		}
		b.emotionSum += *r.EmotionScore
		b.stressSum += *r.StressScore
		b.socialSum += *r.SocialMediaScore
		b.educationSum += *r.EducationScore
		b.count++
		b.emotionsByName[r.PredictedEmotion]++
		distribution[r.PredictedEmotion]++
	}

	labels := make([]string, 0, len(buckets))
	for label := range buckets {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	points := make([]TrendPoint, 0, len(labels))
	for _, label := range labels {
		b := buckets[label]
		n := float64(b.count)
		points = append(points, TrendPoint{
			PeriodLabel:    label,
			MoodScore:      b.emotionSum / n,
			AvgStress:      b.stressSum / n,
			AvgSocialMedia: b.socialSum / n,
			AvgEducation:   b.educationSum / n,
			MoodLabel:      modalEmotion(b.emotionsByName),
		})
	}

	emotions := make([]string, 0, len(distribution))
	for emotion := range distribution {
		emotions = append(emotions, emotion)
	}
	sort.Strings(emotions)
	slices := make([]EmotionSlice, 0, len(emotions))
	for _, emotion := range emotions {
		count := distribution[emotion]
		slices = append(slices, EmotionSlice{
			Emotion:      emotion,
			VisitCount:   count,
			TotalMinutes: count * minutesPerVisit,
		})
	}

	return &TrendReport{Points: points, EmotionDistribution: slices}, nil
}

// modalEmotion returns the most frequent emotion, ties broken
// alphabetically.
func modalEmotion(counts map[string]int) string {
	best := ""
	bestCount := -1
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if counts[name] > bestCount {
			best = name
			bestCount = counts[name]
		}
	}
	if best == "" {
		return "Neutral"
	}
	return best
}
