package insight

import "strings"

// Annotate fills every annotation field of each row in place. Resolution
// order per field: exact category lookup, then the first matching domain
// substring, then the fixed default (Neutral for emotion, 1 for scores).
// After Annotate returns, no annotation field is nil.
func Annotate(rows []Row) {
	for i := range rows {
		r := &rows[i]
		r.PredictedCategory = strings.TrimSpace(r.PredictedCategory)
		domain := strings.ToLower(r.URLDomain)

		emotion, ok := emotionByCategory[r.PredictedCategory]
		if !ok {
			emotion = emotionFromDomain(domain)
		}
		r.PredictedEmotion = emotion
		score := emotionScore[emotion]
		r.EmotionScore = &score

		r.StressScore = resolveScore(stressByCategory, stressByDomain, r.PredictedCategory, domain)
		r.SocialMediaScore = resolveScore(socialMediaByCategory, socialMediaByDomain, r.PredictedCategory, domain)
		r.EducationScore = resolveScore(educationByCategory, educationByDomain, r.PredictedCategory, domain)
	}
}

func emotionFromDomain(domain string) string {
	for _, rule := range emotionByDomain {
		if strings.Contains(domain, rule.Substr) {
			return rule.Emotion
		}
	}
	return "Neutral"
}

func resolveScore(byCategory map[string]float64, byDomain []domainScoreRule, category, domain string) *float64 {
	if v, ok := byCategory[category]; ok {
		return &v
	}
	for _, rule := range byDomain {
		if strings.Contains(domain, rule.Substr) {
			v := rule.Score
			return &v
		}
	}
	v := 1.0
	return &v
}
