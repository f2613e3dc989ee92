package insight

// Category and domain lookup tables for the emotion/stress/social-media/
// education annotation. Domain fallbacks are ordered slices, not maps: the
// first substring that appears in the lowercased registrable domain wins,
// and that order is part of the contract.

var emotionByCategory = map[string]string{
	"Entertainment":      "Joy",
	"News & Media":       "Fear",
	"Technology":         "Curiosity",
	"Business & Finance": "Stress",
	"Social Media":       "Anxiety",
	"Shopping":           "Excitement",
	"Games":              "Excitement",
	"Adult":              "Guilt",
	"Education":          "Pride",
	"Health":             "Calm",
	"Sports":             "Excitement",
	"Music":              "Joy",
	"Travel":             "Excitement",
	"Development":        "Focused",
}

type domainEmotionRule struct {
	Substr  string
	Emotion string
}

var emotionByDomain = []domainEmotionRule{
	{"youtube.com", "Joy"},
	{"instagram.com", "Anxiety"},
	{"tiktok.com", "Joy"},
	{"facebook.com", "Anxiety"},
	{"twitter.com", "Anger"},
	{"x.com", "Anger"},
	{"reddit.com", "Mixed"},
	{"localhost", "Focused"},
	{"google.com", "Curiosity"},
	{"docs.google.com", "Focused"},
	{"gmail.com", "Stress"},
	{"news", "Fear"},
	{"pornhub.com", "Guilt"},
	{"xvideos.com", "Guilt"},
}

// Emotion intensity, -3 (worst) to +3 (best).
var emotionScore = map[string]float64{
	"Joy":        3,
	"Excitement": 2,
	"Pride":      2,
	"Curiosity":  2,
	"Calm":       1,
	"Focused":    1,
	"Neutral":    0,
	"Mixed":      0,
	"Stress":     -1,
	"Anxiety":    -2,
	"Fear":       -3,
	"Anger":      -3,
	"Sadness":    -3,
	"Guilt":      -3,
}

type domainScoreRule struct {
	Substr string
	Score  float64
}

var stressByCategory = map[string]float64{
	"Entertainment":      1,
	"News & Media":       3,
	"Technology":         2,
	"Business & Finance": 4,
	"Social Media":       3,
	"Shopping":           2,
	"Games":              1,
	"Adult":              2,
	"Education":          2,
	"Health":             2,
	"Sports":             1,
	"Music":              1,
	"Travel":             2,
	"Development":        3,
}

var stressByDomain = []domainScoreRule{
	{"youtube.com", 1},
	{"instagram.com", 3},
	{"tiktok.com", 2},
	{"facebook.com", 3},
	{"twitter.com", 3},
	{"x.com", 3},
	{"reddit.com", 2},
	{"localhost", 2},
	{"google.com", 1},
	{"docs.google.com", 2},
	{"gmail.com", 3},
	{"news", 4},
	{"pornhub.com", 2},
	{"xvideos.com", 2},
}

var socialMediaByCategory = map[string]float64{
	"Entertainment":      2,
	"News & Media":       1,
	"Technology":         1,
	"Business & Finance": 1,
	"Social Media":       5,
	"Shopping":           2,
	"Games":              3,
	"Adult":              1,
	"Education":          1,
	"Health":             1,
	"Sports":             2,
	"Music":              2,
	"Travel":             2,
	"Development":        1,
}

var socialMediaByDomain = []domainScoreRule{
	{"youtube.com", 3},
	{"instagram.com", 5},
	{"tiktok.com", 5},
	{"facebook.com", 5},
	{"twitter.com", 4},
	{"x.com", 4},
	{"reddit.com", 4},
	{"localhost", 1},
	{"google.com", 1},
	{"docs.google.com", 1},
	{"gmail.com", 2},
	{"news", 1},
	{"pornhub.com", 1},
	{"xvideos.com", 1},
}

var educationByCategory = map[string]float64{
	"Entertainment":      1,
	"News & Media":       2,
	"Technology":         3,
	"Business & Finance": 3,
	"Social Media":       1,
	"Shopping":           1,
	"Games":              1,
	"Adult":              1,
	"Education":          5,
	"Health":             2,
	"Sports":             1,
	"Music":              1,
	"Travel":             2,
	"Development":        4,
}

var educationByDomain = []domainScoreRule{
	{"youtube.com", 2},
	{"instagram.com", 1},
	{"tiktok.com", 1},
	{"facebook.com", 1},
	{"twitter.com", 1},
	{"x.com", 1},
	{"reddit.com", 2},
	{"localhost", 4},
	{"google.com", 3},
	{"docs.google.com", 5},
	{"gmail.com", 1},
	{"news", 2},
	{"pornhub.com", 1},
	{"xvideos.com", 1},
}
