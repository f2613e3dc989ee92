package history

import "time"

// RawVisit is one row read from the Chrome History database, untouched.
type RawVisit struct {
	URL        string
	Title      string
	VisitTime  int64 // microseconds since the Chrome epoch (1601-01-01 UTC)
	FromVisit  *int64
	Transition *int64
	VisitID    *int64
}

// Visit is the fully engineered record, one per browsing visit. The field
// order mirrors the exported column order.
type Visit struct {
	URL        string `json:"url"`
	Title      string `json:"title"`
	VisitTime  int64  `json:"visit_time"`
	FromVisit  *int64 `json:"from_visit"`
	Transition *int64 `json:"transition"`
	VisitID    *int64 `json:"visit_id"`

	Time      time.Time `json:"time"`
	URLClean  string    `json:"url_clean"`
	URLDomain string    `json:"url_domain"`

	Hour             int `json:"hour"`
	DayOfWeek        int `json:"day_of_week"` // 0=Monday .. 6=Sunday
	IsWeekend        int `json:"is_weekend"`
	DayOfMonth       int `json:"day_of_month"`
	WeekOfMonth      int `json:"week_of_month"`
	MonthOfYear      int `json:"month_of_year"`
	TotalHistoryDays int `json:"total_history_days"`

	// Absolute seconds to the chronologically next visit sharing the key,
	// or -1 for the last visit of the group.
	SecondsUntilNextVisitURL    float64 `json:"seconds_until_next_visit_url"`
	SecondsUntilNextVisitClean  float64 `json:"seconds_until_next_visit_clean"`
	SecondsUntilNextVisitDomain float64 `json:"seconds_until_next_visit_domain"`
	SecondsUntilNextVisit       float64 `json:"seconds_until_next_visit"`

	PageTransition string    `json:"page_transition"`
	ID             string    `json:"id"`
	ClientID       string    `json:"client_id"`
	UpdatedAt      time.Time `json:"updated_at"`
	IsLocal        int       `json:"is_local"`
	RefID          *string   `json:"ref_id"`
}

// Columns is the fixed, ordered schema of the exported table.
var Columns = []string{
	"url", "title", "visit_time", "from_visit", "transition", "visit_id",
	"time", "url_clean", "url_domain",
	"hour", "day_of_week", "is_weekend", "day_of_month", "week_of_month",
	"month_of_year", "total_history_days",
	"seconds_until_next_visit_url", "seconds_until_next_visit_clean",
	"seconds_until_next_visit_domain", "seconds_until_next_visit",
	"page_transition", "id", "client_id", "updated_at", "is_local", "ref_id",
}
