package history

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// EngineerFeatures derives calendar features, per-key inter-visit gaps and
// synthetic identifiers. The returned slice is sorted ascending by time,
// which is also the exported row order.
func EngineerFeatures(visits []Visit) []Visit {
	out := make([]Visit, len(visits))
	copy(out, visits)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	addDateTimeFeatures(out)
	gapsURL := secondsUntilNextVisit(out, func(v Visit) string { return v.URL })
	gapsClean := secondsUntilNextVisit(out, func(v Visit) string { return v.URLClean })
	gapsDomain := secondsUntilNextVisit(out, func(v Visit) string { return v.URLDomain })

	clientID := uuid.NewString()
	now := time.Now().UTC()
	for i := range out {
		out[i].SecondsUntilNextVisitURL = gapsURL[i]
		out[i].SecondsUntilNextVisitClean = gapsClean[i]
		out[i].SecondsUntilNextVisitDomain = gapsDomain[i]
		out[i].SecondsUntilNextVisit = gapsURL[i]

		out[i].PageTransition = "LINK"
		out[i].RefID = nil
		out[i].IsLocal = 0
		out[i].ID = uuid.NewString()
		out[i].ClientID = clientID
		out[i].UpdatedAt = now
	}
	return out
}

func addDateTimeFeatures(visits []Visit) {
	if len(visits) == 0 {
		return
	}
	minTime := visits[0].Time
	maxTime := visits[0].Time
	for _, v := range visits {
		if v.Time.Before(minTime) {
			minTime = v.Time
		}
		if v.Time.After(maxTime) {
			maxTime = v.Time
		}
	}
	totalDays := int(maxTime.Sub(minTime) / (24 * time.Hour))

	for i := range visits {
		t := visits[i].Time
		visits[i].Hour = t.Hour()
		// time.Weekday has Sunday=0; shift to Monday=0.
		dow := (int(t.Weekday()) + 6) % 7
		visits[i].DayOfWeek = dow
		if dow >= 5 {
			visits[i].IsWeekend = 1
		} else {
			visits[i].IsWeekend = 0
		}
		visits[i].DayOfMonth = t.Day()
		visits[i].WeekOfMonth = ((t.Day() - 1) / 7) + 1
		visits[i].MonthOfYear = int(t.Month())
		visits[i].TotalHistoryDays = totalDays
	}
}

// secondsUntilNextVisit computes, per group of rows sharing key(v), the
// absolute seconds from each row to its chronological successor in the same
// group. The last row of a group gets -1. visits must already be sorted
// ascending by time.
func secondsUntilNextVisit(visits []Visit, key func(Visit) string) []float64 {
	gaps := make([]float64, len(visits))
	lastIdx := make(map[string]int)
	for i := len(visits) - 1; i >= 0; i-- {
		k := key(visits[i])
		if next, ok := lastIdx[k]; ok {
			d := visits[next].Time.Sub(visits[i].Time).Seconds()
			if d < 0 {
				d = -d
			}
			gaps[i] = d
		} else {
			gaps[i] = -1
		}
		lastIdx[k] = i
	}
	return gaps
}
