package history

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	CSVName  = "history.csv"
	JSONName = "history.json"
)

// ExportCSV writes the visit table to history.csv in dir, replacing any
// previous export.
func ExportCSV(visits []Visit, dir string) error {
	path := filepath.Join(dir, CSVName)
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(Columns); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	for _, v := range visits {
		if err := w.Write(csvRecord(v)); err != nil {
			return &WriteError{Path: path, Err: err}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := f.Sync(); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// ExportJSON writes the visit table to history.json in dir with ISO-8601
// timestamps, replacing any previous export.
func ExportJSON(visits []Visit, dir string) error {
	path := filepath.Join(dir, JSONName)
	data, err := json.Marshal(visits)
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &WriteError{Path: path, Err: err}
	}
	return nil
}

// Export writes both on-disk formats.
func Export(visits []Visit, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &WriteError{Path: dir, Err: err}
	}
	if err := ExportCSV(visits, dir); err != nil {
		return err
	}
	return ExportJSON(visits, dir)
}

func csvRecord(v Visit) []string {
	return []string{
		v.URL,
		v.Title,
		strconv.FormatInt(v.VisitTime, 10),
		formatNullableInt(v.FromVisit),
		formatNullableInt(v.Transition),
		formatNullableInt(v.VisitID),
		v.Time.UTC().Format(time.RFC3339Nano),
		v.URLClean,
		v.URLDomain,
		strconv.Itoa(v.Hour),
		strconv.Itoa(v.DayOfWeek),
		strconv.Itoa(v.IsWeekend),
		strconv.Itoa(v.DayOfMonth),
		strconv.Itoa(v.WeekOfMonth),
		strconv.Itoa(v.MonthOfYear),
		strconv.Itoa(v.TotalHistoryDays),
		strconv.FormatFloat(v.SecondsUntilNextVisitURL, 'f', -1, 64),
		strconv.FormatFloat(v.SecondsUntilNextVisitClean, 'f', -1, 64),
		strconv.FormatFloat(v.SecondsUntilNextVisitDomain, 'f', -1, 64),
		strconv.FormatFloat(v.SecondsUntilNextVisit, 'f', -1, 64),
		v.PageTransition,
		v.ID,
		v.ClientID,
		v.UpdatedAt.UTC().Format(time.RFC3339Nano),
		strconv.Itoa(v.IsLocal),
		formatNullableString(v.RefID),
	}
}

func formatNullableInt(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

func formatNullableString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
