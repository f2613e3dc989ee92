package history

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	_ "modernc.org/sqlite"
)

// ChromeHistoryPath returns the path of the live Chrome History database for
// the running platform.
func ChromeHistoryPath() (string, error) {
	switch runtime.GOOS {
	case "windows":
		username := os.Getenv("USERNAME")
		return filepath.Join("C:\\", "Users", username, "AppData", "Local",
			"Google", "Chrome", "User Data", "Default", "History"), nil
	case "darwin":
		username := os.Getenv("USER")
		return filepath.Join("/Users", username, "Library",
			"Application Support", "Google", "Chrome", "Default", "History"), nil
	case "linux":
		username := os.Getenv("USER")
		return filepath.Join("/home", username, ".config", "google-chrome",
			"Default", "History"), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedPlatform, runtime.GOOS)
	}
}

// CopyHistoryDB copies the live History database to a scratch file next to
// it. Chrome holds the live file locked while running, so all reads happen
// against the copy.
func CopyHistoryDB(src string) (string, error) {
	if _, err := os.Stat(src); err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: %s", ErrSourceNotFound, src)
		}
		return "", fmt.Errorf("stat history db: %w", err)
	}

	dst := src + "_temp"
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("open history db: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create scratch copy: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		_ = os.Remove(dst)
		return "", fmt.Errorf("copy history db: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("close scratch copy: %w", err)
	}
	return dst, nil
}

// ReadHistory reads raw visit rows from the copied History database,
// newest first.
func ReadHistory(ctx context.Context, dbPath string) ([]RawVisit, error) {
	db, err := sql.Open("sqlite", "file:"+dbPath+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `
        SELECT u.url, u.title, v.visit_time, v.from_visit, v.transition, v.id AS visit_id
        FROM urls u
        JOIN visits v ON u.id = v.url
        ORDER BY v.visit_time DESC`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var visits []RawVisit
	for rows.Next() {
		var (
			v          RawVisit
			title      sql.NullString
			fromVisit  sql.NullInt64
			transition sql.NullInt64
			visitID    sql.NullInt64
		)
		if err := rows.Scan(&v.URL, &title, &v.VisitTime, &fromVisit, &transition, &visitID); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		v.Title = title.String
		if fromVisit.Valid {
			n := fromVisit.Int64
			v.FromVisit = &n
		}
		if transition.Valid {
			n := transition.Int64
			v.Transition = &n
		}
		if visitID.Valid {
			n := visitID.Int64
			v.VisitID = &n
		}
		visits = append(visits, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return visits, nil
}

// Extract runs the copy-read-remove sequence against the configured source
// path (or the platform default when srcPath is empty). The scratch copy is
// removed on every exit path.
func Extract(ctx context.Context, srcPath string) ([]RawVisit, error) {
	var err error
	if srcPath == "" {
		srcPath, err = ChromeHistoryPath()
		if err != nil {
			return nil, err
		}
	}
	scratch, err := CopyHistoryDB(srcPath)
	if err != nil {
		return nil, err
	}
	defer os.Remove(scratch)

	return ReadHistory(ctx, scratch)
}
