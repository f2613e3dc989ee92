package server

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/fawad57/psyplex/internal/history"
)

// HistoryHandler runs the Chrome history pipeline and serves its artifacts.
type HistoryHandler struct {
	DBPath    string // empty means auto-detect per platform
	OutputDir string
	Logger    *log.Logger
}

func (h *HistoryHandler) Register(g *echo.Group) {
	g.GET("/fetch", h.fetch)
	g.GET("/files/:name", h.download)
}

func (h *HistoryHandler) fetch(c echo.Context) error {
	historyFetches.Inc()

	dbPath := h.DBPath
	if dbPath == "" {
		p, err := history.ChromeHistoryPath()
		if err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		dbPath = p
	}

	raws, err := history.Extract(c.Request().Context(), dbPath)
	if err != nil {
		if errors.Is(err, history.ErrSourceNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "chrome history database not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	visits, err := history.Clean(raws)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	visits = history.EngineerFeatures(visits)

	if err := history.Export(visits, h.OutputDir); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.Logger.Printf("exported %d visits to %s", len(visits), h.OutputDir)
	return c.JSON(http.StatusOK, map[string]interface{}{
		"rows": len(visits),
		"csv":  filepath.Join(h.OutputDir, history.CSVName),
		"json": filepath.Join(h.OutputDir, history.JSONName),
	})
}

// downloadable restricts /files to pipeline artifacts; anything else 404s.
var downloadable = map[string]bool{
	history.CSVName:  true,
	history.JSONName: true,
	PredictedCSVName: true,
	WithEmotionsName: true,
}

func (h *HistoryHandler) download(c echo.Context) error {
	name := c.Param("name")
	if !downloadable[name] {
		return echo.NewHTTPError(http.StatusNotFound, "unknown file")
	}
	path := filepath.Join(h.OutputDir, name)
	if _, err := os.Stat(path); err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "file not generated yet")
	}
	return c.Attachment(path, name)
}
