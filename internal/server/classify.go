package server

import (
	"log"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/fawad57/psyplex/internal/classifier"
	"github.com/fawad57/psyplex/internal/csvtable"
	"github.com/fawad57/psyplex/internal/history"
)

// PredictedCSVName is the classifier's output artifact.
const PredictedCSVName = "predicted_history.csv"

const categoryColumn = "predicted_category"

// ClassifyHandler annotates the exported history with predicted categories.
type ClassifyHandler struct {
	Model     classifier.Classifier // nil when the model artifact is missing
	OutputDir string
	Logger    *log.Logger
}

func (h *ClassifyHandler) Register(g *echo.Group) {
	g.POST("", h.classify)
}

func (h *ClassifyHandler) classify(c echo.Context) error {
	classifyRuns.Inc()

	if h.Model == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "classification model unavailable")
	}

	t, err := csvtable.Read(filepath.Join(h.OutputDir, history.CSVName))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "history export not found; fetch history first")
	}
	if !t.HasColumn("url") {
		return echo.NewHTTPError(http.StatusBadRequest, "history export has no url column")
	}

	urls := make([]string, len(t.Records))
	for i := range t.Records {
		urls[i] = t.Get(i, "url")
	}
	predictions, err := h.Model.Predict(urls)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	t.AddColumn(categoryColumn)
	counts := map[string]int{}
	for i, p := range predictions {
		t.Set(i, categoryColumn, p)
		counts[p]++
	}

	out := filepath.Join(h.OutputDir, PredictedCSVName)
	if err := t.Write(out); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.Logger.Printf("classified %d urls", len(urls))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"rows":       len(urls),
		"csv":        out,
		"categories": counts,
	})
}
