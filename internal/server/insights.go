package server

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	"github.com/fawad57/psyplex/internal/csvtable"
	"github.com/fawad57/psyplex/internal/insight"
)

// WithEmotionsName is the emotion annotation artifact.
const WithEmotionsName = "predicted_history_with_emotions.csv"

const previewRows = 10

// InsightsHandler covers emotion annotation, correlation analysis and mood
// trend aggregation over the classified history.
type InsightsHandler struct {
	OutputDir string
	Logger    *log.Logger
}

func (h *InsightsHandler) Register(api *echo.Group) {
	api.POST("/emotions", h.addEmotions)
	api.GET("/emotions/data", h.emotionData)
	api.POST("/insights/correlation", h.correlation)
	api.GET("/mood/trends", h.moodTrends)
}

func (h *InsightsHandler) addEmotions(c echo.Context) error {
	emotionRuns.Inc()

	t, err := csvtable.Read(filepath.Join(h.OutputDir, PredictedCSVName))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "classified history not found; run classification first")
	}
	if !t.HasColumn(categoryColumn) {
		missing := &insight.MissingColumnsError{Columns: []string{categoryColumn}}
		return echo.NewHTTPError(http.StatusBadRequest, missing.Error())
	}

	rows := insight.RowsFromTable(t)
	insight.Annotate(rows)
	insight.ApplyToTable(t, rows)

	out := filepath.Join(h.OutputDir, WithEmotionsName)
	if err := t.Write(out); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	h.Logger.Printf("annotated %d rows", len(rows))
	return c.JSON(http.StatusOK, map[string]interface{}{
		"rows":    len(rows),
		"csv":     out,
		"preview": tableRecords(t, previewRows),
	})
}

func (h *InsightsHandler) emotionData(c echo.Context) error {
	t, err := csvtable.Read(filepath.Join(h.OutputDir, WithEmotionsName))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "emotion data not found; run emotion annotation first")
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"data": tableRecords(t, len(t.Records)),
	})
}

type correlationRequest struct {
	Data    []insight.RowPayload `json:"data"`
	CSVPath string               `json:"csv_path"`
}

func (h *InsightsHandler) correlation(c echo.Context) error {
	correlationRuns.Inc()

	var req correlationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	var rows []insight.Row
	if len(req.Data) > 0 {
		rows = make([]insight.Row, len(req.Data))
		for i, p := range req.Data {
			rows[i] = p.Row()
		}
	} else {
		path := req.CSVPath
		if path != "" {
			t, err := csvtable.Read(path)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "csv_path not readable: "+path)
			}
			rows = insight.RowsFromTable(t)
		} else {
			t, err := csvtable.Read(filepath.Join(h.OutputDir, WithEmotionsName))
			if err != nil {
				return echo.NewHTTPError(http.StatusNotFound, "no data provided and no annotated history found")
			}
			rows = insight.RowsFromTable(t)
		}
	}

	result, err := insight.Correlate(rows)
	var missing *insight.MissingColumnsError
	if errors.As(err, &missing) {
		// Score columns absent: annotate from category/domain and retry.
		insight.Annotate(rows)
		result, err = insight.Correlate(rows)
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}

func (h *InsightsHandler) moodTrends(c echo.Context) error {
	period := c.QueryParam("period")
	if period == "" {
		period = "monthly"
	}

	t, err := csvtable.Read(filepath.Join(h.OutputDir, WithEmotionsName))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "emotion data not found; run emotion annotation first")
	}

	report, err := insight.MoodTrends(insight.RowsFromTable(t), period)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, report)
}

func tableRecords(t *csvtable.Table, limit int) []map[string]string {
	if limit > len(t.Records) {
		limit = len(t.Records)
	}
	out := make([]map[string]string, limit)
	for i := 0; i < limit; i++ {
		row := make(map[string]string, len(t.Header))
		for _, col := range t.Header {
			row[col] = t.Get(i, col)
		}
		out[i] = row
	}
	return out
}
