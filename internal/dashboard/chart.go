package dashboard

import (
	"fmt"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/rs/zerolog/log"
)

// handleHistoryChart renders the recent prediction history as a line chart.
func (d *Dashboard) handleHistoryChart(w http.ResponseWriter, r *http.Request) {
	if d.store == nil {
		http.Error(w, "history store is not configured", http.StatusNotFound)
		return
	}

	records, err := d.store.RecentAnalyses(100)
	if err != nil {
		http.Error(w, fmt.Sprintf("history query failed: %v", err), http.StatusInternalServerError)
		return
	}

	// Oldest first for a left-to-right timeline.
	xAxis := make([]string, 0, len(records))
	values := make([]opts.LineData, 0, len(records))
	thresholds := make([]opts.LineData, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		xAxis = append(xAxis, rec.Timestamp.Format("01-02 15:04:05"))
		values = append(values, opts.LineData{Value: rec.Prediction})
		thresholds = append(thresholds, opts.LineData{Value: rec.Threshold})
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			Theme:     types.ThemeWesteros,
			PageTitle: "AirSage - Prediction History",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Predicted CO Concentration",
			Subtitle: "most recent analyses, mg/m3",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)
	line.SetXAxis(xAxis)
	line.AddSeries("CO prediction", values,
		charts.WithLineStyleOpts(opts.LineStyle{Color: "#3b82f6", Width: 2}))
	line.AddSeries("Alert threshold", thresholds,
		charts.WithLineStyleOpts(opts.LineStyle{Color: "#f87171", Width: 1}))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := line.Render(w); err != nil {
		log.Error().Err(err).Msg("failed to render history chart")
	}
}
