package dashboard

import (
	"io"

	"itsm-desk/core/store"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// RenderCharts writes an HTML page with the SLA compliance line and the
// incident trend bars.
func (s *Service) RenderCharts(w io.Writer) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "SLA Compliance", Subtitle: "Daily compliance percentage"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	names, values := split(s.series.SLACompliance)
	lineData := make([]opts.LineData, 0, len(values))
	for _, v := range values {
		lineData = append(lineData, opts.LineData{Value: v})
	}
	line.SetXAxis(names).AddSeries("compliance", lineData)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Incident Trends", Subtitle: "Incidents per month"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	names, values = split(s.series.Incidents)
	barData := make([]opts.BarData, 0, len(values))
	for _, v := range values {
		barData = append(barData, opts.BarData{Value: v})
	}
	bar.SetXAxis(names).AddSeries("incidents", barData)

	page := components.NewPage()
	page.AddCharts(line, bar)
	return page.Render(w)
}

func split(points []store.ChartPoint) ([]string, []float64) {
	names := make([]string, 0, len(points))
	values := make([]float64, 0, len(points))
	for _, p := range points {
		names = append(names, p.Name)
		values = append(values, p.Value)
	}
	return names, values
}
