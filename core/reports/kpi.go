package reports

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"itsm-desk/core/incidents"
	"itsm-desk/core/sla"
	"itsm-desk/core/store"
	"itsm-desk/core/utils"
)

var (
	ErrNoMetrics     = errors.New("no metrics selected")
	ErrUnknownMetric = errors.New("unknown metric")
	ErrUnknownPeriod = errors.New("unknown period")
)

var Periods = []string{"day", "week", "month", "quarter", "year"}

type Metric struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

var metricOrder = []string{"availability", "incidents", "resolution", "satisfaction", "sla", "services"}

// Metrics lists every report metric with its current value.
func Metrics(kpi store.KPI, activeServices int) []Metric {
	return []Metric{
		{ID: "availability", Label: "System Availability", Value: fmt.Sprintf("%g%%", kpi.Availability)},
		{ID: "incidents", Label: "Total Incidents", Value: fmt.Sprintf("%d", kpi.TotalIncidents)},
		{ID: "resolution", Label: "Average Resolution Time", Value: fmt.Sprintf("%gh", kpi.AvgResolutionTime)},
		{ID: "satisfaction", Label: "Customer Satisfaction", Value: fmt.Sprintf("%g%%", kpi.CustomerSatisfaction)},
		{ID: "sla", Label: "SLA Compliance", Value: fmt.Sprintf("%g%%", kpi.SLACompliance)},
		{ID: "services", Label: "Active Services", Value: fmt.Sprintf("%d", activeServices)},
	}
}

type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

type Sources struct {
	KPI       func() store.KPI
	Services  Lister[store.Service]
	Incidents Lister[store.Incident]
	SLAs      Lister[store.SLA]
}

type KPIRequest struct {
	Metrics []string `json:"metrics"`
	Period  string   `json:"period"`
	Format  string   `json:"format"`
}

// Generator builds KPI and audit documents. delay simulates a slow backend
// and is skipped as soon as ctx is done.
type Generator struct {
	src    Sources
	delay  time.Duration
	logger *utils.Logger
	now    func() time.Time
}

func NewGenerator(src Sources, delay time.Duration, logger *utils.Logger) *Generator {
	return &Generator{src: src, delay: delay, logger: logger, now: utils.NowUTC}
}

func (g *Generator) AvailableMetrics(ctx context.Context) ([]Metric, error) {
	active, err := g.activeServices(ctx)
	if err != nil {
		return nil, err
	}
	return Metrics(g.src.KPI(), active), nil
}

func (g *Generator) KPIReport(ctx context.Context, req KPIRequest) (*Document, error) {
	format, err := ParseFormat(req.Format)
	if err != nil {
		return nil, err
	}
	period := strings.ToLower(strings.TrimSpace(req.Period))
	if !slices.Contains(Periods, period) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPeriod, req.Period)
	}
	selected, err := normalizeMetrics(req.Metrics)
	if err != nil {
		return nil, err
	}
	if err := g.wait(ctx); err != nil {
		return nil, err
	}
	active, err := g.activeServices(ctx)
	if err != nil {
		return nil, err
	}
	incs, err := g.src.Incidents.List(ctx)
	if err != nil {
		return nil, err
	}
	slas, err := g.src.SLAs.List(ctx)
	if err != nil {
		return nil, err
	}
	var metrics []Metric
	for _, m := range Metrics(g.src.KPI(), active) {
		if slices.Contains(selected, m.ID) {
			metrics = append(metrics, m)
		}
	}
	now := g.now()
	data := kpiData{period: period, generated: now, metrics: metrics, incidents: incs, slas: slas}
	var body []byte
	if format == FormatXLSX {
		body, err = data.xlsx()
	} else {
		body, err = data.pdf()
	}
	if err != nil {
		return nil, err
	}
	if g.logger != nil {
		g.logger.Printf("report generated period=%s format=%s metrics=%v bytes=%d", period, format, selected, len(body))
	}
	return &Document{
		Filename:    fmt.Sprintf("itsm-report-%s-%s.%s", period, now.Format(dateLayout), format),
		ContentType: format.ContentType(),
		Data:        body,
	}, nil
}

func normalizeMetrics(raw []string) ([]string, error) {
	var out []string
	for _, m := range raw {
		id := strings.ToLower(strings.TrimSpace(m))
		if id == "" {
			continue
		}
		if !slices.Contains(metricOrder, id) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, id)
		}
		if !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoMetrics
	}
	return out, nil
}

func (g *Generator) wait(ctx context.Context) error {
	if g.delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(g.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (g *Generator) activeServices(ctx context.Context) (int, error) {
	items, err := g.src.Services.List(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, s := range items {
		if s.Status == "active" {
			n++
		}
	}
	return n, nil
}

type kpiData struct {
	period    string
	generated time.Time
	metrics   []Metric
	incidents []store.Incident
	slas      []store.SLA
}

func (d kpiData) pdf() ([]byte, error) {
	w := newPDFWriter("IT Service Management Report")
	w.title("IT Service Management Report")
	w.text("Period: " + d.period)
	w.text("Generated: " + d.generated.Format(time.RFC1123))
	w.heading("Key Performance Indicators")
	for _, m := range d.metrics {
		w.item(m.Label + ": " + m.Value)
	}
	counts := incidents.CountIncidents(d.incidents)
	w.heading("Incident Summary")
	w.item(fmt.Sprintf("Open: %d", counts.Open))
	w.item(fmt.Sprintf("In Progress: %d", counts.InProgress))
	w.item(fmt.Sprintf("Resolved: %d", counts.Resolved))
	summary := sla.Summarize(d.slas)
	w.heading("SLA Status Summary")
	w.item(fmt.Sprintf("Healthy: %d", summary.Healthy))
	w.item(fmt.Sprintf("Warning: %d", summary.Warning))
	w.item(fmt.Sprintf("Critical: %d", summary.Critical))
	return w.bytes()
}

func (d kpiData) xlsx() ([]byte, error) {
	generated := d.generated.Format(dateLayout)
	kpis := sheet{name: "KPIs", headers: []string{"Metric", "Value", "Period", "Generated Date"}}
	for _, m := range d.metrics {
		kpis.rows = append(kpis.rows, []any{m.Label, m.Value, d.period, generated})
	}
	incs := tableSheet(IncidentsTable(d.incidents))
	if sel, err := IncidentsTable(d.incidents).Select([]string{"id", "title", "priority", "status", "assignee", "created_at", "updated_at"}); err == nil {
		incs = tableSheet(sel)
	}
	slaSheet := tableSheet(SLAsTable(d.slas))
	if sel, err := SLAsTable(d.slas).Select([]string{"name", "service", "objective", "current", "status"}); err == nil {
		slaSheet = tableSheet(sel)
	}
	return workbook(kpis, incs, slaSheet)
}
