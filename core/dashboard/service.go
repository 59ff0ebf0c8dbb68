package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"itsm-desk/core/store"
	"itsm-desk/core/utils"
)

var (
	ErrUnknownPeriod = errors.New("unknown period")
	ErrAlertNotFound = errors.New("alert not found")
)

var Periods = []string{"day", "week", "month"}

type KPICard struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit"`
	Target float64 `json:"target,omitempty"`
	Trend  string  `json:"trend"`
}

type Overview struct {
	Period string       `json:"period"`
	KPIs   store.KPI    `json:"kpis"`
	Cards  []KPICard    `json:"cards"`
	Charts ChartsSeries `json:"charts"`
}

type ChartsSeries struct {
	SLACompliance []store.ChartPoint `json:"sla_compliance"`
	Incidents     []store.ChartPoint `json:"incidents"`
}

type Service struct {
	kpi        store.KPI
	series     ChartsSeries
	alerts     store.Collection[store.Alert]
	dismissals store.Collection[store.AlertDismissal]
	logger     *utils.Logger
	mu         sync.Mutex
}

func NewService(fx *store.Fixtures, alerts store.Collection[store.Alert], dismissals store.Collection[store.AlertDismissal], logger *utils.Logger) *Service {
	s := &Service{alerts: alerts, dismissals: dismissals, logger: logger}
	if fx != nil {
		s.kpi = fx.KPIs
		s.series = ChartsSeries{
			SLACompliance: slices.Clone(fx.SLAComplianceSeries),
			Incidents:     slices.Clone(fx.IncidentSeries),
		}
	}
	return s
}

func (s *Service) KPI() store.KPI {
	return s.kpi
}

func ParsePeriod(raw string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(raw))
	if p == "" {
		return "week", nil
	}
	if !slices.Contains(Periods, p) {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, raw)
	}
	return p, nil
}

func (s *Service) Overview(period string) (Overview, error) {
	p, err := ParsePeriod(period)
	if err != nil {
		return Overview{}, err
	}
	return Overview{
		Period: p,
		KPIs:   s.kpi,
		Cards:  cards(s.kpi),
		Charts: ChartsSeries{
			SLACompliance: slices.Clone(s.series.SLACompliance),
			Incidents:     slices.Clone(s.series.Incidents),
		},
	}, nil
}

func cards(k store.KPI) []KPICard {
	trend := func(value, target float64) string {
		if value >= target {
			return "up"
		}
		return "down"
	}
	return []KPICard{
		{ID: "availability", Title: "System Availability", Value: k.Availability, Unit: "%", Target: 99, Trend: trend(k.Availability, 99)},
		{ID: "incidents", Title: "Total Incidents", Value: float64(k.TotalIncidents), Trend: "neutral"},
		{ID: "resolution", Title: "Avg Resolution Time", Value: k.AvgResolutionTime, Unit: "h", Trend: "neutral"},
		{ID: "satisfaction", Title: "Customer Satisfaction", Value: k.CustomerSatisfaction, Unit: "%", Target: 90, Trend: trend(k.CustomerSatisfaction, 90)},
		{ID: "sla", Title: "SLA Compliance", Value: k.SLACompliance, Unit: "%", Target: 95, Trend: trend(k.SLACompliance, 95)},
	}
}

// Alerts returns the alerts nobody has dismissed yet.
func (s *Service) Alerts(ctx context.Context) ([]store.Alert, error) {
	all, err := s.alerts.List(ctx)
	if err != nil {
		return nil, err
	}
	dismissed, err := s.dismissedIDs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]store.Alert, 0, len(all))
	for _, a := range all {
		if _, ok := dismissed[a.ID]; !ok {
			out = append(out, a)
		}
	}
	return out, nil
}

// Dismiss appends alertID to the suppression list. Dismissing twice keeps
// the first record.
func (s *Service) Dismiss(ctx context.Context, actor, alertID string) error {
	if _, err := s.alerts.Get(ctx, alertID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrAlertNotFound
		}
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	dismissed, err := s.dismissedIDs(ctx)
	if err != nil {
		return err
	}
	if _, ok := dismissed[alertID]; ok {
		return nil
	}
	rec := store.AlertDismissal{AlertID: alertID, DismissedAt: utils.NowUTC(), DismissedBy: actor}
	if err := s.dismissals.Insert(ctx, alertID, rec); err != nil && !errors.Is(err, store.ErrConflict) {
		return err
	}
	s.logger.Printf("alert %s dismissed by %s", alertID, actor)
	return nil
}

func (s *Service) dismissedIDs(ctx context.Context) (map[string]struct{}, error) {
	items, err := s.dismissals.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]struct{}, len(items))
	for _, d := range items {
		out[d.AlertID] = struct{}{}
	}
	return out, nil
}
