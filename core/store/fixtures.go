package store

import (
	"context"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures/seed.yaml
var seedYAML []byte

type Fixtures struct {
	Services            []Service       `yaml:"services"`
	SLAs                []SLA           `yaml:"slas"`
	Incidents           []Incident      `yaml:"incidents"`
	Requests            []Request       `yaml:"requests"`
	Audits              []Audit         `yaml:"audits"`
	NonConformities     []NonConformity `yaml:"nonconformities"`
	Risks               []Risk          `yaml:"risks"`
	Assets              []Asset         `yaml:"assets"`
	Problems            []Problem       `yaml:"problems"`
	KPIs                KPI             `yaml:"kpis"`
	SLAComplianceSeries []ChartPoint    `yaml:"sla_compliance_series"`
	IncidentSeries      []ChartPoint    `yaml:"incident_series"`
	Alerts              []Alert         `yaml:"alerts"`
}

func LoadFixtures() (*Fixtures, error) {
	return ParseFixtures(seedYAML)
}

func ParseFixtures(raw []byte) (*Fixtures, error) {
	var fx Fixtures
	if err := yaml.Unmarshal(raw, &fx); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for i := range fx.Problems {
		fx.Problems[i].DisplayID = ProblemDisplayID(fx.Problems[i].ID)
		if fx.Problems[i].RelatedIncidents == nil {
			fx.Problems[i].RelatedIncidents = []string{}
		}
	}
	for i := range fx.Assets {
		if fx.Assets[i].LinkedServices == nil {
			fx.Assets[i].LinkedServices = []string{}
		}
	}
	for i := range fx.Audits {
		if fx.Audits[i].Recommendations == nil {
			fx.Audits[i].Recommendations = []string{}
		}
	}
	return &fx, nil
}

func ProblemDisplayID(id string) string {
	return "PRB" + id
}

// Seed fills every empty collection from the fixtures. Collections that
// already hold records are left alone so a persistent backend keeps its data.
func (s *Stores) Seed(ctx context.Context, fx *Fixtures) error {
	if fx == nil {
		return nil
	}
	steps := []func() error{
		func() error {
			return seedCollection(ctx, s.Services, fx.Services, func(v Service) string { return v.ID })
		},
		func() error { return seedCollection(ctx, s.SLAs, fx.SLAs, func(v SLA) string { return v.ID }) },
		func() error {
			return seedCollection(ctx, s.Incidents, fx.Incidents, func(v Incident) string { return v.ID })
		},
		func() error {
			return seedCollection(ctx, s.Requests, fx.Requests, func(v Request) string { return v.ID })
		},
		func() error { return seedCollection(ctx, s.Audits, fx.Audits, func(v Audit) string { return v.ID }) },
		func() error {
			return seedCollection(ctx, s.NonConformities, fx.NonConformities, func(v NonConformity) string { return v.ID })
		},
		func() error { return seedCollection(ctx, s.Risks, fx.Risks, func(v Risk) string { return v.ID }) },
		func() error { return seedCollection(ctx, s.Assets, fx.Assets, func(v Asset) string { return v.ID }) },
		func() error {
			return seedCollection(ctx, s.Problems, fx.Problems, func(v Problem) string { return v.ID })
		},
		func() error { return seedCollection(ctx, s.Alerts, fx.Alerts, func(v Alert) string { return v.ID }) },
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func seedCollection[T any](ctx context.Context, coll Collection[T], items []T, idOf func(T) string) error {
	n, err := coll.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	for _, item := range items {
		if err := coll.Insert(ctx, idOf(item), item); err != nil {
			return fmt.Errorf("seed %s: %w", idOf(item), err)
		}
	}
	return nil
}
