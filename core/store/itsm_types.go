package store

import (
	"slices"
	"time"
)

type Service struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Status      string `json:"status" yaml:"status"`
	Category    string `json:"category" yaml:"category"`
	Owner       string `json:"owner" yaml:"owner"`
}

func (s Service) Clone() Service { return s }

type SLA struct {
	ID        string  `json:"id" yaml:"id"`
	Name      string  `json:"name" yaml:"name"`
	Objective float64 `json:"objective" yaml:"objective"`
	Current   float64 `json:"current" yaml:"current"`
	Status    string  `json:"status" yaml:"status"`
	Service   string  `json:"service" yaml:"service"`
}

func (s SLA) Clone() SLA { return s }

type Incident struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Priority    string    `json:"priority" yaml:"priority"`
	Status      string    `json:"status" yaml:"status"`
	Assignee    string    `json:"assignee,omitempty" yaml:"assignee"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

func (i Incident) Clone() Incident { return i }

type Request struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Priority    string    `json:"priority" yaml:"priority"`
	Status      string    `json:"status" yaml:"status"`
	Requester   string    `json:"requester" yaml:"requester"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" yaml:"updated_at"`
}

func (r Request) Clone() Request { return r }

type Audit struct {
	ID              string    `json:"id" yaml:"id"`
	Name            string    `json:"name" yaml:"name"`
	Scope           string    `json:"scope" yaml:"scope"`
	Result          string    `json:"result" yaml:"result"`
	Status          string    `json:"status" yaml:"status"`
	Date            time.Time `json:"date" yaml:"date"`
	Recommendations []string  `json:"recommendations" yaml:"recommendations"`
}

func (a Audit) Clone() Audit {
	a.Recommendations = cloneStrings(a.Recommendations)
	return a
}

type NonConformity struct {
	ID          string    `json:"id" yaml:"id"`
	Description string    `json:"description" yaml:"description"`
	Cause       string    `json:"cause" yaml:"cause"`
	Action      string    `json:"action" yaml:"action"`
	Status      string    `json:"status" yaml:"status"`
	Severity    string    `json:"severity" yaml:"severity"`
	CreatedAt   time.Time `json:"created_at" yaml:"created_at"`
}

func (n NonConformity) Clone() NonConformity { return n }

type Risk struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Impact      string `json:"impact" yaml:"impact"`
	Probability string `json:"probability" yaml:"probability"`
	Mitigation  string `json:"mitigation" yaml:"mitigation"`
	Status      string `json:"status" yaml:"status"`
	Priority    string `json:"priority" yaml:"priority"`
}

func (r Risk) Clone() Risk { return r }

type Asset struct {
	ID             string   `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	Type           string   `json:"type" yaml:"type"`
	Status         string   `json:"status" yaml:"status"`
	LinkedServices []string `json:"linked_services" yaml:"linked_services"`
	Location       string   `json:"location,omitempty" yaml:"location"`
}

func (a Asset) Clone() Asset {
	a.LinkedServices = cloneStrings(a.LinkedServices)
	return a
}

type Problem struct {
	ID               string    `json:"id" yaml:"id"`
	DisplayID        string    `json:"display_id" yaml:"-"`
	Description      string    `json:"description" yaml:"description"`
	RootCause        string    `json:"root_cause" yaml:"root_cause"`
	Solution         string    `json:"solution" yaml:"solution"`
	Status           string    `json:"status" yaml:"status"`
	RelatedIncidents []string  `json:"related_incidents" yaml:"related_incidents"`
	CreatedAt        time.Time `json:"created_at" yaml:"created_at"`
}

func (p Problem) Clone() Problem {
	p.RelatedIncidents = cloneStrings(p.RelatedIncidents)
	return p
}

type Alert struct {
	ID       string `json:"id" yaml:"id"`
	Message  string `json:"message" yaml:"message"`
	Type     string `json:"type" yaml:"type"`
	Severity string `json:"severity" yaml:"severity"`
}

func (a Alert) Clone() Alert { return a }

type AlertDismissal struct {
	AlertID     string    `json:"alert_id"`
	DismissedAt time.Time `json:"dismissed_at"`
	DismissedBy string    `json:"dismissed_by"`
}

func (d AlertDismissal) Clone() AlertDismissal { return d }

type KPI struct {
	Availability         float64 `json:"availability" yaml:"availability"`
	TotalIncidents       int     `json:"total_incidents" yaml:"total_incidents"`
	AvgResolutionTime    float64 `json:"avg_resolution_time" yaml:"avg_resolution_time"`
	CustomerSatisfaction float64 `json:"customer_satisfaction" yaml:"customer_satisfaction"`
	SLACompliance        float64 `json:"sla_compliance" yaml:"sla_compliance"`
}

type ChartPoint struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

type ActivityRecord struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Module    string    `json:"module"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}

func (a ActivityRecord) Clone() ActivityRecord { return a }

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return slices.Clone(in)
}
