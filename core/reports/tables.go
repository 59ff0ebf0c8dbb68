package reports

import (
	"strconv"
	"strings"
	"time"

	"itsm-desk/core/store"
)

const dateLayout = "2006-01-02"

func cols(pairs ...string) []Column {
	out := make([]Column, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Column{Key: pairs[i], Header: pairs[i+1]})
	}
	return out
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ServicesTable(items []store.Service) Table {
	t := Table{
		Module:  store.KindServices,
		Title:   "Services Report",
		Sheet:   "Services",
		Columns: cols("id", "ID", "name", "Name", "description", "Description", "category", "Category", "status", "Status", "owner", "Owner"),
	}
	for _, s := range items {
		t.Rows = append(t.Rows, map[string]string{
			"id": s.ID, "name": s.Name, "description": s.Description,
			"category": s.Category, "status": s.Status, "owner": s.Owner,
		})
	}
	return t
}

func SLAsTable(items []store.SLA) Table {
	t := Table{
		Module:  store.KindSLAs,
		Title:   "SLA Report",
		Sheet:   "SLAs",
		Columns: cols("id", "ID", "name", "Name", "service", "Service", "objective", "Objective (%)", "current", "Current (%)", "status", "Status"),
	}
	for _, s := range items {
		t.Rows = append(t.Rows, map[string]string{
			"id": s.ID, "name": s.Name, "service": s.Service,
			"objective": formatFloat(s.Objective), "current": formatFloat(s.Current), "status": s.Status,
		})
	}
	return t
}

func IncidentsTable(items []store.Incident) Table {
	t := Table{
		Module: store.KindIncidents,
		Title:  "Incidents Report",
		Sheet:  "Incidents",
		Columns: cols("id", "ID", "title", "Title", "description", "Description", "priority", "Priority",
			"status", "Status", "assignee", "Assignee", "created_at", "Created Date", "updated_at", "Updated Date"),
	}
	for _, i := range items {
		assignee := i.Assignee
		if assignee == "" {
			assignee = "Unassigned"
		}
		t.Rows = append(t.Rows, map[string]string{
			"id": i.ID, "title": i.Title, "description": i.Description, "priority": i.Priority,
			"status": i.Status, "assignee": assignee,
			"created_at": formatDate(i.CreatedAt), "updated_at": formatDate(i.UpdatedAt),
		})
	}
	return t
}

func RequestsTable(items []store.Request) Table {
	t := Table{
		Module: store.KindRequests,
		Title:  "Service Requests Report",
		Sheet:  "Requests",
		Columns: cols("id", "ID", "title", "Title", "description", "Description", "priority", "Priority",
			"status", "Status", "requester", "Requester", "created_at", "Created Date", "updated_at", "Updated Date"),
	}
	for _, r := range items {
		t.Rows = append(t.Rows, map[string]string{
			"id": r.ID, "title": r.Title, "description": r.Description, "priority": r.Priority,
			"status": r.Status, "requester": r.Requester,
			"created_at": formatDate(r.CreatedAt), "updated_at": formatDate(r.UpdatedAt),
		})
	}
	return t
}

func AuditsTable(items []store.Audit) Table {
	t := Table{
		Module: store.KindAudits,
		Title:  "Audits Report",
		Sheet:  "Audits",
		Columns: cols("id", "ID", "name", "Name", "scope", "Scope", "date", "Date", "result", "Result",
			"status", "Status", "recommendations", "Recommendations"),
	}
	for _, a := range items {
		t.Rows = append(t.Rows, map[string]string{
			"id": a.ID, "name": a.Name, "scope": a.Scope, "date": formatDate(a.Date),
			"result": a.Result, "status": a.Status, "recommendations": strings.Join(a.Recommendations, "; "),
		})
	}
	return t
}

func NonConformitiesTable(items []store.NonConformity) Table {
	t := Table{
		Module: store.KindNonConformities,
		Title:  "Non-Conformities Report",
		Sheet:  "Non-Conformities",
		Columns: cols("id", "ID", "description", "Description", "cause", "Cause", "action", "Action",
			"status", "Status", "severity", "Severity", "created_at", "Created Date"),
	}
	for _, n := range items {
		t.Rows = append(t.Rows, map[string]string{
			"id": n.ID, "description": n.Description, "cause": n.Cause, "action": n.Action,
			"status": n.Status, "severity": n.Severity, "created_at": formatDate(n.CreatedAt),
		})
	}
	return t
}

func RisksTable(items []store.Risk) Table {
	t := Table{
		Module: store.KindRisks,
		Title:  "Risk Register Report",
		Sheet:  "Risks",
		Columns: cols("id", "ID", "description", "Description", "impact", "Impact", "probability", "Probability",
			"priority", "Priority", "mitigation", "Mitigation", "status", "Status"),
	}
	for _, r := range items {
		t.Rows = append(t.Rows, map[string]string{
			"id": r.ID, "description": r.Description, "impact": r.Impact, "probability": r.Probability,
			"priority": r.Priority, "mitigation": r.Mitigation, "status": r.Status,
		})
	}
	return t
}

func AssetsTable(items []store.Asset) Table {
	t := Table{
		Module:  store.KindAssets,
		Title:   "Assets Report",
		Sheet:   "Assets",
		Columns: cols("id", "ID", "name", "Name", "type", "Type", "status", "Status", "location", "Location", "linked_services", "Linked Services"),
	}
	for _, a := range items {
		t.Rows = append(t.Rows, map[string]string{
			"id": a.ID, "name": a.Name, "type": a.Type, "status": a.Status,
			"location": a.Location, "linked_services": strings.Join(a.LinkedServices, ", "),
		})
	}
	return t
}

func ProblemsTable(items []store.Problem) Table {
	t := Table{
		Module: store.KindProblems,
		Title:  "Problems Report",
		Sheet:  "Problems",
		Columns: cols("id", "ID", "description", "Description", "root_cause", "Root Cause", "solution", "Solution",
			"status", "Status", "related_incidents", "Related Incidents", "created_at", "Created Date"),
	}
	for _, p := range items {
		id := p.DisplayID
		if id == "" {
			id = store.ProblemDisplayID(p.ID)
		}
		t.Rows = append(t.Rows, map[string]string{
			"id": id, "description": p.Description, "root_cause": p.RootCause, "solution": p.Solution,
			"status": p.Status, "related_incidents": strings.Join(p.RelatedIncidents, ", "),
			"created_at": formatDate(p.CreatedAt),
		})
	}
	return t
}
