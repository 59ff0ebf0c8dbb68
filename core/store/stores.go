package store

import (
	"database/sql"

	"itsm-desk/config"
)

const (
	KindServices        = "services"
	KindSLAs            = "slas"
	KindIncidents       = "incidents"
	KindRequests        = "requests"
	KindAudits          = "audits"
	KindNonConformities = "nonconformities"
	KindRisks           = "risks"
	KindAssets          = "assets"
	KindProblems        = "problems"
	KindAlerts          = "alerts"
	KindDismissals      = "alert_dismissals"
	KindActivity        = "activity"
)

type Stores struct {
	Services        Collection[Service]
	SLAs            Collection[SLA]
	Incidents       Collection[Incident]
	Requests        Collection[Request]
	Audits          Collection[Audit]
	NonConformities Collection[NonConformity]
	Risks           Collection[Risk]
	Assets          Collection[Asset]
	Problems        Collection[Problem]
	Alerts          Collection[Alert]
	Dismissals      Collection[AlertDismissal]
	Activity        ActivityStore
}

// NewStores builds one collection per record kind. A nil db selects the
// in-memory backend.
func NewStores(db *sql.DB, driver string) *Stores {
	return &Stores{
		Services:        newCollection(db, driver, KindServices, Service.Clone),
		SLAs:            newCollection(db, driver, KindSLAs, SLA.Clone),
		Incidents:       newCollection(db, driver, KindIncidents, Incident.Clone),
		Requests:        newCollection(db, driver, KindRequests, Request.Clone),
		Audits:          newCollection(db, driver, KindAudits, Audit.Clone),
		NonConformities: newCollection(db, driver, KindNonConformities, NonConformity.Clone),
		Risks:           newCollection(db, driver, KindRisks, Risk.Clone),
		Assets:          newCollection(db, driver, KindAssets, Asset.Clone),
		Problems:        newCollection(db, driver, KindProblems, Problem.Clone),
		Alerts:          newCollection(db, driver, KindAlerts, Alert.Clone),
		Dismissals:      newCollection(db, driver, KindDismissals, AlertDismissal.Clone),
		Activity:        NewActivityStore(newCollection(db, driver, KindActivity, ActivityRecord.Clone)),
	}
}

func NewMemoryStores() *Stores {
	return NewStores(nil, config.DriverMemory)
}

func newCollection[T any](db *sql.DB, driver, kind string, clone func(T) T) Collection[T] {
	if db == nil {
		return NewMemoryCollection(clone)
	}
	return NewSQLCollection[T](db, driver, kind)
}
