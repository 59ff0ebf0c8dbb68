package appbootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"itsm-desk/api"
	"itsm-desk/config"
	"itsm-desk/core/assets"
	"itsm-desk/core/assistant"
	"itsm-desk/core/audits"
	"itsm-desk/core/catalog"
	"itsm-desk/core/dashboard"
	"itsm-desk/core/events"
	"itsm-desk/core/incidents"
	"itsm-desk/core/nonconformities"
	"itsm-desk/core/problems"
	"itsm-desk/core/rbac"
	"itsm-desk/core/records"
	"itsm-desk/core/reports"
	"itsm-desk/core/risks"
	"itsm-desk/core/sla"
	"itsm-desk/core/store"
	"itsm-desk/core/utils"

	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 10 * time.Second

// Runtime holds every long-lived component of one process.
type Runtime struct {
	Config    *config.AppConfig
	Logger    *utils.Logger
	DB        *sql.DB
	Stores    *store.Stores
	Fixtures  *store.Fixtures
	Policy    *rbac.Policy
	Events    events.Publisher
	Deps      api.ServerDeps
	Scheduler *reports.Scheduler
	workers   []api.BackgroundWorker
}

func Compose(ctx context.Context, cfg *config.AppConfig, logger *utils.Logger) (*Runtime, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	driver := cfg.Storage.EffectiveDriver()
	db, err := store.OpenDB(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}
	if db != nil {
		if err := store.ApplyMigrations(ctx, db, driver, logger); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	rt := &Runtime{Config: cfg, Logger: logger, DB: db, Stores: store.NewStores(db, driver)}

	fx, err := store.LoadFixtures()
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Fixtures = fx
	if cfg.Storage.SeedData {
		if err := rt.Stores.Seed(ctx, fx); err != nil {
			rt.Close()
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	rt.Policy, err = rbac.NewPolicy(rbac.DefaultRoles())
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.Events = events.Open(cfg.Events.AMQPURL, cfg.Events.Exchange, logger)

	deps := records.Deps{Activity: rt.Stores.Activity, Events: rt.Events, Logger: logger}
	svc := catalog.NewCatalog(rt.Stores.Services, deps)
	slas := sla.NewManager(rt.Stores.SLAs, deps)
	incs := incidents.NewIncidents(rt.Stores.Incidents, deps)
	generator := reports.NewGenerator(reports.Sources{
		KPI:       func() store.KPI { return fx.KPIs },
		Services:  svc,
		Incidents: incs,
		SLAs:      slas,
	}, cfg.Reports.SimulatedDelay, logger)

	rt.Deps = api.ServerDeps{
		Services:        svc,
		SLAs:            slas,
		Incidents:       incs,
		Requests:        incidents.NewRequests(rt.Stores.Requests, deps),
		Audits:          audits.NewManager(rt.Stores.Audits, deps),
		NonConformities: nonconformities.NewManager(rt.Stores.NonConformities, deps),
		Risks:           risks.NewRegister(rt.Stores.Risks, deps),
		Assets:          assets.NewInventory(rt.Stores.Assets, deps),
		Problems:        problems.NewManager(rt.Stores.Problems, deps),
		Dashboard:       dashboard.NewService(fx, rt.Stores.Alerts, rt.Stores.Dismissals, logger),
		Reports:         generator,
		Assistant:       assistant.NewFromConfig(ctx, cfg.Assistant, logger),
		Activity:        rt.Stores.Activity,
	}
	rt.Scheduler = reports.NewScheduler(cfg.Reports, generator, logger)
	rt.workers = []api.BackgroundWorker{rt.Scheduler}
	return rt, nil
}

func (rt *Runtime) Server() *api.Server {
	return api.NewServer(rt.Config, rt.Policy, rt.Deps, rt.Logger)
}

// Run serves HTTP and runs the background workers until ctx is cancelled or
// one of them fails.
func (rt *Runtime) Run(ctx context.Context) error {
	server := rt.Server()
	g, gctx := errgroup.WithContext(ctx)
	for _, w := range rt.workers {
		w.StartWithContext(gctx)
	}
	g.Go(func() error {
		return server.ListenAndServe(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		timeout := rt.Config.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		stopCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		var errs []error
		for _, w := range rt.workers {
			if err := w.StopWithContext(stopCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}

func (rt *Runtime) Close() {
	if rt.Events != nil {
		if err := rt.Events.Close(); err != nil {
			rt.Logger.Errorf("close events: %v", err)
		}
	}
	if rt.DB != nil {
		if err := rt.DB.Close(); err != nil {
			rt.Logger.Errorf("close db: %v", err)
		}
	}
	_ = rt.Logger.Sync()
}

// ExportTable builds the export table of one module from the current records.
func (rt *Runtime) ExportTable(ctx context.Context, module string) (reports.Table, error) {
	d := rt.Deps
	switch strings.ToLower(strings.TrimSpace(module)) {
	case store.KindServices:
		return table[store.Service](ctx, d.Services, reports.ServicesTable)
	case store.KindSLAs:
		return table[store.SLA](ctx, d.SLAs, reports.SLAsTable)
	case store.KindIncidents:
		return table[store.Incident](ctx, d.Incidents, reports.IncidentsTable)
	case store.KindRequests:
		return table[store.Request](ctx, d.Requests, reports.RequestsTable)
	case store.KindAudits:
		return table[store.Audit](ctx, d.Audits, reports.AuditsTable)
	case store.KindNonConformities:
		return table[store.NonConformity](ctx, d.NonConformities, reports.NonConformitiesTable)
	case store.KindRisks:
		return table[store.Risk](ctx, d.Risks, reports.RisksTable)
	case store.KindAssets:
		return table[store.Asset](ctx, d.Assets, reports.AssetsTable)
	case store.KindProblems:
		return table[store.Problem](ctx, d.Problems, reports.ProblemsTable)
	}
	return reports.Table{}, fmt.Errorf("%w: %q", reports.ErrUnknownModule, module)
}

func table[T any](ctx context.Context, src reports.Lister[T], build func([]T) reports.Table) (reports.Table, error) {
	items, err := src.List(ctx)
	if err != nil {
		return reports.Table{}, err
	}
	return build(items), nil
}
