package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"itsm-desk/config"
	"itsm-desk/core/assets"
	"itsm-desk/core/assistant"
	"itsm-desk/core/audits"
	"itsm-desk/core/catalog"
	"itsm-desk/core/dashboard"
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

	"github.com/stretchr/testify/require"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		ListenAddr: "127.0.0.1:0",
		Security: config.SecurityConfig{
			DefaultRole:         rbac.RoleUser,
			AssistantRatePerMin: 20,
			MaxPayloadBytes:     1 << 20,
		},
		Reports: config.ReportsConfig{DefaultPeriod: "month", DefaultFormat: "pdf"},
	}
}

func newTestServer(t *testing.T, cfg *config.AppConfig) (*Server, *store.Stores) {
	t.Helper()
	ctx := context.Background()
	logger := utils.NewNopLogger()
	stores := store.NewMemoryStores()
	fx, err := store.LoadFixtures()
	require.NoError(t, err)
	require.NoError(t, stores.Seed(ctx, fx))
	policy, err := rbac.NewPolicy(rbac.DefaultRoles())
	require.NoError(t, err)

	deps := records.Deps{Activity: stores.Activity, Logger: logger}
	svc := catalog.NewCatalog(stores.Services, deps)
	slas := sla.NewManager(stores.SLAs, deps)
	incs := incidents.NewIncidents(stores.Incidents, deps)
	server := NewServer(cfg, policy, ServerDeps{
		Services:        svc,
		SLAs:            slas,
		Incidents:       incs,
		Requests:        incidents.NewRequests(stores.Requests, deps),
		Audits:          audits.NewManager(stores.Audits, deps),
		NonConformities: nonconformities.NewManager(stores.NonConformities, deps),
		Risks:           risks.NewRegister(stores.Risks, deps),
		Assets:          assets.NewInventory(stores.Assets, deps),
		Problems:        problems.NewManager(stores.Problems, deps),
		Dashboard:       dashboard.NewService(fx, stores.Alerts, stores.Dismissals, logger),
		Reports: reports.NewGenerator(reports.Sources{
			KPI:       func() store.KPI { return fx.KPIs },
			Services:  svc,
			Incidents: incs,
			SLAs:      slas,
		}, 0, logger),
		Assistant: assistant.NewService(nil, 0, 0, logger),
		Activity:  stores.Activity,
	}, logger)
	return server, stores
}

func doRequest(t *testing.T, s *Server, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	return rr
}
