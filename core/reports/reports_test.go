package reports

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"itsm-desk/config"
	"itsm-desk/core/store"
	"itsm-desk/core/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type sliceLister[T any] []T

func (s sliceLister[T]) List(context.Context) ([]T, error) { return s, nil }

func fixtureSources(t *testing.T) Sources {
	t.Helper()
	fx, err := store.LoadFixtures()
	require.NoError(t, err)
	return Sources{
		KPI:       func() store.KPI { return fx.KPIs },
		Services:  sliceLister[store.Service](fx.Services),
		Incidents: sliceLister[store.Incident](fx.Incidents),
		SLAs:      sliceLister[store.SLA](fx.SLAs),
	}
}

func TestTableSelect(t *testing.T) {
	table := ServicesTable([]store.Service{{ID: "1", Name: "Email", Owner: "Ops"}})

	all, err := table.Select(nil)
	require.NoError(t, err)
	assert.Len(t, all.Columns, 6)

	_, err = table.Select([]string{})
	assert.ErrorIs(t, err, ErrNoSelection)
	_, err = table.Select([]string{" ", ""})
	assert.ErrorIs(t, err, ErrNoSelection)
	_, err = table.Select([]string{"name", "colour"})
	assert.ErrorIs(t, err, ErrUnknownField)

	sel, err := table.Select([]string{"owner", "ID"})
	require.NoError(t, err)
	assert.Equal(t, []string{"ID", "Owner"}, sel.Headers())
	assert.Equal(t, []string{"1", "Ops"}, sel.Values(sel.Rows[0]))
}

func TestRenderTablePDFContainsOnlySelectedFields(t *testing.T) {
	table := ServicesTable([]store.Service{
		{ID: "1", Name: "Email Service", Category: "Communication", Owner: "IT Operations", Status: "active"},
	})
	sel, err := table.Select([]string{"name", "status"})
	require.NoError(t, err)
	now := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	doc, err := RenderTable(sel, FormatPDF, now)
	require.NoError(t, err)
	assert.Equal(t, "services-report-2024-02-01.pdf", doc.Filename)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.True(t, bytes.HasPrefix(doc.Data, []byte("%PDF")))
	assert.Contains(t, string(doc.Data), "Name: Email Service")
	assert.Contains(t, string(doc.Data), "Status: active")
	assert.NotContains(t, string(doc.Data), "Owner:")
	assert.NotContains(t, string(doc.Data), "Category:")
}

func TestRenderTableXLSX(t *testing.T) {
	table := IncidentsTable([]store.Incident{
		{ID: "INC001", Title: "Email down", Priority: "high", Status: "open", CreatedAt: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)},
	})
	sel, err := table.Select([]string{"id", "assignee", "created_at"})
	require.NoError(t, err)
	doc, err := RenderTable(sel, FormatXLSX, time.Now())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("Incidents")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"ID", "Assignee", "Created Date"}, rows[0])
	assert.Equal(t, []string{"INC001", "Unassigned", "2024-01-15"}, rows[1])
}

func TestRenderTableUnknownFormat(t *testing.T) {
	_, err := RenderTable(ServicesTable(nil), Format("docx"), time.Now())
	assert.ErrorIs(t, err, ErrUnknownFormat)
	_, err = ParseFormat("csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestPDFWriterPaginates(t *testing.T) {
	w := newPDFWriter("test")
	for i := 0; i < 120; i++ {
		w.text("line")
		assert.LessOrEqual(t, w.y, w.bottom+6)
	}
	assert.Greater(t, w.pages(), 1)
	_, err := w.bytes()
	require.NoError(t, err)
}

func TestKPIReportValidation(t *testing.T) {
	gen := NewGenerator(fixtureSources(t), 0, utils.NewNopLogger())
	ctx := context.Background()

	_, err := gen.KPIReport(ctx, KPIRequest{Period: "month", Format: "pdf"})
	assert.ErrorIs(t, err, ErrNoMetrics)
	_, err = gen.KPIReport(ctx, KPIRequest{Metrics: []string{"uptime"}, Period: "month", Format: "pdf"})
	assert.ErrorIs(t, err, ErrUnknownMetric)
	_, err = gen.KPIReport(ctx, KPIRequest{Metrics: []string{"sla"}, Period: "decade", Format: "pdf"})
	assert.ErrorIs(t, err, ErrUnknownPeriod)
}

func TestKPIReportPDF(t *testing.T) {
	gen := NewGenerator(fixtureSources(t), 0, utils.NewNopLogger())
	doc, err := gen.KPIReport(context.Background(), KPIRequest{Metrics: []string{"availability", "services"}, Period: "week", Format: "pdf"})
	require.NoError(t, err)
	body := string(doc.Data)
	assert.Contains(t, body, "IT Service Management Report")
	assert.Contains(t, body, "Period: week")
	assert.Contains(t, body, "System Availability: 99.2%")
	assert.Contains(t, body, "Active Services: 3")
	assert.NotContains(t, body, "Customer Satisfaction")
	assert.Contains(t, body, "Open: 1")
	assert.Contains(t, body, "Critical: 1")
}

func TestKPIReportXLSX(t *testing.T) {
	gen := NewGenerator(fixtureSources(t), 0, utils.NewNopLogger())
	doc, err := gen.KPIReport(context.Background(), KPIRequest{Metrics: []string{"incidents"}, Period: "quarter", Format: "xlsx"})
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(doc.Data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"KPIs", "Incidents", "SLAs"}, f.GetSheetList())
	kpis, err := f.GetRows("KPIs")
	require.NoError(t, err)
	require.Len(t, kpis, 2)
	assert.Equal(t, []string{"Total Incidents", "15", "quarter"}, kpis[1][:3])
	slas, err := f.GetRows("SLAs")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Service", "Objective (%)", "Current (%)", "Status"}, slas[0])
	assert.Len(t, slas, 5)
}

func TestKPIReportDelayHonoursCancellation(t *testing.T) {
	gen := NewGenerator(fixtureSources(t), time.Hour, utils.NewNopLogger())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := gen.KPIReport(ctx, KPIRequest{Metrics: []string{"sla"}, Period: "day", Format: "pdf"})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestAuditReport(t *testing.T) {
	doc, err := AuditReport(store.Audit{
		ID:              "1",
		Name:            "Security Compliance Audit",
		Scope:           "ISMS",
		Result:          "partial",
		Status:          "completed",
		Date:            time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Recommendations: []string{"Implement MFA", "Update policies"},
	}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "audit-report-security-compliance-audit.pdf", doc.Filename)
	body := string(doc.Data)
	assert.Contains(t, body, "Recommendations:")
	assert.Contains(t, body, "1. Implement MFA")
	assert.Contains(t, body, "2. Update policies")

	doc, err = AuditReport(store.Audit{ID: "7", Name: `Q1/2024; "final"`}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "audit-report-q1-2024-final.pdf", doc.Filename)

	doc, err = AuditReport(store.Audit{ID: "8", Name: "///"}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "audit-report-8.pdf", doc.Filename)
}

func TestSchedulerRunOnceWritesReport(t *testing.T) {
	dir := t.TempDir()
	cfg := config.ReportsConfig{
		Schedule:      "@every 1h",
		OutputDir:     filepath.Join(dir, "out"),
		DefaultPeriod: "month",
		DefaultFormat: "xlsx",
		Metrics:       []string{"sla"},
	}
	s := NewScheduler(cfg, NewGenerator(fixtureSources(t), 0, utils.NewNopLogger()), utils.NewNopLogger())
	path, err := s.RunOnce(context.Background(), time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
	assert.Equal(t, ".xlsx", filepath.Ext(path))
}

func TestSchedulerLifecycle(t *testing.T) {
	cfg := config.ReportsConfig{Schedule: "@every 1h", OutputDir: t.TempDir(), DefaultPeriod: "month", DefaultFormat: "pdf", Metrics: []string{"sla"}}
	s := NewScheduler(cfg, NewGenerator(fixtureSources(t), 0, utils.NewNopLogger()), utils.NewNopLogger())
	s.StartWithContext(context.Background())
	s.StartWithContext(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.StopWithContext(ctx))
	require.NoError(t, s.StopWithContext(ctx))

	bad := NewScheduler(config.ReportsConfig{Schedule: "not a cron"}, NewGenerator(fixtureSources(t), 0, utils.NewNopLogger()), utils.NewNopLogger())
	bad.StartWithContext(context.Background())
	require.NoError(t, bad.StopWithContext(ctx))
	assert.False(t, NewScheduler(config.ReportsConfig{}, nil, nil).Enabled())
}

func TestDocumentChecksum(t *testing.T) {
	a := &Document{Data: []byte("report")}
	b := &Document{Data: []byte("report")}
	c := &Document{Data: []byte("report2")}
	assert.Len(t, a.Checksum(), 64)
	assert.Equal(t, a.Checksum(), b.Checksum())
	assert.NotEqual(t, a.Checksum(), c.Checksum())
	assert.Equal(t, "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8", (&Document{}).Checksum())
}
