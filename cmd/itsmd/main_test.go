package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDeriveSLA(t *testing.T) {
	out, err := run(t, "derive", "sla", "--objective", "100", "--current", "98")
	require.NoError(t, err)
	assert.Equal(t, "healthy", strings.TrimSpace(out))

	out, err = run(t, "derive", "sla", "--objective", "100", "--current", "89.9")
	require.NoError(t, err)
	assert.Equal(t, "critical", strings.TrimSpace(out))
}

func TestDeriveRisk(t *testing.T) {
	out, err := run(t, "derive", "risk", "--impact", "high", "--probability", "medium")
	require.NoError(t, err)
	assert.Equal(t, "critical", strings.TrimSpace(out))
}

func TestExportWritesDocument(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ITSM_STORAGE_DRIVER", "memory")
	out, err := run(t, "--config", filepath.Join(dir, "missing.yaml"), "export", "assets", "--format", "xlsx", "--fields", "name,type", "--out", dir)
	require.NoError(t, err)
	path := strings.TrimSpace(out)
	assert.True(t, strings.HasSuffix(path, ".xlsx"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("PK")))
}

func TestExportKPIReport(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, "--config", filepath.Join(dir, "missing.yaml"), "export", "kpi", "--metrics", "availability,sla", "--period", "week", "--format", "pdf", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, strings.TrimSpace(out), "itsm-report-week-")
}

func TestExportRejectsUnknownModule(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, "--config", filepath.Join(dir, "missing.yaml"), "export", "tickets", "--format", "pdf", "--out", dir)
	assert.Error(t, err)
}
