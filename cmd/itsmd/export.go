package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"itsm-desk/core/appbootstrap"
	"itsm-desk/core/reports"
	"itsm-desk/core/utils"

	"github.com/spf13/cobra"
)

type exportOptions struct {
	format  string
	fields  string
	out     string
	audit   string
	metrics string
	period  string
}

func newExportCmd(root *rootOptions) *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export <module|kpi|audit>",
		Short: "Write a module table, KPI report or audit report to a file",
		Long: `Export renders the current records of one module into PDF or XLSX.

Modules: services, slas, incidents, requests, audits, nonconformities, risks,
assets, problems. "kpi" writes the KPI report and "audit --id N" the report of
one audit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := root.load()
			if err != nil {
				return err
			}
			rt, err := appbootstrap.Compose(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer rt.Close()
			doc, err := buildExport(cmd.Context(), rt, args[0], opts)
			if err != nil {
				return err
			}
			path, err := writeDocument(opts.out, doc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "pdf or xlsx (defaults to reports.default_format)")
	cmd.Flags().StringVar(&opts.fields, "fields", "", "comma separated columns to include")
	cmd.Flags().StringVarP(&opts.out, "out", "o", ".", "output directory or file path")
	cmd.Flags().StringVar(&opts.audit, "id", "", "audit id for the audit report")
	cmd.Flags().StringVar(&opts.metrics, "metrics", "", "comma separated KPI metrics (defaults to reports.metrics)")
	cmd.Flags().StringVar(&opts.period, "period", "", "KPI report period (defaults to reports.default_period)")
	return cmd
}

func buildExport(ctx context.Context, rt *appbootstrap.Runtime, target string, opts *exportOptions) (*reports.Document, error) {
	format := opts.format
	if format == "" {
		format = rt.Config.Reports.DefaultFormat
	}
	switch strings.ToLower(strings.TrimSpace(target)) {
	case "kpi":
		metrics := utils.SplitCSV(opts.metrics)
		if opts.metrics == "" {
			metrics = rt.Config.Reports.Metrics
		}
		period := opts.period
		if period == "" {
			period = rt.Config.Reports.DefaultPeriod
		}
		return rt.Deps.Reports.KPIReport(ctx, reports.KPIRequest{Metrics: metrics, Period: period, Format: format})
	case "audit":
		if strings.TrimSpace(opts.audit) == "" {
			return nil, fmt.Errorf("audit report needs --id")
		}
		audit, err := rt.Deps.Audits.Get(ctx, opts.audit)
		if err != nil {
			return nil, fmt.Errorf("audit %s: %w", opts.audit, err)
		}
		return reports.AuditReport(*audit, utils.NowUTC())
	}
	f, err := reports.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	table, err := rt.ExportTable(ctx, target)
	if err != nil {
		return nil, err
	}
	var fields []string
	if opts.fields != "" {
		fields = utils.SplitCSV(opts.fields)
		if fields == nil {
			fields = []string{}
		}
	}
	table, err = table.Select(fields)
	if err != nil {
		return nil, err
	}
	return reports.RenderTable(table, f, utils.NowUTC())
}

// writeDocument writes doc into out. A directory receives the document's own
// file name.
func writeDocument(out string, doc *reports.Document) (string, error) {
	path := out
	if info, err := os.Stat(out); err == nil && info.IsDir() {
		path = filepath.Join(out, doc.Filename)
	}
	if err := os.WriteFile(path, doc.Data, 0o640); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
