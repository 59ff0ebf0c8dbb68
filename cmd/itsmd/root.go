package main

import (
	"itsm-desk/config"
	"itsm-desk/core/utils"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "itsmd",
		Short:        "ITSM dashboard backend",
		Long:         "itsmd serves the ITSM dashboard API and exports module data as PDF or XLSX documents.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "config.yaml", "path to the YAML config file; ITSM_* env vars override it")
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newDeriveCmd())
	return cmd
}

func (o *rootOptions) load() (*config.AppConfig, *utils.Logger, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	logger := utils.NewLoggerWithOptions(utils.LoggerOptions{Level: cfg.Logging.Level, JSON: cfg.Logging.JSON})
	return cfg, logger, nil
}
