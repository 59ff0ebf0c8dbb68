package main

import (
	"fmt"

	"itsm-desk/core/risks"
	"itsm-desk/core/sla"

	"github.com/spf13/cobra"
)

func newDeriveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Evaluate the SLA status and risk priority rules",
	}
	var objective, current float64
	slaCmd := &cobra.Command{
		Use:   "sla",
		Short: "Print the SLA status for an objective and current value",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), sla.DeriveStatus(current, objective))
			return nil
		},
	}
	slaCmd.Flags().Float64Var(&objective, "objective", 0, "target value")
	slaCmd.Flags().Float64Var(&current, "current", 0, "measured value")

	var impact, probability string
	riskCmd := &cobra.Command{
		Use:   "risk",
		Short: "Print the risk priority for an impact and probability",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), risks.DerivePriority(impact, probability))
			return nil
		},
	}
	riskCmd.Flags().StringVar(&impact, "impact", "low", "low, medium or high")
	riskCmd.Flags().StringVar(&probability, "probability", "low", "low, medium or high")

	cmd.AddCommand(slaCmd, riskCmd)
	return cmd
}
