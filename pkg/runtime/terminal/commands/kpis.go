package commands

import (
	"context"

	"github.com/de-tools/booking-atlas/pkg/adapters"
	"github.com/de-tools/booking-atlas/pkg/services/analytics"
	"github.com/spf13/cobra"
)

func NewKPIsCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "kpis",
		Short: "Show the headline booking KPIs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.run(cmd, func(ctx context.Context, a Analyzer, q analytics.Query) error {
				summary, err := a.KPISummary(ctx, q)
				if err != nil {
					return err
				}
				return rt.render(output{
					report: adapters.MapKPISummaryToReport(summary, q.Range, rt.now()),
					json:   adapters.MapKPISummaryDomainToApi(summary),
					rows:   analytics.KPIResult{KPISummary: summary},
				})
			})
		},
	}
}
