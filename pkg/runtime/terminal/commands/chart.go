package commands

import (
	"context"

	"github.com/de-tools/booking-atlas/pkg/adapters"
	"github.com/de-tools/booking-atlas/pkg/services/analytics"
	"github.com/spf13/cobra"
)

func NewChartCmd(rt *Runtime) *cobra.Command {
	valid := make([]string, 0, len(analytics.ChartKinds))
	for _, kind := range analytics.ChartKinds {
		valid = append(valid, kind.String())
	}

	return &cobra.Command{
		Use:       "chart <kind>",
		Short:     "Print the labels and series of a chart",
		Args:      cobra.ExactArgs(1),
		ValidArgs: valid,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := analytics.ParseChartKind(args[0])
			if err != nil {
				return err
			}
			return rt.run(cmd, func(ctx context.Context, a Analyzer, q analytics.Query) error {
				chart, err := a.Chart(ctx, kind, q)
				if err != nil {
					return err
				}
				return rt.render(output{
					report: adapters.MapChartToReport(kind, chart, q.Range, rt.now()),
					json:   adapters.MapChartDomainToApi(chart),
				})
			})
		},
	}
}
