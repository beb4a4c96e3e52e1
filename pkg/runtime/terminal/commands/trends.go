package commands

import (
	"context"

	"github.com/de-tools/booking-atlas/pkg/adapters"
	"github.com/de-tools/booking-atlas/pkg/services/analytics"
	"github.com/spf13/cobra"
)

func NewTrendsCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "trends",
		Short: "Show bookings and revenue per month, quarter or year",
		Long: `Buckets bookings by --group-by (month, quarter, year).
Without --start-date the window covers the year before --end-date.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.run(cmd, func(ctx context.Context, a Analyzer, q analytics.Query) error {
				points, err := a.Trends(ctx, q)
				if err != nil {
					return err
				}
				return rt.render(output{
					report: adapters.MapTrendsToReport(points, q.Granularity, q.Range, rt.now()),
					json:   adapters.MapTrendsDomainToApi(points),
					rows:   analytics.TrendRows(points),
				})
			})
		},
	}
}
