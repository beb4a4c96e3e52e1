package commands

import (
	"context"

	"github.com/de-tools/booking-atlas/pkg/adapters"
	"github.com/de-tools/booking-atlas/pkg/models/domain"
	"github.com/de-tools/booking-atlas/pkg/services/analytics"
	"github.com/spf13/cobra"
)

func NewDistributionCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:       "distribution [project_name|property_type]",
		Short:     "Group bookings by project or property type",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(domain.DimensionProject), string(domain.DimensionPropertyType)},
		RunE: func(cmd *cobra.Command, args []string) error {
			dim := domain.DimensionProject
			if len(args) == 1 {
				parsed, err := analytics.ParseDimension(args[0])
				if err != nil {
					return err
				}
				dim = parsed
			}

			return rt.run(cmd, func(ctx context.Context, a Analyzer, q analytics.Query) error {
				points, err := a.Distribution(ctx, dim, q)
				if err != nil {
					return err
				}
				var payload interface{} = adapters.MapProjectsDomainToApi(points)
				if dim == domain.DimensionPropertyType {
					payload = adapters.MapPropertyTypesDomainToApi(points)
				}
				return rt.render(output{
					report: adapters.MapDistributionToReport(points, dim, q.Range, rt.now()),
					json:   payload,
					rows:   analytics.CategoryRows(points),
				})
			})
		},
	}
}
