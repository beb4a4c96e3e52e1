package commands

import (
	"fmt"

	"github.com/de-tools/booking-atlas/pkg/adapters"
	"github.com/spf13/cobra"
)

type profileJSON struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func NewProfilesCmd(rt *Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List the data source profiles of the profiles file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateFormat(rt.Flags.Format); err != nil {
				return err
			}
			if rt.Flags.ProfilesPath == "" {
				return fmt.Errorf("--profiles is required")
			}
			registry, err := rt.LoadProfiles(rt.Flags.ProfilesPath)
			if err != nil {
				return err
			}
			profiles, err := registry.GetProfiles(cmd.Context())
			if err != nil {
				return err
			}

			list := make([]profileJSON, 0, len(profiles))
			for _, p := range profiles {
				list = append(list, profileJSON{Name: p.Name, Type: string(p.Type)})
			}
			return rt.render(output{
				report: adapters.MapProfilesToReport(profiles, rt.now()),
				json:   list,
			})
		},
	}
}
