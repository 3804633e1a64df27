package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/dronecoord/app"
	"github.com/kilianp07/dronecoord/core/model"
	"github.com/kilianp07/dronecoord/core/roster"
)

var (
	availableOnly bool
	activeOn      string
)

var pilotsCmd = &cobra.Command{
	Use:   "pilots",
	Short: "List pilots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(func(svc *app.Service) error {
			var ps []model.Pilot
			if availableOnly {
				ps = svc.Coordinator.AvailablePilots(cmd.Context())
			} else {
				_ = svc.Coordinator.Store().Read(func(v roster.View) error {
					ps = v.Pilots()
					return nil
				})
			}
			rows := make([][]string, 0, len(ps))
			for _, p := range ps {
				rows = append(rows, []string{p.ID, p.Name, p.SkillLevel, list(p.Certifications), p.Location, string(p.Status), p.CurrentAssignment.String()})
			}
			table(cmd.OutOrStdout(), []string{"ID", "NAME", "SKILLS", "CERTIFICATIONS", "LOCATION", "STATUS", "ASSIGNMENT"}, rows)
			return nil
		})
	},
}

var dronesCmd = &cobra.Command{
	Use:   "drones",
	Short: "List drones",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(func(svc *app.Service) error {
			var ds []model.Drone
			if availableOnly {
				ds = svc.Coordinator.AvailableDrones(cmd.Context())
			} else {
				_ = svc.Coordinator.Store().Read(func(v roster.View) error {
					ds = v.Drones()
					return nil
				})
			}
			rows := make([][]string, 0, len(ds))
			for _, d := range ds {
				rows = append(rows, []string{d.ID, d.Model, list(d.Capabilities), d.Location, string(d.Status), d.CurrentAssignment.String()})
			}
			table(cmd.OutOrStdout(), []string{"ID", "MODEL", "CAPABILITIES", "LOCATION", "STATUS", "ASSIGNMENT"}, rows)
			return nil
		})
	},
}

var missionsCmd = &cobra.Command{
	Use:   "missions",
	Short: "List missions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var filter func(model.Mission) bool
		if activeOn != "" {
			day, err := model.ParseDate(activeOn)
			if err != nil {
				return err
			}
			filter = func(m model.Mission) bool { return m.IsActiveOn(day) }
		}
		return withService(func(svc *app.Service) error {
			var rows [][]string
			_ = svc.Coordinator.Store().Read(func(v roster.View) error {
				for _, m := range v.Missions() {
					if filter != nil && !filter(m) {
						continue
					}
					rows = append(rows, []string{m.ID, m.Name, list(m.RequiredSkills), list(m.RequiredCertifications), m.Location, m.Window.String(), m.AssignedPilot.String(), m.AssignedDrone.String()})
				}
				return nil
			})
			table(cmd.OutOrStdout(), []string{"ID", "CLIENT", "SKILLS", "CERTS", "LOCATION", "WINDOW", "PILOT", "DRONE"}, rows)
			return nil
		})
	},
}

func init() {
	pilotsCmd.Flags().BoolVar(&availableOnly, "available", false, "only pilots eligible for assignment")
	dronesCmd.Flags().BoolVar(&availableOnly, "available", false, "only drones ready for deployment")
	missionsCmd.Flags().StringVar(&activeOn, "active-on", "", "only missions active on this date (YYYY-MM-DD)")
	rootCmd.AddCommand(pilotsCmd, dronesCmd, missionsCmd)
}
