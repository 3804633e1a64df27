package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kilianp07/dronecoord/app"
	"github.com/kilianp07/dronecoord/core/coordinator"
)

var assignCmd = &cobra.Command{
	Use:   "assign <mission> <pilot> <drone>",
	Short: "Assign a pilot and a drone to a mission after a conflict check",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *app.Service) error {
			res, err := svc.Coordinator.Assign(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return failure(cmd.OutOrStdout(), err)
			}
			printAssignment(cmd, res)
			return nil
		})
	},
}

var assignNextCmd = &cobra.Command{
	Use:   "next",
	Short: "Assign the first available pilot and drone to the next unassigned mission",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withService(func(svc *app.Service) error {
			res, err := svc.Coordinator.AssignNext(cmd.Context())
			if err != nil {
				return failure(cmd.OutOrStdout(), err)
			}
			printAssignment(cmd, res)
			return nil
		})
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <mission> <pilot> <drone>",
	Short: "Report blockers and warnings for an assignment without committing it",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *app.Service) error {
			rep, err := svc.Coordinator.Check(cmd.Context(), args[0], args[1], args[2])
			if err != nil {
				return failure(cmd.OutOrStdout(), err)
			}
			w := cmd.OutOrStdout()
			if !rep.Blocked() {
				ok(w, "No blocking conflicts.")
			} else {
				fmt.Fprintln(w, failStyle.Render("Blocked:"))
				for _, m := range rep.BlockerMessages() {
					fmt.Fprintln(w, "  - "+m)
				}
			}
			warnings(w, rep.WarningMessages())
			return nil
		})
	},
}

var urgentCmd = &cobra.Command{
	Use:   "urgent <mission>",
	Short: "Replace the mission's pilot with the best ranked standby pilot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *app.Service) error {
			res, err := svc.Coordinator.ResolveUrgentPilotFailure(cmd.Context(), args[0])
			if err != nil {
				return failure(cmd.OutOrStdout(), err)
			}
			w := cmd.OutOrStdout()
			title(w, "URGENT REASSIGNMENT COMPLETE")
			field(w, "Mission", res.MissionName)
			field(w, "Previous pilot", orNone(res.PreviousPilot.String()))
			field(w, "New pilot", res.PilotName+" ("+res.PilotID+")")
			field(w, "Rationale", res.Rationale)
			field(w, "Score", strconv.Itoa(res.Score))
			warnings(w, res.Warnings)
			return nil
		})
	},
}

var candidatesCmd = &cobra.Command{
	Use:   "candidates <mission>",
	Short: "Rank standby pilots for a mission without committing",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *app.Service) error {
			cands, err := svc.Coordinator.RankCandidates(cmd.Context(), args[0])
			if err != nil {
				return failure(cmd.OutOrStdout(), err)
			}
			rows := make([][]string, 0, len(cands))
			for i, c := range cands {
				rows = append(rows, []string{strconv.Itoa(i + 1), c.PilotID, c.PilotName, c.Location, strconv.Itoa(c.Score), c.Rationale})
			}
			table(cmd.OutOrStdout(), []string{"#", "ID", "NAME", "LOCATION", "SCORE", "RATIONALE"}, rows)
			return nil
		})
	},
}

var releaseCmd = &cobra.Command{
	Use:   "release <mission>",
	Short: "End a mission's assignment and return its pilot and drone to the pool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *app.Service) error {
			res, err := svc.Coordinator.Release(cmd.Context(), args[0])
			if err != nil {
				return failure(cmd.OutOrStdout(), err)
			}
			w := cmd.OutOrStdout()
			ok(w, fmt.Sprintf("Mission '%s' released.", res.MissionName))
			field(w, "Pilot", orNone(res.Pilot.String()))
			field(w, "Drone", orNone(res.Drone.String()))
			if len(res.Stale) > 0 {
				field(w, "Also freed", list(res.Stale))
			}
			return nil
		})
	},
}

func printAssignment(cmd *cobra.Command, res coordinator.AssignResult) {
	w := cmd.OutOrStdout()
	ok(w, fmt.Sprintf("Mission '%s' assigned successfully.", res.MissionName))
	field(w, "Pilot", res.PilotName+" ("+res.PilotID+")")
	field(w, "Drone", res.DroneModel+" ("+res.DroneID+")")
	field(w, "Location", res.Location)
	warnings(w, res.Warnings)
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}

func init() {
	assignCmd.AddCommand(assignNextCmd)
	rootCmd.AddCommand(assignCmd, checkCmd, urgentCmd, candidatesCmd, releaseCmd)
}
