package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/dronecoord/infra/logger"
	"github.com/kilianp07/dronecoord/qa/scenarios"
)

var errScenarioFailed = errors.New("scenario failed")

var scenarioCmd = &cobra.Command{
	Use:   "scenario <file.yaml>...",
	Short: "Replay scripted operations against a fixture roster",
	Long:  "Each scenario file carries its own roster, so the configured data is not read.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		failed := false
		for _, path := range args {
			sc, err := scenarios.Load(path)
			if err != nil {
				return err
			}
			res, err := scenarios.Run(cmd.Context(), sc, logger.New("scenario"))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			title(w, sc.Name)
			for _, s := range res.Steps {
				if s.Passed() {
					ok(w, fmt.Sprintf("  %d. %s", s.Index, s.Op))
					continue
				}
				fmt.Fprintln(w, failStyle.Render(fmt.Sprintf("  %d. %s", s.Index, s.Op)))
				for _, f := range s.Failures {
					fmt.Fprintln(w, "     - "+f)
				}
			}
			for _, f := range res.Totals {
				fmt.Fprintln(w, failStyle.Render("  totals: ")+f)
			}
			failed = failed || !res.Passed()
		}
		if failed {
			fmt.Fprintln(w, failStyle.Render("FAIL"))
			return shownError{errScenarioFailed}
		}
		ok(w, "PASS")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scenarioCmd)
}
