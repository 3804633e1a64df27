package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kilianp07/dronecoord/app"
)

var askCmd = &cobra.Command{
	Use:   "ask <text...>",
	Short: "Ask the coordinator in plain language",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(func(svc *app.Service) error {
			fmt.Fprintln(cmd.OutOrStdout(), svc.Router.Handle(cmd.Context(), strings.Join(args, " ")))
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
