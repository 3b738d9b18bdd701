package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(stateCmd)
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check the credentials against the platform",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd)
		if err != nil {
			return err
		}
		if err := svc.Hydrate(cmd.Context()); err != nil {
			return err
		}
		st, err := svc.State()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "authenticated as %s on %s\n", st.Username, st.BaseURL)
		return nil
	},
}

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService(cmd)
		if err != nil {
			return err
		}
		st, err := svc.State()
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), st)
	},
}
