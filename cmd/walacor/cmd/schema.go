package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"github.com/walacor/walacor-go/schema"
)

func init() {
	schemaCmd.AddCommand(schemaDataTypesCmd, schemaListCmd, schemaDetailsCmd, schemaSearchCmd)
	schemaSearchCmd.Flags().Int("days", 30, "look back this many days")
	schemaSearchCmd.Flags().Int("page", 1, "page number")
	schemaSearchCmd.Flags().Int("page-size", 10, "page size")
	rootCmd.AddCommand(schemaCmd)
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Inspect envelope type schemas",
}

var schemaDataTypesCmd = &cobra.Command{
	Use:   "datatypes",
	Short: "List the field data types supported by the platform",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := schemaService(cmd)
		if err != nil {
			return err
		}
		types, err := svc.GetDataTypes(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), types)
	},
}

var schemaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every schema with its latest version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := schemaService(cmd)
		if err != nil {
			return err
		}
		list, err := svc.GetListWithLatestVersion(cmd.Context())
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), list)
	},
}

var schemaDetailsCmd = &cobra.Command{
	Use:   "details ETID",
	Short: "Show the schema of an envelope type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		etid, err := parseETId(args[0])
		if err != nil {
			return err
		}
		svc, err := schemaService(cmd)
		if err != nil {
			return err
		}
		detail, err := svc.GetSchemaDetailsWithETId(cmd.Context(), etid)
		if err != nil {
			return err
		}
		if detail == nil {
			return errNoResult
		}
		return printResult(cmd.OutOrStdout(), detail)
	},
}

var schemaSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "List schemas created in a recent time window",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		days, _ := cmd.Flags().GetInt("days")
		page, _ := cmd.Flags().GetInt("page")
		size, _ := cmd.Flags().GetInt("page-size")

		end := time.Now()
		q := schema.DefaultSchemaQueryListRequest(end.AddDate(0, 0, -days), end)
		q.Page = page
		q.PageSize = size

		svc, err := schemaService(cmd)
		if err != nil {
			return err
		}
		res, err := svc.GetSchemaQuerySchemaItems(cmd.Context(), q)
		if err != nil {
			return err
		}
		if res == nil {
			return errNoResult
		}
		return printResult(cmd.OutOrStdout(), res)
	},
}

func schemaService(cmd *cobra.Command) (*schema.Service, error) {
	svc, err := newService(cmd)
	if err != nil {
		return nil, err
	}
	return svc.Schema()
}
