package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walacor/walacor-go/data"
)

func init() {
	recordsGetCmd.Flags().Int("page", 0, "page number, 0 returns everything")
	recordsGetCmd.Flags().Int("page-size", 0, "page size")
	recordsGetCmd.Flags().Bool("summary", false, "read from the summary table")
	recordsQueryCmd.Flags().Bool("mql", false, "send the pipeline as an MQL query")
	recordsCmd.AddCommand(recordsGetCmd, recordsInsertCmd, recordsUpdateCmd, recordsQueryCmd)
	rootCmd.AddCommand(recordsCmd)
}

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Read and write envelope type records",
}

var recordsGetCmd = &cobra.Command{
	Use:   "get ETID",
	Short: "List the records of an envelope type",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		etid, err := parseETId(args[0])
		if err != nil {
			return err
		}
		var opts data.GetAllOptions
		opts.PageNumber, _ = cmd.Flags().GetInt("page")
		opts.PageSize, _ = cmd.Flags().GetInt("page-size")
		opts.FromSummary, _ = cmd.Flags().GetBool("summary")

		svc, err := dataService(cmd)
		if err != nil {
			return err
		}
		records, err := svc.GetAll(cmd.Context(), etid, opts)
		if err != nil {
			return err
		}
		return printResult(cmd.OutOrStdout(), records)
	},
}

var recordsInsertCmd = &cobra.Command{
	Use:   "insert ETID FILE",
	Short: "Insert a JSON object or array of objects, FILE may be - for stdin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		etid, err := parseETId(args[0])
		if err != nil {
			return err
		}
		records, err := readRecords(cmd, args[1])
		if err != nil {
			return err
		}
		svc, err := dataService(cmd)
		if err != nil {
			return err
		}
		var res *data.SubmissionResult
		if len(records) == 1 {
			res, err = svc.InsertSingleRecord(cmd.Context(), records[0], etid)
		} else {
			res, err = svc.InsertMultipleRecords(cmd.Context(), records, etid)
		}
		if err != nil {
			return err
		}
		if res == nil {
			return errNoResult
		}
		return printResult(cmd.OutOrStdout(), res)
	},
}

var recordsUpdateCmd = &cobra.Command{
	Use:   "update ETID FILE",
	Short: "Update records identified by their UID, FILE may be - for stdin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		etid, err := parseETId(args[0])
		if err != nil {
			return err
		}
		var raw json.RawMessage
		if err := readJSON(args[1], cmd.InOrStdin(), &raw); err != nil {
			return err
		}
		var records []json.RawMessage
		if err := json.Unmarshal(raw, &records); err != nil {
			records = []json.RawMessage{raw}
		}
		svc, err := dataService(cmd)
		if err != nil {
			return err
		}
		res, err := svc.UpdateMultipleRecords(cmd.Context(), records, etid)
		if err != nil {
			return err
		}
		if res == nil {
			return errNoResult
		}
		return printResult(cmd.OutOrStdout(), res)
	},
}

var recordsQueryCmd = &cobra.Command{
	Use:   "query ETID FILE",
	Short: "Run an aggregation pipeline read from FILE, - for stdin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		etid, err := parseETId(args[0])
		if err != nil {
			return err
		}
		var pipeline []map[string]any
		if err := readJSON(args[1], cmd.InOrStdin(), &pipeline); err != nil {
			return err
		}
		svc, err := dataService(cmd)
		if err != nil {
			return err
		}
		query := svc.PostComplexQuery
		if mql, _ := cmd.Flags().GetBool("mql"); mql {
			query = svc.PostComplexMQLQueries
		}
		res, err := query(cmd.Context(), etid, pipeline)
		if err != nil {
			return err
		}
		if res == nil {
			return errNoResult
		}
		return printResult(cmd.OutOrStdout(), res)
	},
}

// readRecords accepts either one JSON object or an array of objects.
func readRecords(cmd *cobra.Command, path string) ([]map[string]any, error) {
	var raw json.RawMessage
	if err := readJSON(path, cmd.InOrStdin(), &raw); err != nil {
		return nil, err
	}
	var many []map[string]any
	if err := json.Unmarshal(raw, &many); err == nil {
		if len(many) == 0 {
			return nil, fmt.Errorf("%s holds no records", path)
		}
		return many, nil
	}
	var one map[string]any
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("%s is neither an object nor an array of objects", path)
	}
	return []map[string]any{one}, nil
}

func dataService(cmd *cobra.Command) (*data.Service, error) {
	svc, err := newService(cmd)
	if err != nil {
		return nil, err
	}
	return svc.Data()
}
