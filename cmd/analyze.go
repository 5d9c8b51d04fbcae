package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/call-intel/internal/model"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <transcript-id>",
	Short: "Run the analysis pipeline and print the result",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Pipeline.CheckTranscript(ctx, args[0]); err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), env.Pipeline.Run(ctx, args[0]))
	},
}

var (
	updateSalesFile string
	updateCallFile  string
)

var updateCmd = &cobra.Command{
	Use:   "update <transcript-id>",
	Short: "Replace the cached sales data or call analysis with a reviewed version",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if updateSalesFile == "" && updateCallFile == "" {
			return eris.New("one of --sales-file or --call-file is required")
		}

		var (
			sales *model.SalesData
			call  *model.CallAnalysis
		)
		if updateSalesFile != "" {
			sales = new(model.SalesData)
			if err := readJSONFile(updateSalesFile, sales); err != nil {
				return err
			}
		}
		if updateCallFile != "" {
			call = new(model.CallAnalysis)
			if err := readJSONFile(updateCallFile, call); err != nil {
				return err
			}
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Pipeline.UpdateAnalysis(ctx, args[0], sales, call); err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), env.Pipeline.Run(ctx, args[0]))
	},
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "decode %s", path)
	}
	return nil
}

func init() {
	updateCmd.Flags().StringVar(&updateSalesFile, "sales-file", "", "JSON file with the reviewed sales data")
	updateCmd.Flags().StringVar(&updateCallFile, "call-file", "", "JSON file with the reviewed call analysis")
	rootCmd.AddCommand(analyzeCmd, updateCmd)
}
