package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	reportOut  string
	reportJSON bool
)

var reportCmd = &cobra.Command{
	Use:   "report <transcript-id>",
	Short: "Generate the sales intelligence report for a transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		gen, err := newGenerator(cfg, env)
		if err != nil {
			return err
		}
		rep, err := gen.Generate(ctx, args[0])
		if err != nil {
			return err
		}

		if reportJSON {
			return writeJSON(cmd.OutOrStdout(), rep)
		}
		if reportOut == "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), rep.Markdown)
			return err
		}
		if err := os.WriteFile(reportOut, []byte(rep.Markdown+"\n"), 0o644); err != nil {
			return eris.Wrapf(err, "write report %s", reportOut)
		}
		zap.L().Info("report written",
			zap.String("transcript_id", rep.TranscriptID),
			zap.String("path", reportOut),
			zap.String("source", string(rep.Source)),
		)
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportOut, "out", "", "write the Markdown report to this file instead of stdout")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the report with its metadata as JSON")
	rootCmd.AddCommand(reportCmd)
}
