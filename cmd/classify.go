package main

import (
	"context"
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/call-intel/internal/classify"
	"github.com/sells-group/call-intel/internal/enrich"
	"github.com/sells-group/call-intel/internal/model"
	"github.com/sells-group/call-intel/internal/pipeline"
	"github.com/sells-group/call-intel/internal/report"
)

// clientInputs is what classification and context building read for one
// transcript.
type clientInputs struct {
	Transcript *model.Transcript
	Analysis   *model.AnalysisResult
	Bundle     enrich.Bundle
}

func loadClientInputs(ctx context.Context, env *appEnv, id string) (*clientInputs, error) {
	t, err := env.Store.GetTranscript(ctx, id)
	if err != nil {
		return nil, eris.Wrapf(err, "load transcript %s", id)
	}
	if t == nil {
		return nil, eris.Wrapf(pipeline.ErrTranscriptNotFound, "transcript %s", id)
	}
	return &clientInputs{
		Transcript: t,
		Analysis:   env.Pipeline.Run(ctx, id),
		Bundle:     env.Gatherer.Gather(ctx, id),
	}, nil
}

var classifyCmd = &cobra.Command{
	Use:   "classify <transcript-id>",
	Short: "Classify the client's industry and funnel stage",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		in, err := loadClientInputs(ctx, env, args[0])
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(),
			classify.AnalyzeClient(in.Transcript.Text, in.Analysis.SalesData, in.Bundle.Company))
	},
}

var contextCmd = &cobra.Command{
	Use:   "context <transcript-id>",
	Short: "Print the report context built for a transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		settings, err := report.LoadSettings(cfg.Report.SettingsPath)
		if err != nil {
			return err
		}
		in, err := loadClientInputs(ctx, env, args[0])
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), report.BuildContext(report.ContextInput{
			TranscriptText: in.Transcript.Text,
			Sales:          in.Analysis.SalesData,
			Profiles:       in.Bundle.Profiles,
			Company:        in.Bundle.Company,
			Settings:       settings,
		}))
		return err
	},
}

func init() {
	rootCmd.AddCommand(classifyCmd, contextCmd)
}
