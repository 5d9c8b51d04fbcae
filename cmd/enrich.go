package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/call-intel/internal/enrich"
	"github.com/sells-group/call-intel/internal/model"
)

var (
	enrichKind     string
	enrichURL      string
	enrichFile     string
	enrichSnapshot string
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Manage scraped LinkedIn and website data",
}

var enrichImportCmd = &cobra.Command{
	Use:   "import <transcript-id>",
	Short: "Attach a scraped JSON payload to a transcript",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		data, err := os.ReadFile(enrichFile)
		if err != nil {
			return eris.Wrapf(err, "read %s", enrichFile)
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		if err := env.Pipeline.CheckTranscript(ctx, args[0]); err != nil {
			return err
		}
		e, err := env.Gatherer.Import(ctx, enrich.ImportRequest{
			TranscriptID: args[0],
			Kind:         model.EnrichmentKind(enrichKind),
			URL:          enrichURL,
			SnapshotID:   enrichSnapshot,
			Data:         data,
		})
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), map[string]string{
			"transcript_id": e.TranscriptID,
			"kind":          string(e.Kind),
			"status":        string(e.Status),
		})
	},
}

func init() {
	enrichImportCmd.Flags().StringVar(&enrichKind, "kind", "", "enrichment kind: linkedin or website (required)")
	enrichImportCmd.Flags().StringVar(&enrichURL, "url", "", "source URL of the scraped page")
	enrichImportCmd.Flags().StringVar(&enrichFile, "file", "", "JSON file with the scraped data (required)")
	enrichImportCmd.Flags().StringVar(&enrichSnapshot, "snapshot", "", "scraper snapshot id")
	_ = enrichImportCmd.MarkFlagRequired("kind")
	_ = enrichImportCmd.MarkFlagRequired("file")
	enrichCmd.AddCommand(enrichImportCmd)
	rootCmd.AddCommand(enrichCmd)
}
