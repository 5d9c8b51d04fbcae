package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/call-intel/internal/model"
	"github.com/sells-group/call-intel/internal/store"
)

var (
	transcriptID       string
	transcriptLanguage string
	transcriptDuration time.Duration
)

var transcriptCmd = &cobra.Command{
	Use:   "transcript",
	Short: "Manage call transcripts",
}

var transcriptImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import a transcript from a text file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		t, err := importTranscript(ctx, st, args[0], transcriptImportOptions{
			ID:       transcriptID,
			Language: transcriptLanguage,
			Duration: transcriptDuration,
		})
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), map[string]string{"id": t.ID})
	},
}

type transcriptImportOptions struct {
	ID       string
	Language string
	Duration time.Duration
}

// importTranscript reads a transcript file and saves it. A new id is
// assigned when none is given; the language defaults to Portuguese.
func importTranscript(ctx context.Context, st store.Store, path string, opts transcriptImportOptions) (*model.Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read transcript %s", path)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, eris.Errorf("transcript %s is empty", path)
	}

	t := &model.Transcript{
		ID:              opts.ID,
		Text:            text,
		Language:        opts.Language,
		StoragePath:     path,
		DurationSeconds: int(opts.Duration.Seconds()),
		CreatedAt:       time.Now().UTC(),
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Language == "" {
		t.Language = model.DefaultLanguage
	}

	if err := st.SaveTranscript(ctx, t); err != nil {
		return nil, eris.Wrap(err, "save transcript")
	}
	zap.L().Info("transcript imported",
		zap.String("transcript_id", t.ID),
		zap.String("path", path),
		zap.Int("runes", len([]rune(text))),
		zap.Int("duration_seconds", t.DurationSeconds),
	)
	return t, nil
}

func init() {
	transcriptImportCmd.Flags().StringVar(&transcriptID, "id", "", "transcript id (default: new uuid)")
	transcriptImportCmd.Flags().StringVar(&transcriptLanguage, "language", model.DefaultLanguage, "transcript language")
	transcriptImportCmd.Flags().DurationVar(&transcriptDuration, "duration", 0, "call duration, e.g. 42m30s")
	transcriptCmd.AddCommand(transcriptImportCmd)
	rootCmd.AddCommand(transcriptCmd)
}
