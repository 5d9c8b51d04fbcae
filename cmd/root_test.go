package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	expected := []string{"migrate", "transcript", "analyze", "update", "classify", "context", "report", "enrich"}
	for _, name := range expected {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "call-intel", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestTranscriptCommand_HasImport(t *testing.T) {
	sub, _, err := rootCmd.Find([]string{"transcript", "import"})
	require.NoError(t, err)
	assert.Equal(t, transcriptImportCmd, sub)

	lang := transcriptImportCmd.Flags().Lookup("language")
	require.NotNil(t, lang)
	assert.Equal(t, "pt", lang.DefValue)
	assert.NotNil(t, transcriptImportCmd.Flags().Lookup("duration"))
}

func TestUpdateCommand_Flags(t *testing.T) {
	assert.NotNil(t, updateCmd.Flags().Lookup("sales-file"))
	assert.NotNil(t, updateCmd.Flags().Lookup("call-file"))
}

func TestReportCommand_Flags(t *testing.T) {
	out := reportCmd.Flags().Lookup("out")
	require.NotNil(t, out)
	assert.Equal(t, "", out.DefValue)
	assert.NotNil(t, reportCmd.Flags().Lookup("json"))
}

func TestEnrichImportCommand_RequiredFlags(t *testing.T) {
	for _, name := range []string{"kind", "file"} {
		f := enrichImportCmd.Flags().Lookup(name)
		require.NotNil(t, f, "enrich import should have --%s", name)
		assert.Equal(t, []string{"true"}, f.Annotations["cobra_annotation_bash_completion_one_required_flag"])
	}
}

func TestCommands_RequireOneArg(t *testing.T) {
	for _, c := range []*cobra.Command{analyzeCmd, updateCmd, classifyCmd, contextCmd, reportCmd, enrichImportCmd, transcriptImportCmd} {
		assert.Error(t, c.ValidateArgs(nil))
		assert.NoError(t, c.ValidateArgs([]string{"abc"}))
	}
}
