package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/itemsmith/internal/bank"
	"github.com/abhisek/itemsmith/internal/config"
)

func withConfig(t *testing.T, c *config.Config) {
	t.Helper()
	prev := cfg
	cfg = c
	t.Cleanup(func() { cfg = prev })
}

func TestPipelineConfig_LoadsVocabTable(t *testing.T) {
	withConfig(t, &config.Config{LLMSettings: config.LLMSettings{MaxTokens: 2048}})
	path := filepath.Join(t.TempDir(), "table.csv")
	require.NoError(t, os.WriteFile(path, []byte("Base Vocabulary Item,Part of Speech\nborrow,verb\nlend,verb\n"), 0o644))

	pc, err := pipelineConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 2048, pc.MaxTokens)
	assert.Equal(t, []bank.VocabEntry{
		{Word: "borrow", PartOfSpeech: "verb"},
		{Word: "lend", PartOfSpeech: "verb"},
	}, pc.Vocab)
}

func TestPipelineConfig_NoTable(t *testing.T) {
	withConfig(t, &config.Config{})

	pc, err := pipelineConfig("")
	require.NoError(t, err)
	assert.Empty(t, pc.Vocab)
}

func TestPipelineConfig_MissingTable(t *testing.T) {
	withConfig(t, &config.Config{})

	_, err := pipelineConfig(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load vocabulary table")
}
