package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"prompt_architect/pkg/core/section"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDraft(t *testing.T) {
	model, err := applyDraft(map[string]any{
		"role":        "chef",
		"reasoning":   true,
		"format":      "json",
		"temperature": 0.3,
		"language":    "en-US",
	})
	require.NoError(t, err)
	data := model.Snapshot()
	assert.Equal(t, "chef", data.Role)
	assert.True(t, data.Reasoning)
	assert.Equal(t, "JSON", string(data.Format))
	assert.InDelta(t, 0.3, data.Temperature, 1e-9)

	_, err = applyDraft(map[string]any{"mood": "happy"})
	assert.ErrorIs(t, err, section.ErrUnknownField)

	_, err = applyDraft(map[string]any{"temperature": 2.0})
	assert.ErrorIs(t, err, section.ErrInvalidValue)
}

func TestAssembleCommand(t *testing.T) {
	dir := t.TempDir()
	draft := filepath.Join(dir, "draft.hjson")
	require.NoError(t, os.WriteFile(draft, []byte("{\n  # a chef\n  role: chef\n  task: Write a recipe.\n  language: en-US\n}\n"), 0644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"assemble", "--draft", draft})
	t.Cleanup(func() { draftPath, outputPath = "", "" })

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "Act as a chef.\n\nWrite a recipe.\n\nRespond ONLY in English (US).\n", out.String())
}

func TestSectionsCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"sections"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "temperature")
	assert.Contains(t, out.String(), "SWOT")
}
