package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/content-planner/pkg/planner"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	// flag values outlive a single Execute
	generateFlags.asJSON = false
	generateFlags.useAI = false
	generateFlags.save = false
	generateFlags.itemID = ""
	seed = 0
	err := rootCmd.Execute()
	return out.String(), err
}

func TestGenerateJSON(t *testing.T) {
	t.Setenv("STORAGE_URL", "none")

	run := func() planner.GeneratedContent {
		out, err := execute(t, "generate", "--title", "How to brew cold coffee", "--platform", "YouTube",
			"--tags", "coffee,summer", "--seed", "11", "--json")
		require.NoError(t, err)
		var generated planner.GeneratedContent
		require.NoError(t, json.Unmarshal([]byte(out), &generated))
		return generated
	}

	first := run()
	assert.Len(t, first.TitleIdeas, 5)
	assert.Equal(t, first, run())
}

func TestGenerateText(t *testing.T) {
	out, err := execute(t, "generate", "-t", "Why cats purr", "-p", "tiktok")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Title ideas:\n  1. "))
	assert.Contains(t, out, "\nHashtags:\n#")
}

func TestGenerateErrors(t *testing.T) {
	t.Setenv("AI_PROVIDER", "none")

	_, err := execute(t, "generate", "--title", "x", "--platform", "myspace")
	assert.ErrorIs(t, err, planner.ErrInvalidPlatform)

	_, err = execute(t, "generate", "--save")
	assert.EqualError(t, err, "--save requires --item")

	_, err = execute(t, "generate", "--title", "x", "--platform", "youtube", "--ai")
	assert.ErrorIs(t, err, planner.ErrAIUnavailable)
}

func TestListRendersTable(t *testing.T) {
	out, err := execute(t, "list", "--user", uuid.NewString())
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "TOTAL")
}

func TestExportEmpty(t *testing.T) {
	out, err := execute(t, "export", "--user", uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, strings.Join(planner.ExportColumns, ","), out)
}
