package utils

import (
	"testing"

	"prompt_architect/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanMarkdown(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "  hello  ", "hello"},
		{"markdown fence", "```markdown\n# Title\n```", "# Title"},
		{"json fence", "```json\n{\"a\": 1}\n```", "{\"a\": 1}"},
		{"bare fence", "```\nbody\n```", "body"},
		{"inline fence kept", "```{\"a\":1}```", "{\"a\":1}"},
		{"unterminated", "```json\n{", "```json\n{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanMarkdown(tt.input))
		})
	}
}

func TestRepairJSON(t *testing.T) {
	out, err := RepairJSON("```json\n{'name': 'chef', 'tags': ['a', 'b']}\n```")
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"chef","tags":["a","b"]}`, out)
}

func TestRenderMarkdown(t *testing.T) {
	html, err := RenderMarkdown("# Plan\n\nSee [docs](https://example.com).\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	require.NoError(t, err)
	assert.Contains(t, html, "<h1>Plan</h1>")
	assert.Contains(t, html, `target="_blank"`)
	assert.Contains(t, html, `rel="noopener noreferrer"`)
	assert.Contains(t, html, `class="preview-table"`)
	assert.NotContains(t, html, "<body>")
}

func TestRenderMarkdownEscapesRawHTML(t *testing.T) {
	html, err := RenderMarkdown("<script>alert(1)</script>")
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>")
}

func TestBuildPreview(t *testing.T) {
	p := BuildPreview("{'ok': true}", models.FormatJSON)
	assert.Equal(t, "{'ok': true}", p.Text)
	assert.JSONEq(t, `{"ok":true}`, p.JSON)
	assert.NotEmpty(t, p.HTML)

	p = BuildPreview("- one\n- two", models.FormatList)
	assert.Empty(t, p.JSON)
	assert.Contains(t, p.HTML, "<li>one</li>")
}

func TestParseHJSONToStruct(t *testing.T) {
	var draft models.PromptData
	err := ParseHJSONToStruct([]byte(`{
  # comments are allowed
  role: Senior chef
  task: Write a recipe
  reasoning: true
  temperature: 0.3
}`), &draft)
	require.NoError(t, err)
	assert.Equal(t, "Senior chef", draft.Role)
	assert.Equal(t, "Write a recipe", draft.Task)
	assert.True(t, draft.Reasoning)
	assert.InDelta(t, 0.3, draft.Temperature, 1e-9)

	assert.Error(t, ParseHJSONToStruct([]byte(`{role: [`), &draft))
}
