package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jsfinder/internal/finder"
	"jsfinder/internal/folder"
)

func collect(t *testing.T, raw []any) finder.Result {
	t.Helper()
	f, err := folder.Convert(raw)
	require.NoError(t, err)
	res, err := finder.Collect(context.Background(), f, finder.JavaScript)
	require.NoError(t, err)
	return res
}

func summary() Summary {
	at := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	return Summary{RunID: "run-1", Source: "data.json", Root: "Root 1", Predicate: "suffix .js", StartedAt: at, FinishedAt: at.Add(time.Second)}
}

func TestWriteMarkdown(t *testing.T) {
	res := collect(t, []any{"a.js", "<b>.txt", []any{"c.js", []any{"d.js"}}})
	p := filepath.Join(t.TempDir(), "report.md")

	got, err := WriteMarkdown(p, res, summary())
	require.NoError(t, err)
	assert.Equal(t, p, got)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	md := string(data)
	assert.Contains(t, md, "## JavaScript Files Report")
	assert.Contains(t, md, "**Matches**: 3")
	assert.Contains(t, md, "1. a.js\n2. c.js\n3. d.js")
	assert.Contains(t, md, "&lt;b&gt;.txt")
	assert.Contains(t, md, "  - **Folder:**\n    - d.js")
	assert.True(t, strings.Index(md, "### Matches") < strings.Index(md, "### All Files"))
}

func TestWriteMarkdown_EscapesMatchNames(t *testing.T) {
	res := collect(t, []any{"a<b>.js", "x_`y`*.js", "it's.js"})
	p := filepath.Join(t.TempDir(), "report.md")

	_, err := WriteMarkdown(p, res, summary())
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	md := string(data)
	assert.Contains(t, md, "1. a&lt;b&gt;.js\n")
	assert.Contains(t, md, "2. x\\_\\`y\\`\\*.js\n")
	assert.Contains(t, md, "3. it&#39;s.js\n")
	assert.NotContains(t, md, "`a&lt;b&gt;.js`")
}

func TestWriteMarkdown_Empty(t *testing.T) {
	res := collect(t, []any{"readme.md"})
	p := filepath.Join(t.TempDir(), "report.md")

	_, err := WriteMarkdown(p, res, summary())
	require.NoError(t, err)
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), "No JavaScript files found.")
}

func TestWriteJSON(t *testing.T) {
	res := collect(t, []any{"readme.md", []any{"x.js"}})
	p := filepath.Join(t.TempDir(), "out.json")

	_, err := WriteJSON(p, res, summary(), true)
	require.NoError(t, err)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, []string{"x.js"}, doc.Matches)
	assert.Equal(t, "run-1", doc.RunID)
	require.NotNil(t, doc.Tree)
	assert.Len(t, doc.Tree.Children, 2)
}

func TestWriteJSON_EmptyMatchesIsArray(t *testing.T) {
	p := filepath.Join(t.TempDir(), "out.json")
	_, err := WriteJSON(p, finder.Result{}, summary(), false)
	require.NoError(t, err)

	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"matches": []`)
	assert.NotContains(t, string(data), `"tree"`)
}

func TestDefaultName(t *testing.T) {
	assert.Equal(t, "root_2.md", defaultName("Root 2", "md"))
	assert.Equal(t, "results.json", defaultName("", "json"))
}
