package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEdited(t *testing.T) {
	input := `# comment line
Title: My Title
---
# Heading kept

Body line 2
`
	title, body := ParseEdited(input)
	assert.Equal(t, "My Title", title)
	assert.Equal(t, "# Heading kept\n\nBody line 2", body)
}

func TestParseEditedWithoutSeparator(t *testing.T) {
	title, body := ParseEdited("Title: Only\n")
	assert.Equal(t, "Only", title)
	assert.Empty(t, body)
}

func TestComposeContentRoundTrip(t *testing.T) {
	content := ComposeContent("Title", "body *md*")
	assert.Contains(t, content, "Title: Title\n---\nbody *md*\n")

	title, body := ParseEdited(content)
	assert.Equal(t, "Title", title)
	assert.Equal(t, "body *md*", body)
}

func TestPathFor(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_RUNTIME_DIR", dir)
	p, err := PathFor("42")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "hxblog", "42.hxblog.md"), p)
	assert.True(t, strings.HasSuffix(p, ".md"))
}

func TestOpenAtWithScriptedEditor(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "draft.md")
	// The "editor" appends a line to whatever file it is given.
	script := filepath.Join(dir, "fake-editor.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho appended >> \"$1\"\n"), 0o755))
	t.Setenv("VISUAL", "")
	t.Setenv("EDITOR", script)

	out, changed, err := OpenAt(path, []byte("Title: T\n---\n"))
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Contains(t, string(out), "appended")
}
