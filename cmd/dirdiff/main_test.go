package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ning0612/Dirdiff/internal/progress"
	"github.com/Ning0612/Dirdiff/internal/report"
	"github.com/Ning0612/Dirdiff/internal/testutil"
)

// writeConfig creates a config file so tests never pick up a user's own config
func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := execute(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestExecute_NoDifferences(t *testing.T) {
	base := t.TempDir()
	a, b := filepath.Join(base, "a"), filepath.Join(base, "b")
	testutil.CreateTree(t, a, testutil.Tree{"dir/x.txt": 4, "y": 1})
	testutil.CreateTree(t, b, testutil.Tree{"dir/x.txt": 4, "y": 1})
	cfg := writeConfig(t, "log:\n  level: error\n")

	code, out, _ := runCLI(t, "--config", cfg, a, b)

	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "No differences across 2 roots.")
}

func TestExecute_Differences(t *testing.T) {
	base := t.TempDir()
	a, b := filepath.Join(base, "a"), filepath.Join(base, "b")
	testutil.CreateTree(t, a, testutil.Tree{"x": 10, "gone/inner": 1})
	testutil.CreateTree(t, b, testutil.Tree{"x": 20})
	cfg := writeConfig(t, "log:\n  level: error\n")

	code, out, _ := runCLI(t, "--config", cfg, a, b)

	assert.Equal(t, exitDifferences, code)
	assert.Contains(t, out, "/gone\n")
	assert.NotContains(t, out, "/gone/inner")
	assert.Contains(t, out, "/x\n  [1] file, 10 B\n  [2] file, 20 B\n")

	code, out, _ = runCLI(t, "--config", cfg, "--filter-dirs=false", a, b)
	assert.Equal(t, exitDifferences, code)
	assert.Contains(t, out, "/gone/inner")
}

func TestExecute_JSONAndExclude(t *testing.T) {
	base := t.TempDir()
	a, b := filepath.Join(base, "a"), filepath.Join(base, "b")
	testutil.CreateTree(t, a, testutil.Tree{"keep": 1, "skip.tmp": 1})
	testutil.CreateTree(t, b, testutil.Tree{"keep": 2})
	cfg := writeConfig(t, "exclude:\n  - \"*.tmp\"\nlog:\n  level: error\n")

	code, out, _ := runCLI(t, "--config", cfg, "--format", "json", a, b)
	require.Equal(t, exitDifferences, code)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Records, 1)
	assert.Equal(t, "keep", doc.Records[0].Path)
	assert.Equal(t, []string{a, b}, doc.Roots)
}

func TestExecute_RootWithDollarKeptVerbatim(t *testing.T) {
	base := t.TempDir()
	a, b := filepath.Join(base, "snap$HOME"), filepath.Join(base, "b")
	testutil.CreateTree(t, a, testutil.Tree{"only-in-a": 1})
	testutil.CreateTree(t, b, testutil.Tree{})
	cfg := writeConfig(t, "log:\n  level: error\n")

	code, out, _ := runCLI(t, "--config", cfg, "--progress=false", "--format", "json", a, b)
	require.Equal(t, exitDifferences, code)

	var doc report.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, []string{a, b}, doc.Roots)
	require.Len(t, doc.Records, 1)
	assert.Equal(t, "only-in-a", doc.Records[0].Path)

	code, out, _ = runCLI(t, "--config", cfg, "--progress=false", a, a)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "No differences")
}

func TestStatusLine_Update(t *testing.T) {
	var buf bytes.Buffer
	s := &statusLine{w: &buf}

	s.update(progress.Update{Type: progress.UpdateComplete, Root: "/a", RootEntries: 3, RootsCompleted: 1, RootsTotal: 2})
	assert.Equal(t, "\r\033[K[==========>         ]  50.0% /a done, 3 entries", buf.String())

	// entry updates inside the refresh interval are dropped
	buf.Reset()
	s.update(progress.Update{Type: progress.UpdateEntry, Root: "/a", EntriesTotal: 4, RootsTotal: 2})
	assert.Empty(t, buf.String())

	s.clear()
	assert.Equal(t, "\r\033[K", buf.String())

	buf.Reset()
	s.update(progress.Update{Type: progress.UpdateComplete, Root: "/b", RootsCompleted: 2, RootsTotal: 2})
	assert.Empty(t, buf.String(), "no redraw after clear")
}

func TestExecute_SameRootTwice(t *testing.T) {
	a := t.TempDir()
	testutil.CreateTree(t, a, testutil.Tree{"d/e": 3})
	cfg := writeConfig(t, "log:\n  level: error\n")

	code, _, _ := runCLI(t, "--config", cfg, a, a)
	assert.Equal(t, exitOK, code)
}

func TestExecute_Failures(t *testing.T) {
	cfg := writeConfig(t, "log:\n  level: error\n")
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"too few roots", []string{"--config", cfg, dir}, "requires at least 2 arg(s)"},
		{"bad format", []string{"--config", cfg, "--format", "xml", dir, dir}, "invalid output format"},
		{"bad pattern", []string{"--config", cfg, "--exclude", "[", dir, dir}, "invalid exclude pattern"},
		{"missing config", []string{"--config", filepath.Join(dir, "nope.yaml"), dir, dir}, "config file not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, tt.args...)
			assert.Equal(t, exitFailure, code)
			assert.True(t, strings.HasPrefix(errOut, "Error: "), "stderr = %q", errOut)
			assert.Contains(t, errOut, tt.wantErr)
		})
	}
}
