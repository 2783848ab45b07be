package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempJSON(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestCountCmd_PrintsMatchCount(t *testing.T) {
	path := writeTempJSON(t, `{"a":[1,2,3]}`)

	c := newCountCmd()
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetArgs([]string{`$.a[*]`, path})

	if err := c.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "3" {
		t.Fatalf("got %q, want %q", got, "3")
	}
}

func TestCountCmd_ZeroMatches(t *testing.T) {
	path := writeTempJSON(t, `{}`)

	c := newCountCmd()
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetArgs([]string{`$.missing`, path})

	if err := c.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "0" {
		t.Fatalf("got %q, want %q", got, "0")
	}
}

func TestCountCmd_ErrorsOnMissingFile(t *testing.T) {
	c := newCountCmd()
	c.SetOut(new(bytes.Buffer))
	c.SetArgs([]string{`$.a`, filepath.Join(t.TempDir(), "does-not-exist.json")})

	if err := c.Execute(); err == nil {
		t.Fatal("expected an error for a missing input file")
	}
}

func TestCountCmd_RecursiveEngineAgrees(t *testing.T) {
	path := writeTempJSON(t, `{"a":{"a":{"a":1}}}`)

	c := newCountCmd()
	out := new(bytes.Buffer)
	c.SetOut(out)
	c.SetArgs([]string{"--recursive-engine", `$..a..a`, path})

	if err := c.Execute(); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "2" {
		t.Fatalf("got %q, want %q", got, "2")
	}
}
