package main

import (
	"testing"
)

func TestAnalyzeCommandInterface(t *testing.T) {
	cmd := NewAnalyzeCmd()
	if cmd == nil {
		t.Fatal("NewAnalyzeCmd should return a valid command")
	}
	if cmd.Use != "analyze [path]" {
		t.Errorf("expected Use to be 'analyze [path]', got %s", cmd.Use)
	}

	flags := cmd.Flags()
	for _, name := range []string{"json", "yaml", "config", "output", "no-git", "git-months"} {
		if flags.Lookup(name) == nil {
			t.Errorf("expected flag '%s' to be defined", name)
		}
	}
}

func TestAnalyzeCommandRejectsMultipleOutputFormats(t *testing.T) {
	cmd := NewAnalyzeCmd()
	cmd.SetArgs([]string{"--json", "--yaml", "."})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error when both --json and --yaml are set")
	}
}

func TestAnalyzeCommandRejectsMissingPath(t *testing.T) {
	cmd := NewAnalyzeCmd()
	cmd.SetArgs([]string{"/does/not/exist/ravel-test-path"})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected an error for a nonexistent path")
	}
}
