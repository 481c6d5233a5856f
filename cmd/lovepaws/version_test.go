package main

import (
	"bytes"
	"encoding/json"
	"runtime"
	"strings"
	"testing"
)

func TestVersionDefaults(t *testing.T) {
	origVersion, origGitCommit, origBuildDate := Version, GitCommit, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origGitCommit, origBuildDate
	})

	Version = "0.1.0-test"
	GitCommit = "abc123"
	BuildDate = "2026-01-02"

	info := currentVersion()
	if info.Version != "0.1.0-test" {
		t.Errorf("Version = %q, want %q", info.Version, "0.1.0-test")
	}
	if info.GitCommit != "abc123" {
		t.Errorf("GitCommit = %q, want %q", info.GitCommit, "abc123")
	}
	if info.BuildDate != "2026-01-02" {
		t.Errorf("BuildDate = %q, want %q", info.BuildDate, "2026-01-02")
	}
	if info.GoVersion != runtime.Version() {
		t.Errorf("GoVersion = %q, want %q", info.GoVersion, runtime.Version())
	}
	if want := runtime.GOOS + "/" + runtime.GOARCH; info.Platform != want {
		t.Errorf("Platform = %q, want %q", info.Platform, want)
	}
}

func TestVersionCommandExists(t *testing.T) {
	if versionCmd == nil {
		t.Fatal("versionCmd is nil")
	}
	if versionCmd.Use != "version" {
		t.Errorf("versionCmd.Use = %q, want %q", versionCmd.Use, "version")
	}
	if versionCmd.Short == "" {
		t.Error("versionCmd.Short should not be empty")
	}
	if versionCmd.RunE == nil {
		t.Error("versionCmd.RunE should not be nil")
	}
}

func TestVersionCommandOutput(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, out string)
	}{
		{
			name: "text",
			args: []string{"version"},
			check: func(t *testing.T, out string) {
				if !strings.HasPrefix(out, "Love Paws API "+Version) {
					t.Errorf("output = %q, want prefix %q", out, "Love Paws API "+Version)
				}
				if !strings.Contains(out, "Go Version: "+runtime.Version()) {
					t.Errorf("output missing Go version: %q", out)
				}
			},
		},
		{
			name: "json",
			args: []string{"version", "-o", "json"},
			check: func(t *testing.T, out string) {
				var info versionInfo
				if err := json.Unmarshal([]byte(out), &info); err != nil {
					t.Fatalf("invalid JSON output %q: %v", out, err)
				}
				if info.Version != Version {
					t.Errorf("version = %q, want %q", info.Version, Version)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := executeCommand(t, tt.args...)
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			tt.check(t, out)
		})
	}
}

func TestVersionCommandRejectsUnknownFormat(t *testing.T) {
	if _, err := executeCommand(t, "version", "-o", "xml"); err == nil {
		t.Fatal("expected error for unknown output format")
	}
}

// executeCommand runs the root command with args and returns its stdout.
// Global flag state is restored afterwards.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	origCfg, origRoot := cfgFile, rootDir
	origVersionOut, origCredOut := versionFlags.output, credentialFlags.output
	origRun := runFlags
	t.Cleanup(func() {
		cfgFile, rootDir = origCfg, origRoot
		versionFlags.output, credentialFlags.output = origVersionOut, origCredOut
		runFlags = origRun
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}
