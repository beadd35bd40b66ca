package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/sassy/internal/app"
)

func TestRun(t *testing.T) {
	// Save original args
	originalArgs := os.Args
	defer func() {
		os.Args = originalArgs
	}()

	tests := []struct {
		name         string
		setupConfig  func(tmpDir string) string
		args         []string
		expectedExit int
	}{
		{
			name:         "Version without config",
			setupConfig:  func(string) string { return "" },
			args:         []string{"sassy", "version"},
			expectedExit: 0,
		},
		{
			name: "Compile with valid config",
			setupConfig: func(tmpDir string) string {
				script := filepath.Join(tmpDir, "sass")
				if err := os.WriteFile(script, []byte("#!/bin/sh\nfor last; do :; done\ncat \"$last\"\n"), 0o700); err != nil { //nolint:gosec // test script
					t.Fatalf("failed to write sass stand-in: %v", err)
				}
				if err := os.WriteFile(filepath.Join(tmpDir, "main.scss"), []byte("a{}"), 0o600); err != nil {
					t.Fatalf("failed to write source: %v", err)
				}
				configPath := filepath.Join(tmpDir, "sassy.yaml")
				configContent := "sass:\n  sass_path: " + script + "\n"
				if err := os.WriteFile(configPath, []byte(configContent), 0o600); err != nil {
					t.Fatalf("failed to write config: %v", err)
				}
				return configPath
			},
			args:         []string{"sassy", "compile", "main.scss"},
			expectedExit: 0,
		},
		{
			name: "Unknown config key",
			setupConfig: func(tmpDir string) string {
				configPath := filepath.Join(tmpDir, "sassy.yaml")
				if err := os.WriteFile(configPath, []byte("nope: true\n"), 0o600); err != nil {
					t.Fatalf("failed to write config: %v", err)
				}
				return configPath
			},
			args:         []string{"sassy", "compile", "main.scss"},
			expectedExit: 1,
		},
		{
			name:         "Explicit config file missing",
			setupConfig:  func(string) string { return "" },
			args:         []string{"sassy", "-c", "missing.yaml", "compile", "main.scss"},
			expectedExit: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()

			// Setup config
			tt.setupConfig(tmpDir)

			// Change to tmpDir for relative path resolution
			originalWd, _ := os.Getwd()
			err := os.Chdir(tmpDir)
			if err != nil {
				t.Fatalf("failed to chdir: %v", err)
			}
			defer func() {
				_ = os.Chdir(originalWd)
			}()

			// Set args
			os.Args = tt.args

			// Run and capture exit code
			exitCode := run(func(a *app.App) {
				a.WithTraceOutput(io.Discard)
			})
			assert.Equal(t, tt.expectedExit, exitCode)
		})
	}
}
