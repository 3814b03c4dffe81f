package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"movielog/internal/testsupport"
)

const stubProbeOutput = `{
  "streams": [
    {"index": 0, "codec_name": "h264", "codec_type": "video", "width": 1920, "height": 800},
    {"index": 1, "codec_name": "ac3", "codec_type": "audio", "channels": 6},
    {"index": 2, "codec_name": "subrip", "codec_type": "subtitle"}
  ],
  "format": {"filename": "movie.mkv", "nb_streams": 3, "duration": "5700.000000", "size": "2048", "format_name": "matroska,webm"}
}`

type cliTestEnv struct {
	baseDir    string
	libraryDir string
	catalog    string
	stateDir   string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("ffprobe stub requires a unix shell")
	}

	base := t.TempDir()
	env := &cliTestEnv{
		baseDir:    base,
		libraryDir: filepath.Join(base, "library"),
		catalog:    filepath.Join(base, "catalog", "movie_log.csv"),
		stateDir:   filepath.Join(base, "state"),
		configPath: filepath.Join(base, "config.toml"),
	}
	if err := os.MkdirAll(env.libraryDir, 0o755); err != nil {
		t.Fatalf("mkdir library: %v", err)
	}

	payload := filepath.Join(base, "probe.json")
	if err := os.WriteFile(payload, []byte(stubProbeOutput), 0o644); err != nil {
		t.Fatalf("write probe payload: %v", err)
	}
	stub := filepath.Join(base, "ffprobe")
	if err := os.WriteFile(stub, []byte("#!/bin/sh\ncat "+payload+"\n"), 0o755); err != nil {
		t.Fatalf("write ffprobe stub: %v", err)
	}

	writeTestConfig(t, env, stub)
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv, ffprobe string) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
library_dir = %q
catalog_path = %q
state_dir = %q

[naming]
encoders = ["FLUX"]

[ratings]
enabled = false

[probe]
ffprobe_binary = %q

[logging]
level = "error"
`, env.libraryDir, env.catalog, env.stateDir, ffprobe)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func (env *cliTestEnv) addMovie(t *testing.T, folder string, size int64, offset time.Duration) string {
	t.Helper()
	path := filepath.Join(env.libraryDir, folder, folder+".mkv")
	testsupport.WriteMovie(t, path, size, time.Date(2023, 3, 1, 12, 0, 0, 0, time.UTC).Add(offset))
	return path
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
