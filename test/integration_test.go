// ABOUTME: Integration tests for the uplifting CLI.
// ABOUTME: Builds the binary and runs an offline gym workflow against a temp data dir.
package test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestFullWorkflow(t *testing.T) {
	// Build the binary
	projectRoot, _ := filepath.Abs("..")
	binary := filepath.Join(projectRoot, "uplifting")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/uplifting")
	buildCmd.Dir = projectRoot
	if output, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build: %v\n%s", err, output)
	}
	defer os.Remove(binary)

	tmpDir := t.TempDir()
	env := append(os.Environ(),
		"XDG_DATA_HOME="+tmpDir,
		"XDG_CONFIG_HOME="+filepath.Join(tmpDir, "config"),
		"UPLIFTING_SERVER=",
		"UPLIFTING_TOKEN=",
	)

	run := func(args ...string) (string, error) {
		cmd := exec.Command(binary, args...)
		cmd.Env = env
		output, err := cmd.CombinedOutput()
		return string(output), err
	}

	output, err := run("gym", "add", "Iron Temple", "--lat", "49.2827", "--lon", "-123.1207")
	if err != nil {
		t.Fatalf("Failed to add gym: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Added Iron Temple") {
		t.Errorf("Expected 'Added Iron Temple' in output, got: %s", output)
	}

	output, err = run("gym", "list")
	if err != nil {
		t.Fatalf("Failed to list: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Iron Temple") {
		t.Errorf("Expected 'Iron Temple' in list output, got: %s", output)
	}

	output, err = run("nearby", "--lat", "49.2830", "--lon", "-123.1210")
	if err != nil {
		t.Fatalf("Failed to find nearby gym: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Iron Temple") {
		t.Errorf("Expected 'Iron Temple' nearby, got: %s", output)
	}

	output, err = run("suggest", "set", "bench")
	if err != nil {
		t.Fatalf("Failed to suggest: %v\n%s", err, output)
	}
	if !strings.Contains(output, "10 reps @ 20") {
		t.Errorf("Expected default suggestion, got: %s", output)
	}

	output, err = run("export", "--format", "yaml")
	if err != nil {
		t.Fatalf("Failed to export: %v\n%s", err, output)
	}
	if !strings.Contains(output, "Iron Temple") {
		t.Errorf("Expected gym in export, got: %s", output)
	}
}
