//go:build acceptance

// Package acceptance contains black-box CLI acceptance tests (TestA_*).
// Run with: go test -tags=acceptance ./test/acceptance/...
package acceptance

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// devregBinary is the path to the devreg binary.
// Set via DEVREG_BINARY env var or default to ./bin/devreg in the repo root.
var devregBinary string

func init() {
	if bin := os.Getenv("DEVREG_BINARY"); bin != "" {
		devregBinary = bin
	} else {
		devregBinary = "../../bin/devreg"
	}
}

// runDevreg executes the devreg CLI with the given arguments and returns stdout.
// Fails the test if the command returns a non-zero exit code.
func runDevreg(t *testing.T, args ...string) string {
	t.Helper()
	cmd := exec.Command(devregBinary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		t.Fatalf("devreg %s failed: %v\nstderr: %s\nstdout: %s",
			strings.Join(args, " "), err, stderr.String(), stdout.String())
	}
	return stdout.String()
}

// runDevregExpectError executes devreg and expects it to fail.
// Returns stderr.
func runDevregExpectError(t *testing.T, args ...string) string {
	t.Helper()
	cmd := exec.Command(devregBinary, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err == nil {
		t.Fatalf("devreg %s expected to fail but succeeded\nstdout: %s",
			strings.Join(args, " "), stdout.String())
	}
	return stderr.String()
}

// writeFleet writes a fleet file into a temp directory and returns its path.
func writeFleet(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fleet.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fleet file: %v", err)
	}
	return path
}

// assertContains fails the test if output does not contain want.
func assertContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Errorf("output missing %q:\n%s", want, output)
	}
}
