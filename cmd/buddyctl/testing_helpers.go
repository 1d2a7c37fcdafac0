package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Drain concurrently so large outputs cannot block on a full pipe.
	done := make(chan struct{})
	var buf bytes.Buffer
	go func() {
		buf.ReadFrom(r)
		close(done)
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	<-done

	return buf.String(), fnErr
}

// resetGlobals restores every flag variable to its default
func resetGlobals() {
	verbose, quiet, jsonOut = false, false, false
	logLevel, logDir = "", ""
	ordersCfg = defaultHeapConfig()
	runCfg = defaultHeapConfig()
	runVerify = true
	stressCfg = defaultHeapConfig()
	stressSeed, stressOps, stressMaxSize, stressEvery = 1, 10000, 0, 1
	stressProfile, stressDump = "", ""
}

// writeScript writes a script into a temp dir and returns its path
func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.trace")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}
