package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

// createTempLedger creates a temporary ledger file with the given content, and
// points the ledger-file flag to it for the duration of the test.
func createTempLedger(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "transactions.jsonl")
	if err := os.WriteFile(file, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp ledger: %v", err)
	}
	setFlag(t, ledgerFile, file)
	return file
}

// captureOutput collects the raw markdown printed during the test.
func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	oldOutput, oldRaw := output, *raw
	output, *raw = &buf, true
	t.Cleanup(func() { output, *raw = oldOutput, oldRaw })
	return &buf
}

// setFlag overrides a global flag value for the duration of the test.
func setFlag[T any](t *testing.T, flag *T, value T) {
	t.Helper()
	old := *flag
	*flag = value
	t.Cleanup(func() { *flag = old })
}
