package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeLines(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "line %d\n", i)
	}
	path := filepath.Join(t.TempDir(), "test.log")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadMissingFile(t *testing.T) {
	lines, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v, want nil for missing file", err)
	}
	if lines != nil {
		t.Fatalf("lines = %v, want nil", lines)
	}
}

func TestReadWholeFile(t *testing.T) {
	path := writeLines(t, 5)
	lines, err := Read(path, 0)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(lines) != 5 {
		t.Fatalf("len(lines) = %d, want 5", len(lines))
	}
	if lines[0] != "line 1" || lines[4] != "line 5" {
		t.Fatalf("lines = %v, want file order", lines)
	}
}

func TestReadTail(t *testing.T) {
	path := writeLines(t, 100)
	lines, err := Read(path, 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(lines) != 10 {
		t.Fatalf("len(lines) = %d, want 10", len(lines))
	}
	if lines[0] != "line 91" || lines[9] != "line 100" {
		t.Fatalf("lines = %v, want the last 10 in order", lines)
	}
}

func TestReadFewerLinesThanLimit(t *testing.T) {
	path := writeLines(t, 3)
	lines, err := Read(path, 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(lines) != 3 {
		t.Fatalf("len(lines) = %d, want 3", len(lines))
	}
	if lines[0] != "line 1" {
		t.Fatalf("lines[0] = %q, want line 1", lines[0])
	}
}

func TestReadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.log")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	lines, err := Read(path, 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(lines) != 0 {
		t.Fatalf("len(lines) = %d, want 0", len(lines))
	}
}
