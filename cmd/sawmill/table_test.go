package main

import (
	"strings"
	"testing"
)

func TestRenderTable(t *testing.T) {
	out := renderTable(
		[]string{"Channel", "Level"},
		[][]string{
			{"Disc", "warning"},
			{"Encoder", "trace"},
		},
	)

	for _, want := range []string{"Channel", "Level", "Disc", "warning", "Encoder", "trace"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table output missing %q:\n%s", want, out)
		}
	}

	lines := strings.Split(out, "\n")
	if len(lines) < 5 {
		t.Fatalf("expected bordered header plus two rows, got %d lines:\n%s", len(lines), out)
	}
	if idx := strings.Index(out, "Disc"); idx > strings.Index(out, "Encoder") {
		t.Fatalf("rows rendered out of order:\n%s", out)
	}
}
