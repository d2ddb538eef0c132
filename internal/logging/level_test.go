package logging

import "testing"

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   string
		want Level
		ok   bool
	}{
		{"trace", LevelTrace, true},
		{"Debug", LevelDebug, true},
		{"INFO", LevelInfo, true},
		{"warning", LevelWarning, true},
		{"warn", LevelWarning, true},
		{"error", LevelError, true},
		{"disabled", LevelDisabled, true},
		{"off", LevelDisabled, true},
		{"", LevelInfo, false},
		{"verbose", LevelInfo, false},
	}
	for _, tc := range cases {
		got, ok := ParseLevel(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestLevelStringRoundTrip(t *testing.T) {
	for level := LevelDisabled; level < Level(levelCount); level++ {
		parsed, ok := ParseLevel(level.String())
		if !ok || parsed != level {
			t.Errorf("ParseLevel(%v.String()) = %v, %v", level, parsed, ok)
		}
	}
}

func TestHeaderLabelsAreFixedWidth(t *testing.T) {
	labels := []string{
		LevelDisabled.headerLabel(),
		LevelTrace.headerLabel(),
		LevelDebug.headerLabel(),
		LevelInfo.headerLabel(),
		LevelWarning.headerLabel(),
		LevelError.headerLabel(),
		Level(99).headerLabel(),
	}
	width := len(labels[0])
	for _, label := range labels {
		if len(label) != width {
			t.Fatalf("label %q is %d bytes, want %d so columns line up", label, len(label), width)
		}
	}
	if got := LevelError.headerLabel(); got != " {!ERROR!} [" {
		t.Fatalf("error label %q", got)
	}
	if got := Level(99).headerLabel(); got != " {???}     [" {
		t.Fatalf("unknown-level label %q", got)
	}
}
