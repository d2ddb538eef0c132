package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, err := executeCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, target) {
		t.Fatalf("init output %q does not mention the target path", out)
	}

	// A second init without --overwrite refuses.
	if _, err := executeCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("second init overwrote the config without --overwrite")
	}

	out, err = executeCommand(t, "config", "validate", target)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Fatalf("validate output %q", out)
	}
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	path := writeConfig(t, "[levels]\ndefault = \"verbose\"\n")
	if _, err := executeCommand(t, "config", "validate", path); err == nil {
		t.Fatal("validate accepted an unknown level")
	}
}

func TestConfigShowPrintsEffectiveConfig(t *testing.T) {
	path := writeConfig(t, "[queue]\nlimit = 77\n")
	out, err := executeCommand(t, "config", "show", path)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "limit = 77") {
		t.Fatalf("show output missing overridden value:\n%s", out)
	}
	if !strings.Contains(out, "[aggregation]") {
		t.Fatalf("show output missing defaulted sections:\n%s", out)
	}
}

func TestChannelsWithoutPersistence(t *testing.T) {
	path := writeConfig(t, "")
	out, err := executeCommand(t, "--config", path, "channels")
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	if !strings.Contains(out, "Persistence is disabled") {
		t.Fatalf("channels output %q", out)
	}
}

func TestChannelsSetListForget(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "levels.db")
	path := writeConfig(t, "[persistence]\nenabled = true\npath = \""+dbPath+"\"\n")

	if _, err := executeCommand(t, "--config", path, "channels", "set", "Disc", "trace"); err != nil {
		t.Fatalf("channels set: %v", err)
	}

	out, err := executeCommand(t, "--config", path, "channels")
	if err != nil {
		t.Fatalf("channels: %v", err)
	}
	if !strings.Contains(out, "Disc") || !strings.Contains(out, "trace") {
		t.Fatalf("listing missing saved level:\n%s", out)
	}

	out, err = executeCommand(t, "--config", path, "channels", "forget", "Disc")
	if err != nil {
		t.Fatalf("channels forget: %v", err)
	}
	if !strings.Contains(out, "Forgot Disc") {
		t.Fatalf("forget output %q", out)
	}
}

func TestChannelsSetRejectsUnknownLevel(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "levels.db")
	path := writeConfig(t, "[persistence]\nenabled = true\npath = \""+dbPath+"\"\n")

	if _, err := executeCommand(t, "--config", path, "channels", "set", "Disc", "loud"); err == nil {
		t.Fatal("channels set accepted an unknown level")
	}
}

func TestRunWorkloadSummary(t *testing.T) {
	path := writeConfig(t, "[sinks]\nconsole = false\nstream = true\nstream_capacity = 64\n")

	out, err := executeCommand(t, "--config", path, "run", "--producers", "2", "--messages", "20")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Messages logged") || !strings.Contains(out, "40") {
		t.Fatalf("summary missing message count:\n%s", out)
	}
	if !strings.Contains(out, "Session") {
		t.Fatalf("summary missing session row:\n%s", out)
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	path := writeConfig(t, "")
	if _, err := executeCommand(t, "--config", path, "run", "--producers", "0"); err == nil {
		t.Fatal("run accepted zero producers")
	}
}
