package sinks

import (
	"testing"

	"sawmill/internal/logging"
)

func TestInstallDefaults(t *testing.T) {
	worker := logging.NewOutputWorker(logging.NewConfigurator(), logging.Settings{})
	InstallDefaults(worker)
	if got := worker.LookupSink(ConsoleName); got == nil {
		t.Fatal("console sink not installed by default")
	}
}

func TestInstallDefaultsSkipsConsoleUnderDebugger(t *testing.T) {
	worker := logging.NewOutputWorker(logging.NewConfigurator(), logging.Settings{
		ForceDebugStream: true,
	})
	InstallDefaults(worker)
	if got := worker.LookupSink(ConsoleName); got != nil {
		t.Fatal("console sink installed despite the debug stream fast path")
	}
}
