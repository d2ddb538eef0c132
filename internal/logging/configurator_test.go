package logging

import "testing"

func TestRegisterSeedsFromGlobalDefault(t *testing.T) {
	configurator := NewConfigurator()
	configurator.SetGlobalMinimumLogLevel(LevelWarning)

	ch := NewChannel(configurator, &recordingWriter{}, "Disc")
	if got := ch.MinimumLevel(); got != LevelWarning {
		t.Fatalf("registered channel at %v, want the global default %v", got, LevelWarning)
	}
}

func TestRegisterSeedsFromPlugin(t *testing.T) {
	plugin := newRecordingPlugin()
	plugin.levels["Disc"] = LevelError

	configurator := NewConfigurator()
	configurator.SetPlugin(plugin)

	disc := NewChannel(configurator, &recordingWriter{}, "Disc")
	other := NewChannel(configurator, &recordingWriter{}, "Encode")

	if got := disc.MinimumLevel(); got != LevelError {
		t.Fatalf("persisted channel restored at %v, want %v", got, LevelError)
	}
	if got := other.MinimumLevel(); got != DefaultMinimumLevel {
		t.Fatalf("unpersisted channel restored at %v, want the global default %v", got, DefaultMinimumLevel)
	}
}

func TestGlobalLevelSkipsUserOverrides(t *testing.T) {
	configurator := NewConfigurator()
	plain := NewChannel(configurator, &recordingWriter{}, "Plain")
	pinned := NewChannel(configurator, &recordingWriter{}, "Pinned")
	pinned.SetMinimumLevel(LevelTrace)

	configurator.SetGlobalMinimumLogLevel(LevelError)

	if got := plain.MinimumLevel(); got != LevelError {
		t.Fatalf("non-overridden channel at %v, want %v", got, LevelError)
	}
	if got := pinned.MinimumLevel(); got != LevelTrace {
		t.Fatalf("overridden channel clobbered to %v, want %v", got, LevelTrace)
	}
}

func TestSetChannelUpdatesEveryNameMatch(t *testing.T) {
	configurator := NewConfigurator()
	plugin := newRecordingPlugin()
	configurator.SetPlugin(plugin)

	// Two subsystems can register under the same name; both must follow.
	first := NewChannel(configurator, &recordingWriter{}, "Disc")
	second := NewChannel(configurator, &recordingWriter{}, "Disc")
	other := NewChannel(configurator, &recordingWriter{}, "Encode")

	configurator.SetChannel("Disc", LevelError)

	if first.MinimumLevel() != LevelError || second.MinimumLevel() != LevelError {
		t.Fatalf("duplicate channels at %v and %v, want both at %v",
			first.MinimumLevel(), second.MinimumLevel(), LevelError)
	}
	if got := other.MinimumLevel(); got == LevelError {
		t.Fatalf("unrelated channel was updated to %v", got)
	}
	if got := plugin.levels["Disc"]; got != LevelError {
		t.Fatalf("plugin saw level %v, want %v", got, LevelError)
	}

	// SetChannel counts as a user override.
	configurator.SetGlobalMinimumLogLevel(LevelTrace)
	if got := first.MinimumLevel(); got != LevelError {
		t.Fatalf("channel set through the configurator was clobbered to %v", got)
	}
}

func TestSetPluginRestoresRegisteredChannels(t *testing.T) {
	configurator := NewConfigurator()
	disc := NewChannel(configurator, &recordingWriter{}, "Disc")

	plugin := newRecordingPlugin()
	plugin.levels["Disc"] = LevelWarning
	configurator.SetPlugin(plugin)

	if got := disc.MinimumLevel(); got != LevelWarning {
		t.Fatalf("channel at %v after plugin attach, want %v", got, LevelWarning)
	}
}

func TestRestoreAllSkipsUserOverrides(t *testing.T) {
	plugin := newRecordingPlugin()
	plugin.levels["Pinned"] = LevelDebug

	configurator := NewConfigurator()
	configurator.SetPlugin(plugin)

	pinned := NewChannel(configurator, &recordingWriter{}, "Pinned")
	pinned.SetMinimumLevel(LevelError)

	configurator.RestoreAllChannelLevels()
	if got := pinned.MinimumLevel(); got != LevelError {
		t.Fatalf("restore clobbered an explicit override to %v", got)
	}
}

func TestChannelsSnapshot(t *testing.T) {
	configurator := NewConfigurator()
	NewChannel(configurator, &recordingWriter{}, "A")
	b := NewChannel(configurator, &recordingWriter{}, "B")
	b.SetMinimumLevel(LevelError)
	NewChannel(configurator, &recordingWriter{}, "C")

	infos := configurator.Channels()
	if len(infos) != 3 {
		t.Fatalf("snapshot has %d rows, want 3", len(infos))
	}
	// Head insertion: newest first.
	wantNames := []string{"C", "B", "A"}
	for i, info := range infos {
		if info.Name != wantNames[i] {
			t.Fatalf("row %d is %q, want %q", i, info.Name, wantNames[i])
		}
	}
	if infos[1].Level != LevelError {
		t.Fatalf("snapshot level for B is %v, want %v", infos[1].Level, LevelError)
	}
}

func TestRemoveUnlinksChannel(t *testing.T) {
	configurator := NewConfigurator()
	a := NewChannel(configurator, &recordingWriter{}, "A")
	b := NewChannel(configurator, &recordingWriter{}, "B")
	c := NewChannel(configurator, &recordingWriter{}, "C")

	// Middle, head, tail: exercise each unlink shape.
	b.Remove()
	if got := configurator.Channels(); len(got) != 2 {
		t.Fatalf("%d channels after middle removal, want 2", len(got))
	}
	c.Remove()
	a.Remove()
	if got := configurator.Channels(); len(got) != 0 {
		t.Fatalf("%d channels after removing all, want 0", len(got))
	}

	// Level changes after removal must not touch gone channels.
	configurator.SetGlobalMinimumLogLevel(LevelError)
	if got := b.MinimumLevel(); got == LevelError {
		t.Fatalf("removed channel still tracked the global level")
	}
}
