package sinks

import "sawmill/internal/logging"

// InstallDefaults registers the default sink set on a worker: the console
// sink, unless a debugger is attached, in which case the worker's debug
// stream fast path already covers interactive output.
func InstallDefaults(w *logging.OutputWorker) {
	if w.DebuggerAttached() {
		return
	}
	w.AddSink(NewConsole())
}
