package sinks

import (
	"io"
	"sync"

	"sawmill/internal/logging"
)

// Writer is a sink that appends one line per record to an arbitrary
// io.Writer: a file, a pipe, or a test buffer.
type Writer struct {
	name string

	mu sync.Mutex
	w  io.Writer
}

// NewWriter returns a writer sink registered under name.
func NewWriter(name string, w io.Writer) *Writer {
	return &Writer{name: name, w: w}
}

func (s *Writer) UniqueName() string { return s.name }

func (s *Writer) Write(_ logging.Level, _ string, header, body string) {
	line := make([]byte, 0, len(header)+len(body)+1)
	line = append(line, header...)
	line = append(line, body...)
	line = append(line, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = s.w.Write(line)
}
