package sinks

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"sawmill/internal/logging"
)

// ConsoleName is the unique name the console sink registers under.
const ConsoleName = "console"

const (
	ansiReset  = "\x1b[0m"
	ansiDim    = "\x1b[2m"
	ansiYellow = "\x1b[33m"
	ansiRed    = "\x1b[31m"
)

// Console writes rendered records to a terminal-ish stream, coloring the
// severity when the stream is a terminal. Records at warning and above go to
// the error stream so they survive stdout redirection.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	err   io.Writer
	color bool
}

// NewConsole returns a console sink over stdout/stderr. Color is enabled only
// when stdout is a terminal.
func NewConsole() *Console {
	return &Console{
		out:   os.Stdout,
		err:   os.Stderr,
		color: isTerminal(os.Stdout),
	}
}

// NewConsoleWriter returns a console sink over a single writer with color
// forced on or off. Used by tests and by callers that capture output.
func NewConsoleWriter(w io.Writer, color bool) *Console {
	return &Console{out: w, err: w, color: color}
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func (c *Console) UniqueName() string { return ConsoleName }

func (c *Console) Write(level logging.Level, subsystem, header, body string) {
	var buf bytes.Buffer
	buf.Grow(len(header) + len(body) + 16)
	if code := c.levelColor(level); code != "" {
		buf.WriteString(code)
		buf.WriteString(header)
		buf.WriteString(ansiReset)
	} else {
		buf.WriteString(header)
	}
	buf.WriteString(body)
	buf.WriteByte('\n')

	w := c.out
	if level >= logging.LevelWarning {
		w = c.err
	}

	// One locked write per record so concurrent sinks on a shared stream do
	// not interleave mid-line.
	c.mu.Lock()
	defer c.mu.Unlock()
	w.Write(buf.Bytes()) //nolint:errcheck
}

func (c *Console) levelColor(level logging.Level) string {
	if !c.color {
		return ""
	}
	switch {
	case level >= logging.LevelError:
		return ansiRed
	case level == logging.LevelWarning:
		return ansiYellow
	case level <= logging.LevelDebug:
		return ansiDim
	default:
		return ""
	}
}
