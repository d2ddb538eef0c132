package logging

import "strings"

// Level is the severity attached to a record and the minimum gate on a
// channel. Disabled is a valid channel setting (the channel emits nothing)
// but never a record severity in practice.
type Level int32

const (
	LevelDisabled Level = iota
	LevelTrace
	LevelDebug
	LevelInfo
	LevelWarning
	LevelError

	levelCount
)

// DefaultMinimumLevel is the level a channel starts with before the
// configurator restores it.
const DefaultMinimumLevel = LevelDebug

func (l Level) String() string {
	switch l {
	case LevelDisabled:
		return "disabled"
	case LevelTrace:
		return "trace"
	case LevelDebug:
		return "debug"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseLevel maps a config string to a Level. The second result reports
// whether the input named a known level.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "disabled", "off":
		return LevelDisabled, true
	case "trace":
		return LevelTrace, true
	case "debug":
		return LevelDebug, true
	case "info":
		return LevelInfo, true
	case "warning", "warn":
		return LevelWarning, true
	case "error":
		return LevelError, true
	default:
		return LevelInfo, false
	}
}

// headerLabel returns the fixed-width severity field of a rendered header,
// including the opening bracket of the subsystem field.
func (l Level) headerLabel() string {
	switch l {
	case LevelDisabled:
		return " {DISABLED}["
	case LevelTrace:
		return " {TRACE}   ["
	case LevelDebug:
		return " {DEBUG}   ["
	case LevelInfo:
		return " {INFO}    ["
	case LevelWarning:
		return " {WARNING} ["
	case LevelError:
		return " {!ERROR!} ["
	default:
		return " {???}     ["
	}
}
