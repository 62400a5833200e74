package diag

import (
	"fmt"
	"strings"
)

// Severity defines the importance of a diagnostic. Ignore drops the
// diagnostic before it reaches a Bag.
type Severity uint8

const (
	Ignore Severity = iota
	Info
	Warning
	Error
)

func (s Severity) String() string {
	switch s {
	case Ignore:
		return "IGNORE"
	case Info:
		return "INFO"
	case Warning:
		return "WARNING"
	case Error:
		return "ERROR"
	}
	return "UNKNOWN"
}

// ParseSeverity accepts the option spellings "error", "warning", "info" and
// "ignore" in any case.
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ignore":
		return Ignore, nil
	case "info":
		return Info, nil
	case "warning":
		return Warning, nil
	case "error":
		return Error, nil
	}
	return Ignore, fmt.Errorf("unknown severity %q", s)
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
