package options

import (
	"fmt"
	"strconv"
	"strings"
)

// Level is a Java language version. Values below 9 use the legacy "1.x"
// spelling when printed.
type Level int

const (
	JDK1_3 Level = 3
	JDK1_4 Level = 4
	JDK1_5 Level = 5
	JDK1_6 Level = 6
	JDK1_7 Level = 7
	JDK1_8 Level = 8
	JDK9   Level = 9
	JDK10  Level = 10
	JDK11  Level = 11
	JDK12  Level = 12
	JDK13  Level = 13
	JDK14  Level = 14
	JDK15  Level = 15
	JDK16  Level = 16
	JDK17  Level = 17
	JDK18  Level = 18
	JDK19  Level = 19
	JDK20  Level = 20
	JDK21  Level = 21

	// Latest is the only level at which preview features may be enabled.
	Latest = JDK21
)

// Thresholds at which language features switch on.
const (
	GenericsLevel       = JDK1_5
	DiamondLevel        = JDK1_7
	LambdaLevel         = JDK1_8
	AnonymousDiamond    = JDK9
	UnderscoreKeyword   = JDK9
	VarReservedTypeName = JDK10
)

func (l Level) String() string {
	if l < JDK9 {
		return "1." + strconv.Itoa(int(l))
	}
	return strconv.Itoa(int(l))
}

func (l Level) Valid() bool {
	return l >= JDK1_3 && l <= Latest
}

// ParseLevel accepts "1.8", "8", "17" and similar spellings.
func ParseLevel(s string) (Level, error) {
	s = strings.TrimSpace(s)
	trimmed := s
	if strings.Contains(trimmed, ".") {
		// Float spellings from TOML numbers, e.g. "1.800000".
		trimmed = strings.TrimRight(strings.TrimRight(trimmed, "0"), ".")
	}
	trimmed = strings.TrimPrefix(trimmed, "1.")
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid language level %q", s)
	}
	l := Level(n)
	if !l.Valid() {
		return 0, fmt.Errorf("unsupported language level %q", s)
	}
	return l, nil
}

func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// UnicodeVersion returns the Unicode version (major*10+minor) whose
// character database defines identifiers at this level.
func (l Level) UnicodeVersion() int {
	switch {
	case l <= JDK1_4:
		return 30
	case l <= JDK1_6:
		return 40
	case l == JDK1_7:
		return 60
	case l == JDK1_8:
		return 62
	case l <= JDK10:
		return 80
	case l == JDK11:
		return 100
	case l == JDK12:
		return 110
	case l <= JDK14:
		return 121
	case l <= JDK18:
		return 130
	case l == JDK19:
		return 140
	default:
		return 150
	}
}
