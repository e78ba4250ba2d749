package config

import (
	"fmt"
	"strings"
	"time"
)

// Duration is a TOML duration written as a Go duration string ("250ms",
// "30s") or "never".
type Duration struct {
	time.Duration
	Never bool
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if strings.EqualFold(s, "never") {
		*d = Duration{Never: true}
		return nil
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q (want e.g. \"250ms\", \"30s\" or \"never\")", s)
	}
	*d = Duration{Duration: v}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d Duration) String() string {
	if d.Never {
		return "never"
	}
	return d.Duration.String()
}

// IsZero reports whether the duration was left unset.
func (d Duration) IsZero() bool { return d.Duration == 0 && !d.Never }
