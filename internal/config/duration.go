package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseSeconds reads a bare number as seconds ("10") and anything else as a
// Go duration ("10s", "1m30s").
func ParseSeconds(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseUint(s, 10, 32); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: want seconds or a value like 10s", s)
	}
	return d, nil
}

// Seconds is a flag value backed by a time.Duration that accepts what
// ParseSeconds accepts.
type Seconds struct {
	Dest *time.Duration
}

func (v *Seconds) Set(s string) error {
	d, err := ParseSeconds(s)
	if err != nil {
		return err
	}
	*v.Dest = d
	return nil
}

func (v *Seconds) String() string {
	if v == nil || v.Dest == nil {
		return ""
	}
	return v.Dest.String()
}
