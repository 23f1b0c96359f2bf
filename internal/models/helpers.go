// Package models defines the data structures shared by the commnet analysis core.
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatClock renders milliseconds as m:ss, floor-rounded to the second.
func FormatClock(ms int64) string {
	if ms <= 0 {
		return "0:00"
	}
	total := ms / 1000
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// ParseClock parses "m:ss" or a plain number of seconds into milliseconds.
func ParseClock(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty clock value")
	}
	mm, ss, hasColon := strings.Cut(s, ":")
	if !hasColon {
		sec, err := strconv.ParseInt(s, 10, 64)
		if err != nil || sec < 0 {
			return 0, fmt.Errorf("invalid clock value %q", s)
		}
		return sec * 1000, nil
	}
	m, err := strconv.ParseInt(mm, 10, 64)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("invalid minutes in %q", s)
	}
	sec, err := strconv.ParseInt(ss, 10, 64)
	if err != nil || sec < 0 || sec >= 60 {
		return 0, fmt.Errorf("invalid seconds in %q", s)
	}
	return (m*60 + sec) * 1000, nil
}
