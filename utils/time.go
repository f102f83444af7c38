package utils

import (
	"fmt"
	"regexp"
	"time"
)

// clockPattern matches 24-hour HH:MM times, e.g. "09:30" or "9:30".
var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):[0-5][0-9]$`)

// IsValidClock reports whether s is a valid HH:MM 24-hour time string.
func IsValidClock(s string) bool {
	return clockPattern.MatchString(s)
}

// ParseClock splits an HH:MM string into hour and minute components.
func ParseClock(s string) (hour, minute int, err error) {
	if !clockPattern.MatchString(s) {
		return 0, 0, fmt.Errorf("invalid time format %q, expected HH:MM", s)
	}
	if _, err := fmt.Sscanf(s, "%d:%d", &hour, &minute); err != nil {
		return 0, 0, err
	}
	return hour, minute, nil
}

// NormalizeClock reformats a valid clock string to zero-padded HH:MM so
// stored times compare lexicographically.
func NormalizeClock(s string) (string, error) {
	hour, minute, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// ComputeEndTime derives an HH:MM end time from a start time and a duration
// in minutes. The result wraps within a single 24-hour clock: an
// appointment running past midnight yields an end time smaller than its
// start time.
func ComputeEndTime(startTime string, durationMinutes int) (string, error) {
	hour, minute, err := ParseClock(startTime)
	if err != nil {
		return "", err
	}
	total := (hour*60 + minute + durationMinutes) % (24 * 60)
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}

// ToIST converts a time to Indian Standard Time. Falls back to the input
// location if the zone database is unavailable.
func ToIST(t time.Time) time.Time {
	ist, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		return t
	}
	return t.In(ist)
}
