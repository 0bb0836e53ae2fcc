package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

var (
	fullDay    = color.New(color.FgGreen)
	partialDay = color.New(color.FgYellow)
	flashed    = color.New(color.Bold, color.Underline)
)

// FormatHours renders an hour total compactly: "8h", "7.5h", "" for zero.
func FormatHours(hours float64) string {
	if hours == 0 {
		return ""
	}

	s := strconv.FormatFloat(hours, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + "h"
}

// ColorHours applies the logged-day color to a formatted hour value: green
// for a full day (8h or more), yellow for a partial one.
func ColorHours(hours float64) string {
	s := FormatHours(hours)
	switch {
	case hours >= 8:
		return fullDay.Sprint(s)
	case hours > 0:
		return partialDay.Sprint(s)
	default:
		return s
	}
}

// FlashText marks recently updated text so it stands out until the
// highlight expires.
func FlashText(s string) string {
	return flashed.Sprint(s)
}

// ParseHours parses a user-entered hour value like "7.5" or "8".
func ParseHours(s string) (float64, error) {
	hours, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hours %q", s)
	}
	if hours < 0 {
		return 0, fmt.Errorf("hours cannot be negative")
	}
	return hours, nil
}
