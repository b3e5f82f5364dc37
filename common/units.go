package common

import (
	"fmt"
	"strings"
)

// Waiting times are stored in seconds.  Users give bounds in seconds, minutes (the default) or hours.

type WaitUnit int

const (
	UnitSeconds WaitUnit = iota
	UnitMinutes
	UnitHours
)

func (u WaitUnit) String() string {
	switch u {
	case UnitMinutes:
		return "Minutes"
	case UnitHours:
		return "Hours"
	default:
		return "Seconds"
	}
}

func (u WaitUnit) Seconds() float64 {
	switch u {
	case UnitMinutes:
		return 60
	case UnitHours:
		return 3600
	default:
		return 1
	}
}

// Convert a value in unit u to seconds.
func (u WaitUnit) ToSeconds(v float64) float64 {
	return v * u.Seconds()
}

func ParseWaitUnit(s string) (WaitUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "s", "sec", "secs", "second", "seconds":
		return UnitSeconds, nil
	case "", "m", "min", "mins", "minute", "minutes":
		return UnitMinutes, nil
	case "h", "hr", "hrs", "hour", "hours":
		return UnitHours, nil
	}
	return 0, fmt.Errorf("Unknown time unit %q", s)
}

const NoData = "No data available"

// Each summary statistic picks its own unit: minutes up to and including one hour, hours above.

func FormatWait(minutes *float64) string {
	if minutes == nil {
		return NoData
	}
	v := *minutes
	if v <= 60 {
		return fmt.Sprintf("%.1f min", v)
	}
	return fmt.Sprintf("%.1f hours", v/60)
}

// The terse form used by the per-class table, input in seconds.

func FormatSeconds(sec float64) string {
	switch {
	case sec >= 3600:
		return fmt.Sprintf("%.2f hour", sec/3600)
	case sec >= 60:
		return fmt.Sprintf("%.2f min", sec/60)
	default:
		return fmt.Sprintf("%.2f sec", sec)
	}
}
