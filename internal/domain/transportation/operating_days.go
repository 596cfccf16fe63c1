package transportation

import (
	"fmt"
	"slices"
	"time"
)

// OperatingDays is the sorted, duplicate-free set of weekdays a leg runs on.
// Days use time.Weekday numbering: Sunday = 0 through Saturday = 6.
type OperatingDays []time.Weekday

// NewOperatingDays validates and normalises a list of weekday numbers.
func NewOperatingDays(days []int) (OperatingDays, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("at least one operating day is required")
	}
	out := make(OperatingDays, 0, len(days))
	for _, d := range days {
		if d < int(time.Sunday) || d > int(time.Saturday) {
			return nil, fmt.Errorf("invalid operating day %d: must be between 0 (Sunday) and 6 (Saturday)", d)
		}
		out = append(out, time.Weekday(d))
	}
	slices.Sort(out)
	return slices.Compact(out), nil
}

// Contains reports whether the leg runs on day.
func (d OperatingDays) Contains(day time.Weekday) bool {
	return slices.Contains(d, day)
}

// Ints returns the days as plain integers, for storage and transport.
func (d OperatingDays) Ints() []int {
	out := make([]int, len(d))
	for i, day := range d {
		out[i] = int(day)
	}
	return out
}
