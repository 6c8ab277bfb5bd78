// Package civil provides calendar-date and wall-clock time values that are
// independent of a location, matching the "date" and "time" JSON Schema
// formats. time.Time remains the representation for full timestamps.
package civil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date is a calendar date without a time or location.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the Date in which t occurs, in t's location.
func DateOf(t time.Time) Date {
	var d Date
	d.Year, d.Month, d.Day = t.Date()
	return d
}

// ParseDate parses an RFC 3339 full-date ("2006-01-02").
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// String renders the date as an RFC 3339 full-date.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// In returns the midnight instant of d in the given location.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// IsZero reports whether d is the zero value.
func (d Date) IsZero() bool { return d == Date{} }

// TimeOfDay is a wall-clock time with optional UTC offset. Seconds and the
// fractional part are optional in the textual form; HasOffset records
// whether an offset (or Z) was present so the value round-trips.
type TimeOfDay struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
	Offset     int // seconds east of UTC; meaningful only when HasOffset
	HasOffset  bool
}

var timeOfDayRe = regexp.MustCompile(`^(\d{2}):(\d{2})(?::(\d{2})(?:\.(\d+))?)?(Z|[+-]\d{2}:?\d{2})?$`)

// ParseTimeOfDay parses "HH:MM", "HH:MM:SS", "HH:MM:SS.ffffff", each with an
// optional trailing "Z", "±HH:MM" or "±HHMM" offset.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	m := timeOfDayRe.FindStringSubmatch(s)
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("civil: invalid time %q", s)
	}
	var td TimeOfDay
	td.Hour, _ = strconv.Atoi(m[1])
	td.Minute, _ = strconv.Atoi(m[2])
	if m[3] != "" {
		td.Second, _ = strconv.Atoi(m[3])
	}
	if td.Hour > 23 || td.Minute > 59 || td.Second > 59 {
		return TimeOfDay{}, fmt.Errorf("civil: time out of range %q", s)
	}
	if m[4] != "" {
		frac := m[4]
		if len(frac) > 9 {
			frac = frac[:9]
		}
		n, _ := strconv.Atoi(frac + strings.Repeat("0", 9-len(frac)))
		td.Nanosecond = n
	}
	if m[5] != "" {
		td.HasOffset = true
		if m[5] != "Z" {
			off := strings.Replace(m[5], ":", "", 1)
			sign := 1
			if off[0] == '-' {
				sign = -1
			}
			hh, _ := strconv.Atoi(off[1:3])
			mm, _ := strconv.Atoi(off[3:5])
			if hh > 23 || mm > 59 {
				return TimeOfDay{}, fmt.Errorf("civil: offset out of range %q", s)
			}
			td.Offset = sign * (hh*3600 + mm*60)
		}
	}
	return td, nil
}

// String renders the time with seconds, fraction, and offset included only
// when significant.
func (t TimeOfDay) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%02d:%02d", t.Hour, t.Minute)
	if t.Second != 0 || t.Nanosecond != 0 {
		fmt.Fprintf(&b, ":%02d", t.Second)
	}
	if t.Nanosecond != 0 {
		frac := strings.TrimRight(fmt.Sprintf("%09d", t.Nanosecond), "0")
		b.WriteByte('.')
		b.WriteString(frac)
	}
	if t.HasOffset {
		if t.Offset == 0 {
			b.WriteByte('Z')
		} else {
			off := t.Offset
			sign := byte('+')
			if off < 0 {
				sign = '-'
				off = -off
			}
			fmt.Fprintf(&b, "%c%02d:%02d", sign, off/3600, off%3600/60)
		}
	}
	return b.String()
}

// IsZero reports whether t is the zero value.
func (t TimeOfDay) IsZero() bool { return t == TimeOfDay{} }
