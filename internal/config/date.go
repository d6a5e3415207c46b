package config

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidDate is returned for date strings ParseDate does not accept.
var ErrInvalidDate = errors.New("invalid date")

var (
	// d/M/yyyy with any mix of '/', '-' and '.' delimiters.
	dayFirstRe = regexp.MustCompile(`^(\d{1,2})[/.-](\d{1,2})[/.-](\d{4})(?: (\d{2}):(\d{2}):(\d{2}))?$`)
	// yyyy/M/d with the same delimiters.
	yearFirstRe = regexp.MustCompile(`^(\d{4})[/.-](\d{1,2})[/.-](\d{1,2})(?: (\d{2}):(\d{2}):(\d{2}))?$`)
)

// ParseDate parses a date such as "1/3/2024", "01-03-2024", "2024.03.01" or
// "01/03/2024 12:30:00" in loc. Years must fall within 1900-2999.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	var day, month, year string
	var clock []string

	if m := dayFirstRe.FindStringSubmatch(s); m != nil {
		day, month, year, clock = m[1], m[2], m[3], m[4:]
	} else if m := yearFirstRe.FindStringSubmatch(s); m != nil {
		year, month, day, clock = m[1], m[2], m[3], m[4:]
	} else {
		return time.Time{}, fmt.Errorf("%w: %q (accepted formats: d/M/yyyy, yyyy/M/d, optional HH:mm:ss)", ErrInvalidDate, s)
	}

	y, _ := strconv.Atoi(year)
	mo, _ := strconv.Atoi(month)
	d, _ := strconv.Atoi(day)
	if y < 1900 || y > 2999 {
		return time.Time{}, fmt.Errorf("%w: %q (year must be within 1900-2999)", ErrInvalidDate, s)
	}

	var hh, mm, ss int
	if clock[0] != "" {
		hh, _ = strconv.Atoi(clock[0])
		mm, _ = strconv.Atoi(clock[1])
		ss, _ = strconv.Atoi(clock[2])
		if hh > 23 || mm > 59 || ss > 59 {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
		}
	}

	t := time.Date(y, time.Month(mo), d, hh, mm, ss, 0, loc)
	// time.Date normalizes out-of-range values (31/2 -> 2/3); reject them.
	if t.Day() != d || int(t.Month()) != mo {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return t, nil
}
