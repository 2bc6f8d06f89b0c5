package utils

import (
	"errors"
	"sort"
	"time"
)

const Layout = "2006-01-02"

// Date returns midnight UTC of the given calendar day.
func Date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Convert holidays from string to time.Time format
func Hols(s []string) ([]time.Time, error) {
	h := make([]time.Time, len(s))
	for i, v := range s {
		d, err := time.Parse(Layout, v)
		if err != nil {
			return nil, err
		}
		h[i] = d
	}
	return h, nil
}

// NYSE returns the exchange holidays between two years inclusive, sorted.
func NYSE(from, to int) []time.Time {
	var out []time.Time
	for y := from; y <= to; y++ {
		out = append(out, nyseYear(y)...)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func nyseYear(y int) []time.Time {
	hols := []time.Time{
		nthWeekday(y, time.January, time.Monday, 3),
		nthWeekday(y, time.February, time.Monday, 3),
		easter(y).AddDate(0, 0, -2),
		lastWeekday(y, time.May, time.Monday),
		observed(Date(y, time.July, 4)),
		nthWeekday(y, time.September, time.Monday, 1),
		nthWeekday(y, time.November, time.Thursday, 4),
		observed(Date(y, time.December, 25)),
	}
	// New Year falling on a Saturday is not moved back into December.
	if nyd := Date(y, time.January, 1); nyd.Weekday() != time.Saturday {
		hols = append(hols, observed(nyd))
	}
	if y >= 2022 {
		hols = append(hols, observed(Date(y, time.June, 19)))
	}
	return hols
}

func observed(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDate(0, 0, -1)
	case time.Sunday:
		return d.AddDate(0, 0, 1)
	}
	return d
}

func nthWeekday(y int, m time.Month, wd time.Weekday, n int) time.Time {
	d := Date(y, m, 1)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, 1)
	}
	return d.AddDate(0, 0, 7*(n-1))
}

func lastWeekday(y int, m time.Month, wd time.Weekday) time.Time {
	d := Date(y, m+1, 1).AddDate(0, 0, -1)
	for d.Weekday() != wd {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// easter is the anonymous Gregorian computus.
func easter(y int) time.Time {
	a := y % 19
	b, c := y/100, y%100
	d, e := b/4, b%4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i, k := c/4, c%4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return Date(y, time.Month(month), day)
}

func IsHol(d time.Time, hols []time.Time) bool {
	for _, v := range hols {
		if d.Equal(v) {
			return true
		}
	}
	return false
}

func IsWeekday(d time.Time) bool {
	return d.Weekday() > time.Sunday && d.Weekday() < time.Saturday
}

// AdjustFollowing rolls d forward to the next business day.
func AdjustFollowing(d time.Time, hols []time.Time) time.Time {
	for IsHol(d, hols) || !IsWeekday(d) {
		d = d.AddDate(0, 0, 1)
	}
	return d
}

// MonthlySchedule returns the payment dates every step months after start, up to and
// including end. Dates are rolled with AdjustFollowing; end itself is kept unadjusted
// and a stub shorter than one period is merged into the final payment.
func MonthlySchedule(start, end time.Time, step int, hols []time.Time) ([]time.Time, error) {
	if step <= 0 {
		return nil, errors.New("schedule step must be positive")
	}
	if !end.After(start) {
		return nil, errors.New("end date must be later than start date")
	}
	var out []time.Time
	for i := 1; ; i++ {
		d := start.AddDate(0, i*step, 0)
		if d.AddDate(0, step, 0).After(end) {
			break
		}
		out = append(out, AdjustFollowing(d, hols))
	}
	return append(out, end), nil
}
