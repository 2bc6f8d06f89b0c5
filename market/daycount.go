package market

import (
	"fmt"
	"strings"
	"time"
)

// Convention is a day-count convention.
type Convention int

const (
	Act360 Convention = iota
	Act365
	ActAct
	Thirty360
)

var conventionNames = map[Convention]string{
	Act360:    "ACT/360",
	Act365:    "ACT/365",
	ActAct:    "ACT/ACT",
	Thirty360: "30/360",
}

func (c Convention) String() string {
	if s, ok := conventionNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Convention(%d)", int(c))
}

// ParseConvention accepts ACT/360, ACT_360, act360 and the like.
func ParseConvention(s string) (Convention, error) {
	key := strings.NewReplacer("/", "", "_", "", " ", "").Replace(strings.ToUpper(s))
	switch key {
	case "ACT360", "":
		return Act360, nil
	case "ACT365":
		return Act365, nil
	case "ACTACT":
		return ActAct, nil
	case "30360", "THIRTY360":
		return Thirty360, nil
	}
	return 0, fmt.Errorf("unknown day-count convention %q", s)
}

func days(a, b time.Time) float64 {
	return b.Sub(a).Hours() / 24
}

// YearFraction returns the accrual between start and end under c.
func (c Convention) YearFraction(start, end time.Time) (float64, error) {
	if end.Before(start) {
		return 0, fmt.Errorf("start date %s after end date %s", start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	switch c {
	case Act360:
		return days(start, end) / 360, nil
	case Act365:
		return days(start, end) / 365, nil
	case ActAct:
		return actAct(start, end), nil
	case Thirty360:
		d1, d2 := start.Day(), end.Day()
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
		n := 360*(end.Year()-start.Year()) + 30*(int(end.Month())-int(start.Month())) + d2 - d1
		return float64(n) / 360, nil
	}
	return 0, fmt.Errorf("unknown day-count convention %d", int(c))
}

func yearLength(y int) float64 {
	if y%4 == 0 && (y%100 != 0 || y%400 == 0) {
		return 366
	}
	return 365
}

func actAct(start, end time.Time) float64 {
	y1, y2 := start.Year(), end.Year()
	if y1 == y2 {
		return days(start, end) / yearLength(y1)
	}
	first := days(start, time.Date(y1+1, 1, 1, 0, 0, 0, 0, start.Location())) / yearLength(y1)
	last := days(time.Date(y2, 1, 1, 0, 0, 0, 0, end.Location()), end) / yearLength(y2)
	return first + float64(y2-y1-1) + last
}
