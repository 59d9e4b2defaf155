package types

import (
	"fmt"
	"time"
)

type Interval string

const (
	OneMinute      Interval = "1"
	FiveMinutes    Interval = "5"
	FifteenMinutes Interval = "15"
	ThirtyMinutes  Interval = "30"
	Hour           Interval = "60"
	FourHours      Interval = "240"
	Day            Interval = "D"
	Week           Interval = "W"
)

var IntervalToTime = map[Interval]time.Duration{
	OneMinute:      time.Minute,
	FiveMinutes:    time.Minute * 5,
	FifteenMinutes: time.Minute * 15,
	ThirtyMinutes:  time.Minute * 30,
	Hour:           time.Hour,
	FourHours:      time.Hour * 4,
	Day:            time.Hour * 24,
	Week:           time.Hour * 24 * 7,
}

// BarsPerYear is the default annualization factor for an interval, assuming
// 252 trading days and 6.5 hour sessions for intraday bars.
var BarsPerYear = map[Interval]float64{
	OneMinute:      252 * 390,
	FiveMinutes:    252 * 78,
	FifteenMinutes: 252 * 26,
	ThirtyMinutes:  252 * 13,
	Hour:           252 * 6.5,
	FourHours:      252 * 6.5 / 4,
	Day:            252,
	Week:           52,
}

func ParseInterval(s string) (Interval, error) {
	i := Interval(s)
	if _, ok := IntervalToTime[i]; !ok {
		return "", fmt.Errorf("interval %q: %w", s, ErrConfiguration)
	}
	return i, nil
}
