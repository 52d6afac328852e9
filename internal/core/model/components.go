package model

import "time"

// Components is the calendar breakdown of a countdown duration.
type Components struct {
	Days         int64
	Hours        int64
	Minutes      int64
	Seconds      int64
	TotalSeconds int64
	Expired      bool
}

// Breakdown decomposes a signed duration into calendar components.
// Non-positive durations yield all-zero components marked expired.
func Breakdown(d time.Duration) Components {
	if d <= 0 {
		return Components{Expired: true}
	}
	total := int64(d / time.Second)
	return Components{
		Days:         total / 86400,
		Hours:        total % 86400 / 3600,
		Minutes:      total % 3600 / 60,
		Seconds:      total % 60,
		TotalSeconds: total,
	}
}

// Duration converts the breakdown back into a duration.
func (components Components) Duration() time.Duration {
	seconds := components.Days*86400 + components.Hours*3600 + components.Minutes*60 + components.Seconds
	return time.Duration(seconds) * time.Second
}
