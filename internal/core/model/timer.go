package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Layouts for the stored target date and time-of-day fields.
const (
	DateLayout        = "2006-01-02"
	TimeLayout        = "15:04"
	TimeLayoutSeconds = "15:04:05"
)

// DefaultName labels timers created without a name.
const DefaultName = "Untitled timer"

// ErrBadTarget indicates the stored date/time fields do not parse.
var ErrBadTarget = errors.New("invalid target date/time")

// Status is the derived lifecycle state of a timer.
type Status string

const (
	StatusActive  Status = "active"
	StatusWarned  Status = "warned"
	StatusPaused  Status = "paused"
	StatusExpired Status = "expired"
)

// Timer is a single countdown towards a local-time target instant.
// The target instant is always derived from TargetDate and TargetTime,
// never cached, so edits to those fields take effect immediately.
type Timer struct {
	ID          string
	Name        string
	TargetDate  string
	TargetTime  string
	AlertBefore int // minutes before the target; 0 disables the warning
	CreatedAt   time.Time

	Paused          bool
	PausedRemaining *Components
	Expired         bool
	AlertShown      bool

	// Lazy progress baseline in whole seconds; nil means stale.
	initialSeconds *int64
}

// New creates a timer counting down to the given local date and time.
func New(now time.Time, name, targetDate, targetTime string, alertBefore int) *Timer {
	if strings.TrimSpace(name) == "" {
		name = DefaultName
	}
	if alertBefore < 0 {
		alertBefore = 0
	}
	return &Timer{
		ID:          uuid.New().String(),
		Name:        name,
		TargetDate:  targetDate,
		TargetTime:  targetTime,
		AlertBefore: alertBefore,
		CreatedAt:   now,
	}
}

// Target recomputes the target instant from the stored date/time fields.
func (timer *Timer) Target() (time.Time, error) {
	layout := DateLayout + " " + TimeLayout
	if strings.Count(timer.TargetTime, ":") == 2 {
		layout = DateLayout + " " + TimeLayoutSeconds
	}
	target, err := time.ParseInLocation(layout, timer.TargetDate+" "+timer.TargetTime, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %v", ErrBadTarget, err)
	}
	return target, nil
}

// Remaining returns the countdown breakdown at the given instant.
// While paused it returns the frozen snapshot unchanged.
func (timer *Timer) Remaining(now time.Time) Components {
	if timer.Paused && timer.PausedRemaining != nil {
		return *timer.PausedRemaining
	}
	target, err := timer.Target()
	if err != nil {
		return Components{Expired: true}
	}
	return Breakdown(target.Sub(now))
}

// ProgressPercent reports elapsed progress between CreatedAt and the
// target as a percentage clamped to [0, 100]. The total span is cached
// lazily and invalidated by Update and Resume.
func (timer *Timer) ProgressPercent(now time.Time) float64 {
	if timer.initialSeconds == nil {
		target, err := timer.Target()
		if err != nil {
			return 0
		}
		total := int64(target.Sub(timer.CreatedAt) / time.Second)
		timer.initialSeconds = &total
	}
	total := *timer.initialSeconds
	if total <= 0 {
		return 0
	}
	elapsed := total - timer.Remaining(now).TotalSeconds
	percent := float64(elapsed) / float64(total) * 100
	if percent < 0 {
		return 0
	}
	if percent > 100 {
		return 100
	}
	return percent
}

// Pause freezes the remaining time. Pausing an already-paused timer is
// a no-op; callers must reject pausing expired timers beforehand.
func (timer *Timer) Pause(now time.Time) {
	if timer.Paused {
		return
	}
	snapshot := timer.Remaining(now)
	timer.PausedRemaining = &snapshot
	timer.Paused = true
}

// Resume unfreezes the timer. Because the target instant is derived
// from the stored date/time fields, the target is rebased to now plus
// the frozen remaining duration so that pause wall time never counts.
func (timer *Timer) Resume(now time.Time) {
	if timer.PausedRemaining != nil && !timer.PausedRemaining.Expired {
		target := now.Add(timer.PausedRemaining.Duration())
		timer.TargetDate = target.Format(DateLayout)
		timer.TargetTime = target.Format(TimeLayoutSeconds)
		timer.CreatedAt = now
		timer.initialSeconds = nil
	}
	timer.PausedRemaining = nil
	timer.Paused = false
}

// Changes describes an edit to a timer. Empty strings keep the current
// value. AlertBefore keeps the current value only when nil; an explicit
// zero overwrites and disables the warning.
type Changes struct {
	Name        string
	TargetDate  string
	TargetTime  string
	AlertBefore *int
}

// Update applies an edit and resets the timer to a fresh epoch: all
// one-way flags clear, the pause snapshot drops, and CreatedAt becomes
// now, as if the timer had just been created with the new parameters.
func (timer *Timer) Update(now time.Time, changes Changes) {
	if changes.Name != "" {
		timer.Name = changes.Name
	}
	if changes.TargetDate != "" {
		timer.TargetDate = changes.TargetDate
	}
	if changes.TargetTime != "" {
		timer.TargetTime = changes.TargetTime
	}
	if changes.AlertBefore != nil {
		minutes := *changes.AlertBefore
		if minutes < 0 {
			minutes = 0
		}
		timer.AlertBefore = minutes
	}
	timer.CreatedAt = now
	timer.initialSeconds = nil
	timer.Paused = false
	timer.PausedRemaining = nil
	timer.Expired = false
	timer.AlertShown = false
}

// ShouldFireWarning reports whether the one-shot pre-expiration warning
// is due. Callers must MarkFired immediately after acting on it.
func (timer *Timer) ShouldFireWarning(now time.Time) bool {
	if timer.AlertShown || timer.AlertBefore <= 0 {
		return false
	}
	remaining := timer.Remaining(now)
	if remaining.Expired {
		return false
	}
	return remaining.TotalSeconds/60 <= int64(timer.AlertBefore)
}

// MarkFired records that the warning fired for this epoch.
func (timer *Timer) MarkFired() {
	timer.AlertShown = true
}

// MarkExpired records that the timer reached zero in this epoch.
func (timer *Timer) MarkExpired() {
	timer.Expired = true
}

// Status derives the lifecycle state at the given instant.
func (timer *Timer) Status(now time.Time) Status {
	switch {
	case timer.Expired || timer.Remaining(now).Expired:
		return StatusExpired
	case timer.Paused:
		return StatusPaused
	case timer.AlertShown:
		return StatusWarned
	default:
		return StatusActive
	}
}
