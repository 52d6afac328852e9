package store

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"zerohour/internal/core/model"
)

var (
	// ErrNotFound indicates no timer has the requested id.
	ErrNotFound = errors.New("timer not found")
	// ErrTimerExpired indicates a pause/resume on an expired timer.
	ErrTimerExpired = errors.New("timer already expired")
	// ErrTargetNotFuture indicates a target instant at or before now.
	ErrTargetNotFuture = errors.New("target must be in the future")
)

// Persister saves and loads the full timer collection.
type Persister interface {
	Save(timers []*model.Timer) error
	Load() ([]*model.Timer, error)
}

// Collection is the ordered set of timers, unique by id. Every
// mutating operation persists the whole collection; persistence
// failures are logged and never fatal.
type Collection struct {
	mu        sync.RWMutex
	timers    []*model.Timer
	persister Persister
	now       func() time.Time
}

// NewCollection creates an empty collection backed by the persister.
func NewCollection(persister Persister) *Collection {
	return &Collection{
		persister: persister,
		now:       time.Now,
	}
}

// Load replaces the collection with the persisted timers. A read
// failure leaves the collection empty and is reported to the caller.
func (collection *Collection) Load() error {
	timers, err := collection.persister.Load()

	collection.mu.Lock()
	defer collection.mu.Unlock()
	if err != nil {
		collection.timers = nil
		return fmt.Errorf("load timers: %w", err)
	}
	collection.timers = timers
	return nil
}

// Add validates and appends a new timer.
func (collection *Collection) Add(name, targetDate, targetTime string, alertBefore int) (*model.Timer, error) {
	now := collection.now()
	timer := model.New(now, name, targetDate, targetTime, alertBefore)
	target, err := timer.Target()
	if err != nil {
		return nil, err
	}
	if !target.After(now) {
		return nil, ErrTargetNotFuture
	}

	collection.mu.Lock()
	defer collection.mu.Unlock()
	collection.timers = append(collection.timers, timer)
	collection.persistLocked()
	return timer, nil
}

// Delete removes a timer by id. Confirmation is the caller's concern.
func (collection *Collection) Delete(id string) error {
	collection.mu.Lock()
	defer collection.mu.Unlock()
	for i, timer := range collection.timers {
		if timer.ID == id {
			collection.timers = append(collection.timers[:i], collection.timers[i+1:]...)
			collection.persistLocked()
			return nil
		}
	}
	return ErrNotFound
}

// PauseByID freezes a timer. Expired timers are rejected unchanged.
func (collection *Collection) PauseByID(id string) error {
	now := collection.now()

	collection.mu.Lock()
	defer collection.mu.Unlock()
	timer := collection.findLocked(id)
	if timer == nil {
		return ErrNotFound
	}
	if timer.Expired || timer.Remaining(now).Expired {
		return ErrTimerExpired
	}
	timer.Pause(now)
	collection.persistLocked()
	return nil
}

// ResumeByID unfreezes a timer. Expired timers are rejected unchanged.
func (collection *Collection) ResumeByID(id string) error {
	now := collection.now()

	collection.mu.Lock()
	defer collection.mu.Unlock()
	timer := collection.findLocked(id)
	if timer == nil {
		return ErrNotFound
	}
	if timer.Expired || timer.Remaining(now).Expired {
		return ErrTimerExpired
	}
	timer.Resume(now)
	collection.persistLocked()
	return nil
}

// PauseAll freezes every running timer in one persisted mutation and
// reports how many were paused. Expired timers are skipped.
func (collection *Collection) PauseAll() int {
	now := collection.now()

	collection.mu.Lock()
	defer collection.mu.Unlock()
	paused := 0
	for _, timer := range collection.timers {
		if timer.Paused || timer.Expired || timer.Remaining(now).Expired {
			continue
		}
		timer.Pause(now)
		paused++
	}
	if paused > 0 {
		collection.persistLocked()
	}
	return paused
}

// ResumeAll unfreezes every paused timer in one persisted mutation and
// reports how many were resumed.
func (collection *Collection) ResumeAll() int {
	now := collection.now()

	collection.mu.Lock()
	defer collection.mu.Unlock()
	resumed := 0
	for _, timer := range collection.timers {
		if !timer.Paused {
			continue
		}
		timer.Resume(now)
		resumed++
	}
	if resumed > 0 {
		collection.persistLocked()
	}
	return resumed
}

// TickResult carries one running timer's state as evaluated at a tick
// instant, so callers can act on it without touching the timer again.
type TickResult struct {
	ID          string
	Name        string
	Remaining   model.Components
	Progress    float64
	AlertBefore int
	Warned      bool
	Expired     bool
}

// Tick evaluates every running timer at the given instant, firing
// one-shot warning and expiration transitions under the collection
// lock. Paused and already expired timers are skipped. Expirations
// persist the collection before the lock is released.
func (collection *Collection) Tick(now time.Time) []TickResult {
	collection.mu.Lock()
	defer collection.mu.Unlock()

	results := make([]TickResult, 0, len(collection.timers))
	expiredAny := false
	for _, timer := range collection.timers {
		if timer.Paused || timer.Expired {
			continue
		}
		remaining := timer.Remaining(now)
		result := TickResult{
			ID:          timer.ID,
			Name:        timer.Name,
			Remaining:   remaining,
			Progress:    timer.ProgressPercent(now),
			AlertBefore: timer.AlertBefore,
		}
		if timer.ShouldFireWarning(now) {
			timer.MarkFired()
			result.Warned = true
		}
		if remaining.Expired {
			timer.MarkExpired()
			result.Expired = true
			expiredAny = true
		}
		results = append(results, result)
	}
	if expiredAny {
		collection.persistLocked()
	}
	return results
}

// EditByID applies changes to a timer, resetting it to a fresh epoch.
// The prospective target instant must be strictly in the future.
func (collection *Collection) EditByID(id string, changes model.Changes) error {
	now := collection.now()

	collection.mu.Lock()
	defer collection.mu.Unlock()
	timer := collection.findLocked(id)
	if timer == nil {
		return ErrNotFound
	}

	candidate := model.Timer{TargetDate: timer.TargetDate, TargetTime: timer.TargetTime}
	if changes.TargetDate != "" {
		candidate.TargetDate = changes.TargetDate
	}
	if changes.TargetTime != "" {
		candidate.TargetTime = changes.TargetTime
	}
	target, err := candidate.Target()
	if err != nil {
		return err
	}
	if !target.After(now) {
		return ErrTargetNotFuture
	}

	timer.Update(now, changes)
	collection.persistLocked()
	return nil
}

// Get looks up a timer by id.
func (collection *Collection) Get(id string) (*model.Timer, bool) {
	collection.mu.RLock()
	defer collection.mu.RUnlock()
	timer := collection.findLocked(id)
	return timer, timer != nil
}

// Timers returns a snapshot of the collection in insertion order.
func (collection *Collection) Timers() []*model.Timer {
	collection.mu.RLock()
	defer collection.mu.RUnlock()
	return append([]*model.Timer(nil), collection.timers...)
}

// Len reports the number of timers.
func (collection *Collection) Len() int {
	collection.mu.RLock()
	defer collection.mu.RUnlock()
	return len(collection.timers)
}

// Persist writes the current collection. Safe to call repeatedly.
func (collection *Collection) Persist() {
	collection.mu.RLock()
	defer collection.mu.RUnlock()
	collection.persistLocked()
}

func (collection *Collection) findLocked(id string) *model.Timer {
	for _, timer := range collection.timers {
		if timer.ID == id {
			return timer
		}
	}
	return nil
}

func (collection *Collection) persistLocked() {
	if collection.persister == nil {
		return
	}
	if err := collection.persister.Save(append([]*model.Timer(nil), collection.timers...)); err != nil {
		log.Printf("persist timers: %v", err)
	}
}
