package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zerohour/internal/core/model"
)

var base = time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

type memoryPersister struct {
	saves   int
	timers  []*model.Timer
	loadErr error
	saveErr error
}

func (persister *memoryPersister) Save(timers []*model.Timer) error {
	persister.saves++
	persister.timers = timers
	return persister.saveErr
}

func (persister *memoryPersister) Load() ([]*model.Timer, error) {
	return persister.timers, persister.loadErr
}

func newTestCollection(at time.Time) (*Collection, *memoryPersister) {
	persister := &memoryPersister{}
	collection := NewCollection(persister)
	collection.now = func() time.Time { return at }
	return collection, persister
}

func futureTarget(at time.Time, until time.Duration) (string, string) {
	target := at.Add(until)
	return target.Format(model.DateLayout), target.Format(model.TimeLayoutSeconds)
}

func TestAddValidates(t *testing.T) {
	collection, persister := newTestCollection(base)

	_, err := collection.Add("bad", "garbage", "09:30", 0)
	assert.ErrorIs(t, err, model.ErrBadTarget)

	pastDate, pastTime := futureTarget(base, -time.Hour)
	_, err = collection.Add("past", pastDate, pastTime, 0)
	assert.ErrorIs(t, err, ErrTargetNotFuture)

	sameDate, sameTime := futureTarget(base, 0)
	_, err = collection.Add("now", sameDate, sameTime, 0)
	assert.ErrorIs(t, err, ErrTargetNotFuture)

	assert.Equal(t, 0, collection.Len())
	assert.Equal(t, 0, persister.saves, "rejected adds must not persist")
}

func TestAddAppendsAndPersists(t *testing.T) {
	collection, persister := newTestCollection(base)

	date, timeOfDay := futureTarget(base, time.Hour)
	first, err := collection.Add("first", date, timeOfDay, 10)
	require.NoError(t, err)
	second, err := collection.Add("second", date, timeOfDay, 0)
	require.NoError(t, err)

	timers := collection.Timers()
	require.Len(t, timers, 2)
	assert.Equal(t, first.ID, timers[0].ID)
	assert.Equal(t, second.ID, timers[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 2, persister.saves)
}

func TestDelete(t *testing.T) {
	collection, persister := newTestCollection(base)
	date, timeOfDay := futureTarget(base, time.Hour)
	timer, err := collection.Add("doomed", date, timeOfDay, 0)
	require.NoError(t, err)

	assert.ErrorIs(t, collection.Delete("missing"), ErrNotFound)
	assert.Equal(t, 1, collection.Len())

	require.NoError(t, collection.Delete(timer.ID))
	assert.Equal(t, 0, collection.Len())
	assert.Equal(t, 2, persister.saves)
}

func TestPauseResume(t *testing.T) {
	collection, _ := newTestCollection(base)
	date, timeOfDay := futureTarget(base, time.Hour)
	timer, err := collection.Add("t", date, timeOfDay, 0)
	require.NoError(t, err)

	require.NoError(t, collection.PauseByID(timer.ID))
	assert.True(t, timer.Paused)
	assert.Equal(t, int64(3600), timer.Remaining(base.Add(time.Hour)).TotalSeconds)

	require.NoError(t, collection.ResumeByID(timer.ID))
	assert.False(t, timer.Paused)

	assert.ErrorIs(t, collection.PauseByID("missing"), ErrNotFound)
	assert.ErrorIs(t, collection.ResumeByID("missing"), ErrNotFound)
}

func TestPauseResumeRejectExpired(t *testing.T) {
	collection, persister := newTestCollection(base)
	date, timeOfDay := futureTarget(base, time.Hour)
	timer, err := collection.Add("t", date, timeOfDay, 0)
	require.NoError(t, err)
	savesBefore := persister.saves

	collection.now = func() time.Time { return base.Add(2 * time.Hour) }

	assert.ErrorIs(t, collection.PauseByID(timer.ID), ErrTimerExpired)
	assert.False(t, timer.Paused)
	assert.ErrorIs(t, collection.ResumeByID(timer.ID), ErrTimerExpired)
	assert.Equal(t, savesBefore, persister.saves, "rejected ops must not persist")
}

func TestPauseAllResumeAll(t *testing.T) {
	collection, persister := newTestCollection(base)
	date, timeOfDay := futureTarget(base, time.Hour)
	first, err := collection.Add("first", date, timeOfDay, 0)
	require.NoError(t, err)
	second, err := collection.Add("second", date, timeOfDay, 0)
	require.NoError(t, err)
	expired, err := collection.Add("expired", date, timeOfDay, 0)
	require.NoError(t, err)
	expired.MarkExpired()
	savesBefore := persister.saves

	assert.Equal(t, 2, collection.PauseAll(), "expired timers are left alone")
	assert.True(t, first.Paused)
	assert.True(t, second.Paused)
	assert.False(t, expired.Paused)
	assert.Equal(t, savesBefore+1, persister.saves, "pause-all persists once")

	assert.Equal(t, 0, collection.PauseAll(), "nothing left to pause")
	assert.Equal(t, savesBefore+1, persister.saves)

	assert.Equal(t, 2, collection.ResumeAll())
	assert.False(t, first.Paused)
	assert.False(t, second.Paused)
	assert.Equal(t, savesBefore+2, persister.saves)

	assert.Equal(t, 0, collection.ResumeAll())
}

func TestTickTransitionsAndPersists(t *testing.T) {
	collection, persister := newTestCollection(base)
	date, timeOfDay := futureTarget(base, time.Hour)
	timer, err := collection.Add("t", date, timeOfDay, 30)
	require.NoError(t, err)
	savesBefore := persister.saves

	results := collection.Tick(base.Add(time.Minute))
	require.Len(t, results, 1)
	assert.Equal(t, timer.ID, results[0].ID)
	assert.Equal(t, int64(59*60), results[0].Remaining.TotalSeconds)
	assert.False(t, results[0].Warned)
	assert.False(t, results[0].Expired)
	assert.Equal(t, savesBefore, persister.saves, "plain ticks must not persist")

	results = collection.Tick(base.Add(31 * time.Minute))
	require.Len(t, results, 1)
	assert.True(t, results[0].Warned, "warning fires inside the alert window")
	assert.Equal(t, 30, results[0].AlertBefore)
	assert.True(t, timer.AlertShown)

	results = collection.Tick(base.Add(32 * time.Minute))
	require.Len(t, results, 1)
	assert.False(t, results[0].Warned, "warning is one-shot")

	results = collection.Tick(base.Add(2 * time.Hour))
	require.Len(t, results, 1)
	assert.True(t, results[0].Expired)
	assert.True(t, timer.Expired)
	assert.Equal(t, savesBefore+1, persister.saves, "expiration persists the collection")

	assert.Empty(t, collection.Tick(base.Add(3*time.Hour)), "expired timers drop out of ticks")
}

func TestTickSkipsPausedTimers(t *testing.T) {
	collection, _ := newTestCollection(base)
	date, timeOfDay := futureTarget(base, time.Hour)
	timer, err := collection.Add("t", date, timeOfDay, 0)
	require.NoError(t, err)
	require.NoError(t, collection.PauseByID(timer.ID))

	assert.Empty(t, collection.Tick(base.Add(2*time.Hour)))
	assert.False(t, timer.Expired, "paused timers never expire")
}

func TestEditRejectsPastTarget(t *testing.T) {
	collection, _ := newTestCollection(base)
	date, timeOfDay := futureTarget(base, time.Hour)
	timer, err := collection.Add("original", date, timeOfDay, 5)
	require.NoError(t, err)

	pastDate, pastTime := futureTarget(base, -time.Minute)
	err = collection.EditByID(timer.ID, model.Changes{Name: "renamed", TargetDate: pastDate, TargetTime: pastTime})
	assert.ErrorIs(t, err, ErrTargetNotFuture)
	assert.Equal(t, "original", timer.Name, "rejected edit must not change state")
	assert.Equal(t, date, timer.TargetDate)

	err = collection.EditByID(timer.ID, model.Changes{TargetDate: "garbage"})
	assert.ErrorIs(t, err, model.ErrBadTarget)

	assert.ErrorIs(t, collection.EditByID("missing", model.Changes{}), ErrNotFound)
}

func TestEditResetsEpoch(t *testing.T) {
	collection, _ := newTestCollection(base)
	date, timeOfDay := futureTarget(base, time.Hour)
	timer, err := collection.Add("t", date, timeOfDay, 5)
	require.NoError(t, err)
	timer.MarkFired()
	timer.MarkExpired()

	newDate, newTime := futureTarget(base, 2*time.Hour)
	require.NoError(t, collection.EditByID(timer.ID, model.Changes{TargetDate: newDate, TargetTime: newTime}))

	assert.False(t, timer.Expired)
	assert.False(t, timer.AlertShown)
	assert.Equal(t, base, timer.CreatedAt)
	assert.Equal(t, int64(7200), timer.Remaining(base).TotalSeconds)
}

func TestLoadFailureLeavesCollectionEmpty(t *testing.T) {
	persister := &memoryPersister{loadErr: assert.AnError}
	collection := NewCollection(persister)
	assert.Error(t, collection.Load())
	assert.Equal(t, 0, collection.Len())
}

func TestLoadReplacesTimers(t *testing.T) {
	persister := &memoryPersister{timers: []*model.Timer{{ID: "a", Name: "saved"}}}
	collection := NewCollection(persister)
	require.NoError(t, collection.Load())
	require.Equal(t, 1, collection.Len())
	timer, ok := collection.Get("a")
	require.True(t, ok)
	assert.Equal(t, "saved", timer.Name)
}
