package store

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportOmitsRuntimeState(t *testing.T) {
	collection, _ := newTestCollection(base)
	date, timeOfDay := futureTarget(base, time.Hour)
	timer, err := collection.Add("birthday", date, timeOfDay, 30)
	require.NoError(t, err)
	require.NoError(t, collection.PauseByID(timer.ID))

	payload, err := collection.Export()
	require.NoError(t, err)

	var entries []ExchangeEntry
	require.NoError(t, json.Unmarshal(payload, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, ExchangeEntry{Name: "birthday", TargetDate: date, TargetTime: timeOfDay, AlertBefore: 30}, entries[0])

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))
	assert.NotContains(t, raw[0], "id")
	assert.NotContains(t, raw[0], "isPaused")
}

func TestImportSkipsInvalidEntries(t *testing.T) {
	collection, _ := newTestCollection(base)
	goodDate, goodTime := futureTarget(base, time.Hour)
	pastDate, pastTime := futureTarget(base, -time.Hour)

	payload := fmt.Sprintf(`[
		{"name": "keep", "targetDate": %q, "targetTime": %q, "alertBefore": 5},
		{"targetDate": %q, "targetTime": %q},
		{"name": "no time", "targetDate": %q},
		{"name": "past", "targetDate": %q, "targetTime": %q},
		{"name": "bad", "targetDate": "garbage", "targetTime": "25:99"}
	]`, goodDate, goodTime, goodDate, goodTime, goodDate, pastDate, pastTime)

	added, skipped, err := collection.Import([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 1, added)
	assert.Equal(t, 4, skipped)

	timers := collection.Timers()
	require.Len(t, timers, 1)
	assert.Equal(t, "keep", timers[0].Name)
	assert.Equal(t, 5, timers[0].AlertBefore)
}

func TestImportRejectsMalformedPayload(t *testing.T) {
	collection, _ := newTestCollection(base)
	_, _, err := collection.Import([]byte("{not json"))
	assert.Error(t, err)
	assert.Equal(t, 0, collection.Len())
}

func TestExportImportRoundTrip(t *testing.T) {
	source, _ := newTestCollection(base)
	date, timeOfDay := futureTarget(base, 2*time.Hour)
	_, err := source.Add("one", date, timeOfDay, 0)
	require.NoError(t, err)
	_, err = source.Add("two", date, timeOfDay, 15)
	require.NoError(t, err)

	payload, err := source.Export()
	require.NoError(t, err)

	destination, _ := newTestCollection(base)
	added, skipped, err := destination.Import(payload)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 0, skipped)

	timers := destination.Timers()
	require.Len(t, timers, 2)
	assert.Equal(t, "one", timers[0].Name)
	assert.Equal(t, 15, timers[1].AlertBefore)
}
