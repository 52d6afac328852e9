package store

import (
	"encoding/json"
	"fmt"
)

// ExchangeEntry is the export/import record for a single timer.
// Runtime state and ids never leave the process.
type ExchangeEntry struct {
	Name        string `json:"name"`
	TargetDate  string `json:"targetDate"`
	TargetTime  string `json:"targetTime"`
	AlertBefore int    `json:"alertBefore"`
}

// Export serializes the collection as a shareable JSON array.
func (collection *Collection) Export() ([]byte, error) {
	collection.mu.RLock()
	entries := make([]ExchangeEntry, 0, len(collection.timers))
	for _, timer := range collection.timers {
		entries = append(entries, ExchangeEntry{
			Name:        timer.Name,
			TargetDate:  timer.TargetDate,
			TargetTime:  timer.TargetTime,
			AlertBefore: timer.AlertBefore,
		})
	}
	collection.mu.RUnlock()
	payload, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}
	return payload, nil
}

// Import adds every valid entry from an exported payload. Entries
// missing a name, date or time, or whose target is not strictly in the
// future, are silently skipped. Returns added and skipped counts.
func (collection *Collection) Import(payload []byte) (added, skipped int, err error) {
	var entries []ExchangeEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return 0, 0, fmt.Errorf("parse import: %w", err)
	}

	for _, entry := range entries {
		if entry.Name == "" || entry.TargetDate == "" || entry.TargetTime == "" {
			skipped++
			continue
		}
		if _, err := collection.Add(entry.Name, entry.TargetDate, entry.TargetTime, entry.AlertBefore); err != nil {
			skipped++
			continue
		}
		added++
	}
	return added, skipped, nil
}
