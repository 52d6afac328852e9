package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"zerohour/internal/core/model"
)

const timersFileName = "timers.json"

type componentsRecord struct {
	Days         int64 `json:"days"`
	Hours        int64 `json:"hours"`
	Minutes      int64 `json:"minutes"`
	Seconds      int64 `json:"seconds"`
	TotalSeconds int64 `json:"totalSeconds"`
	Expired      bool  `json:"expired"`
}

type timerRecord struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	TargetDate          string            `json:"targetDate"`
	TargetTime          string            `json:"targetTime"`
	AlertBefore         int               `json:"alertBefore"`
	CreatedAt           time.Time         `json:"createdAt"`
	IsPaused            bool              `json:"isPaused"`
	PausedTimeRemaining *componentsRecord `json:"pausedTimeRemaining"`
}

// TimerStore persists the whole timer collection as a JSON file.
type TimerStore struct {
	path string
}

// NewTimerStore places the timers file in the user config directory.
func NewTimerStore(appName string) (*TimerStore, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolve user config dir: %w", err)
	}
	return &TimerStore{path: filepath.Join(configDir, appName, timersFileName)}, nil
}

// NewTimerStoreAt uses an explicit file path.
func NewTimerStoreAt(path string) *TimerStore {
	return &TimerStore{path: path}
}

// Load reads the persisted collection. A missing file yields an empty
// collection; a corrupt file yields an empty collection and an error.
func (timerStore *TimerStore) Load() ([]*model.Timer, error) {
	rawData, err := os.ReadFile(timerStore.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read timers file: %w", err)
	}

	var records []timerRecord
	if err := json.Unmarshal(rawData, &records); err != nil {
		return nil, fmt.Errorf("parse timers json: %w", err)
	}

	timers := make([]*model.Timer, 0, len(records))
	for _, record := range records {
		timer := &model.Timer{
			ID:          record.ID,
			Name:        record.Name,
			TargetDate:  record.TargetDate,
			TargetTime:  record.TargetTime,
			AlertBefore: record.AlertBefore,
			CreatedAt:   record.CreatedAt,
			Paused:      record.IsPaused,
		}
		if record.PausedTimeRemaining != nil {
			timer.PausedRemaining = &model.Components{
				Days:         record.PausedTimeRemaining.Days,
				Hours:        record.PausedTimeRemaining.Hours,
				Minutes:      record.PausedTimeRemaining.Minutes,
				Seconds:      record.PausedTimeRemaining.Seconds,
				TotalSeconds: record.PausedTimeRemaining.TotalSeconds,
				Expired:      record.PausedTimeRemaining.Expired,
			}
		}
		timers = append(timers, timer)
	}
	return timers, nil
}

// Save writes the whole collection. Safe to call repeatedly.
func (timerStore *TimerStore) Save(timers []*model.Timer) error {
	if err := os.MkdirAll(filepath.Dir(timerStore.path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	records := make([]timerRecord, 0, len(timers))
	for _, timer := range timers {
		record := timerRecord{
			ID:          timer.ID,
			Name:        timer.Name,
			TargetDate:  timer.TargetDate,
			TargetTime:  timer.TargetTime,
			AlertBefore: timer.AlertBefore,
			CreatedAt:   timer.CreatedAt,
			IsPaused:    timer.Paused,
		}
		if timer.PausedRemaining != nil {
			record.PausedTimeRemaining = &componentsRecord{
				Days:         timer.PausedRemaining.Days,
				Hours:        timer.PausedRemaining.Hours,
				Minutes:      timer.PausedRemaining.Minutes,
				Seconds:      timer.PausedRemaining.Seconds,
				TotalSeconds: timer.PausedRemaining.TotalSeconds,
				Expired:      timer.PausedRemaining.Expired,
			}
		}
		records = append(records, record)
	}

	serialized, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal timers json: %w", err)
	}

	if err := os.WriteFile(timerStore.path, serialized, 0o644); err != nil {
		return fmt.Errorf("write timers file: %w", err)
	}

	return nil
}
