package store

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"zerohour/internal/core/model"
)

// StatusFilter selects which timers a view keeps.
type StatusFilter string

const (
	FilterAll     StatusFilter = "all"
	FilterActive  StatusFilter = "active"
	FilterExpired StatusFilter = "expired"
)

// SortKey selects the comparator within each partition.
type SortKey string

const (
	SortTargetAsc  SortKey = "target_asc"
	SortTargetDesc SortKey = "target_desc"
	SortNameAsc    SortKey = "name_asc"
	SortNameDesc   SortKey = "name_desc"
)

// View derives a display-ordered, filtered projection of the timers
// without mutating them. Expired timers always sort after active ones
// regardless of the chosen key; the partition is stable.
func View(timers []*model.Timer, filter StatusFilter, key SortKey, now time.Time) []*model.Timer {
	isExpired := func(timer *model.Timer) bool {
		return timer.Expired || timer.Remaining(now).Expired
	}

	projected := make([]*model.Timer, 0, len(timers))
	for _, timer := range timers {
		switch filter {
		case FilterActive:
			if isExpired(timer) {
				continue
			}
		case FilterExpired:
			if !isExpired(timer) {
				continue
			}
		}
		projected = append(projected, timer)
	}

	collator := collate.New(language.Und, collate.Loose)
	less := func(left, right *model.Timer) bool {
		switch key {
		case SortNameAsc:
			return collator.CompareString(left.Name, right.Name) < 0
		case SortNameDesc:
			return collator.CompareString(left.Name, right.Name) > 0
		case SortTargetDesc:
			return targetOf(left).After(targetOf(right))
		default:
			return targetOf(left).Before(targetOf(right))
		}
	}

	sort.SliceStable(projected, func(i, j int) bool {
		left, right := projected[i], projected[j]
		leftExpired, rightExpired := isExpired(left), isExpired(right)
		if leftExpired != rightExpired {
			return !leftExpired
		}
		return less(left, right)
	})
	return projected
}

// TimerView is a read-only display projection of one timer. Values
// are copied out under the collection lock, so holders never touch
// shared timer state.
type TimerView struct {
	ID          string
	Name        string
	TargetDate  string
	TargetTime  string
	AlertBefore int
	Paused      bool
	Status      model.Status
	Remaining   model.Components
	Progress    float64
}

// Snapshot derives the filtered, sorted projection of the collection
// at the given instant. All timer reads happen under the collection
// lock; the returned views are detached copies.
func (collection *Collection) Snapshot(filter StatusFilter, key SortKey, now time.Time) []TimerView {
	collection.mu.Lock()
	defer collection.mu.Unlock()

	projected := View(collection.timers, filter, key, now)
	views := make([]TimerView, 0, len(projected))
	for _, timer := range projected {
		views = append(views, TimerView{
			ID:          timer.ID,
			Name:        timer.Name,
			TargetDate:  timer.TargetDate,
			TargetTime:  timer.TargetTime,
			AlertBefore: timer.AlertBefore,
			Paused:      timer.Paused,
			Status:      timer.Status(now),
			Remaining:   timer.Remaining(now),
			Progress:    timer.ProgressPercent(now),
		})
	}
	return views
}

func targetOf(timer *model.Timer) time.Time {
	target, err := timer.Target()
	if err != nil {
		return time.Time{}
	}
	return target
}
