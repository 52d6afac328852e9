package preferences

import "zerohour/internal/store"

// Settings defines editable user preferences.
type Settings struct {
	DefaultAlertMinutes int
	DefaultSort         store.SortKey
	DefaultFilter       store.StatusFilter
	Notifications       bool
}

// DefaultSettings returns default settings for ZeroHour.
func DefaultSettings() Settings {
	return Settings{
		DefaultAlertMinutes: 10,
		DefaultSort:         store.SortTargetAsc,
		DefaultFilter:       store.FilterAll,
		Notifications:       true,
	}
}
