package preferences

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"zerohour/internal/store"
)

var (
	sortLabels = []string{"Target (soonest first)", "Target (latest first)", "Name (A-Z)", "Name (Z-A)"}
	sortKeys   = []store.SortKey{store.SortTargetAsc, store.SortTargetDesc, store.SortNameAsc, store.SortNameDesc}

	filterLabels = []string{"All timers", "Active only", "Expired only"}
	filterKeys   = []store.StatusFilter{store.FilterAll, store.FilterActive, store.FilterExpired}
)

// Window handles the preferences UI.
type Window struct {
	window        fyne.Window
	settings      Settings
	onSave        func(Settings)
	alertMinutes  *widget.Entry
	defaultSort   *widget.Select
	defaultFilter *widget.Select
	notifications *widget.Check
}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow("ZeroHour Settings")

	alertMinutes := widget.NewEntry()
	alertMinutes.SetText(fmt.Sprintf("%d", settings.DefaultAlertMinutes))

	defaultSort := widget.NewSelect(sortLabels, nil)
	defaultSort.SetSelectedIndex(indexOfSort(settings.DefaultSort))

	defaultFilter := widget.NewSelect(filterLabels, nil)
	defaultFilter.SetSelectedIndex(indexOfFilter(settings.DefaultFilter))

	notifications := widget.NewCheck("Desktop notifications", nil)
	notifications.SetChecked(settings.Notifications)

	form := container.NewVBox(
		widget.NewLabelWithStyle("New timers", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Warn before expiry"), alertMinutes, widget.NewLabel("min (0 = off)")),
		widget.NewLabelWithStyle("Timer list", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Sort by"), defaultSort),
		container.NewHBox(widget.NewLabel("Show"), defaultFilter),
		notifications,
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(400, 300))

	prefs := &Window{
		window:        window,
		settings:      settings,
		onSave:        onSave,
		alertMinutes:  alertMinutes,
		defaultSort:   defaultSort,
		defaultFilter: defaultFilter,
		notifications: notifications,
	}

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		window.Hide()
	}
	window.SetCloseIntercept(func() {
		window.Hide()
	})

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, err := strconv.Atoi(prefs.alertMinutes.Text); err == nil && minutes >= 0 {
		settings.DefaultAlertMinutes = minutes
	}
	if index := prefs.defaultSort.SelectedIndex(); index >= 0 {
		settings.DefaultSort = sortKeys[index]
	}
	if index := prefs.defaultFilter.SelectedIndex(); index >= 0 {
		settings.DefaultFilter = filterKeys[index]
	}
	settings.Notifications = prefs.notifications.Checked

	prefs.settings = settings
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func indexOfSort(key store.SortKey) int {
	for i, candidate := range sortKeys {
		if candidate == key {
			return i
		}
	}
	return 0
}

func indexOfFilter(key store.StatusFilter) int {
	for i, candidate := range filterKeys {
		if candidate == key {
			return i
		}
	}
	return 0
}
