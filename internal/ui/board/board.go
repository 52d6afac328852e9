package board

import (
	"fmt"
	"io"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"

	"zerohour/internal/core/model"
	"zerohour/internal/store"
)

// Callbacks defines board action handlers.
type Callbacks struct {
	OnAdd         func(name, targetDate, targetTime string, alertBefore int) error
	OnEdit        func(id string, changes model.Changes) error
	OnDelete      func(id string) error
	OnPause       func(id string) error
	OnResume      func(id string) error
	OnExport      func() ([]byte, error)
	OnImport      func(payload []byte) (added, skipped int, err error)
	OnPreferences func()
}

// Board is the main window listing all timers with live countdowns.
type Board struct {
	window       fyne.Window
	collection   *store.Collection
	callbacks    Callbacks
	filter       store.StatusFilter
	sortKey      store.SortKey
	defaultAlert int
	list         *fyne.Container
	rows         map[string]*timerRow
}

type timerRow struct {
	countdown   *widget.Label
	progress    *widget.ProgressBar
	pauseButton *widget.Button
}

// New creates the board window over the collection.
func New(app fyne.App, collection *store.Collection, filter store.StatusFilter, sortKey store.SortKey, defaultAlert int, callbacks Callbacks) *Board {
	window := app.NewWindow("ZeroHour")

	board := &Board{
		window:       window,
		collection:   collection,
		callbacks:    callbacks,
		filter:       filter,
		sortKey:      sortKey,
		defaultAlert: defaultAlert,
		list:         container.NewVBox(),
		rows:         map[string]*timerRow{},
	}

	sortSelect := widget.NewSelect([]string{"Soonest first", "Latest first", "Name A-Z", "Name Z-A"}, func(label string) {
		switch label {
		case "Latest first":
			board.sortKey = store.SortTargetDesc
		case "Name A-Z":
			board.sortKey = store.SortNameAsc
		case "Name Z-A":
			board.sortKey = store.SortNameDesc
		default:
			board.sortKey = store.SortTargetAsc
		}
		board.Rebuild()
	})
	sortSelect.SetSelectedIndex(sortIndex(sortKey))

	filterSelect := widget.NewSelect([]string{"All", "Active", "Expired"}, func(label string) {
		switch label {
		case "Active":
			board.filter = store.FilterActive
		case "Expired":
			board.filter = store.FilterExpired
		default:
			board.filter = store.FilterAll
		}
		board.Rebuild()
	})
	filterSelect.SetSelectedIndex(filterIndex(filter))

	toolbar := container.NewHBox(
		widget.NewButton("New timer", func() {
			board.showTimerForm(nil)
		}),
		layout.NewSpacer(),
		filterSelect,
		sortSelect,
		widget.NewButton("Export", board.handleExport),
		widget.NewButton("Import", board.handleImport),
		widget.NewButton("Settings", func() {
			if board.callbacks.OnPreferences != nil {
				board.callbacks.OnPreferences()
			}
		}),
	)

	window.SetContent(container.NewBorder(toolbar, nil, nil, nil, container.NewVScroll(board.list)))
	window.Resize(fyne.NewSize(720, 480))

	board.Rebuild()
	return board
}

// Window exposes the underlying fyne window to the embedder.
func (board *Board) Window() fyne.Window {
	return board.window
}

// Show displays the board window.
func (board *Board) Show() {
	board.window.Show()
	board.window.RequestFocus()
}

// ShowAddForm raises the board and opens the new-timer dialog.
func (board *Board) ShowAddForm() {
	board.Show()
	board.showTimerForm(nil)
}

// SetDefaultAlert updates the alert minutes preselected in the add form.
func (board *Board) SetDefaultAlert(minutes int) {
	board.defaultAlert = minutes
}

// Rebuild re-derives the sorted, filtered projection and rebuilds the
// rows. Must run on the fyne thread.
func (board *Board) Rebuild() {
	board.list.Objects = nil
	board.rows = map[string]*timerRow{}

	for _, view := range board.collection.Snapshot(board.filter, board.sortKey, time.Now()) {
		board.list.Add(board.buildRow(view))
	}
	if len(board.list.Objects) == 0 {
		board.list.Add(widget.NewLabel("No timers yet. Create one with \"New timer\"."))
	}
	board.list.Refresh()
}

// ApplyTick refreshes one row with fresh countdown data. Must run on
// the fyne thread.
func (board *Board) ApplyTick(id string, components model.Components, progress float64) {
	row, ok := board.rows[id]
	if !ok {
		return
	}
	row.countdown.SetText(FormatCountdown(components))
	row.progress.SetValue(progress / 100)
}

func (board *Board) buildRow(view store.TimerView) fyne.CanvasObject {
	id := view.ID
	status := view.Status

	countdown := widget.NewLabel(FormatCountdown(view.Remaining))
	progress := widget.NewProgressBar()
	progress.SetValue(view.Progress / 100)

	name := widget.NewLabelWithStyle(view.Name, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	badge := widget.NewLabel(statusBadge(status, view.AlertBefore))

	pauseButton := widget.NewButton(pauseLabel(view.Paused), nil)
	pauseButton.OnTapped = func() {
		var err error
		if view.Paused {
			err = board.callbacks.OnResume(id)
		} else {
			err = board.callbacks.OnPause(id)
		}
		if err != nil {
			dialog.ShowError(err, board.window)
			return
		}
		board.Rebuild()
	}
	if status == model.StatusExpired {
		pauseButton.Disable()
	}

	editButton := widget.NewButton("Edit", func() {
		board.showTimerForm(&view)
	})

	deleteButton := widget.NewButton("Delete", func() {
		dialog.ShowConfirm("Delete timer", fmt.Sprintf("Delete %q?", view.Name), func(confirmed bool) {
			if !confirmed {
				return
			}
			if err := board.callbacks.OnDelete(id); err != nil {
				dialog.ShowError(err, board.window)
				return
			}
			board.Rebuild()
		}, board.window)
	})

	board.rows[id] = &timerRow{
		countdown:   countdown,
		progress:    progress,
		pauseButton: pauseButton,
	}

	header := container.NewHBox(name, badge, layout.NewSpacer(), countdown, pauseButton, editButton, deleteButton)
	return container.NewVBox(header, progress, widget.NewSeparator())
}

func (board *Board) showTimerForm(view *store.TimerView) {
	nameEntry := widget.NewEntry()
	dateEntry := widget.NewEntry()
	dateEntry.SetPlaceHolder(model.DateLayout)
	timeEntry := widget.NewEntry()
	timeEntry.SetPlaceHolder(model.TimeLayout)
	alertEntry := widget.NewEntry()

	title := "New timer"
	if view != nil {
		title = "Edit timer"
		nameEntry.SetText(view.Name)
		dateEntry.SetText(view.TargetDate)
		timeEntry.SetText(view.TargetTime)
		alertEntry.SetText(fmt.Sprintf("%d", view.AlertBefore))
	} else {
		dateEntry.SetText(time.Now().Format(model.DateLayout))
		alertEntry.SetText(fmt.Sprintf("%d", board.defaultAlert))
	}

	items := []*widget.FormItem{
		widget.NewFormItem("Name", nameEntry),
		widget.NewFormItem("Date", dateEntry),
		widget.NewFormItem("Time", timeEntry),
		widget.NewFormItem("Warn before (min)", alertEntry),
	}

	dialog.ShowForm(title, "Save", "Cancel", items, func(confirmed bool) {
		if !confirmed {
			return
		}
		alertMinutes := parseMinutes(alertEntry.Text)

		var err error
		if view == nil {
			err = board.callbacks.OnAdd(nameEntry.Text, dateEntry.Text, timeEntry.Text, alertMinutes)
		} else {
			err = board.callbacks.OnEdit(view.ID, model.Changes{
				Name:        nameEntry.Text,
				TargetDate:  dateEntry.Text,
				TargetTime:  timeEntry.Text,
				AlertBefore: &alertMinutes,
			})
		}
		if err != nil {
			dialog.ShowError(err, board.window)
			return
		}
		board.Rebuild()
	}, board.window)
}

func (board *Board) handleExport() {
	payload, err := board.callbacks.OnExport()
	if err != nil {
		dialog.ShowError(err, board.window)
		return
	}
	saveDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, board.window)
			return
		}
		if writer == nil {
			return
		}
		defer writer.Close()
		if _, err := writer.Write(payload); err != nil {
			dialog.ShowError(err, board.window)
		}
	}, board.window)
	saveDialog.SetFileName("zerohour-export.json")
	saveDialog.Show()
}

func (board *Board) handleImport() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, board.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		payload, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(err, board.window)
			return
		}
		added, skipped, err := board.callbacks.OnImport(payload)
		if err != nil {
			dialog.ShowError(err, board.window)
			return
		}
		dialog.ShowInformation("Import", fmt.Sprintf("Imported %d timers (%d skipped).", added, skipped), board.window)
		board.Rebuild()
	}, board.window)
}

// FormatCountdown renders components as a compact countdown string.
func FormatCountdown(components model.Components) string {
	if components.Expired {
		return "Expired"
	}
	if components.Days > 0 {
		return fmt.Sprintf("%dd %02d:%02d:%02d", components.Days, components.Hours, components.Minutes, components.Seconds)
	}
	return fmt.Sprintf("%02d:%02d:%02d", components.Hours, components.Minutes, components.Seconds)
}

func statusBadge(status model.Status, alertBefore int) string {
	switch status {
	case model.StatusExpired:
		return "⏰ done"
	case model.StatusPaused:
		return "⏸ paused"
	case model.StatusWarned:
		return fmt.Sprintf("⚠ under %d min", alertBefore)
	default:
		return ""
	}
}

func pauseLabel(paused bool) string {
	if paused {
		return "Resume"
	}
	return "Pause"
}

func parseMinutes(value string) int {
	var minutes int
	if _, err := fmt.Sscanf(value, "%d", &minutes); err != nil || minutes < 0 {
		return 0
	}
	return minutes
}

func sortIndex(key store.SortKey) int {
	switch key {
	case store.SortTargetDesc:
		return 1
	case store.SortNameAsc:
		return 2
	case store.SortNameDesc:
		return 3
	default:
		return 0
	}
}

func filterIndex(filter store.StatusFilter) int {
	switch filter {
	case store.FilterActive:
		return 1
	case store.FilterExpired:
		return 2
	default:
		return 0
	}
}
