package tray

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShowBoard   func()
	OnNewTimer    func()
	OnTogglePause func()
	OnPreferences func()
	OnQuit        func()
}

// Manager handles system tray state.
type Manager struct {
	app        desktop.App
	statusItem *fyne.MenuItem
	pauseItem  *fyne.MenuItem
	callbacks  Callbacks
}

// New creates a tray manager with the provided callbacks.
func New(app desktop.App, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("No timers running", nil)
	manager.statusItem.Disabled = true
	manager.pauseItem = fyne.NewMenuItem("Pause all timers", func() {
		if manager.callbacks.OnTogglePause != nil {
			manager.callbacks.OnTogglePause()
		}
	})
	manager.refreshMenu()

	return manager
}

// SetStatus updates the status label with the soonest countdown.
func (manager *Manager) SetStatus(status string) {
	manager.statusItem.Label = fmt.Sprintf("Next: %s", status)
	manager.refreshMenu()
}

// SetIdle clears the status label when nothing is counting down.
func (manager *Manager) SetIdle() {
	manager.statusItem.Label = "No timers running"
	manager.refreshMenu()
}

// SetPaused flips the pause-all item between pause and resume.
func (manager *Manager) SetPaused(paused bool) {
	if paused {
		manager.pauseItem.Label = "Resume all timers"
	} else {
		manager.pauseItem.Label = "Pause all timers"
	}
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app == nil {
		return
	}
	manager.app.SetSystemTrayMenu(fyne.NewMenu("ZeroHour",
		manager.statusItem,
		fyne.NewMenuItem("Show timers", func() {
			if manager.callbacks.OnShowBoard != nil {
				manager.callbacks.OnShowBoard()
			}
		}),
		fyne.NewMenuItem("New timer...", func() {
			if manager.callbacks.OnNewTimer != nil {
				manager.callbacks.OnNewTimer()
			}
		}),
		manager.pauseItem,
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	))
}
