package main

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/driver/desktop"

	"zerohour/internal/core/engine"
	"zerohour/internal/platform"
	"zerohour/internal/storage"
	"zerohour/internal/store"
	"zerohour/internal/ui/board"
	"zerohour/internal/ui/preferences"
	"zerohour/internal/ui/tray"
)

const appName = "ZeroHour"

func main() {
	raise := make(chan struct{}, 1)
	guard, err := platform.AcquireSingleInstance(appName, func() {
		select {
		case raise <- struct{}{}:
		default:
		}
	})
	if err != nil {
		if errors.Is(err, platform.ErrAlreadyRunning) {
			if pingErr := platform.ActivateRunning(appName); pingErr != nil {
				log.Printf("activate running instance: %v", pingErr)
			}
			return
		}
		log.Printf("single instance: %v", err)
		return
	}
	defer func() {
		_ = guard.Release()
	}()

	fyneApp := app.NewWithID("io.zerohour.app")

	settings, err := storage.LoadSettings(appName)
	if err != nil {
		log.Printf("load settings: %v", err)
	}

	// The event goroutine reads this off the fyne thread, so the
	// preferences window updates it atomically rather than through
	// the settings value.
	var notifyEnabled atomic.Bool
	notifyEnabled.Store(settings.Notifications)

	timerStore, err := storage.NewTimerStore(appName)
	if err != nil {
		log.Printf("timer store: %v", err)
		return
	}

	collection := store.NewCollection(timerStore)
	if err := collection.Load(); err != nil {
		log.Printf("%v, starting with an empty collection", err)
	}

	countdown := engine.New(collection, engine.Config{TickInterval: time.Second})

	var prefsWindow *preferences.Window
	boardWindow := board.New(fyneApp, collection, settings.DefaultFilter, settings.DefaultSort, settings.DefaultAlertMinutes, board.Callbacks{
		OnAdd: func(name, targetDate, targetTime string, alertBefore int) error {
			_, err := collection.Add(name, targetDate, targetTime, alertBefore)
			return err
		},
		OnEdit:   collection.EditByID,
		OnDelete: collection.Delete,
		OnPause:  collection.PauseByID,
		OnResume: collection.ResumeByID,
		OnExport: collection.Export,
		OnImport: collection.Import,
		OnPreferences: func() {
			prefsWindow.Show()
		},
	})

	prefsWindow = preferences.New(fyneApp, settings, func(updated preferences.Settings) {
		settings = updated
		notifyEnabled.Store(updated.Notifications)
		if err := storage.SaveSettings(appName, updated); err != nil {
			log.Printf("save settings: %v", err)
		}
		boardWindow.SetDefaultAlert(updated.DefaultAlertMinutes)
	})

	var trayManager *tray.Manager
	if desktopApp, ok := fyneApp.(desktop.App); ok {
		allPaused := false
		trayManager = tray.New(desktopApp, tray.Callbacks{
			OnShowBoard: boardWindow.Show,
			OnNewTimer:  boardWindow.ShowAddForm,
			OnTogglePause: func() {
				if allPaused {
					collection.ResumeAll()
				} else if collection.PauseAll() == 0 {
					return
				}
				allPaused = !allPaused
				trayManager.SetPaused(allPaused)
				boardWindow.Rebuild()
			},
			OnPreferences: func() {
				prefsWindow.Show()
			},
			OnQuit: func() {
				countdown.Stop()
				collection.Persist()
				fyneApp.Quit()
			},
		})
		boardWindow.Window().SetCloseIntercept(func() {
			boardWindow.Window().Hide()
		})
	}

	go func() {
		for range raise {
			fyne.Do(boardWindow.Show)
		}
	}()

	events := countdown.Subscribe(16)
	go func() {
		soonestID := ""
		for event := range events {
			event := event
			switch event.Type {
			case engine.EventTick:
				fyne.Do(func() {
					boardWindow.ApplyTick(event.TimerID, event.Components, event.Progress)
				})
				if trayManager != nil && event.TimerID == soonestID {
					status := fmt.Sprintf("%s %s", event.Name, board.FormatCountdown(event.Components))
					fyne.Do(func() {
						trayManager.SetStatus(status)
					})
				}
			case engine.EventWarning:
				if notifyEnabled.Load() {
					fyneApp.SendNotification(fyne.NewNotification(event.Name, fmt.Sprintf("%d minutes left", event.MinutesLeft)))
				}
			case engine.EventExpired:
				if notifyEnabled.Load() {
					fyneApp.SendNotification(fyne.NewNotification(event.Name, "Time is up!"))
				}
			case engine.EventListChanged:
				fyne.Do(boardWindow.Rebuild)
				soonestID = soonestActive(collection)
				if trayManager != nil && soonestID == "" {
					fyne.Do(trayManager.SetIdle)
				}
			}
		}
	}()

	countdown.Start()
	boardWindow.Show()
	fyneApp.Run()

	countdown.Stop()
	collection.Persist()
}

// soonestActive picks the running timer closest to its target; its
// ticks drive the tray status line.
func soonestActive(collection *store.Collection) string {
	for _, view := range collection.Snapshot(store.FilterActive, store.SortTargetAsc, time.Now()) {
		if !view.Paused {
			return view.ID
		}
	}
	return ""
}
