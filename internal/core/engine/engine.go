package engine

import (
	"sync"
	"time"

	"zerohour/internal/store"
)

// Config contains runtime options for Engine.
type Config struct {
	TickInterval time.Duration
	// RefreshDelay is how long an expiration waits before requesting a
	// full re-render, so an in-flight row transition can finish first.
	RefreshDelay time.Duration
}

// Engine drives every timer in the collection from one shared tick.
// Ticks are serialized under the engine mutex and never overlap.
type Engine struct {
	mu             sync.Mutex
	collection     *store.Collection
	options        Config
	events         []chan Event
	stopCh         chan struct{}
	running        bool
	refreshPending bool
}

// New creates an Engine over the given collection.
func New(collection *store.Collection, options Config) *Engine {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.RefreshDelay <= 0 {
		options.RefreshDelay = 500 * time.Millisecond
	}
	return &Engine{
		collection: collection,
		options:    options,
		stopCh:     make(chan struct{}),
	}
}

// Subscribe registers a new observer channel.
func (engine *Engine) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	engine.mu.Lock()
	engine.events = append(engine.events, ch)
	engine.mu.Unlock()
	return ch
}

// Start launches the ticking loop.
func (engine *Engine) Start() {
	engine.mu.Lock()
	if engine.running {
		engine.mu.Unlock()
		return
	}
	engine.running = true
	engine.mu.Unlock()

	engine.emit(Event{Type: EventListChanged, At: time.Now()})

	go engine.run()
}

// Stop terminates the ticking loop and closes observers.
func (engine *Engine) Stop() {
	engine.mu.Lock()
	if !engine.running {
		engine.mu.Unlock()
		return
	}
	close(engine.stopCh)
	engine.running = false
	events := engine.events
	engine.events = nil
	engine.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (engine *Engine) run() {
	ticker := time.NewTicker(engine.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-engine.stopCh:
			return
		case tickTime := <-ticker.C:
			engine.tick(tickTime)
		}
	}
}

// tick delegates timer evaluation to the collection, which owns all
// timer state transitions, then emits the resulting events: display
// refresh, one-shot warning, then expiration with a deferred list
// refresh. The engine itself never touches timer state.
func (engine *Engine) tick(tickTime time.Time) {
	results := engine.collection.Tick(tickTime)

	engine.mu.Lock()
	defer engine.mu.Unlock()
	if !engine.running {
		return
	}

	expiredAny := false
	for _, result := range results {
		engine.emitLocked(Event{
			Type:       EventTick,
			TimerID:    result.ID,
			Name:       result.Name,
			Components: result.Remaining,
			Progress:   result.Progress,
			At:         tickTime,
		})

		if result.Warned {
			engine.emitLocked(Event{
				Type:        EventWarning,
				TimerID:     result.ID,
				Name:        result.Name,
				MinutesLeft: result.AlertBefore,
				At:          tickTime,
			})
		}

		if result.Expired {
			expiredAny = true
			engine.emitLocked(Event{
				Type:       EventExpired,
				TimerID:    result.ID,
				Name:       result.Name,
				Components: result.Remaining,
				At:         tickTime,
			})
		}
	}

	if expiredAny {
		engine.scheduleRefreshLocked()
	}
}

func (engine *Engine) scheduleRefreshLocked() {
	if engine.refreshPending {
		return
	}
	engine.refreshPending = true
	time.AfterFunc(engine.options.RefreshDelay, func() {
		engine.mu.Lock()
		engine.refreshPending = false
		running := engine.running
		if running {
			engine.emitLocked(Event{Type: EventListChanged, At: time.Now()})
		}
		engine.mu.Unlock()
	})
}

func (engine *Engine) emit(event Event) {
	engine.mu.Lock()
	defer engine.mu.Unlock()
	engine.emitLocked(event)
}

// emitLocked never blocks; slow observers drop events.
func (engine *Engine) emitLocked(event Event) {
	events := append([]chan Event(nil), engine.events...)
	for _, ch := range events {
		select {
		case ch <- event:
		default:
		}
	}
}
