package notify

import (
	"math"
	"sync"
	"time"

	"github.com/adrianpop47/second-brain-app-sub000/internal/uuid"
)

// AlertType selects the colour and icon of an alert.
type AlertType string

const (
	AlertSuccess AlertType = "success"
	AlertError   AlertType = "error"
	AlertWarning AlertType = "warning"
	AlertInfo    AlertType = "info"
)

const (
	// DefaultAlertDuration is how long an alert stays up when no duration is given.
	DefaultAlertDuration = 4500 * time.Millisecond
	// Persistent keeps an alert until it is dismissed.
	Persistent = time.Duration(math.MaxInt64)
)

// Alert is one transient message.
type Alert struct {
	ID       string
	Message  string
	Type     AlertType
	Duration time.Duration
}

// AlertOptions tunes a single alert. Zero values mean info and the service default.
type AlertOptions struct {
	Type     AlertType
	Duration time.Duration
}

// Alerts publishes alerts onto a bus.
type Alerts struct {
	bus             *Bus
	defaultDuration time.Duration
}

// NewAlerts returns an alert service. A non-positive defaultDuration uses
// DefaultAlertDuration.
func NewAlerts(bus *Bus, defaultDuration time.Duration) *Alerts {
	if defaultDuration <= 0 {
		defaultDuration = DefaultAlertDuration
	}
	return &Alerts{bus: bus, defaultDuration: defaultDuration}
}

// Show publishes message and returns the alert as delivered.
func (a *Alerts) Show(message string, opts AlertOptions) Alert {
	alert := Alert{Message: message, Type: opts.Type, Duration: opts.Duration}
	if alert.Type == "" {
		alert.Type = AlertInfo
	}
	if alert.Duration <= 0 {
		alert.Duration = a.defaultDuration
	}
	alert.ID = uuid.New()
	a.bus.publish(alert.ID, TopicAlert, alert)
	return alert
}

// Success shows a success alert with the default duration.
func (a *Alerts) Success(message string) Alert {
	return a.Show(message, AlertOptions{Type: AlertSuccess})
}

// Error shows an error alert with the default duration.
func (a *Alerts) Error(message string) Alert {
	return a.Show(message, AlertOptions{Type: AlertError})
}

// Warning shows a warning alert with the default duration.
func (a *Alerts) Warning(message string) Alert {
	return a.Show(message, AlertOptions{Type: AlertWarning})
}

// Info shows an info alert with the default duration.
func (a *Alerts) Info(message string) Alert {
	return a.Show(message, AlertOptions{Type: AlertInfo})
}

// Timer is the part of *time.Timer the tray needs.
type Timer interface {
	Stop() bool
}

// AfterFunc schedules f after d. Tests substitute a manual clock.
type AfterFunc func(d time.Duration, f func()) Timer

func realAfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// Tray collects alerts from a bus and removes each one after its duration.
type Tray struct {
	mu          sync.Mutex
	alerts      []Alert
	timers      map[string]Timer
	after       AfterFunc
	unsubscribe func()
	onChange    func([]Alert)
}

// NewTray subscribes a tray to bus. A nil after uses time.AfterFunc.
func NewTray(bus *Bus, after AfterFunc) *Tray {
	if after == nil {
		after = realAfterFunc
	}
	t := &Tray{timers: make(map[string]Timer), after: after}
	t.unsubscribe = bus.Subscribe(TopicAlert, t.receive)
	return t
}

// OnChange registers fn to be called with the current alerts after every change.
func (t *Tray) OnChange(fn func([]Alert)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onChange = fn
}

func (t *Tray) receive(msg Message) {
	alert, ok := msg.Payload.(Alert)
	if !ok {
		return
	}
	t.mu.Lock()
	t.alerts = append(t.alerts, alert)
	t.mu.Unlock()
	t.changed()
	if alert.Duration == Persistent {
		return
	}

	// The timer is started without t.mu held; f may run before after returns.
	id := alert.ID
	timer := t.after(alert.Duration, func() { t.Dismiss(id) })
	t.mu.Lock()
	visible := t.indexOf(id) >= 0
	if visible {
		t.timers[id] = timer
	}
	t.mu.Unlock()
	if !visible {
		timer.Stop()
	}
}

// indexOf returns the position of the alert with id, or -1. Caller holds t.mu.
func (t *Tray) indexOf(id string) int {
	for i, a := range t.alerts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// Dismiss removes the alert with id. It reports whether it was present.
func (t *Tray) Dismiss(id string) bool {
	t.mu.Lock()
	i := t.indexOf(id)
	found := i >= 0
	if found {
		t.alerts = append(t.alerts[:i:i], t.alerts[i+1:]...)
	}
	if timer, ok := t.timers[id]; ok {
		timer.Stop()
		delete(t.timers, id)
	}
	t.mu.Unlock()
	if found {
		t.changed()
	}
	return found
}

// Alerts returns a snapshot of the visible alerts, oldest first.
func (t *Tray) Alerts() []Alert {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Alert, len(t.alerts))
	copy(out, t.alerts)
	return out
}

// Close stops all timers and detaches the tray from its bus.
func (t *Tray) Close() {
	t.unsubscribe()
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
}

func (t *Tray) changed() {
	t.mu.Lock()
	fn := t.onChange
	snapshot := make([]Alert, len(t.alerts))
	copy(snapshot, t.alerts)
	t.mu.Unlock()
	if fn != nil {
		fn(snapshot)
	}
}
