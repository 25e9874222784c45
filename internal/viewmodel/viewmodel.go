// Package viewmodel holds the per-screen state and flows of the app: what
// each screen fetches, how it reacts to parameter changes, and the
// confirm-then-mutate sequences behind destructive actions.
//
// View models never render. They expose snapshots of their state and
// report user feedback through the notify bus.
package viewmodel

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/adrianpop47/second-brain-app-sub000/internal/client"
	"github.com/adrianpop47/second-brain-app-sub000/internal/forms"
	"github.com/adrianpop47/second-brain-app-sub000/internal/logger"
	"github.com/adrianpop47/second-brain-app-sub000/internal/notify"
)

// ErrCancelled is returned when the user declines a confirmation. It is a
// decision, not a failure, and is never shown as an alert.
var ErrCancelled = errors.New("cancelled by user")

// Deps are the services every view model shares.
type Deps struct {
	Alerts  *notify.Alerts
	Confirm *notify.Confirmer
	Log     *zap.SugaredLogger
	Now     func() time.Time
}

// NewDeps wires alert and confirm services onto bus.
func NewDeps(bus *notify.Bus, alertDuration time.Duration) Deps {
	return Deps{
		Alerts:  notify.NewAlerts(bus, alertDuration),
		Confirm: notify.NewConfirmer(bus),
		Log:     logger.Named("viewmodel"),
		Now:     time.Now,
	}
}

func (d Deps) withDefaults(component string) Deps {
	if d.Log == nil {
		d.Log = logger.Named("viewmodel")
	}
	d.Log = d.Log.Named(component)
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

// fail alerts the user about err and returns it. Validation errors keep
// their own message; API errors carry the server's.
func (d Deps) fail(action string, err error) error {
	var verr *forms.ValidationError
	var apiErr *client.APIError
	switch {
	case errors.As(err, &verr):
		d.Alerts.Show(verr.Message, notify.AlertOptions{Type: notify.AlertError})
	case errors.As(err, &apiErr):
		d.Log.Warnw(action+" failed", "status", apiErr.StatusCode, "code", apiErr.Code, "message", apiErr.Message)
		d.Alerts.Show(apiErr.Message, notify.AlertOptions{Type: notify.AlertError})
	default:
		d.Log.Errorw(action+" failed", "error", err)
		d.Alerts.Show("Failed to "+action, notify.AlertOptions{Type: notify.AlertError})
	}
	return err
}

// ask runs a simple destructive confirmation.
func (d Deps) ask(ctx context.Context, title, message, confirmLabel string) error {
	decision, err := d.Confirm.Ask(ctx, notify.ConfirmRequest{
		Title:        title,
		Message:      message,
		ConfirmLabel: confirmLabel,
		Tone:         notify.ToneDanger,
	})
	if err != nil {
		return err
	}
	if !decision.Confirmed {
		return ErrCancelled
	}
	return nil
}

// LoadState is the loading/error pair every screen carries.
type LoadState struct {
	Loading bool
	Err     error
}
