package notify

import (
	"context"
	"sync"

	"github.com/adrianpop47/second-brain-app-sub000/internal/uuid"
)

// Tone styles the confirm button or an option.
type Tone string

const (
	ToneDefault Tone = "default"
	ToneDanger  Tone = "danger"
)

// ConfirmOption is an extra button. Choosing it confirms with Value.
type ConfirmOption struct {
	Label string
	Value string
	Tone  Tone
}

// ConfirmRequest describes a dialog. ID is assigned by Ask.
type ConfirmRequest struct {
	ID           string
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	Tone         Tone
	Options      []ConfirmOption
}

// Decision is the user's answer. Cancelling yields the zero Decision; the
// default confirm button yields Confirmed with an empty Value; an option
// yields Confirmed with that option's Value.
type Decision struct {
	Confirmed bool
	Value     string
}

// Resolution is published on TopicConfirmResolved once a request is answered.
type Resolution struct {
	RequestID string
	Decision  Decision
}

// Confirmer asks questions over a bus and waits for answers.
type Confirmer struct {
	bus     *Bus
	mu      sync.Mutex
	pending map[string]chan Decision
}

// NewConfirmer returns a confirm service publishing on bus.
func NewConfirmer(bus *Bus) *Confirmer {
	return &Confirmer{bus: bus, pending: make(map[string]chan Decision)}
}

// Ask publishes req and blocks until it is resolved or ctx is done. Labels
// default to "Confirm" and "Cancel". Each call is independent; many may be
// outstanding at once.
func (c *Confirmer) Ask(ctx context.Context, req ConfirmRequest) (Decision, error) {
	req.ID = uuid.New()
	if req.ConfirmLabel == "" {
		req.ConfirmLabel = "Confirm"
	}
	if req.CancelLabel == "" {
		req.CancelLabel = "Cancel"
	}
	if req.Tone == "" {
		req.Tone = ToneDefault
	}

	ch := make(chan Decision, 1)
	c.mu.Lock()
	c.pending[req.ID] = ch
	c.mu.Unlock()

	c.bus.publish(req.ID, TopicConfirm, req)

	select {
	case d := <-ch:
		return d, nil
	case <-ctx.Done():
		c.Resolve(req.ID, Decision{})
		return Decision{}, ctx.Err()
	}
}

// Resolve answers the request with id. It reports false when the request is
// unknown or already answered.
func (c *Confirmer) Resolve(id string, d Decision) bool {
	c.mu.Lock()
	ch, ok := c.pending[id]
	delete(c.pending, id)
	c.mu.Unlock()
	if !ok {
		return false
	}
	ch <- d
	c.bus.Publish(TopicConfirmResolved, Resolution{RequestID: id, Decision: d})
	return true
}

// Confirm presses the default confirm button.
func (c *Confirmer) Confirm(id string) bool {
	return c.Resolve(id, Decision{Confirmed: true})
}

// Choose presses the option carrying value.
func (c *Confirmer) Choose(id, value string) bool {
	return c.Resolve(id, Decision{Confirmed: true, Value: value})
}

// Cancel presses cancel, closes the dialog or hits escape.
func (c *Confirmer) Cancel(id string) bool {
	return c.Resolve(id, Decision{})
}

// Pending returns the number of unanswered requests.
func (c *Confirmer) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Dialog tracks outstanding confirm requests for a presenter. Only the most
// recent is shown; older ones reappear as newer ones are answered.
type Dialog struct {
	mu          sync.Mutex
	queue       []ConfirmRequest
	unsubscribe []func()
}

// NewDialog subscribes a dialog to bus.
func NewDialog(bus *Bus) *Dialog {
	d := &Dialog{}
	d.unsubscribe = []func(){
		bus.Subscribe(TopicConfirm, d.receive),
		bus.Subscribe(TopicConfirmResolved, d.resolved),
	}
	return d
}

func (d *Dialog) receive(msg Message) {
	req, ok := msg.Payload.(ConfirmRequest)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.queue = append(d.queue, req)
}

func (d *Dialog) resolved(msg Message) {
	res, ok := msg.Payload.(Resolution)
	if !ok {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, req := range d.queue {
		if req.ID == res.RequestID {
			d.queue = append(d.queue[:i:i], d.queue[i+1:]...)
			return
		}
	}
}

// Current returns the request on screen, if any.
func (d *Dialog) Current() (ConfirmRequest, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.queue) == 0 {
		return ConfirmRequest{}, false
	}
	return d.queue[len(d.queue)-1], true
}

// Close detaches the dialog from its bus.
func (d *Dialog) Close() {
	for _, fn := range d.unsubscribe {
		fn()
	}
}
