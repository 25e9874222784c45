package viewmodel

import (
	"context"
	"sync"

	"github.com/adrianpop47/second-brain-app-sub000/internal/client"
	"github.com/adrianpop47/second-brain-app-sub000/internal/forms"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/uistate"
)

// ContextAPI is what the context switcher and settings need from the API.
type ContextAPI interface {
	ListContexts(ctx context.Context) ([]models.Context, error)
	CreateContext(ctx context.Context, in client.ContextInput) (*models.Context, error)
	UpdateContext(ctx context.Context, id uint, in client.ContextInput) (*models.Context, error)
	DeleteContext(ctx context.Context, id uint) error
}

// ContextsState is a snapshot of the context switcher. A nil Active means
// the home screen.
type ContextsState struct {
	LoadState
	Contexts []models.Context
	Active   *uint
	Menu     uistate.Disclosure
	Settings uistate.Modal[models.Context]
}

// Contexts is the context switcher with its settings modal.
type Contexts struct {
	api  ContextAPI
	deps Deps
	gen  uistate.Generation

	mu    sync.Mutex
	state ContextsState
}

// NewContexts returns the switcher on the home screen.
func NewContexts(api ContextAPI, deps Deps) *Contexts {
	return &Contexts{api: api, deps: deps.withDefaults("contexts")}
}

// State returns a snapshot.
func (c *Contexts) State() ContextsState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Load fetches all contexts.
func (c *Contexts) Load(ctx context.Context) error {
	token := c.gen.Begin()
	c.mu.Lock()
	c.state.Loading = true
	c.mu.Unlock()

	list, err := c.api.ListContexts(ctx)
	if !c.gen.IsCurrent(token) {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Loading = false
	c.state.Err = err
	if err != nil {
		c.deps.Log.Warnw("load failed", "error", err)
		return err
	}
	c.state.Contexts = list
	return nil
}

// Select makes id the active context and closes the menu. Nil goes home.
func (c *Contexts) Select(id *uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Active = id
	c.state.Menu = c.state.Menu.Reduce(uistate.ActionClose)
}

// Menu drives the switcher dropdown.
func (c *Contexts) Menu(action uistate.DisclosureAction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Menu = c.state.Menu.Reduce(action)
}

// OpenSettings opens the settings modal for a new context (nil) or an existing one.
func (c *Contexts) OpenSettings(existing *models.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if existing == nil {
		c.state.Settings = c.state.Settings.OpenCreate()
		return
	}
	c.state.Settings = c.state.Settings.OpenEdit(*existing)
}

// CloseSettings dismisses the settings modal.
func (c *Contexts) CloseSettings() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Settings = c.state.Settings.Close()
}

// Create saves a new context and makes it active.
func (c *Contexts) Create(ctx context.Context, form forms.ContextForm) (*models.Context, error) {
	in, err := form.Submit()
	if err != nil {
		return nil, c.deps.fail("create context", err)
	}
	created, err := c.api.CreateContext(ctx, in)
	if err != nil {
		return nil, c.deps.fail("create context", err)
	}
	c.CloseSettings()
	id := created.ID
	c.Select(&id)
	c.deps.Alerts.Success("Context created")
	c.refresh(ctx)
	return created, nil
}

// Update saves form over the context with id.
func (c *Contexts) Update(ctx context.Context, id uint, form forms.ContextForm) (*models.Context, error) {
	in, err := form.Submit()
	if err != nil {
		return nil, c.deps.fail("update context", err)
	}
	updated, err := c.api.UpdateContext(ctx, id, in)
	if err != nil {
		return nil, c.deps.fail("update context", err)
	}
	c.CloseSettings()
	c.deps.Alerts.Success("Context updated")
	c.refresh(ctx)
	return updated, nil
}

// Delete removes a context and everything in it after confirmation. If it
// was the active context the app returns home.
func (c *Contexts) Delete(ctx context.Context, target models.Context) error {
	msg := "All transactions, todos, events and notes in \"" + target.Name + "\" will be deleted."
	if err := c.deps.ask(ctx, "Delete context?", msg, "Delete context"); err != nil {
		return err
	}
	if err := c.api.DeleteContext(ctx, target.ID); err != nil {
		return c.deps.fail("delete context", err)
	}

	c.mu.Lock()
	if c.state.Active != nil && *c.state.Active == target.ID {
		c.state.Active = nil
	}
	c.state.Settings = c.state.Settings.Close()
	c.mu.Unlock()

	c.deps.Alerts.Success("Context deleted")
	c.refresh(ctx)
	return nil
}

func (c *Contexts) refresh(ctx context.Context) {
	if err := c.Load(ctx); err != nil {
		c.deps.Alerts.Warning("The context list could not be refreshed")
	}
}
