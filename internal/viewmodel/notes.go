package viewmodel

import (
	"context"
	"sync"
	"time"

	"github.com/adrianpop47/second-brain-app-sub000/internal/client"
	"github.com/adrianpop47/second-brain-app-sub000/internal/forms"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
	"github.com/adrianpop47/second-brain-app-sub000/internal/uistate"
)

// NoteAPI is what the notes screen needs from the API.
type NoteAPI interface {
	ContextNotes(ctx context.Context, id uint, q client.RangeQuery) ([]models.Note, error)
	CreateNote(ctx context.Context, in client.NoteInput) (*models.Note, error)
	UpdateNote(ctx context.Context, id uint, in client.NoteInput) (*models.Note, error)
	DeleteNote(ctx context.Context, id uint) error
}

// SaveStatus is what the editor shows next to the title.
type SaveStatus string

const (
	SaveIdle   SaveStatus = ""
	SaveDirty  SaveStatus = "unsaved"
	SaveSaving SaveStatus = "saving"
	SaveSaved  SaveStatus = "saved"
	SaveFailed SaveStatus = "failed"
)

// NotesState is a snapshot of the notes screen.
type NotesState struct {
	LoadState
	ContextID uint
	Notes     []models.Note
	// Editing is the open note's id; nil for a draft that has not been
	// created yet or when the editor is closed.
	Editing *uint
	Form    forms.NoteForm
	Open    bool
	Save    SaveStatus
}

// Notes is the per-context notes screen with an autosaving editor.
type Notes struct {
	api      NoteAPI
	deps     Deps
	gen      uistate.Generation
	debounce *uistate.Debouncer

	// saveMu serialises writes so a debounced save never races the create.
	saveMu sync.Mutex

	mu    sync.Mutex
	state NotesState

	// deleted holds ids removed while a save may still be in flight.
	deleted map[uint]bool
}

// NewNotes returns the notes screen. Edits to an existing note are saved
// once typing pauses for autosaveDelay.
func NewNotes(api NoteAPI, deps Deps, contextID uint, autosaveDelay time.Duration) *Notes {
	return &Notes{
		api:      api,
		deps:     deps.withDefaults("notes"),
		debounce: uistate.NewDebouncer(autosaveDelay),
		state:    NotesState{ContextID: contextID},
		deleted:  make(map[uint]bool),
	}
}

// State returns a snapshot.
func (n *Notes) State() NotesState {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Load fetches the context's notes.
func (n *Notes) Load(ctx context.Context) error {
	token := n.gen.Begin()
	n.mu.Lock()
	n.state.Loading = true
	id := n.state.ContextID
	n.mu.Unlock()

	notes, err := n.api.ContextNotes(ctx, id, client.RangeQuery{Range: timeutil.RangeAll})
	if !n.gen.IsCurrent(token) {
		return nil
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state.Loading = false
	n.state.Err = err
	if err != nil {
		n.deps.Log.Warnw("load failed", "context", id, "error", err)
		return err
	}
	n.state.Notes = notes
	return nil
}

// NewDraft opens an empty editor. Nothing is stored until the first edit.
func (n *Notes) NewDraft() {
	n.debounce.Flush()
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state.Editing = nil
	n.state.Form = forms.NoteForm{ContextID: n.state.ContextID}
	n.state.Open = true
	n.state.Save = SaveIdle
}

// OpenNote opens note in the editor.
func (n *Notes) OpenNote(note models.Note) {
	n.debounce.Flush()
	n.mu.Lock()
	defer n.mu.Unlock()
	id := note.ID
	n.state.Editing = &id
	n.state.Form = forms.NoteFormFrom(note)
	n.state.Open = true
	n.state.Save = SaveIdle
}

// Edit records the editor's new content. A draft is created on its first
// non-blank edit; an existing note is saved after a pause in typing.
func (n *Notes) Edit(ctx context.Context, form forms.NoteForm) error {
	n.mu.Lock()
	form.ContextID = n.state.ContextID
	n.state.Form = form
	n.state.Save = SaveDirty
	draft := n.state.Editing == nil
	n.mu.Unlock()

	if draft {
		if form.IsBlank() {
			return nil
		}
		return n.save(ctx)
	}
	n.debounce.Call(func() { _ = n.save(context.Background()) })
	return nil
}

// Close flushes any pending save and closes the editor.
func (n *Notes) Close() {
	n.debounce.Flush()
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state.Open = false
	n.state.Editing = nil
	n.state.Form = forms.NoteForm{}
}

// save writes the current form: create when there is no id yet, update
// otherwise.
func (n *Notes) save(ctx context.Context) error {
	n.saveMu.Lock()
	defer n.saveMu.Unlock()

	n.mu.Lock()
	form := n.state.Form
	editing := n.state.Editing
	open := n.state.Open
	if open {
		n.state.Save = SaveSaving
	}
	n.mu.Unlock()
	if !open {
		return nil
	}

	in, err := form.Submit()
	if err != nil {
		n.setSave(SaveFailed)
		return n.deps.fail("save note", err)
	}

	var saved *models.Note
	if editing == nil {
		saved, err = n.api.CreateNote(ctx, in)
	} else {
		saved, err = n.api.UpdateNote(ctx, *editing, in)
	}
	if err != nil {
		n.setSave(SaveFailed)
		return n.deps.fail("save note", err)
	}

	n.mu.Lock()
	if n.deleted[saved.ID] {
		n.mu.Unlock()
		return nil
	}
	if n.state.Editing == nil {
		id := saved.ID
		n.state.Editing = &id
	}
	changed := n.state.Form.Title != form.Title || n.state.Form.Body != form.Body
	if changed {
		n.state.Save = SaveDirty
	} else {
		n.state.Save = SaveSaved
	}
	n.upsert(*saved)
	n.mu.Unlock()

	// Typing continued while the draft was being created.
	if changed && editing == nil {
		n.debounce.Call(func() { _ = n.save(context.Background()) })
	}
	return nil
}

// upsert puts note at the top of the list. Caller holds n.mu.
func (n *Notes) upsert(note models.Note) {
	out := make([]models.Note, 0, len(n.state.Notes)+1)
	out = append(out, note)
	for _, existing := range n.state.Notes {
		if existing.ID != note.ID {
			out = append(out, existing)
		}
	}
	n.state.Notes = out
}

func (n *Notes) setSave(s SaveStatus) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.state.Save = s
}

// Delete removes a note after confirmation and closes it if open.
func (n *Notes) Delete(ctx context.Context, note models.Note) error {
	if err := n.deps.ask(ctx, "Delete note?", "\""+note.Title+"\" will be removed.", "Delete"); err != nil {
		return err
	}
	n.mu.Lock()
	n.deleted[note.ID] = true
	if n.state.Editing != nil && *n.state.Editing == note.ID {
		n.debounce.Cancel()
		n.state.Open = false
		n.state.Editing = nil
	}
	n.mu.Unlock()

	if err := n.api.DeleteNote(ctx, note.ID); err != nil {
		n.mu.Lock()
		delete(n.deleted, note.ID)
		n.mu.Unlock()
		return n.deps.fail("delete note", err)
	}
	n.mu.Lock()
	kept := n.state.Notes[:0:0]
	for _, existing := range n.state.Notes {
		if existing.ID != note.ID {
			kept = append(kept, existing)
		}
	}
	n.state.Notes = kept
	n.mu.Unlock()
	n.deps.Alerts.Success("Note deleted")
	return nil
}
