// Package uistate holds the small explicit state machines the screens are
// built from: disclosure panels, create/edit modals, the fetch generation
// guard and the autosave debouncer.
package uistate

// Disclosure is the state of anything that opens and closes: dropdowns,
// emoji pickers, expanded rows.
type Disclosure int

const (
	Closed Disclosure = iota
	Open
)

// DisclosureAction drives a Disclosure.
type DisclosureAction int

const (
	ActionOpen DisclosureAction = iota
	ActionClose
	ActionToggle
	// ActionOutsideClick closes an open panel and leaves a closed one alone.
	ActionOutsideClick
)

// Reduce returns the next state after a.
func (d Disclosure) Reduce(a DisclosureAction) Disclosure {
	switch a {
	case ActionOpen:
		return Open
	case ActionClose, ActionOutsideClick:
		return Closed
	case ActionToggle:
		if d == Open {
			return Closed
		}
		return Open
	}
	return d
}

// IsOpen reports whether d is Open.
func (d Disclosure) IsOpen() bool { return d == Open }

func (d Disclosure) String() string {
	if d == Open {
		return "open"
	}
	return "closed"
}

// ModalMode is what a create/edit modal is currently doing.
type ModalMode int

const (
	ModalNone ModalMode = iota
	ModalCreate
	ModalEdit
)

func (m ModalMode) String() string {
	switch m {
	case ModalCreate:
		return "create"
	case ModalEdit:
		return "edit"
	default:
		return "none"
	}
}

// Modal is a create/edit modal bound to items of type T. Editing is nil
// unless Mode is ModalEdit.
type Modal[T any] struct {
	Mode    ModalMode
	Editing *T
}

// OpenCreate opens the modal for a new item.
func (m Modal[T]) OpenCreate() Modal[T] {
	return Modal[T]{Mode: ModalCreate}
}

// OpenEdit opens the modal on a copy of item.
func (m Modal[T]) OpenEdit(item T) Modal[T] {
	return Modal[T]{Mode: ModalEdit, Editing: &item}
}

// Close dismisses the modal.
func (m Modal[T]) Close() Modal[T] {
	return Modal[T]{}
}

// IsOpen reports whether the modal is showing.
func (m Modal[T]) IsOpen() bool { return m.Mode != ModalNone }
