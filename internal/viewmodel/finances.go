package viewmodel

import (
	"context"
	"sync"

	"github.com/adrianpop47/second-brain-app-sub000/internal/client"
	"github.com/adrianpop47/second-brain-app-sub000/internal/forms"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
	"github.com/adrianpop47/second-brain-app-sub000/internal/uistate"
)

// FinanceAPI is what the finances screen needs from the API.
type FinanceAPI interface {
	ContextTransactions(ctx context.Context, id uint, q client.RangeQuery) ([]models.Transaction, error)
	Summary(ctx context.Context, q client.TransactionQuery) (*models.Summary, error)
	CategoryStats(ctx context.Context, q client.TransactionQuery) ([]models.CategoryTotal, error)
	CreateTransaction(ctx context.Context, in client.TransactionInput) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, id uint, in client.TransactionInput) (*models.Transaction, error)
	DeleteTransaction(ctx context.Context, id uint) error
}

// FinancesState is a snapshot of the finances screen.
type FinancesState struct {
	LoadState
	ContextID    uint
	Range        timeutil.Range
	Date         string
	Transactions []models.Transaction
	Summary      models.Summary
	Categories   []models.CategoryTotal
	Modal        uistate.Modal[models.Transaction]
}

// Finances is the per-context finances screen.
type Finances struct {
	api  FinanceAPI
	deps Deps
	gen  uistate.Generation

	mu    sync.Mutex
	state FinancesState
}

// NewFinances returns the finances screen for a context, showing the
// current month until told otherwise.
func NewFinances(api FinanceAPI, deps Deps, contextID uint) *Finances {
	return &Finances{
		api:  api,
		deps: deps.withDefaults("finances"),
		state: FinancesState{
			ContextID: contextID,
			Range:     timeutil.RangeMonth,
		},
	}
}

// State returns a snapshot.
func (f *Finances) State() FinancesState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// SetRange changes the date filter and reloads.
func (f *Finances) SetRange(ctx context.Context, r timeutil.Range, date string) error {
	f.mu.Lock()
	f.state.Range = r
	f.state.Date = date
	f.mu.Unlock()
	return f.Load(ctx)
}

func (f *Finances) query() (uint, client.RangeQuery) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state.ContextID, client.RangeQuery{Range: f.state.Range, Date: f.state.Date}
}

// Load fetches the transaction list, summary and category totals. When
// loads overlap only the most recent one is applied.
func (f *Finances) Load(ctx context.Context) error {
	token := f.gen.Begin()
	f.mu.Lock()
	f.state.Loading = true
	f.mu.Unlock()

	id, rq := f.query()
	sq := client.TransactionQuery{RangeQuery: rq, ContextID: &id}

	txs, err := f.api.ContextTransactions(ctx, id, rq)
	var summary *models.Summary
	var categories []models.CategoryTotal
	if err == nil {
		summary, err = f.api.Summary(ctx, sq)
	}
	if err == nil {
		categories, err = f.api.CategoryStats(ctx, sq)
	}

	if !f.gen.IsCurrent(token) {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Loading = false
	f.state.Err = err
	if err != nil {
		f.deps.Log.Warnw("load failed", "context", id, "error", err)
		return err
	}
	f.state.Transactions = txs
	f.state.Summary = *summary
	f.state.Categories = categories
	return nil
}

// OpenCreate opens the add transaction modal.
func (f *Finances) OpenCreate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Modal = f.state.Modal.OpenCreate()
}

// OpenEdit opens the modal on t.
func (f *Finances) OpenEdit(t models.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Modal = f.state.Modal.OpenEdit(t)
}

// CloseModal dismisses the modal without saving.
func (f *Finances) CloseModal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state.Modal = f.state.Modal.Close()
}

// AddTransaction validates form, posts it to the current context and
// refetches the list and totals. A failed refetch is reported but does not
// undo the write.
func (f *Finances) AddTransaction(ctx context.Context, form forms.TransactionForm) (*models.Transaction, error) {
	id, _ := f.query()
	form.ContextID = &id

	in, err := form.Submit()
	if err != nil {
		return nil, f.deps.fail("add transaction", err)
	}
	created, err := f.api.CreateTransaction(ctx, in)
	if err != nil {
		return nil, f.deps.fail("add transaction", err)
	}
	f.CloseModal()
	f.deps.Alerts.Success("Transaction added")
	f.refresh(ctx)
	return created, nil
}

// UpdateTransaction saves form over the transaction with id.
func (f *Finances) UpdateTransaction(ctx context.Context, id uint, form forms.TransactionForm) (*models.Transaction, error) {
	in, err := form.Submit()
	if err != nil {
		return nil, f.deps.fail("update transaction", err)
	}
	updated, err := f.api.UpdateTransaction(ctx, id, in)
	if err != nil {
		return nil, f.deps.fail("update transaction", err)
	}
	f.CloseModal()
	f.deps.Alerts.Success("Transaction updated")
	f.refresh(ctx)
	return updated, nil
}

// DeleteTransaction asks for confirmation, deletes and refetches.
func (f *Finances) DeleteTransaction(ctx context.Context, id uint) error {
	if err := f.deps.ask(ctx, "Delete transaction?", "This cannot be undone.", "Delete"); err != nil {
		return err
	}
	if err := f.api.DeleteTransaction(ctx, id); err != nil {
		return f.deps.fail("delete transaction", err)
	}
	f.deps.Alerts.Success("Transaction deleted")
	f.refresh(ctx)
	return nil
}

func (f *Finances) refresh(ctx context.Context) {
	if err := f.Load(ctx); err != nil {
		f.deps.Alerts.Warning("Saved, but the list could not be refreshed")
	}
}
