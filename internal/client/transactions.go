package client

import (
	"context"
	"net/http"

	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/pagination"
)

// CreateTransaction posts a transaction.
func (c *Client) CreateTransaction(ctx context.Context, in TransactionInput) (*models.Transaction, error) {
	var out struct {
		Transaction models.Transaction `json:"transaction"`
	}
	if err := c.do(ctx, http.MethodPost, "/transactions", nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Transaction, nil
}

// UpdateTransaction replaces a transaction.
func (c *Client) UpdateTransaction(ctx context.Context, id uint, in TransactionInput) (*models.Transaction, error) {
	var out struct {
		Transaction models.Transaction `json:"transaction"`
	}
	if err := c.do(ctx, http.MethodPut, idPath("transactions", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out.Transaction, nil
}

// DeleteTransaction deletes a transaction.
func (c *Client) DeleteTransaction(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, idPath("transactions", id), nil, nil, nil)
}

// ListTransactions pages through transactions, newest first.
func (c *Client) ListTransactions(ctx context.Context, q TransactionQuery) (*pagination.PageResponse[models.Transaction], error) {
	var out pagination.PageResponse[models.Transaction]
	if err := c.do(ctx, http.MethodGet, "/transactions", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AllTransactions follows the pages of a listing until the last one, at
// MaxPageSize unless q sets a size.
func (c *Client) AllTransactions(ctx context.Context, q TransactionQuery) ([]models.Transaction, error) {
	if q.PageSize == 0 {
		q.PageSize = pagination.MaxPageSize
	}
	q.Page = 1
	out := []models.Transaction{}
	for {
		page, err := c.ListTransactions(ctx, q)
		if err != nil {
			return nil, err
		}
		out = append(out, page.Data...)
		if !page.HasNext() || len(page.Data) == 0 {
			return out, nil
		}
		next := page.Next()
		q.Page, q.PageSize = next.Page, next.PageSize
	}
}

// Summary returns income, expense and balance totals.
func (c *Client) Summary(ctx context.Context, q TransactionQuery) (*models.Summary, error) {
	var out models.Summary
	if err := c.do(ctx, http.MethodGet, "/stats/summary", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CategoryStats returns totals per tag.
func (c *Client) CategoryStats(ctx context.Context, q TransactionQuery) ([]models.CategoryTotal, error) {
	var out struct {
		Categories []models.CategoryTotal `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/stats/categories", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

// DailyStats returns the daily income/expense series.
func (c *Client) DailyStats(ctx context.Context, q TransactionQuery) ([]models.DailyTotal, error) {
	var out struct {
		Daily []models.DailyTotal `json:"daily"`
	}
	if err := c.do(ctx, http.MethodGet, "/stats/daily", q.values(), nil, &out); err != nil {
		return nil, err
	}
	return out.Daily, nil
}

// Categories returns the distinct tags the user has used, sorted.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var out struct {
		Categories []string `json:"categories"`
	}
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}
