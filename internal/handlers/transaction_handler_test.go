package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "github.com/adrianpop47/second-brain-app-sub000/internal/errors"
	"github.com/adrianpop47/second-brain-app-sub000/internal/models"
	"github.com/adrianpop47/second-brain-app-sub000/internal/pagination"
	"github.com/adrianpop47/second-brain-app-sub000/internal/services"
	"github.com/adrianpop47/second-brain-app-sub000/internal/timeutil"
)

// --- mock transaction service ---

type mockTransactionService struct {
	createTransactionFn      func(userID uint, in services.TransactionInput) (*models.Transaction, error)
	updateTransactionFn      func(userID, transactionID uint, in services.TransactionInput) (*models.Transaction, error)
	getTransactionByIDFn     func(userID, transactionID uint) (*models.Transaction, error)
	deleteTransactionFn      func(userID, transactionID uint) error
	getUserTransactionsFn    func(userID uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error)
	getContextTransactionsFn func(userID, contextID uint, dates services.DateFilter) ([]models.Transaction, error)
}

func (m *mockTransactionService) CreateTransaction(userID uint, in services.TransactionInput) (*models.Transaction, error) {
	if m.createTransactionFn != nil {
		return m.createTransactionFn(userID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) UpdateTransaction(userID, transactionID uint, in services.TransactionInput) (*models.Transaction, error) {
	if m.updateTransactionFn != nil {
		return m.updateTransactionFn(userID, transactionID, in)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) GetTransactionByID(userID, transactionID uint) (*models.Transaction, error) {
	if m.getTransactionByIDFn != nil {
		return m.getTransactionByIDFn(userID, transactionID)
	}
	return &models.Transaction{}, nil
}

func (m *mockTransactionService) DeleteTransaction(userID, transactionID uint) error {
	if m.deleteTransactionFn != nil {
		return m.deleteTransactionFn(userID, transactionID)
	}
	return nil
}

func (m *mockTransactionService) GetUserTransactions(userID uint, page pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
	if m.getUserTransactionsFn != nil {
		return m.getUserTransactionsFn(userID, page, filter)
	}
	resp := pagination.NewPageResponse([]models.Transaction{}, pagination.PageRequest{Page: 1, PageSize: 20}, 0)
	return &resp, nil
}

func (m *mockTransactionService) GetContextTransactions(userID, contextID uint, dates services.DateFilter) ([]models.Transaction, error) {
	if m.getContextTransactionsFn != nil {
		return m.getContextTransactionsFn(userID, contextID, dates)
	}
	return []models.Transaction{}, nil
}

var _ services.TransactionServicer = (*mockTransactionService)(nil)

func setupTransactionRouter(handler *TransactionHandler) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectUserID(1))
	auth.POST("/transactions", handler.CreateTransaction)
	auth.GET("/transactions", handler.GetUserTransactions)
	auth.GET("/transactions/:id", handler.GetTransactionByID)
	auth.PUT("/transactions/:id", handler.UpdateTransaction)
	auth.DELETE("/transactions/:id", handler.DeleteTransaction)
	auth.GET("/contexts/:id/transactions", handler.GetContextTransactions)
	return r
}

func TestTransactionHandler_CreateTransaction(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		var got services.TransactionInput
		txSvc := &mockTransactionService{
			createTransactionFn: func(userID uint, in services.TransactionInput) (*models.Transaction, error) {
				got = in
				return &models.Transaction{
					Base:      models.Base{ID: 1},
					UserID:    userID,
					ContextID: in.ContextID,
					Type:      in.Type,
					Amount:    in.Amount,
					Tags:      in.Tags,
					Date:      in.Date,
				}, nil
			},
		}
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, audit))

		rec := doRequest(r, "POST", "/transactions",
			`{"contextId":3,"type":"expense","amount":45.5,"description":"Groceries","tags":["food"],"date":"2025-10-25"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.ContextID == nil || *got.ContextID != 3 {
			t.Errorf("expected context 3, got %v", got.ContextID)
		}
		if !got.Amount.Equal(decimal.RequireFromString("45.5")) {
			t.Errorf("expected amount 45.5, got %s", got.Amount)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["amount"].(float64) != 45.5 {
			t.Errorf("expected amount 45.5, got %v", tx["amount"])
		}
		if len(audit.entries) != 1 || audit.entries[0].action != services.AuditCreate {
			t.Errorf("expected a create audit entry, got %+v", audit.entries)
		}
	})

	t.Run("accepts a transaction without context", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(_ uint, in services.TransactionInput) (*models.Transaction, error) {
				if in.ContextID != nil {
					t.Errorf("expected nil context, got %d", *in.ContextID)
				}
				return &models.Transaction{Base: models.Base{ID: 2}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"type":"income","amount":100,"date":"2025-10-01"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	})

	tests := []struct {
		name string
		body string
	}{
		{"missing type", `{"amount":10,"date":"2025-10-01"}`},
		{"invalid type", `{"type":"transfer","amount":10,"date":"2025-10-01"}`},
		{"missing date", `{"type":"income","amount":10}`},
		{"malformed date", `{"type":"income","amount":10,"date":"01/10/2025"}`},
		{"too many tags", `{"type":"income","amount":10,"date":"2025-10-01","tags":["a","b","c","d","e","f","g","h","i","j","k","l","m","n","o","p","q","r","s","t","u"]}`},
	}
	for _, tc := range tests {
		t.Run("returns 400 on "+tc.name, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

			rec := doRequest(r, "POST", "/transactions", tc.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
			}
			assertErrorCode(t, parseJSON(t, rec), "INVALID_INPUT")
		})
	}

	t.Run("returns 400 when the service rejects the amount", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(_ uint, _ services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrInvalidAmount
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"type":"expense","amount":0,"date":"2025-10-01"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "INVALID_AMOUNT")
	})

	t.Run("returns 404 when context not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			createTransactionFn: func(_ uint, _ services.TransactionInput) (*models.Transaction, error) {
				return nil, apperrors.ErrContextNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "POST", "/transactions", `{"contextId":99,"type":"expense","amount":5,"date":"2025-10-01"}`)

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "CONTEXT_NOT_FOUND")
	})

	t.Run("returns 401 without auth", func(t *testing.T) {
		handler := NewTransactionHandler(&mockTransactionService{}, &mockAuditService{})
		r := gin.New()
		r.POST("/transactions", handler.CreateTransaction)

		rec := doRequest(r, "POST", "/transactions", `{"type":"income","amount":10,"date":"2025-10-01"}`)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetUserTransactions(t *testing.T) {
	t.Run("returns 200 with paginated transactions", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getUserTransactionsFn: func(_ uint, page pagination.PageRequest, _ services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				resp := pagination.NewPageResponse([]models.Transaction{{Base: models.Base{ID: 1}}}, page, 41)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions?page=2&page_size=20", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		result := parseJSON(t, rec)
		if result["page"].(float64) != 2 || result["total_pages"].(float64) != 3 {
			t.Errorf("unexpected paging metadata %v", result)
		}
		if len(result["data"].([]interface{})) != 1 {
			t.Errorf("expected 1 transaction, got %v", result["data"])
		}
	})

	t.Run("passes filter params to service", func(t *testing.T) {
		var got services.TransactionFilter
		txSvc := &mockTransactionService{
			getUserTransactionsFn: func(_ uint, _ pagination.PageRequest, filter services.TransactionFilter) (*pagination.PageResponse[models.Transaction], error) {
				got = filter
				resp := pagination.NewPageResponse([]models.Transaction{}, pagination.PageRequest{Page: 1, PageSize: 20}, 0)
				return &resp, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions?contextId=4&type=expense&range=month&date=2025-10-25", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if got.ContextID == nil || *got.ContextID != 4 {
			t.Errorf("expected context 4, got %v", got.ContextID)
		}
		if got.Type == nil || *got.Type != models.TransactionTypeExpense {
			t.Errorf("expected expense filter, got %v", got.Type)
		}
		if got.Dates.Range != timeutil.RangeMonth || timeutil.FormatISODate(got.Dates.Anchor) != "2025-10-25" {
			t.Errorf("unexpected date filter %+v", got.Dates)
		}
	})

	bad := []struct {
		name  string
		query string
	}{
		{"type filter", "?type=transfer"},
		{"range", "?range=decade"},
		{"anchor date", "?date=yesterday"},
		{"context id", "?contextId=abc"},
	}
	for _, tc := range bad {
		t.Run("returns 400 on invalid "+tc.name, func(t *testing.T) {
			r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

			rec := doRequest(r, "GET", "/transactions"+tc.query, "")

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestTransactionHandler_GetContextTransactions(t *testing.T) {
	t.Run("returns the context's transactions", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getContextTransactionsFn: func(_ uint, contextID uint, dates services.DateFilter) ([]models.Transaction, error) {
				if contextID != 5 || dates.Range != timeutil.RangeWeek {
					t.Errorf("unexpected arguments %d %+v", contextID, dates)
				}
				return []models.Transaction{{Base: models.Base{ID: 1}}, {Base: models.Base{ID: 2}}}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/contexts/5/transactions?range=week", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if n := len(parseJSON(t, rec)["transactions"].([]interface{})); n != 2 {
			t.Errorf("expected 2 transactions, got %d", n)
		}
	})

	t.Run("returns 404 for a foreign context", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getContextTransactionsFn: func(_, _ uint, _ services.DateFilter) ([]models.Transaction, error) {
				return nil, apperrors.ErrContextNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/contexts/5/transactions", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_GetTransactionByID(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getTransactionByIDFn: func(_, id uint) (*models.Transaction, error) {
				return &models.Transaction{Base: models.Base{ID: id}, Type: models.TransactionTypeIncome}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/8", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["id"].(float64) != 8 {
			t.Errorf("expected id 8, got %v", tx["id"])
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			getTransactionByIDFn: func(_, _ uint) (*models.Transaction, error) {
				return nil, apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "GET", "/transactions/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "TRANSACTION_NOT_FOUND")
	})
}

func TestTransactionHandler_UpdateTransaction(t *testing.T) {
	t.Run("returns 200 with the replaced transaction", func(t *testing.T) {
		txSvc := &mockTransactionService{
			updateTransactionFn: func(_, id uint, in services.TransactionInput) (*models.Transaction, error) {
				return &models.Transaction{Base: models.Base{ID: id}, Type: in.Type, Amount: in.Amount, Date: in.Date}, nil
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/transactions/3", `{"type":"income","amount":12.25,"date":"2025-09-30"}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		tx := parseJSON(t, rec)["transaction"].(map[string]interface{})
		if tx["type"] != "income" || tx["date"] != "2025-09-30" {
			t.Errorf("unexpected transaction %v", tx)
		}
	})

	t.Run("returns 400 on invalid ID", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "PUT", "/transactions/abc", `{"type":"income","amount":1,"date":"2025-09-30"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestTransactionHandler_DeleteTransaction(t *testing.T) {
	t.Run("returns 200 on success", func(t *testing.T) {
		audit := &mockAuditService{}
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, audit))

		rec := doRequest(r, "DELETE", "/transactions/1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", rec.Code)
		}
		if len(audit.entries) != 1 || audit.entries[0] != (auditEntry{services.AuditDelete, "transaction", 1}) {
			t.Errorf("unexpected audit entries %+v", audit.entries)
		}
	})

	t.Run("returns 404 when not found", func(t *testing.T) {
		txSvc := &mockTransactionService{
			deleteTransactionFn: func(_, _ uint) error {
				return apperrors.ErrTransactionNotFound
			},
		}
		r := setupTransactionRouter(NewTransactionHandler(txSvc, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/transactions/999", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})

	t.Run("returns 400 on zero ID", func(t *testing.T) {
		r := setupTransactionRouter(NewTransactionHandler(&mockTransactionService{}, &mockAuditService{}))

		rec := doRequest(r, "DELETE", "/transactions/0", "")

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}
