// ABOUTME: Aged-care expense operations including the client-side aggregations
// ABOUTME: getTotal and sumByCategory accumulate with fixed-point decimals

package facade

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carelog/carelog-gateway/internal/store"
)

// AgedCareExpenses is the agedCareExpenses operation group.
type AgedCareExpenses struct {
	f *Facade
}

// CreateExpenseParams are the fields accepted by agedCareExpenses.create.
type CreateExpenseParams struct {
	AccountID     string          `json:"account_id"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	ExpenseDate   time.Time       `json:"expense_date"`
	SupplierID    *string         `json:"supplier_id"`
	CategoryID    *string         `json:"category_id"`
	InvoiceNumber *string         `json:"invoice_number"`
}

// UpdateExpenseParams are the fields accepted by agedCareExpenses.update.
// Nil fields are left unchanged.
type UpdateExpenseParams struct {
	ID            string           `json:"id"`
	Description   *string          `json:"description"`
	Amount        *decimal.Decimal `json:"amount"`
	Status        *string          `json:"status"`
	ExpenseDate   *time.Time       `json:"expense_date"`
	SupplierID    *string          `json:"supplier_id"`
	CategoryID    *string          `json:"category_id"`
	InvoiceNumber *string          `json:"invoice_number"`
}

// List returns expenses matching the filter, newest expense_date first.
func (g *AgedCareExpenses) List(ctx context.Context, filter store.ExpenseFilter) ([]*store.AgedCareExpense, error) {
	expenses, err := g.f.store.ListAgedCareExpenses(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	return expenses, nil
}

// GetByID returns one expense, or nil when the id does not exist.
func (g *AgedCareExpenses) GetByID(ctx context.Context, id string) (*store.AgedCareExpense, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	expense, err := g.f.store.GetAgedCareExpense(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return expense, nil
}

// Create records a new expense and returns it. Status defaults to pending.
func (g *AgedCareExpenses) Create(ctx context.Context, params CreateExpenseParams) (*store.AgedCareExpense, error) {
	if params.AccountID == "" {
		return nil, fmt.Errorf("account_id is required")
	}
	if params.Description == "" {
		return nil, fmt.Errorf("description is required")
	}
	status := params.Status
	if status == "" {
		status = store.ExpenseStatusPending
	}
	expenseDate := params.ExpenseDate
	if expenseDate.IsZero() {
		expenseDate = time.Now().UTC()
	}
	now := time.Now().UTC()
	expense := &store.AgedCareExpense{
		ID:            uuid.NewString(),
		AccountID:     params.AccountID,
		SupplierID:    params.SupplierID,
		CategoryID:    params.CategoryID,
		Description:   params.Description,
		Amount:        params.Amount,
		Status:        status,
		ExpenseDate:   expenseDate,
		InvoiceNumber: params.InvoiceNumber,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := g.f.store.CreateAgedCareExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}
	g.f.logger.Info("expense created", "expense_id", expense.ID, "account_id", expense.AccountID)
	return expense, nil
}

// Update applies the non-nil fields of params to an existing expense and
// returns the updated record.
func (g *AgedCareExpenses) Update(ctx context.Context, params UpdateExpenseParams) (*store.AgedCareExpense, error) {
	if params.ID == "" {
		return nil, fmt.Errorf("id is required")
	}
	expense, err := g.f.store.GetAgedCareExpense(ctx, params.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("expense %s not found", params.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if params.Description != nil {
		expense.Description = *params.Description
	}
	if params.Amount != nil {
		expense.Amount = *params.Amount
	}
	if params.Status != nil {
		expense.Status = *params.Status
	}
	if params.ExpenseDate != nil {
		expense.ExpenseDate = *params.ExpenseDate
	}
	if params.SupplierID != nil {
		expense.SupplierID = params.SupplierID
	}
	if params.CategoryID != nil {
		expense.CategoryID = params.CategoryID
	}
	if params.InvoiceNumber != nil {
		expense.InvoiceNumber = params.InvoiceNumber
	}
	expense.UpdatedAt = time.Now().UTC()
	if err := g.f.store.UpdateAgedCareExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	g.f.logger.Info("expense updated", "expense_id", expense.ID)
	return expense, nil
}

// GetTotal sums the amounts of every expense matching the filter. Zero rows
// yield decimal zero, not an error.
func (g *AgedCareExpenses) GetTotal(ctx context.Context, filter store.ExpenseFilter) (decimal.Decimal, error) {
	amounts, err := g.f.store.ListExpenseAmounts(ctx, filter)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list expense amounts: %w", err)
	}
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Amount)
	}
	return total, nil
}

// SumByCategory groups matching expenses by category name, substituting the
// uncategorized sentinel for expenses with no category, ordered by total
// descending.
func (g *AgedCareExpenses) SumByCategory(ctx context.Context, filter store.ExpenseFilter) ([]CategorySpending, error) {
	amounts, err := g.f.store.ListExpenseAmounts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list expense amounts: %w", err)
	}
	groups := make(map[string]*CategorySpending)
	sumByName(amounts, groups)
	return sortedSpending(groups), nil
}

// sortedSpending flattens a spending map into a slice ordered by total
// descending, name ascending on ties so output is deterministic.
func sortedSpending(groups map[string]*CategorySpending) []CategorySpending {
	spending := make([]CategorySpending, 0, len(groups))
	for _, g := range groups {
		spending = append(spending, *g)
	}
	sort.Slice(spending, func(i, j int) bool {
		if !spending[i].TotalAmount.Equal(spending[j].TotalAmount) {
			return spending[i].TotalAmount.GreaterThan(spending[j].TotalAmount)
		}
		return spending[i].CategoryName < spending[j].CategoryName
	})
	return spending
}
