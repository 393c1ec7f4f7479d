// ABOUTME: WorkCover claim and expense operations
// ABOUTME: Claim-number substring lookup, derived summaries, and the gap total aggregation

package facade

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carelog/carelog-gateway/internal/store"
)

// WorkCoverClaims is the workcoverClaims operation group.
type WorkCoverClaims struct {
	f *Facade
}

// List returns claims matching the filter, newest first.
func (g *WorkCoverClaims) List(ctx context.Context, filter store.ClaimFilter) ([]*store.WorkCoverClaim, error) {
	claims, err := g.f.store.ListClaims(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list claims: %w", err)
	}
	return claims, nil
}

// GetByID returns one claim, or nil when the id does not exist.
func (g *WorkCoverClaims) GetByID(ctx context.Context, id string) (*store.WorkCoverClaim, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	claim, err := g.f.store.GetClaim(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get claim: %w", err)
	}
	return claim, nil
}

// FindByClaimNumber matches the claim number as a case-insensitive substring.
// No match is an absence, not an error.
func (g *WorkCoverClaims) FindByClaimNumber(ctx context.Context, claimNumber string) (*store.WorkCoverClaim, error) {
	if claimNumber == "" {
		return nil, fmt.Errorf("claim_number is required")
	}
	claim, err := g.f.store.FindClaimByNumber(ctx, claimNumber)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find claim: %w", err)
	}
	return claim, nil
}

// GetSummary returns a claim with its derived expense totals, or nil when the
// id does not exist. The totals are store-owned.
func (g *WorkCoverClaims) GetSummary(ctx context.Context, id string) (*store.ClaimSummary, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	summary, err := g.f.store.GetClaimSummary(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get claim summary: %w", err)
	}
	return summary, nil
}

// WorkCoverExpenses is the workcoverExpenses operation group.
type WorkCoverExpenses struct {
	f *Facade
}

// List returns WorkCover expenses matching the filter, newest expense_date
// first.
func (g *WorkCoverExpenses) List(ctx context.Context, filter store.WorkCoverExpenseFilter) ([]*store.WorkCoverExpense, error) {
	expenses, err := g.f.store.ListWorkCoverExpenses(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list workcover expenses: %w", err)
	}
	return expenses, nil
}

// GetByID returns one WorkCover expense, or nil when the id does not exist.
func (g *WorkCoverExpenses) GetByID(ctx context.Context, id string) (*store.WorkCoverExpense, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	expense, err := g.f.store.GetWorkCoverExpense(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workcover expense: %w", err)
	}
	return expense, nil
}

// GetTotalGap sums the derived gap amounts of every expense matching the
// filter. The per-row gap is read from the store, never recomputed.
func (g *WorkCoverExpenses) GetTotalGap(ctx context.Context, filter store.WorkCoverExpenseFilter) (decimal.Decimal, error) {
	gaps, err := g.f.store.ListGapAmounts(ctx, filter)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to list gap amounts: %w", err)
	}
	total := decimal.Zero
	for _, gap := range gaps {
		total = total.Add(gap)
	}
	return total, nil
}
