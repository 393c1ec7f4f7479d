// ABOUTME: Aged-care funding account operations
// ABOUTME: Listing, single lookup, and balance reads over the derived balance view

package facade

import (
	"context"
	"errors"
	"fmt"

	"github.com/carelog/carelog-gateway/internal/store"
)

// AgedCareAccounts is the agedCareAccounts operation group.
type AgedCareAccounts struct {
	f *Facade
}

// List returns funding accounts matching the filter, ordered by name.
func (g *AgedCareAccounts) List(ctx context.Context, filter store.AccountFilter) ([]*store.FundingAccount, error) {
	accounts, err := g.f.store.ListAccounts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// GetByID returns one account, or nil when the id does not exist.
func (g *AgedCareAccounts) GetByID(ctx context.Context, id string) (*store.FundingAccount, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	account, err := g.f.store.GetAccount(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GetBalance returns one account with its derived running totals. The totals
// are read verbatim from the store, never recomputed here.
func (g *AgedCareAccounts) GetBalance(ctx context.Context, id string) (*store.AccountBalance, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	balance, err := g.f.store.GetAccountBalance(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get account balance: %w", err)
	}
	return balance, nil
}

// GetBalances returns the derived balances of every account, ordered by name.
func (g *AgedCareAccounts) GetBalances(ctx context.Context) ([]*store.AccountBalance, error) {
	balances, err := g.f.store.ListAccountBalances(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list account balances: %w", err)
	}
	return balances, nil
}
