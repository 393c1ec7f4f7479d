// ABOUTME: Cross-domain spending analytics
// ABOUTME: Concurrent two-branch fetch merged client-side by exact category name

package facade

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/carelog/carelog-gateway/internal/store"
)

// Branch keys for the partial-error map.
const (
	branchAgedCare  = "aged_care"
	branchWorkCover = "workcover"
)

// Analytics is the analytics operation group.
type Analytics struct {
	f *Facade
}

// SpendingByCategory merges aged-care spending grouped by category with
// WorkCover charged amounts grouped by claim number, summed per name and
// ordered by total descending. The merge is by exact case-sensitive name.
// A failed branch degrades to no contribution and is reported in the
// partial-error map.
func (g *Analytics) SpendingByCategory(ctx context.Context, from, to *time.Time) ([]CategorySpending, map[string]string, error) {
	groups := make(map[string]*CategorySpending)
	partial := map[string]string{}
	var mu sync.Mutex

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(2)

	eg.Go(func() error {
		filter := store.ExpenseFilter{From: from, To: to}
		amounts, err := g.f.store.ListExpenseAmounts(gctx, filter)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			g.f.logger.Warn("aged-care analytics branch failed", "error", err)
			partial[branchAgedCare] = err.Error()
			return nil
		}
		sumByName(amounts, groups)
		return nil
	})

	eg.Go(func() error {
		filter := store.WorkCoverExpenseFilter{From: from, To: to}
		amounts, err := g.f.store.ListChargedByClaim(gctx, filter)
		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			g.f.logger.Warn("workcover analytics branch failed", "error", err)
			partial[branchWorkCover] = err.Error()
			return nil
		}
		sumByName(amounts, groups)
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, nil, err
	}
	if len(partial) == 0 {
		partial = nil
	}
	return sortedSpending(groups), partial, nil
}
