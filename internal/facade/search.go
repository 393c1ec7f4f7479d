// ABOUTME: Fan-out search aggregator across the six searchable domains
// ABOUTME: Bounded-concurrency queries with per-domain failure isolation

package facade

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/carelog/carelog-gateway/internal/store"
)

// Searchable domain keys. These are the entity_types accepted by the search
// tool and the keys of the partial-error map.
const (
	domainNotes             = "notes"
	domainClaims            = "claims"
	domainAgedCareExpenses  = "aged_care_expenses"
	domainWorkCoverExpenses = "workcover_expenses"
	domainPayments          = "payments"
	domainAttachments       = "attachments"
)

const (
	// defaultSearchLimit caps each domain in a combined search.
	defaultSearchLimit = 10
	// attachmentSearchLimit is the deeper cap for the attachments-only search.
	attachmentSearchLimit = 20
	// searchConcurrency bounds how many domain queries run at once.
	searchConcurrency = 4
)

// SearchDomains lists every searchable domain key.
func SearchDomains() []string {
	return []string{
		domainNotes,
		domainClaims,
		domainAgedCareExpenses,
		domainWorkCoverExpenses,
		domainPayments,
		domainAttachments,
	}
}

// SearchResults is the combined result of a fan-out search. Every slice is
// non-nil, and the serialized form carries only the requested domains, each
// always present as an array even when empty. Errors holds per-domain failure
// messages and is surfaced separately from the result body.
type SearchResults struct {
	Notes             []*store.Note
	Claims            []*store.WorkCoverClaim
	AgedCareExpenses  []*store.AgedCareExpense
	WorkCoverExpenses []*store.WorkCoverExpense
	Payments          []*store.PaymentTransaction
	Attachments       []*store.Attachment

	Errors map[string]string

	requested map[string]bool
}

// MarshalJSON emits only the requested domains, so a caller narrowing by
// entity_types can tell "no matches" from "not searched".
func (r *SearchResults) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.requested))
	if r.requested[domainNotes] {
		out[domainNotes] = r.Notes
	}
	if r.requested[domainClaims] {
		out[domainClaims] = r.Claims
	}
	if r.requested[domainAgedCareExpenses] {
		out[domainAgedCareExpenses] = r.AgedCareExpenses
	}
	if r.requested[domainWorkCoverExpenses] {
		out[domainWorkCoverExpenses] = r.WorkCoverExpenses
	}
	if r.requested[domainPayments] {
		out[domainPayments] = r.Payments
	}
	if r.requested[domainAttachments] {
		out[domainAttachments] = r.Attachments
	}
	return json.Marshal(out)
}

// Total counts the matches across every domain.
func (r *SearchResults) Total() int {
	return len(r.Notes) + len(r.Claims) + len(r.AgedCareExpenses) +
		len(r.WorkCoverExpenses) + len(r.Payments) + len(r.Attachments)
}

// Search is the search operation group.
type Search struct {
	f *Facade
}

// All runs the query against the requested domains concurrently. A nil or
// empty domains slice means all of them. One domain failing does not fail the
// search: that domain degrades to an empty slice and its error message is
// recorded in the Errors map.
func (g *Search) All(ctx context.Context, query string, domains []string, limit int) (*SearchResults, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	wanted := make(map[string]bool)
	if len(domains) == 0 {
		domains = SearchDomains()
	}
	for _, d := range domains {
		switch d {
		case domainNotes, domainClaims, domainAgedCareExpenses,
			domainWorkCoverExpenses, domainPayments, domainAttachments:
			wanted[d] = true
		default:
			return nil, fmt.Errorf("unknown entity type %q", d)
		}
	}

	results := &SearchResults{
		Notes:             []*store.Note{},
		Claims:            []*store.WorkCoverClaim{},
		AgedCareExpenses:  []*store.AgedCareExpense{},
		WorkCoverExpenses: []*store.WorkCoverExpense{},
		Payments:          []*store.PaymentTransaction{},
		Attachments:       []*store.Attachment{},
		Errors:            map[string]string{},
		requested:         wanted,
	}

	var mu sync.Mutex
	fail := func(domain string, err error) {
		g.f.logger.Warn("search domain failed", "domain", domain, "error", err)
		mu.Lock()
		results.Errors[domain] = err.Error()
		mu.Unlock()
	}

	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(searchConcurrency)

	if wanted[domainNotes] {
		eg.Go(func() error {
			notes, err := g.f.store.SearchNotes(gctx, query, limit)
			if err != nil {
				fail(domainNotes, err)
				return nil
			}
			mu.Lock()
			results.Notes = notes
			mu.Unlock()
			return nil
		})
	}
	if wanted[domainClaims] {
		eg.Go(func() error {
			claims, err := g.f.store.SearchClaims(gctx, query, limit)
			if err != nil {
				fail(domainClaims, err)
				return nil
			}
			mu.Lock()
			results.Claims = claims
			mu.Unlock()
			return nil
		})
	}
	if wanted[domainAgedCareExpenses] {
		eg.Go(func() error {
			expenses, err := g.f.store.SearchAgedCareExpenses(gctx, query, limit)
			if err != nil {
				fail(domainAgedCareExpenses, err)
				return nil
			}
			mu.Lock()
			results.AgedCareExpenses = expenses
			mu.Unlock()
			return nil
		})
	}
	if wanted[domainWorkCoverExpenses] {
		eg.Go(func() error {
			expenses, err := g.f.store.SearchWorkCoverExpenses(gctx, query, limit)
			if err != nil {
				fail(domainWorkCoverExpenses, err)
				return nil
			}
			mu.Lock()
			results.WorkCoverExpenses = expenses
			mu.Unlock()
			return nil
		})
	}
	if wanted[domainPayments] {
		eg.Go(func() error {
			payments, err := g.f.store.SearchPayments(gctx, query, limit)
			if err != nil {
				fail(domainPayments, err)
				return nil
			}
			mu.Lock()
			results.Payments = payments
			mu.Unlock()
			return nil
		})
	}
	if wanted[domainAttachments] {
		eg.Go(func() error {
			attachments, err := g.f.store.SearchAttachments(gctx, query, limit)
			if err != nil {
				fail(domainAttachments, err)
				return nil
			}
			mu.Lock()
			results.Attachments = attachments
			mu.Unlock()
			return nil
		})
	}

	// Goroutines swallow their own errors, so the only join failure left is
	// context cancellation.
	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("search aggregation: %w", err)
	}
	return results, nil
}
