// ABOUTME: Data-access facade exposing typed per-domain operation groups
// ABOUTME: Every method validates its params, delegates to the store, and returns typed values

package facade

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/carelog/carelog-gateway/internal/store"
)

// Facade is the typed data-access layer the tool dispatcher operates through.
// Each field is an operation group addressable by the agent as a dotted path
// prefix (agedCareAccounts, notes, search, ...).
type Facade struct {
	store  store.Store
	logger *slog.Logger

	AgedCareAccounts  *AgedCareAccounts
	AgedCareExpenses  *AgedCareExpenses
	WorkCoverClaims   *WorkCoverClaims
	WorkCoverExpenses *WorkCoverExpenses
	Notes             *Notes
	Calendar          *Calendar
	Payments          *Payments
	Suppliers         *Suppliers
	Categories        *Categories
	Attachments       *Attachments
	Analytics         *Analytics
	Search            *Search
}

// New creates a Facade over the given store.
func New(st store.Store, logger *slog.Logger) *Facade {
	f := &Facade{
		store:  st,
		logger: logger.With("component", "facade"),
	}
	f.AgedCareAccounts = &AgedCareAccounts{f: f}
	f.AgedCareExpenses = &AgedCareExpenses{f: f}
	f.WorkCoverClaims = &WorkCoverClaims{f: f}
	f.WorkCoverExpenses = &WorkCoverExpenses{f: f}
	f.Notes = &Notes{f: f}
	f.Calendar = &Calendar{f: f}
	f.Payments = &Payments{f: f}
	f.Suppliers = &Suppliers{f: f}
	f.Categories = &Categories{f: f}
	f.Attachments = &Attachments{f: f}
	f.Analytics = &Analytics{f: f}
	f.Search = &Search{f: f}
	return f
}

// CategorySpending is one row of a spending breakdown: a grouping name, the
// summed amount, and how many rows contributed to it.
type CategorySpending struct {
	CategoryName string          `json:"category_name"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	Count        int             `json:"count"`
}

// sumByName groups amounts by their joined name, substituting the
// uncategorized sentinel for a nil name. Decimal addition keeps cent-level
// amounts exact.
func sumByName(amounts []store.AmountWithName, groups map[string]*CategorySpending) {
	for _, a := range amounts {
		name := store.UncategorizedName
		if a.Name != nil {
			name = *a.Name
		}
		g, ok := groups[name]
		if !ok {
			g = &CategorySpending{CategoryName: name, TotalAmount: decimal.Zero}
			groups[name] = g
		}
		g.TotalAmount = g.TotalAmount.Add(a.Amount)
		g.Count++
	}
}
