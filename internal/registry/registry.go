// ABOUTME: Capability registry, a statically enumerable command table
// ABOUTME: Every exposed method path is bound here; nothing is discovered by reflection

package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/carelog/carelog-gateway/internal/facade"
	"github.com/carelog/carelog-gateway/internal/store"
)

// HandlerFunc executes one bound operation. The second return value carries
// per-domain partial failures for operations that degrade instead of failing.
type HandlerFunc func(ctx context.Context, args json.RawMessage) (any, map[string]string, error)

// Operation is one entry of the command table.
type Operation struct {
	// Path is the full dotted method path, e.g. "agedCareExpenses.getTotal".
	Path string
	// Name is the operation segment of the path.
	Name string
	// Params is a compact human-readable parameter signature.
	Params string
	// Returns describes the return shape as free text.
	Returns string
	// Example is one example invocation string.
	Example string
	// Doc is the one-line description surfaced by get_schema.
	Doc string
	// Handler executes the operation.
	Handler HandlerFunc
}

// Group is a named collection of operations sharing a path prefix.
type Group struct {
	Name       string
	Doc        string
	Operations []*Operation

	index map[string]*Operation
}

// Registry is the full command table. It is immutable after Build.
type Registry struct {
	groups []*Group
	index  map[string]*Group
}

// decode unmarshals args into a params value. Absent or null args decode to
// the zero value, so every parameter stays optional at this layer.
func decode[T any](args json.RawMessage) (T, error) {
	var params T
	if len(args) == 0 || string(args) == "null" {
		return params, nil
	}
	if err := json.Unmarshal(args, &params); err != nil {
		return params, fmt.Errorf("invalid arguments: %w", err)
	}
	return params, nil
}

// plain adapts a handler with no partial-failure channel.
func plain(fn func(ctx context.Context, args json.RawMessage) (any, error)) HandlerFunc {
	return func(ctx context.Context, args json.RawMessage) (any, map[string]string, error) {
		result, err := fn(ctx, args)
		return result, nil, err
	}
}

type idParams struct {
	ID string `json:"id"`
}

type rangeParams struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

// Build constructs the command table over a facade. The table is the single
// source of truth for what an agent may call: adding an operation here is the
// only way to expose it.
func Build(f *facade.Facade) *Registry {
	r := &Registry{index: make(map[string]*Group)}

	r.add(&Group{
		Name: "agedCareAccounts",
		Doc:  "Aged-care funding accounts (Home Care Package, Support at Home) and their balances",
		Operations: []*Operation{
			{
				Name:    "list",
				Params:  "{funding_type?, is_active?}",
				Returns: "FundingAccount[]",
				Example: `execute_query({method: "agedCareAccounts.list", args: {is_active: true}})`,
				Doc:     "List funding accounts, ordered by name",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					filter, err := decode[store.AccountFilter](args)
					if err != nil {
						return nil, err
					}
					return f.AgedCareAccounts.List(ctx, filter)
				}),
			},
			{
				Name:    "getById",
				Params:  "{id}",
				Returns: "FundingAccount | null",
				Example: `execute_query({method: "agedCareAccounts.getById", args: {id: "..."}})`,
				Doc:     "Get one funding account by id",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[idParams](args)
					if err != nil {
						return nil, err
					}
					return f.AgedCareAccounts.GetByID(ctx, p.ID)
				}),
			},
			{
				Name:    "getBalance",
				Params:  "{id}",
				Returns: "AccountBalance | null",
				Example: `execute_query({method: "agedCareAccounts.getBalance", args: {id: "..."}})`,
				Doc:     "Get one account with its allocated, spent, pending, and remaining totals",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[idParams](args)
					if err != nil {
						return nil, err
					}
					return f.AgedCareAccounts.GetBalance(ctx, p.ID)
				}),
			},
			{
				Name:    "getBalances",
				Params:  "{}",
				Returns: "AccountBalance[]",
				Example: `execute_query({method: "agedCareAccounts.getBalances"})`,
				Doc:     "Get the balance summary of every funding account",
				Handler: plain(func(ctx context.Context, _ json.RawMessage) (any, error) {
					return f.AgedCareAccounts.GetBalances(ctx)
				}),
			},
		},
	})

	r.add(&Group{
		Name: "agedCareExpenses",
		Doc:  "Expenses charged against aged-care funding accounts",
		Operations: []*Operation{
			{
				Name:    "list",
				Params:  "{account_id?, status?, category_id?, supplier_id?, from?, to?}",
				Returns: "AgedCareExpense[]",
				Example: `execute_query({method: "agedCareExpenses.list", args: {status: "pending"}})`,
				Doc:     "List expenses, newest expense date first",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					filter, err := decode[store.ExpenseFilter](args)
					if err != nil {
						return nil, err
					}
					return f.AgedCareExpenses.List(ctx, filter)
				}),
			},
			{
				Name:    "getById",
				Params:  "{id}",
				Returns: "AgedCareExpense | null",
				Example: `execute_query({method: "agedCareExpenses.getById", args: {id: "..."}})`,
				Doc:     "Get one expense by id",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[idParams](args)
					if err != nil {
						return nil, err
					}
					return f.AgedCareExpenses.GetByID(ctx, p.ID)
				}),
			},
			{
				Name:    "create",
				Params:  "{account_id, description, amount, expense_date?, status?, supplier_id?, category_id?, invoice_number?}",
				Returns: "AgedCareExpense",
				Example: `execute_query({method: "agedCareExpenses.create", args: {account_id: "...", description: "Physio", amount: "85.00"}})`,
				Doc:     "Record a new expense; status defaults to pending",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[facade.CreateExpenseParams](args)
					if err != nil {
						return nil, err
					}
					return f.AgedCareExpenses.Create(ctx, p)
				}),
			},
			{
				Name:    "update",
				Params:  "{id, ...fields to change}",
				Returns: "AgedCareExpense",
				Example: `execute_query({method: "agedCareExpenses.update", args: {id: "...", status: "paid"}})`,
				Doc:     "Update an expense; omitted fields are unchanged",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[facade.UpdateExpenseParams](args)
					if err != nil {
						return nil, err
					}
					return f.AgedCareExpenses.Update(ctx, p)
				}),
			},
			{
				Name:    "getTotal",
				Params:  "{account_id?, status?, category_id?, supplier_id?, from?, to?}",
				Returns: "decimal string",
				Example: `execute_query({method: "agedCareExpenses.getTotal", args: {status: "paid"}})`,
				Doc:     "Sum the amounts of matching expenses",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					filter, err := decode[store.ExpenseFilter](args)
					if err != nil {
						return nil, err
					}
					return f.AgedCareExpenses.GetTotal(ctx, filter)
				}),
			},
			{
				Name:    "sumByCategory",
				Params:  "{account_id?, status?, from?, to?}",
				Returns: "{category_name, total_amount, count}[]",
				Example: `execute_query({method: "agedCareExpenses.sumByCategory"})`,
				Doc:     "Group matching expenses by category name, largest total first",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					filter, err := decode[store.ExpenseFilter](args)
					if err != nil {
						return nil, err
					}
					return f.AgedCareExpenses.SumByCategory(ctx, filter)
				}),
			},
		},
	})

	r.add(&Group{
		Name: "workcoverClaims",
		Doc:  "WorkCover claims and their derived expense summaries",
		Operations: []*Operation{
			{
				Name:    "list",
				Params:  "{status?}",
				Returns: "WorkCoverClaim[]",
				Example: `execute_query({method: "workcoverClaims.list", args: {status: "active"}})`,
				Doc:     "List claims, newest first",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					filter, err := decode[store.ClaimFilter](args)
					if err != nil {
						return nil, err
					}
					return f.WorkCoverClaims.List(ctx, filter)
				}),
			},
			{
				Name:    "getById",
				Params:  "{id}",
				Returns: "WorkCoverClaim | null",
				Example: `execute_query({method: "workcoverClaims.getById", args: {id: "..."}})`,
				Doc:     "Get one claim by id",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[idParams](args)
					if err != nil {
						return nil, err
					}
					return f.WorkCoverClaims.GetByID(ctx, p.ID)
				}),
			},
			{
				Name:    "findByClaimNumber",
				Params:  "{claim_number}",
				Returns: "WorkCoverClaim | null",
				Example: `execute_query({method: "workcoverClaims.findByClaimNumber", args: {claim_number: "WC-2024"}})`,
				Doc:     "Find a claim by case-insensitive claim number fragment",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[struct {
						ClaimNumber string `json:"claim_number"`
					}](args)
					if err != nil {
						return nil, err
					}
					return f.WorkCoverClaims.FindByClaimNumber(ctx, p.ClaimNumber)
				}),
			},
			{
				Name:    "getSummary",
				Params:  "{id}",
				Returns: "ClaimSummary | null",
				Example: `execute_query({method: "workcoverClaims.getSummary", args: {id: "..."}})`,
				Doc:     "Get a claim with its charged, claimed, reimbursed, and gap totals",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[idParams](args)
					if err != nil {
						return nil, err
					}
					return f.WorkCoverClaims.GetSummary(ctx, p.ID)
				}),
			},
		},
	})

	r.add(&Group{
		Name: "workcoverExpenses",
		Doc:  "Medical and related expenses under WorkCover claims",
		Operations: []*Operation{
			{
				Name:    "list",
				Params:  "{claim_id?, status?, from?, to?}",
				Returns: "WorkCoverExpense[]",
				Example: `execute_query({method: "workcoverExpenses.list", args: {claim_id: "..."}})`,
				Doc:     "List WorkCover expenses, newest expense date first",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					filter, err := decode[store.WorkCoverExpenseFilter](args)
					if err != nil {
						return nil, err
					}
					return f.WorkCoverExpenses.List(ctx, filter)
				}),
			},
			{
				Name:    "getById",
				Params:  "{id}",
				Returns: "WorkCoverExpense | null",
				Example: `execute_query({method: "workcoverExpenses.getById", args: {id: "..."}})`,
				Doc:     "Get one WorkCover expense by id",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[idParams](args)
					if err != nil {
						return nil, err
					}
					return f.WorkCoverExpenses.GetByID(ctx, p.ID)
				}),
			},
			{
				Name:    "getTotalGap",
				Params:  "{claim_id?, status?, from?, to?}",
				Returns: "decimal string",
				Example: `execute_query({method: "workcoverExpenses.getTotalGap"})`,
				Doc:     "Sum the out-of-pocket gap across matching expenses",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					filter, err := decode[store.WorkCoverExpenseFilter](args)
					if err != nil {
						return nil, err
					}
					return f.WorkCoverExpenses.GetTotalGap(ctx, filter)
				}),
			},
		},
	})

	r.add(&Group{
		Name: "notes",
		Doc:  "Free-text notes with categories, pins, and tags",
		Operations: []*Operation{
			{
				Name:    "list",
				Params:  "{category?, is_pinned?, is_archived?}",
				Returns: "Note[]",
				Example: `execute_query({method: "notes.list", args: {is_pinned: true}})`,
				Doc:     "List notes, pinned first then most recently updated",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					filter, err := decode[store.NoteFilter](args)
					if err != nil {
						return nil, err
					}
					return f.Notes.List(ctx, filter)
				}),
			},
			{
				Name:    "getById",
				Params:  "{id}",
				Returns: "Note | null",
				Example: `execute_query({method: "notes.getById", args: {id: "..."}})`,
				Doc:     "Get one note by id",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[idParams](args)
					if err != nil {
						return nil, err
					}
					return f.Notes.GetByID(ctx, p.ID)
				}),
			},
			{
				Name:    "create",
				Params:  "{title, content?, category?, is_pinned?, tags?}",
				Returns: "Note",
				Example: `execute_query({method: "notes.create", args: {title: "Care plan review"}})`,
				Doc:     "Create a note",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[facade.CreateNoteParams](args)
					if err != nil {
						return nil, err
					}
					return f.Notes.Create(ctx, p)
				}),
			},
			{
				Name:    "update",
				Params:  "{id, ...fields to change}",
				Returns: "Note",
				Example: `execute_query({method: "notes.update", args: {id: "...", is_pinned: false}})`,
				Doc:     "Update a note; omitted fields are unchanged",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[facade.UpdateNoteParams](args)
					if err != nil {
						return nil, err
					}
					return f.Notes.Update(ctx, p)
				}),
			},
		},
	})

	r.add(&Group{
		Name: "calendar",
		Doc:  "Appointments and reminders",
		Operations: []*Operation{
			{
				Name:    "list",
				Params:  "{from?, to?}",
				Returns: "CalendarEvent[]",
				Example: `execute_query({method: "calendar.list", args: {from: "2026-01-01"}})`,
				Doc:     "List events in the date range, soonest first",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					filter, err := decode[store.EventFilter](args)
					if err != nil {
						return nil, err
					}
					return f.Calendar.List(ctx, filter)
				}),
			},
			{
				Name:    "getById",
				Params:  "{id}",
				Returns: "CalendarEvent | null",
				Example: `execute_query({method: "calendar.getById", args: {id: "..."}})`,
				Doc:     "Get one event by id",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[idParams](args)
					if err != nil {
						return nil, err
					}
					return f.Calendar.GetByID(ctx, p.ID)
				}),
			},
		},
	})

	r.add(&Group{
		Name: "payments",
		Doc:  "Payment transactions made from funding accounts",
		Operations: []*Operation{
			{
				Name:    "list",
				Params:  "{account_id?, is_reconciled?, from?, to?}",
				Returns: "PaymentTransaction[]",
				Example: `execute_query({method: "payments.list", args: {is_reconciled: false}})`,
				Doc:     "List payments, newest payment date first",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					filter, err := decode[store.PaymentFilter](args)
					if err != nil {
						return nil, err
					}
					return f.Payments.List(ctx, filter)
				}),
			},
			{
				Name:    "getById",
				Params:  "{id}",
				Returns: "PaymentTransaction | null",
				Example: `execute_query({method: "payments.getById", args: {id: "..."}})`,
				Doc:     "Get one payment by id",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[idParams](args)
					if err != nil {
						return nil, err
					}
					return f.Payments.GetByID(ctx, p.ID)
				}),
			},
		},
	})

	r.add(&Group{
		Name: "suppliers",
		Doc:  "Care and service providers",
		Operations: []*Operation{
			{
				Name:    "list",
				Params:  "{is_active?}",
				Returns: "Supplier[]",
				Example: `execute_query({method: "suppliers.list", args: {is_active: true}})`,
				Doc:     "List suppliers, ordered by name",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					filter, err := decode[store.SupplierFilter](args)
					if err != nil {
						return nil, err
					}
					return f.Suppliers.List(ctx, filter)
				}),
			},
			{
				Name:    "getById",
				Params:  "{id}",
				Returns: "Supplier | null",
				Example: `execute_query({method: "suppliers.getById", args: {id: "..."}})`,
				Doc:     "Get one supplier by id",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[idParams](args)
					if err != nil {
						return nil, err
					}
					return f.Suppliers.GetByID(ctx, p.ID)
				}),
			},
		},
	})

	r.add(&Group{
		Name: "categories",
		Doc:  "Expense categories for aged-care spending",
		Operations: []*Operation{
			{
				Name:    "list",
				Params:  "{}",
				Returns: "ExpenseCategory[]",
				Example: `execute_query({method: "categories.list"})`,
				Doc:     "List every category, ordered by name",
				Handler: plain(func(ctx context.Context, _ json.RawMessage) (any, error) {
					return f.Categories.List(ctx)
				}),
			},
			{
				Name:    "getById",
				Params:  "{id}",
				Returns: "ExpenseCategory | null",
				Example: `execute_query({method: "categories.getById", args: {id: "..."}})`,
				Doc:     "Get one category by id",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[idParams](args)
					if err != nil {
						return nil, err
					}
					return f.Categories.GetByID(ctx, p.ID)
				}),
			},
		},
	})

	r.add(&Group{
		Name: "attachments",
		Doc:  "Files linked to expenses, claims, notes, and other records",
		Operations: []*Operation{
			{
				Name:    "listForEntity",
				Params:  "{entity_type, entity_id}",
				Returns: "Attachment[]",
				Example: `execute_query({method: "attachments.listForEntity", args: {entity_type: "aged_care_expense", entity_id: "..."}})`,
				Doc:     "List the attachments linked to one record, newest first",
				Handler: plain(func(ctx context.Context, args json.RawMessage) (any, error) {
					p, err := decode[struct {
						EntityType string `json:"entity_type"`
						EntityID   string `json:"entity_id"`
					}](args)
					if err != nil {
						return nil, err
					}
					return f.Attachments.ListForEntity(ctx, p.EntityType, p.EntityID)
				}),
			},
			{
				Name:    "search",
				Params:  "{query}",
				Returns: "Attachment[]",
				Example: `execute_query({method: "attachments.search", args: {query: "invoice"}})`,
				Doc:     "Search attachment file names and extracted text",
				Handler: func(ctx context.Context, args json.RawMessage) (any, map[string]string, error) {
					p, err := decode[struct {
						Query string `json:"query"`
					}](args)
					if err != nil {
						return nil, nil, err
					}
					return f.Attachments.Search(ctx, p.Query)
				},
			},
		},
	})

	r.add(&Group{
		Name: "analytics",
		Doc:  "Cross-domain spending rollups",
		Operations: []*Operation{
			{
				Name:    "spendingByCategory",
				Params:  "{from?, to?}",
				Returns: "{category_name, total_amount, count}[]",
				Example: `execute_query({method: "analytics.spendingByCategory", args: {from: "2026-01-01"}})`,
				Doc:     "Merge aged-care category spending with WorkCover charges by claim, largest total first",
				Handler: func(ctx context.Context, args json.RawMessage) (any, map[string]string, error) {
					p, err := decode[rangeParams](args)
					if err != nil {
						return nil, nil, err
					}
					return f.Analytics.SpendingByCategory(ctx, p.From, p.To)
				},
			},
		},
	})

	r.add(&Group{
		Name: "search",
		Doc:  "Combined substring search across every domain",
		Operations: []*Operation{
			{
				Name:    "all",
				Params:  "{query, entity_types?, limit?}",
				Returns: "results keyed by requested domain",
				Example: `execute_query({method: "search.all", args: {query: "Medicare", entity_types: ["notes"]}})`,
				Doc:     "Search every domain concurrently, capped per domain",
				Handler: func(ctx context.Context, args json.RawMessage) (any, map[string]string, error) {
					p, err := decode[struct {
						Query       string   `json:"query"`
						EntityTypes []string `json:"entity_types"`
						Limit       int      `json:"limit"`
					}](args)
					if err != nil {
						return nil, nil, err
					}
					results, err := f.Search.All(ctx, p.Query, p.EntityTypes, p.Limit)
					if err != nil {
						return nil, nil, err
					}
					partial := results.Errors
					if len(partial) == 0 {
						partial = nil
					}
					return results, partial, nil
				},
			},
		},
	})

	return r
}

func (r *Registry) add(g *Group) {
	g.index = make(map[string]*Operation, len(g.Operations))
	for _, op := range g.Operations {
		op.Path = g.Name + "." + op.Name
		g.index[op.Name] = op
	}
	r.groups = append(r.groups, g)
	r.index[g.Name] = g
}

// Groups returns every group in registration order.
func (r *Registry) Groups() []*Group {
	return r.groups
}

// GroupNames returns every group name in registration order.
func (r *Registry) GroupNames() []string {
	names := make([]string, 0, len(r.groups))
	for _, g := range r.groups {
		names = append(names, g.Name)
	}
	return names
}
