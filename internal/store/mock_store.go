// ABOUTME: Mock Store implementation for testing
// ABOUTME: Reproduces filter, ordering, and search semantics in memory so tests run without Postgres

package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// MockStore is an in-memory Store implementation for testing. It applies the
// same filter, ordering, and substring-match semantics as the Postgres store.
type MockStore struct {
	mu          sync.RWMutex
	accounts    map[string]*FundingAccount
	balances    map[string]*AccountBalance
	expenses    map[string]*AgedCareExpense
	claims      map[string]*WorkCoverClaim
	wcExpenses  map[string]*WorkCoverExpense
	notes       map[string]*Note
	events      map[string]*CalendarEvent
	payments    map[string]*PaymentTransaction
	suppliers   map[string]*Supplier
	categories  map[string]*ExpenseCategory
	attachments map[string]*Attachment

	// Err, when set, is returned by every operation. FailOn restricts the
	// failure to a single named operation.
	Err    error
	FailOn string
}

// NewMockStore creates an empty MockStore.
func NewMockStore() *MockStore {
	return &MockStore{
		accounts:    make(map[string]*FundingAccount),
		balances:    make(map[string]*AccountBalance),
		expenses:    make(map[string]*AgedCareExpense),
		claims:      make(map[string]*WorkCoverClaim),
		wcExpenses:  make(map[string]*WorkCoverExpense),
		notes:       make(map[string]*Note),
		events:      make(map[string]*CalendarEvent),
		payments:    make(map[string]*PaymentTransaction),
		suppliers:   make(map[string]*Supplier),
		categories:  make(map[string]*ExpenseCategory),
		attachments: make(map[string]*Attachment),
	}
}

// failure reports the injected error if it applies to the named operation.
func (m *MockStore) failure(op string) error {
	if m.Err == nil {
		return nil
	}
	if m.FailOn == "" || m.FailOn == op {
		return m.Err
	}
	return nil
}

// Seed helpers. Each stores a copy to prevent aliasing with test fixtures.

func (m *MockStore) AddAccount(a *FundingAccount) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *a
	m.accounts[c.ID] = &c
}

func (m *MockStore) AddBalance(b *AccountBalance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *b
	m.balances[c.ID] = &c
}

func (m *MockStore) AddExpense(e *AgedCareExpense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *e
	m.expenses[c.ID] = &c
}

func (m *MockStore) AddClaim(c *WorkCoverClaim) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.claims[cp.ID] = &cp
}

func (m *MockStore) AddWorkCoverExpense(e *WorkCoverExpense) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *e
	m.wcExpenses[c.ID] = &c
}

func (m *MockStore) AddNote(n *Note) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *n
	if c.Tags == nil {
		c.Tags = []string{}
	}
	m.notes[c.ID] = &c
}

func (m *MockStore) AddEvent(e *CalendarEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *e
	m.events[c.ID] = &c
}

func (m *MockStore) AddPayment(p *PaymentTransaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *p
	m.payments[c.ID] = &c
}

func (m *MockStore) AddSupplier(s *Supplier) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *s
	m.suppliers[c.ID] = &c
}

func (m *MockStore) AddCategory(c *ExpenseCategory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.categories[cp.ID] = &cp
}

func (m *MockStore) AddAttachment(a *Attachment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *a
	m.attachments[c.ID] = &c
}

// containsFold reports a case-insensitive substring match, the in-memory
// equivalent of ILIKE '%q%'.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func ptrContainsFold(s *string, substr string) bool {
	return s != nil && containsFold(*s, substr)
}

func capLimit[T any](items []T, limit int) []T {
	if limit > 0 && len(items) > limit {
		return items[:limit]
	}
	return items
}

// Funding accounts

func (m *MockStore) ListAccounts(_ context.Context, filter AccountFilter) ([]*FundingAccount, error) {
	if err := m.failure("ListAccounts"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	accounts := []*FundingAccount{}
	for _, a := range m.accounts {
		if filter.FundingType != nil && a.FundingType != *filter.FundingType {
			continue
		}
		if filter.IsActive != nil && a.IsActive != *filter.IsActive {
			continue
		}
		c := *a
		accounts = append(accounts, &c)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Name < accounts[j].Name })
	return accounts, nil
}

func (m *MockStore) GetAccount(_ context.Context, id string) (*FundingAccount, error) {
	if err := m.failure("GetAccount"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	a, ok := m.accounts[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *a
	return &c, nil
}

func (m *MockStore) GetAccountBalance(_ context.Context, id string) (*AccountBalance, error) {
	if err := m.failure("GetAccountBalance"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	b, ok := m.balances[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *b
	return &c, nil
}

func (m *MockStore) ListAccountBalances(_ context.Context) ([]*AccountBalance, error) {
	if err := m.failure("ListAccountBalances"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	balances := []*AccountBalance{}
	for _, b := range m.balances {
		c := *b
		balances = append(balances, &c)
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].Name < balances[j].Name })
	return balances, nil
}

// Aged-care expenses

func matchExpense(e *AgedCareExpense, filter ExpenseFilter) bool {
	if filter.AccountID != nil && e.AccountID != *filter.AccountID {
		return false
	}
	if filter.Status != nil && e.Status != *filter.Status {
		return false
	}
	if filter.CategoryID != nil && (e.CategoryID == nil || *e.CategoryID != *filter.CategoryID) {
		return false
	}
	if filter.SupplierID != nil && (e.SupplierID == nil || *e.SupplierID != *filter.SupplierID) {
		return false
	}
	if filter.From != nil && e.ExpenseDate.Before(*filter.From) {
		return false
	}
	if filter.To != nil && e.ExpenseDate.After(*filter.To) {
		return false
	}
	return true
}

func (m *MockStore) ListAgedCareExpenses(_ context.Context, filter ExpenseFilter) ([]*AgedCareExpense, error) {
	if err := m.failure("ListAgedCareExpenses"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	expenses := []*AgedCareExpense{}
	for _, e := range m.expenses {
		if matchExpense(e, filter) {
			c := *e
			expenses = append(expenses, &c)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].ExpenseDate.After(expenses[j].ExpenseDate) })
	return expenses, nil
}

func (m *MockStore) GetAgedCareExpense(_ context.Context, id string) (*AgedCareExpense, error) {
	if err := m.failure("GetAgedCareExpense"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.expenses[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *e
	return &c, nil
}

func (m *MockStore) CreateAgedCareExpense(_ context.Context, expense *AgedCareExpense) error {
	if err := m.failure("CreateAgedCareExpense"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *expense
	m.expenses[c.ID] = &c
	return nil
}

func (m *MockStore) UpdateAgedCareExpense(_ context.Context, expense *AgedCareExpense) error {
	if err := m.failure("UpdateAgedCareExpense"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.expenses[expense.ID]; !ok {
		return ErrNotFound
	}
	c := *expense
	m.expenses[c.ID] = &c
	return nil
}

func (m *MockStore) ListExpenseAmounts(_ context.Context, filter ExpenseFilter) ([]AmountWithName, error) {
	if err := m.failure("ListExpenseAmounts"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	amounts := []AmountWithName{}
	for _, e := range m.expenses {
		if matchExpense(e, filter) {
			amounts = append(amounts, AmountWithName{Amount: e.Amount, Name: e.CategoryName})
		}
	}
	return amounts, nil
}

// WorkCover claims

func (m *MockStore) ListClaims(_ context.Context, filter ClaimFilter) ([]*WorkCoverClaim, error) {
	if err := m.failure("ListClaims"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	claims := []*WorkCoverClaim{}
	for _, c := range m.claims {
		if filter.Status != nil && c.Status != *filter.Status {
			continue
		}
		cp := *c
		claims = append(claims, &cp)
	}
	sort.Slice(claims, func(i, j int) bool { return claims[i].CreatedAt.After(claims[j].CreatedAt) })
	return claims, nil
}

func (m *MockStore) GetClaim(_ context.Context, id string) (*WorkCoverClaim, error) {
	if err := m.failure("GetClaim"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.claims[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *MockStore) FindClaimByNumber(_ context.Context, claimNumber string) (*WorkCoverClaim, error) {
	if err := m.failure("FindClaimByNumber"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	var match *WorkCoverClaim
	for _, c := range m.claims {
		if !containsFold(c.ClaimNumber, claimNumber) {
			continue
		}
		if match == nil || c.CreatedAt.After(match.CreatedAt) {
			match = c
		}
	}
	if match == nil {
		return nil, ErrNotFound
	}
	cp := *match
	return &cp, nil
}

func (m *MockStore) GetClaimSummary(_ context.Context, id string) (*ClaimSummary, error) {
	if err := m.failure("GetClaimSummary"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.claims[id]
	if !ok {
		return nil, ErrNotFound
	}
	sum := &ClaimSummary{
		WorkCoverClaim:  *c,
		TotalCharged:    decimal.Zero,
		TotalClaimed:    decimal.Zero,
		TotalReimbursed: decimal.Zero,
		TotalGap:        decimal.Zero,
	}
	for _, e := range m.wcExpenses {
		if e.ClaimID != id {
			continue
		}
		sum.ExpenseCount++
		sum.TotalCharged = sum.TotalCharged.Add(e.AmountCharged)
		sum.TotalClaimed = sum.TotalClaimed.Add(e.AmountClaimed)
		sum.TotalReimbursed = sum.TotalReimbursed.Add(e.AmountReimbursed)
		sum.TotalGap = sum.TotalGap.Add(e.GapAmount)
	}
	return sum, nil
}

// WorkCover expenses

func matchWorkCoverExpense(e *WorkCoverExpense, filter WorkCoverExpenseFilter) bool {
	if filter.ClaimID != nil && e.ClaimID != *filter.ClaimID {
		return false
	}
	if filter.Status != nil && e.Status != *filter.Status {
		return false
	}
	if filter.From != nil && e.ExpenseDate.Before(*filter.From) {
		return false
	}
	if filter.To != nil && e.ExpenseDate.After(*filter.To) {
		return false
	}
	return true
}

func (m *MockStore) ListWorkCoverExpenses(_ context.Context, filter WorkCoverExpenseFilter) ([]*WorkCoverExpense, error) {
	if err := m.failure("ListWorkCoverExpenses"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	expenses := []*WorkCoverExpense{}
	for _, e := range m.wcExpenses {
		if matchWorkCoverExpense(e, filter) {
			c := *e
			expenses = append(expenses, &c)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].ExpenseDate.After(expenses[j].ExpenseDate) })
	return expenses, nil
}

func (m *MockStore) GetWorkCoverExpense(_ context.Context, id string) (*WorkCoverExpense, error) {
	if err := m.failure("GetWorkCoverExpense"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.wcExpenses[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *e
	return &c, nil
}

func (m *MockStore) ListGapAmounts(_ context.Context, filter WorkCoverExpenseFilter) ([]decimal.Decimal, error) {
	if err := m.failure("ListGapAmounts"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	gaps := []decimal.Decimal{}
	for _, e := range m.wcExpenses {
		if matchWorkCoverExpense(e, filter) {
			gaps = append(gaps, e.GapAmount)
		}
	}
	return gaps, nil
}

func (m *MockStore) ListChargedByClaim(_ context.Context, filter WorkCoverExpenseFilter) ([]AmountWithName, error) {
	if err := m.failure("ListChargedByClaim"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	amounts := []AmountWithName{}
	for _, e := range m.wcExpenses {
		if !matchWorkCoverExpense(e, filter) {
			continue
		}
		var name *string
		if c, ok := m.claims[e.ClaimID]; ok {
			n := c.ClaimNumber
			name = &n
		}
		amounts = append(amounts, AmountWithName{Amount: e.AmountCharged, Name: name})
	}
	return amounts, nil
}

// Notes

func (m *MockStore) ListNotes(_ context.Context, filter NoteFilter) ([]*Note, error) {
	if err := m.failure("ListNotes"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	notes := []*Note{}
	for _, n := range m.notes {
		if filter.Category != nil && (n.Category == nil || *n.Category != *filter.Category) {
			continue
		}
		if filter.IsPinned != nil && n.IsPinned != *filter.IsPinned {
			continue
		}
		if filter.IsArchived != nil && n.IsArchived != *filter.IsArchived {
			continue
		}
		c := *n
		notes = append(notes, &c)
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].IsPinned != notes[j].IsPinned {
			return notes[i].IsPinned
		}
		return notes[i].UpdatedAt.After(notes[j].UpdatedAt)
	})
	return notes, nil
}

func (m *MockStore) GetNote(_ context.Context, id string) (*Note, error) {
	if err := m.failure("GetNote"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	n, ok := m.notes[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *n
	return &c, nil
}

func (m *MockStore) CreateNote(_ context.Context, note *Note) error {
	if err := m.failure("CreateNote"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	c := *note
	if c.Tags == nil {
		c.Tags = []string{}
	}
	m.notes[c.ID] = &c
	return nil
}

func (m *MockStore) UpdateNote(_ context.Context, note *Note) error {
	if err := m.failure("UpdateNote"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notes[note.ID]; !ok {
		return ErrNotFound
	}
	c := *note
	if c.Tags == nil {
		c.Tags = []string{}
	}
	m.notes[c.ID] = &c
	return nil
}

// Calendar

func (m *MockStore) ListEvents(_ context.Context, filter EventFilter) ([]*CalendarEvent, error) {
	if err := m.failure("ListEvents"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	events := []*CalendarEvent{}
	for _, e := range m.events {
		if filter.From != nil && e.EventDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.EventDate.After(*filter.To) {
			continue
		}
		c := *e
		events = append(events, &c)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].EventDate.Before(events[j].EventDate) })
	return events, nil
}

func (m *MockStore) GetEvent(_ context.Context, id string) (*CalendarEvent, error) {
	if err := m.failure("GetEvent"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.events[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *e
	return &c, nil
}

// Payments

func (m *MockStore) ListPayments(_ context.Context, filter PaymentFilter) ([]*PaymentTransaction, error) {
	if err := m.failure("ListPayments"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	payments := []*PaymentTransaction{}
	for _, p := range m.payments {
		if filter.AccountID != nil && (p.AccountID == nil || *p.AccountID != *filter.AccountID) {
			continue
		}
		if filter.IsReconciled != nil && p.IsReconciled != *filter.IsReconciled {
			continue
		}
		if filter.From != nil && p.PaymentDate.Before(*filter.From) {
			continue
		}
		if filter.To != nil && p.PaymentDate.After(*filter.To) {
			continue
		}
		c := *p
		payments = append(payments, &c)
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].PaymentDate.After(payments[j].PaymentDate) })
	return payments, nil
}

func (m *MockStore) GetPayment(_ context.Context, id string) (*PaymentTransaction, error) {
	if err := m.failure("GetPayment"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *p
	return &c, nil
}

// Suppliers and categories

func (m *MockStore) ListSuppliers(_ context.Context, filter SupplierFilter) ([]*Supplier, error) {
	if err := m.failure("ListSuppliers"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	suppliers := []*Supplier{}
	for _, s := range m.suppliers {
		if filter.IsActive != nil && s.IsActive != *filter.IsActive {
			continue
		}
		c := *s
		suppliers = append(suppliers, &c)
	}
	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].Name < suppliers[j].Name })
	return suppliers, nil
}

func (m *MockStore) GetSupplier(_ context.Context, id string) (*Supplier, error) {
	if err := m.failure("GetSupplier"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.suppliers[id]
	if !ok {
		return nil, ErrNotFound
	}
	c := *s
	return &c, nil
}

func (m *MockStore) ListCategories(_ context.Context) ([]*ExpenseCategory, error) {
	if err := m.failure("ListCategories"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	categories := []*ExpenseCategory{}
	for _, c := range m.categories {
		cp := *c
		categories = append(categories, &cp)
	}
	sort.Slice(categories, func(i, j int) bool { return categories[i].Name < categories[j].Name })
	return categories, nil
}

func (m *MockStore) GetCategory(_ context.Context, id string) (*ExpenseCategory, error) {
	if err := m.failure("GetCategory"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.categories[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *c
	return &cp, nil
}

// Attachments

func (m *MockStore) ListAttachmentsForEntity(_ context.Context, entityType, entityID string) ([]*Attachment, error) {
	if err := m.failure("ListAttachmentsForEntity"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	attachments := []*Attachment{}
	for _, a := range m.attachments {
		if a.EntityType != entityType || a.EntityID != entityID {
			continue
		}
		c := *a
		attachments = append(attachments, &c)
	}
	sort.Slice(attachments, func(i, j int) bool { return attachments[i].CreatedAt.After(attachments[j].CreatedAt) })
	return attachments, nil
}

// Search

func (m *MockStore) SearchNotes(_ context.Context, query string, limit int) ([]*Note, error) {
	if err := m.failure("SearchNotes"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	notes := []*Note{}
	for _, n := range m.notes {
		if containsFold(n.Title, query) || containsFold(n.Content, query) {
			c := *n
			notes = append(notes, &c)
		}
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].UpdatedAt.After(notes[j].UpdatedAt) })
	return capLimit(notes, limit), nil
}

func (m *MockStore) SearchClaims(_ context.Context, query string, limit int) ([]*WorkCoverClaim, error) {
	if err := m.failure("SearchClaims"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	claims := []*WorkCoverClaim{}
	for _, c := range m.claims {
		if containsFold(c.ClaimNumber, query) || containsFold(c.Description, query) {
			cp := *c
			claims = append(claims, &cp)
		}
	}
	sort.Slice(claims, func(i, j int) bool { return claims[i].UpdatedAt.After(claims[j].UpdatedAt) })
	return capLimit(claims, limit), nil
}

func (m *MockStore) SearchAgedCareExpenses(_ context.Context, query string, limit int) ([]*AgedCareExpense, error) {
	if err := m.failure("SearchAgedCareExpenses"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	expenses := []*AgedCareExpense{}
	for _, e := range m.expenses {
		if containsFold(e.Description, query) || ptrContainsFold(e.InvoiceNumber, query) {
			c := *e
			expenses = append(expenses, &c)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].UpdatedAt.After(expenses[j].UpdatedAt) })
	return capLimit(expenses, limit), nil
}

func (m *MockStore) SearchWorkCoverExpenses(_ context.Context, query string, limit int) ([]*WorkCoverExpense, error) {
	if err := m.failure("SearchWorkCoverExpenses"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	expenses := []*WorkCoverExpense{}
	for _, e := range m.wcExpenses {
		if containsFold(e.Description, query) || ptrContainsFold(e.InvoiceNumber, query) {
			c := *e
			expenses = append(expenses, &c)
		}
	}
	sort.Slice(expenses, func(i, j int) bool { return expenses[i].UpdatedAt.After(expenses[j].UpdatedAt) })
	return capLimit(expenses, limit), nil
}

func (m *MockStore) SearchPayments(_ context.Context, query string, limit int) ([]*PaymentTransaction, error) {
	if err := m.failure("SearchPayments"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	payments := []*PaymentTransaction{}
	for _, p := range m.payments {
		if containsFold(p.Description, query) || ptrContainsFold(p.Reference, query) {
			c := *p
			payments = append(payments, &c)
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].CreatedAt.After(payments[j].CreatedAt) })
	return capLimit(payments, limit), nil
}

func (m *MockStore) SearchAttachments(_ context.Context, query string, limit int) ([]*Attachment, error) {
	if err := m.failure("SearchAttachments"); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	attachments := []*Attachment{}
	for _, a := range m.attachments {
		if containsFold(a.FileName, query) || ptrContainsFold(a.ExtractedText, query) {
			c := *a
			attachments = append(attachments, &c)
		}
	}
	sort.Slice(attachments, func(i, j int) bool { return attachments[i].CreatedAt.After(attachments[j].CreatedAt) })
	return capLimit(attachments, limit), nil
}

func (m *MockStore) PurgeAccountData(_ context.Context, accountID string) error {
	if err := m.failure("PurgeAccountData"); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, e := range m.expenses {
		if e.AccountID == accountID {
			delete(m.expenses, id)
		}
	}
	for id, p := range m.payments {
		if p.AccountID != nil && *p.AccountID == accountID {
			delete(m.payments, id)
		}
	}
	for id, a := range m.attachments {
		if a.EntityType == "funding_account" && a.EntityID == accountID {
			delete(m.attachments, id)
		}
	}
	return nil
}

func (m *MockStore) Close() error { return nil }

var _ Store = (*MockStore)(nil)
