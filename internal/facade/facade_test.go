// ABOUTME: Tests for the facade operation groups against the mock store
// ABOUTME: Covers aggregations, absence semantics, and fan-out failure isolation

package facade

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog/carelog-gateway/internal/store"
)

func newTestFacade(t *testing.T) (*Facade, *store.MockStore) {
	t.Helper()
	mock := store.NewMockStore()
	return New(mock, slog.Default()), mock
}

func strPtr(s string) *string { return &s }

func seedExpense(mock *store.MockStore, id string, amount string, status string, category *string, date time.Time) {
	mock.AddExpense(&store.AgedCareExpense{
		ID:           id,
		AccountID:    "acct-1",
		Description:  "expense " + id,
		Amount:       decimal.RequireFromString(amount),
		Status:       status,
		CategoryName: category,
		ExpenseDate:  date,
		CreatedAt:    date,
		UpdatedAt:    date,
	})
}

func TestAgedCareExpensesGetTotal(t *testing.T) {
	f, mock := newTestFacade(t)
	now := time.Now()

	seedExpense(mock, "e1", "10", store.ExpenseStatusPaid, nil, now)
	seedExpense(mock, "e2", "20", store.ExpenseStatusPaid, nil, now)
	seedExpense(mock, "e3", "5", store.ExpenseStatusPending, nil, now)

	t.Run("sums only matching expenses", func(t *testing.T) {
		paid := store.ExpenseStatusPaid
		total, err := f.AgedCareExpenses.GetTotal(context.Background(), store.ExpenseFilter{Status: &paid})
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromInt(30)), "expected 30, got %s", total)
	})

	t.Run("zero rows yield zero", func(t *testing.T) {
		disputed := store.ExpenseStatusDisputed
		total, err := f.AgedCareExpenses.GetTotal(context.Background(), store.ExpenseFilter{Status: &disputed})
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})

	t.Run("cent amounts stay exact", func(t *testing.T) {
		f2, mock2 := newTestFacade(t)
		seedExpense(mock2, "c1", "0.10", store.ExpenseStatusPaid, nil, now)
		seedExpense(mock2, "c2", "0.20", store.ExpenseStatusPaid, nil, now)
		total, err := f2.AgedCareExpenses.GetTotal(context.Background(), store.ExpenseFilter{})
		require.NoError(t, err)
		assert.True(t, total.Equal(decimal.RequireFromString("0.30")), "expected 0.30, got %s", total)
	})
}

func TestAgedCareExpensesSumByCategory(t *testing.T) {
	f, mock := newTestFacade(t)
	now := time.Now()

	seedExpense(mock, "e1", "10", store.ExpenseStatusPaid, strPtr("A"), now)
	seedExpense(mock, "e2", "5", store.ExpenseStatusPaid, strPtr("A"), now)
	seedExpense(mock, "e3", "7", store.ExpenseStatusPaid, nil, now)

	spending, err := f.AgedCareExpenses.SumByCategory(context.Background(), store.ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, spending, 2)

	// Largest total first
	assert.Equal(t, "A", spending[0].CategoryName)
	assert.True(t, spending[0].TotalAmount.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, 2, spending[0].Count)

	assert.Equal(t, store.UncategorizedName, spending[1].CategoryName)
	assert.True(t, spending[1].TotalAmount.Equal(decimal.NewFromInt(7)))
	assert.Equal(t, 1, spending[1].Count)
}

func TestAgedCareExpensesCreateAndUpdate(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()

	created, err := f.AgedCareExpenses.Create(ctx, CreateExpenseParams{
		AccountID:   "acct-1",
		Description: "physio session",
		Amount:      decimal.RequireFromString("85.50"),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, store.ExpenseStatusPending, created.Status, "status defaults to pending")
	assert.False(t, created.ExpenseDate.IsZero())

	paid := store.ExpenseStatusPaid
	updated, err := f.AgedCareExpenses.Update(ctx, UpdateExpenseParams{
		ID:     created.ID,
		Status: &paid,
	})
	require.NoError(t, err)
	assert.Equal(t, store.ExpenseStatusPaid, updated.Status)
	assert.Equal(t, "physio session", updated.Description, "omitted fields unchanged")

	t.Run("create requires account_id", func(t *testing.T) {
		_, err := f.AgedCareExpenses.Create(ctx, CreateExpenseParams{Description: "x"})
		require.Error(t, err)
	})

	t.Run("update of unknown id fails", func(t *testing.T) {
		_, err := f.AgedCareExpenses.Update(ctx, UpdateExpenseParams{ID: "nope"})
		require.Error(t, err)
	})
}

func TestAgedCareAccountsAbsence(t *testing.T) {
	f, mock := newTestFacade(t)
	mock.AddAccount(&store.FundingAccount{ID: "a1", Name: "HCP Level 3", FundingType: store.FundingTypeHomeCarePackage, IsActive: true})

	account, err := f.AgedCareAccounts.GetByID(context.Background(), "a1")
	require.NoError(t, err)
	require.NotNil(t, account)

	// A missing id is an absence, not an error
	account, err = f.AgedCareAccounts.GetByID(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, account)
}

func TestWorkCoverClaimsFindByClaimNumber(t *testing.T) {
	f, mock := newTestFacade(t)
	mock.AddClaim(&store.WorkCoverClaim{
		ID:          "cl1",
		ClaimNumber: "WC-2024-001",
		Description: "shoulder injury",
		Status:      store.ClaimStatusOpen,
		CreatedAt:   time.Now(),
	})

	t.Run("substring match", func(t *testing.T) {
		claim, err := f.WorkCoverClaims.FindByClaimNumber(context.Background(), "WC-2024")
		require.NoError(t, err)
		require.NotNil(t, claim)
		assert.Equal(t, "WC-2024-001", claim.ClaimNumber)
	})

	t.Run("case-insensitive", func(t *testing.T) {
		claim, err := f.WorkCoverClaims.FindByClaimNumber(context.Background(), "wc-2024")
		require.NoError(t, err)
		require.NotNil(t, claim)
	})

	t.Run("no match is absence not error", func(t *testing.T) {
		claim, err := f.WorkCoverClaims.FindByClaimNumber(context.Background(), "WC-1999")
		require.NoError(t, err)
		assert.Nil(t, claim)
	})
}

func TestWorkCoverExpensesGetTotalGap(t *testing.T) {
	f, mock := newTestFacade(t)
	now := time.Now()

	mock.AddWorkCoverExpense(&store.WorkCoverExpense{
		ID: "w1", ClaimID: "cl1",
		AmountCharged: decimal.NewFromInt(100), AmountReimbursed: decimal.NewFromInt(80),
		GapAmount: decimal.NewFromInt(20), ExpenseDate: now, UpdatedAt: now,
	})
	mock.AddWorkCoverExpense(&store.WorkCoverExpense{
		ID: "w2", ClaimID: "cl1",
		AmountCharged: decimal.NewFromInt(50), AmountReimbursed: decimal.NewFromInt(45),
		GapAmount: decimal.RequireFromString("5.50"), ExpenseDate: now, UpdatedAt: now,
	})

	total, err := f.WorkCoverExpenses.GetTotalGap(context.Background(), store.WorkCoverExpenseFilter{})
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("25.50")), "expected 25.50, got %s", total)
}

func TestNotesListOrdering(t *testing.T) {
	f, mock := newTestFacade(t)
	base := time.Now()

	mock.AddNote(&store.Note{ID: "n1", Title: "old unpinned", UpdatedAt: base.Add(-2 * time.Hour)})
	mock.AddNote(&store.Note{ID: "n2", Title: "new unpinned", UpdatedAt: base})
	mock.AddNote(&store.Note{ID: "n3", Title: "old pinned", IsPinned: true, UpdatedAt: base.Add(-3 * time.Hour)})

	notes, err := f.Notes.List(context.Background(), store.NoteFilter{})
	require.NoError(t, err)
	require.Len(t, notes, 3)
	assert.Equal(t, "n3", notes[0].ID, "pinned notes come first")
	assert.Equal(t, "n2", notes[1].ID)
	assert.Equal(t, "n1", notes[2].ID)
}

func TestSearchAll(t *testing.T) {
	f, mock := newTestFacade(t)
	now := time.Now()

	mock.AddNote(&store.Note{ID: "n1", Title: "Medicare rebate", Content: "call about rebate", UpdatedAt: now})
	mock.AddClaim(&store.WorkCoverClaim{ID: "cl1", ClaimNumber: "WC-1", Description: "medicare dispute", CreatedAt: now, UpdatedAt: now})
	mock.AddPayment(&store.PaymentTransaction{ID: "p1", Description: "pharmacy", PaymentDate: now, CreatedAt: now})

	t.Run("matches across domains", func(t *testing.T) {
		results, err := f.Search.All(context.Background(), "medicare", nil, 0)
		require.NoError(t, err)
		assert.Len(t, results.Notes, 1)
		assert.Len(t, results.Claims, 1)
		assert.Empty(t, results.Payments)
		assert.Equal(t, 2, results.Total())
		assert.Empty(t, results.Errors)
	})

	t.Run("entity_types narrows the fan-out", func(t *testing.T) {
		results, err := f.Search.All(context.Background(), "medicare", []string{"notes"}, 0)
		require.NoError(t, err)
		assert.Len(t, results.Notes, 1)
		assert.Empty(t, results.Claims, "unrequested domains stay empty")
		assert.Equal(t, 1, results.Total())
	})

	t.Run("narrowed results serialize only the requested domains", func(t *testing.T) {
		results, err := f.Search.All(context.Background(), "medicare", []string{"notes", "claims"}, 0)
		require.NoError(t, err)

		raw, err := json.Marshal(results)
		require.NoError(t, err)
		var decoded map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(raw, &decoded))
		assert.Len(t, decoded, 2)
		require.Contains(t, decoded, "notes")
		require.Contains(t, decoded, "claims")
	})

	t.Run("unknown entity type is an error", func(t *testing.T) {
		_, err := f.Search.All(context.Background(), "medicare", []string{"invoices"}, 0)
		require.Error(t, err)
	})

	t.Run("every key present on empty store", func(t *testing.T) {
		f2, _ := newTestFacade(t)
		results, err := f2.Search.All(context.Background(), "", nil, 0)
		require.NoError(t, err)
		assert.NotNil(t, results.Notes)
		assert.NotNil(t, results.Claims)
		assert.NotNil(t, results.AgedCareExpenses)
		assert.NotNil(t, results.WorkCoverExpenses)
		assert.NotNil(t, results.Payments)
		assert.NotNil(t, results.Attachments)
		assert.Equal(t, 0, results.Total())
	})

	t.Run("failed domain degrades instead of failing", func(t *testing.T) {
		mock.Err = errors.New("connection reset")
		mock.FailOn = "SearchClaims"
		defer func() { mock.Err = nil; mock.FailOn = "" }()

		results, err := f.Search.All(context.Background(), "medicare", nil, 0)
		require.NoError(t, err)
		assert.Len(t, results.Notes, 1, "healthy domains still return")
		assert.Empty(t, results.Claims, "failed domain is empty")
		require.Contains(t, results.Errors, "claims")
		assert.Contains(t, results.Errors["claims"], "connection reset")
	})
}

func TestSearchLimit(t *testing.T) {
	f, mock := newTestFacade(t)
	now := time.Now()
	for i := 0; i < 15; i++ {
		mock.AddNote(&store.Note{
			ID:        string(rune('a' + i)),
			Title:     "budget note",
			UpdatedAt: now.Add(time.Duration(i) * time.Minute),
		})
	}

	results, err := f.Search.All(context.Background(), "budget", []string{"notes"}, 0)
	require.NoError(t, err)
	assert.Len(t, results.Notes, 10, "default per-domain cap is 10")

	results, err = f.Search.All(context.Background(), "budget", []string{"notes"}, 3)
	require.NoError(t, err)
	assert.Len(t, results.Notes, 3)
}

func TestAnalyticsSpendingByCategory(t *testing.T) {
	f, mock := newTestFacade(t)
	now := time.Now()

	seedExpense(mock, "e1", "100", store.ExpenseStatusPaid, strPtr("Nursing"), now)
	seedExpense(mock, "e2", "40", store.ExpenseStatusPaid, strPtr("Transport"), now)
	mock.AddClaim(&store.WorkCoverClaim{ID: "cl1", ClaimNumber: "WC-2024-001", CreatedAt: now, UpdatedAt: now})
	mock.AddWorkCoverExpense(&store.WorkCoverExpense{
		ID: "w1", ClaimID: "cl1",
		AmountCharged: decimal.NewFromInt(60), ExpenseDate: now, UpdatedAt: now,
	})

	t.Run("merges both branches", func(t *testing.T) {
		spending, partial, err := f.Analytics.SpendingByCategory(context.Background(), nil, nil)
		require.NoError(t, err)
		assert.Nil(t, partial)
		require.Len(t, spending, 3)
		assert.Equal(t, "Nursing", spending[0].CategoryName)
		assert.Equal(t, "WC-2024-001", spending[1].CategoryName)
		assert.True(t, spending[1].TotalAmount.Equal(decimal.NewFromInt(60)))
		assert.Equal(t, "Transport", spending[2].CategoryName)
	})

	t.Run("failed branch degrades with report", func(t *testing.T) {
		mock.Err = errors.New("timeout")
		mock.FailOn = "ListChargedByClaim"
		defer func() { mock.Err = nil; mock.FailOn = "" }()

		spending, partial, err := f.Analytics.SpendingByCategory(context.Background(), nil, nil)
		require.NoError(t, err)
		require.Len(t, spending, 2, "aged-care branch still contributes")
		require.Contains(t, partial, "workcover")
	})
}

func TestAttachmentsSearchDegrades(t *testing.T) {
	f, mock := newTestFacade(t)
	mock.AddAttachment(&store.Attachment{
		ID: "at1", EntityType: "note", EntityID: "n1",
		FileName: "invoice-march.pdf", CreatedAt: time.Now(),
	})

	attachments, partial, err := f.Attachments.Search(context.Background(), "invoice")
	require.NoError(t, err)
	assert.Nil(t, partial)
	assert.Len(t, attachments, 1)

	mock.Err = errors.New("pool exhausted")
	attachments, partial, err = f.Attachments.Search(context.Background(), "invoice")
	require.NoError(t, err, "store failure degrades, not errors")
	assert.Empty(t, attachments)
	require.Contains(t, partial, "attachments")
}
