// ABOUTME: Tests for the in-memory store's administrative operations
// ABOUTME: Covers the bulk account purge and its failure path

package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPurgeAccountData(t *testing.T) {
	m := NewMockStore()
	ctx := context.Background()
	now := time.Now()

	m.AddExpense(&AgedCareExpense{ID: "e1", AccountID: "acct-1", Description: "Physio", Amount: decimal.NewFromInt(85), ExpenseDate: now})
	m.AddExpense(&AgedCareExpense{ID: "e2", AccountID: "acct-2", Description: "Cleaning", Amount: decimal.NewFromInt(40), ExpenseDate: now})
	m.AddPayment(&PaymentTransaction{ID: "p1", AccountID: strPtr("acct-1"), Description: "Invoice run", Amount: decimal.NewFromInt(85), PaymentDate: now})
	m.AddPayment(&PaymentTransaction{ID: "p2", AccountID: strPtr("acct-2"), Description: "Invoice run", Amount: decimal.NewFromInt(40), PaymentDate: now})
	m.AddAttachment(&Attachment{ID: "a1", EntityType: "funding_account", EntityID: "acct-1", FileName: "statement.pdf", CreatedAt: now})
	m.AddAttachment(&Attachment{ID: "a2", EntityType: "funding_account", EntityID: "acct-2", FileName: "statement.pdf", CreatedAt: now})

	require.NoError(t, m.PurgeAccountData(ctx, "acct-1"))

	expenses, err := m.ListAgedCareExpenses(ctx, ExpenseFilter{})
	require.NoError(t, err)
	require.Len(t, expenses, 1)
	assert.Equal(t, "acct-2", expenses[0].AccountID)

	payments, err := m.ListPayments(ctx, PaymentFilter{})
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "p2", payments[0].ID)

	purged, err := m.ListAttachmentsForEntity(ctx, "funding_account", "acct-1")
	require.NoError(t, err)
	assert.Empty(t, purged)

	kept, err := m.ListAttachmentsForEntity(ctx, "funding_account", "acct-2")
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestPurgeAccountDataFailure(t *testing.T) {
	m := NewMockStore()
	m.AddExpense(&AgedCareExpense{ID: "e1", AccountID: "acct-1", Description: "Physio", Amount: decimal.NewFromInt(85), ExpenseDate: time.Now()})
	m.Err = errors.New("permission denied")
	m.FailOn = "PurgeAccountData"

	err := m.PurgeAccountData(context.Background(), "acct-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permission denied")

	// A failed purge leaves the data in place
	m.Err = nil
	m.FailOn = ""
	expenses, err := m.ListAgedCareExpenses(context.Background(), ExpenseFilter{})
	require.NoError(t, err)
	assert.Len(t, expenses, 1)
}
