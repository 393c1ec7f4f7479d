// Package store provides persistent storage for the gateway using PostgreSQL.
//
// # Architecture
//
// Access goes through the Store interface so that callers never depend on the
// concrete backend. Two implementations exist:
//
//   - PostgresStore: production backend on a pgxpool connection pool
//   - MockStore: in-memory implementation for unit tests
//
// The interface covers reads, a small set of writes (expenses and notes), the
// per-entity search methods behind the fan-out aggregator, and the grouped
// amount queries behind spending analytics.
//
// # Data Models
//
// Aged-care models:
//
//   - FundingAccount: Home Care Package and other funding sources
//   - AccountBalance: point-in-time balance snapshots per account
//   - AgedCareExpense: expenses with optional category join
//   - ExpenseCategory: expense classification
//
// WorkCover models:
//
//   - WorkCoverClaim: insurance claims with status lifecycle
//   - WorkCoverExpense: medical expenses with charged/reimbursed amounts
//   - ClaimSummary: derived totals for a single claim
//
// Supporting records:
//
//   - Note: free-text notes with tags and pinning
//   - CalendarEvent: appointments and reminders
//   - PaymentTransaction: payment history
//   - Supplier: care providers
//   - Attachment: uploaded files with extracted text
//
// # Money
//
// All monetary columns map to decimal.Decimal, never float64. Expense totals
// must sum to the cent.
//
// # Error Handling
//
// Single-record lookups return ErrNotFound when no row matches. List methods
// return empty slices, never nil. All methods accept context.Context.
//
// # Testing
//
// Use NewMockStore() for unit tests:
//
//	store := store.NewMockStore()
//	store.AddExpense(&store.AgedCareExpense{...})
//
// MockStore supports fault injection via the Err and FailOn fields to
// exercise degraded paths.
package store
