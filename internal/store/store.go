// ABOUTME: Store interface and record types for carelog-gateway data access
// ABOUTME: Defines the domain shapes the AI caller depends on and the relational query contract

package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// Funding type constants for funding accounts
const (
	FundingTypeHomeCarePackage = "home_care_package"
	FundingTypeSupportAtHome   = "support_at_home"
	FundingTypeOther           = "other"
)

// Aged-care expense status constants
const (
	ExpenseStatusPending    = "pending"
	ExpenseStatusPaid       = "paid"
	ExpenseStatusDisputed   = "disputed"
	ExpenseStatusWrittenOff = "written_off"
)

// WorkCover claim status constants
const (
	ClaimStatusOpen        = "open"
	ClaimStatusClosed      = "closed"
	ClaimStatusUnderReview = "under_review"
)

// UncategorizedName is the grouping key used when an expense has no category.
const UncategorizedName = "Uncategorized"

// FundingAccount is an aged-care funding account (HCP, Support at Home, or other).
type FundingAccount struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	FundingType string    `json:"funding_type"`
	Level       *int      `json:"level"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AccountBalance is a funding account with its store-computed running totals.
// The totals are derived columns; the gateway reads them verbatim and never
// recomputes them.
type AccountBalance struct {
	FundingAccount
	TotalAllocated decimal.Decimal `json:"total_allocated"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	CurrentBalance decimal.Decimal `json:"current_balance"`
	PendingAmount  decimal.Decimal `json:"pending_amount"`
	PaidAmount     decimal.Decimal `json:"paid_amount"`
}

// AgedCareExpense is a single expense against a funding account.
type AgedCareExpense struct {
	ID            string          `json:"id"`
	AccountID     string          `json:"account_id"`
	SupplierID    *string         `json:"supplier_id"`
	CategoryID    *string         `json:"category_id"`
	CategoryName  *string         `json:"category_name"` // joined from expense_categories
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	ExpenseDate   time.Time       `json:"expense_date"`
	InvoiceNumber *string         `json:"invoice_number"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// WorkCoverClaim is a WorkCover claim owning zero or more expenses.
type WorkCoverClaim struct {
	ID          string     `json:"id"`
	ClaimNumber string     `json:"claim_number"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	InjuryDate  *time.Time `json:"injury_date"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ClaimSummary is a claim with store-computed expense totals.
type ClaimSummary struct {
	WorkCoverClaim
	ExpenseCount    int             `json:"expense_count"`
	TotalCharged    decimal.Decimal `json:"total_charged"`
	TotalClaimed    decimal.Decimal `json:"total_claimed"`
	TotalReimbursed decimal.Decimal `json:"total_reimbursed"`
	TotalGap        decimal.Decimal `json:"total_gap"`
}

// WorkCoverExpense is an expense under a WorkCover claim. GapAmount is a
// derived column (charged minus reimbursed) owned by the store.
type WorkCoverExpense struct {
	ID               string          `json:"id"`
	ClaimID          string          `json:"claim_id"`
	Description      string          `json:"description"`
	AmountCharged    decimal.Decimal `json:"amount_charged"`
	AmountClaimed    decimal.Decimal `json:"amount_claimed"`
	AmountReimbursed decimal.Decimal `json:"amount_reimbursed"`
	GapAmount        decimal.Decimal `json:"gap_amount"`
	Status           string          `json:"status"`
	ExpenseDate      time.Time       `json:"expense_date"`
	InvoiceNumber    *string         `json:"invoice_number"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// Note is a free-text record. Tags comes from the tag-association join and is
// never nil.
type Note struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Category   *string   `json:"category"`
	IsPinned   bool      `json:"is_pinned"`
	IsArchived bool      `json:"is_archived"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CalendarEvent is an appointment or reminder.
type CalendarEvent struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	EventDate   time.Time `json:"event_date"`
	StartTime   *string   `json:"start_time"`
	EndTime     *string   `json:"end_time"`
	Location    *string   `json:"location"`
	CreatedAt   time.Time `json:"created_at"`
}

// PaymentTransaction is a payment made from a funding account.
type PaymentTransaction struct {
	ID           string          `json:"id"`
	AccountID    *string         `json:"account_id"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"`
	PaymentDate  time.Time       `json:"payment_date"`
	Reference    *string         `json:"reference"`
	IsReconciled bool            `json:"is_reconciled"`
	CreatedAt    time.Time       `json:"created_at"`
}

// Supplier is a care or service provider.
type Supplier struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	ABN          *string   `json:"abn"`
	ContactEmail *string   `json:"contact_email"`
	ContactPhone *string   `json:"contact_phone"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// ExpenseCategory classifies aged-care expenses.
type ExpenseCategory struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// Attachment is a file linked to an entity via (entity_type, entity_id).
type Attachment struct {
	ID            string    `json:"id"`
	EntityType    string    `json:"entity_type"`
	EntityID      string    `json:"entity_id"`
	FileName      string    `json:"file_name"`
	ContentType   *string   `json:"content_type"`
	ExtractedText *string   `json:"extracted_text"`
	CreatedAt     time.Time `json:"created_at"`
}

// AmountWithName is the narrowed projection used for client-side spending
// aggregation: one amount plus the joined grouping name, if any.
type AmountWithName struct {
	Amount decimal.Decimal
	Name   *string
}

// AccountFilter narrows funding account lists. Nil fields impose no constraint.
type AccountFilter struct {
	FundingType *string `json:"funding_type"`
	IsActive    *bool   `json:"is_active"`
}

// ExpenseFilter narrows aged-care expense lists. From/To are inclusive bounds
// on expense_date.
type ExpenseFilter struct {
	AccountID  *string    `json:"account_id"`
	Status     *string    `json:"status"`
	CategoryID *string    `json:"category_id"`
	SupplierID *string    `json:"supplier_id"`
	From       *time.Time `json:"from"`
	To         *time.Time `json:"to"`
}

// ClaimFilter narrows WorkCover claim lists.
type ClaimFilter struct {
	Status *string `json:"status"`
}

// WorkCoverExpenseFilter narrows WorkCover expense lists.
type WorkCoverExpenseFilter struct {
	ClaimID *string    `json:"claim_id"`
	Status  *string    `json:"status"`
	From    *time.Time `json:"from"`
	To      *time.Time `json:"to"`
}

// NoteFilter narrows note lists.
type NoteFilter struct {
	Category   *string `json:"category"`
	IsPinned   *bool   `json:"is_pinned"`
	IsArchived *bool   `json:"is_archived"`
}

// EventFilter narrows calendar event lists by inclusive date bounds.
type EventFilter struct {
	From *time.Time `json:"from"`
	To   *time.Time `json:"to"`
}

// PaymentFilter narrows payment lists.
type PaymentFilter struct {
	AccountID    *string    `json:"account_id"`
	IsReconciled *bool      `json:"is_reconciled"`
	From         *time.Time `json:"from"`
	To           *time.Time `json:"to"`
}

// SupplierFilter narrows supplier lists.
type SupplierFilter struct {
	IsActive *bool `json:"is_active"`
}

// Store is the generic relational query contract the facade depends on.
// Every list method returns an empty slice (never nil) on zero rows; every
// single-entity lookup returns ErrNotFound rather than a nil row.
type Store interface {
	// Funding accounts
	ListAccounts(ctx context.Context, filter AccountFilter) ([]*FundingAccount, error)
	GetAccount(ctx context.Context, id string) (*FundingAccount, error)
	GetAccountBalance(ctx context.Context, id string) (*AccountBalance, error)
	ListAccountBalances(ctx context.Context) ([]*AccountBalance, error)

	// Aged-care expenses
	ListAgedCareExpenses(ctx context.Context, filter ExpenseFilter) ([]*AgedCareExpense, error)
	GetAgedCareExpense(ctx context.Context, id string) (*AgedCareExpense, error)
	CreateAgedCareExpense(ctx context.Context, expense *AgedCareExpense) error
	UpdateAgedCareExpense(ctx context.Context, expense *AgedCareExpense) error
	ListExpenseAmounts(ctx context.Context, filter ExpenseFilter) ([]AmountWithName, error)

	// WorkCover claims and expenses
	ListClaims(ctx context.Context, filter ClaimFilter) ([]*WorkCoverClaim, error)
	GetClaim(ctx context.Context, id string) (*WorkCoverClaim, error)
	FindClaimByNumber(ctx context.Context, claimNumber string) (*WorkCoverClaim, error)
	GetClaimSummary(ctx context.Context, id string) (*ClaimSummary, error)
	ListWorkCoverExpenses(ctx context.Context, filter WorkCoverExpenseFilter) ([]*WorkCoverExpense, error)
	GetWorkCoverExpense(ctx context.Context, id string) (*WorkCoverExpense, error)
	ListGapAmounts(ctx context.Context, filter WorkCoverExpenseFilter) ([]decimal.Decimal, error)
	ListChargedByClaim(ctx context.Context, filter WorkCoverExpenseFilter) ([]AmountWithName, error)

	// Notes
	ListNotes(ctx context.Context, filter NoteFilter) ([]*Note, error)
	GetNote(ctx context.Context, id string) (*Note, error)
	CreateNote(ctx context.Context, note *Note) error
	UpdateNote(ctx context.Context, note *Note) error

	// Calendar
	ListEvents(ctx context.Context, filter EventFilter) ([]*CalendarEvent, error)
	GetEvent(ctx context.Context, id string) (*CalendarEvent, error)

	// Payments
	ListPayments(ctx context.Context, filter PaymentFilter) ([]*PaymentTransaction, error)
	GetPayment(ctx context.Context, id string) (*PaymentTransaction, error)

	// Suppliers and categories
	ListSuppliers(ctx context.Context, filter SupplierFilter) ([]*Supplier, error)
	GetSupplier(ctx context.Context, id string) (*Supplier, error)
	ListCategories(ctx context.Context) ([]*ExpenseCategory, error)
	GetCategory(ctx context.Context, id string) (*ExpenseCategory, error)

	// Attachments
	ListAttachmentsForEntity(ctx context.Context, entityType, entityID string) ([]*Attachment, error)

	// Case-insensitive substring search, one method per domain. The matched
	// column set per domain is contractual: notes(title, content),
	// claims(claim_number, description), aged-care and workcover expenses
	// (description, invoice_number), payments(description, reference),
	// attachments(file_name, extracted_text).
	SearchNotes(ctx context.Context, query string, limit int) ([]*Note, error)
	SearchClaims(ctx context.Context, query string, limit int) ([]*WorkCoverClaim, error)
	SearchAgedCareExpenses(ctx context.Context, query string, limit int) ([]*AgedCareExpense, error)
	SearchWorkCoverExpenses(ctx context.Context, query string, limit int) ([]*WorkCoverExpense, error)
	SearchPayments(ctx context.Context, query string, limit int) ([]*PaymentTransaction, error)
	SearchAttachments(ctx context.Context, query string, limit int) ([]*Attachment, error)

	// PurgeAccountData is the bulk administrative delete: removes an account's
	// expenses, payments, and attachments in one server-side call.
	PurgeAccountData(ctx context.Context, accountID string) error

	// Close releases any resources held by the store
	Close() error
}
