// ABOUTME: Postgres implementation of the Store interface using jackc/pgx
// ABOUTME: Translates optional filters into equality/range/ILIKE predicates with fixed per-domain ordering

package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PostgresStore implements the Store interface against the hosted Postgres
// database. It holds a process-wide connection pool and no other state.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewPostgresStore connects to the database at url using the supplied
// credential and verifies the connection with a ping.
func NewPostgresStore(ctx context.Context, url, password string, logger *slog.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "store")

	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	if password != "" {
		cfg.ConnConfig.Password = password
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.Info("postgres store initialized", "host", cfg.ConnConfig.Host)
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// whereBuilder accumulates predicates and positional arguments for a query.
type whereBuilder struct {
	conds []string
	args  []any
}

// add appends a predicate; expr must contain exactly one %d verb for the
// argument position.
func (w *whereBuilder) add(expr string, arg any) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(expr, len(w.args)))
}

// clause renders the accumulated predicates as a WHERE clause, or an empty
// string when no predicate was added.
func (w *whereBuilder) clause() string {
	if len(w.conds) == 0 {
		return ""
	}
	out := " WHERE " + w.conds[0]
	for _, c := range w.conds[1:] {
		out += " AND " + c
	}
	return out
}

// Funding accounts

const accountColumns = "id, name, funding_type, level, is_active, created_at, updated_at"

func (s *PostgresStore) ListAccounts(ctx context.Context, filter AccountFilter) ([]*FundingAccount, error) {
	var w whereBuilder
	if filter.FundingType != nil {
		w.add("funding_type = $%d", *filter.FundingType)
	}
	if filter.IsActive != nil {
		w.add("is_active = $%d", *filter.IsActive)
	}

	query := "SELECT " + accountColumns + " FROM funding_accounts" + w.clause() + " ORDER BY name ASC"
	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying accounts: %w", err)
	}
	defer rows.Close()

	accounts := []*FundingAccount{}
	for rows.Next() {
		var a FundingAccount
		if err := rows.Scan(&a.ID, &a.Name, &a.FundingType, &a.Level, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning account: %w", err)
		}
		accounts = append(accounts, &a)
	}
	return accounts, rows.Err()
}

func (s *PostgresStore) GetAccount(ctx context.Context, id string) (*FundingAccount, error) {
	query := "SELECT " + accountColumns + " FROM funding_accounts WHERE id = $1"

	var a FundingAccount
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.Name, &a.FundingType, &a.Level, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying account: %w", err)
	}
	return &a, nil
}

// balanceQuery reads the store-computed totals from the account_balances view.
// The totals are derived columns; they are never recomputed here.
const balanceQuery = `
	SELECT id, name, funding_type, level, is_active, created_at, updated_at,
	       total_allocated, total_expenses, current_balance, pending_amount, paid_amount
	FROM account_balances
`

func scanBalance(row pgx.Row) (*AccountBalance, error) {
	var b AccountBalance
	err := row.Scan(
		&b.ID, &b.Name, &b.FundingType, &b.Level, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
		&b.TotalAllocated, &b.TotalExpenses, &b.CurrentBalance, &b.PendingAmount, &b.PaidAmount,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *PostgresStore) GetAccountBalance(ctx context.Context, id string) (*AccountBalance, error) {
	b, err := scanBalance(s.pool.QueryRow(ctx, balanceQuery+" WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying account balance: %w", err)
	}
	return b, nil
}

func (s *PostgresStore) ListAccountBalances(ctx context.Context) ([]*AccountBalance, error) {
	rows, err := s.pool.Query(ctx, balanceQuery+" ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("querying account balances: %w", err)
	}
	defer rows.Close()

	balances := []*AccountBalance{}
	for rows.Next() {
		b, err := scanBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning account balance: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// Aged-care expenses

const agedCareExpenseColumns = `
	e.id, e.account_id, e.supplier_id, e.category_id, c.name,
	e.description, e.amount, e.status, e.expense_date, e.invoice_number,
	e.created_at, e.updated_at
`

const agedCareExpenseFrom = `
	FROM aged_care_expenses e
	LEFT JOIN expense_categories c ON c.id = e.category_id
`

func scanAgedCareExpense(row pgx.Row) (*AgedCareExpense, error) {
	var e AgedCareExpense
	err := row.Scan(
		&e.ID, &e.AccountID, &e.SupplierID, &e.CategoryID, &e.CategoryName,
		&e.Description, &e.Amount, &e.Status, &e.ExpenseDate, &e.InvoiceNumber,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func expenseWhere(filter ExpenseFilter) whereBuilder {
	var w whereBuilder
	if filter.AccountID != nil {
		w.add("e.account_id = $%d", *filter.AccountID)
	}
	if filter.Status != nil {
		w.add("e.status = $%d", *filter.Status)
	}
	if filter.CategoryID != nil {
		w.add("e.category_id = $%d", *filter.CategoryID)
	}
	if filter.SupplierID != nil {
		w.add("e.supplier_id = $%d", *filter.SupplierID)
	}
	if filter.From != nil {
		w.add("e.expense_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		w.add("e.expense_date <= $%d", *filter.To)
	}
	return w
}

func (s *PostgresStore) ListAgedCareExpenses(ctx context.Context, filter ExpenseFilter) ([]*AgedCareExpense, error) {
	w := expenseWhere(filter)
	query := "SELECT " + agedCareExpenseColumns + agedCareExpenseFrom + w.clause() + " ORDER BY e.expense_date DESC"

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying aged care expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*AgedCareExpense{}
	for rows.Next() {
		e, err := scanAgedCareExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning aged care expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *PostgresStore) GetAgedCareExpense(ctx context.Context, id string) (*AgedCareExpense, error) {
	query := "SELECT " + agedCareExpenseColumns + agedCareExpenseFrom + " WHERE e.id = $1"
	e, err := scanAgedCareExpense(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying aged care expense: %w", err)
	}
	return e, nil
}

func (s *PostgresStore) CreateAgedCareExpense(ctx context.Context, expense *AgedCareExpense) error {
	query := `
		INSERT INTO aged_care_expenses
			(id, account_id, supplier_id, category_id, description, amount, status,
			 expense_date, invoice_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.pool.Exec(ctx, query,
		expense.ID, expense.AccountID, expense.SupplierID, expense.CategoryID,
		expense.Description, expense.Amount, expense.Status,
		expense.ExpenseDate, expense.InvoiceNumber, expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting aged care expense: %w", err)
	}
	s.logger.Debug("created aged care expense", "id", expense.ID, "account_id", expense.AccountID)
	return nil
}

func (s *PostgresStore) UpdateAgedCareExpense(ctx context.Context, expense *AgedCareExpense) error {
	query := `
		UPDATE aged_care_expenses
		SET supplier_id = $2, category_id = $3, description = $4, amount = $5,
		    status = $6, expense_date = $7, invoice_number = $8, updated_at = $9
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query,
		expense.ID, expense.SupplierID, expense.CategoryID, expense.Description,
		expense.Amount, expense.Status, expense.ExpenseDate, expense.InvoiceNumber,
		expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating aged care expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListExpenseAmounts fetches the narrowed amount+category projection used for
// client-side spending aggregation.
func (s *PostgresStore) ListExpenseAmounts(ctx context.Context, filter ExpenseFilter) ([]AmountWithName, error) {
	w := expenseWhere(filter)
	query := "SELECT e.amount, c.name" + agedCareExpenseFrom + w.clause()

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying expense amounts: %w", err)
	}
	defer rows.Close()

	amounts := []AmountWithName{}
	for rows.Next() {
		var a AmountWithName
		if err := rows.Scan(&a.Amount, &a.Name); err != nil {
			return nil, fmt.Errorf("scanning expense amount: %w", err)
		}
		amounts = append(amounts, a)
	}
	return amounts, rows.Err()
}

// WorkCover claims

const claimColumns = "id, claim_number, description, status, injury_date, created_at, updated_at"

func scanClaim(row pgx.Row) (*WorkCoverClaim, error) {
	var c WorkCoverClaim
	err := row.Scan(&c.ID, &c.ClaimNumber, &c.Description, &c.Status, &c.InjuryDate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) ListClaims(ctx context.Context, filter ClaimFilter) ([]*WorkCoverClaim, error) {
	var w whereBuilder
	if filter.Status != nil {
		w.add("status = $%d", *filter.Status)
	}
	query := "SELECT " + claimColumns + " FROM workcover_claims" + w.clause() + " ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying claims: %w", err)
	}
	defer rows.Close()

	claims := []*WorkCoverClaim{}
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

func (s *PostgresStore) GetClaim(ctx context.Context, id string) (*WorkCoverClaim, error) {
	c, err := scanClaim(s.pool.QueryRow(ctx, "SELECT "+claimColumns+" FROM workcover_claims WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying claim: %w", err)
	}
	return c, nil
}

// FindClaimByNumber does a case-insensitive substring match on claim_number.
// Returns ErrNotFound on the no-rows signal; any other failure propagates.
func (s *PostgresStore) FindClaimByNumber(ctx context.Context, claimNumber string) (*WorkCoverClaim, error) {
	query := "SELECT " + claimColumns + ` FROM workcover_claims WHERE claim_number ILIKE $1 ORDER BY created_at DESC LIMIT 1`
	c, err := scanClaim(s.pool.QueryRow(ctx, query, "%"+claimNumber+"%"))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying claim by number: %w", err)
	}
	return c, nil
}

// GetClaimSummary reads the claim with its store-computed expense totals.
func (s *PostgresStore) GetClaimSummary(ctx context.Context, id string) (*ClaimSummary, error) {
	query := `
		SELECT c.id, c.claim_number, c.description, c.status, c.injury_date, c.created_at, c.updated_at,
		       COUNT(e.id),
		       COALESCE(SUM(e.amount_charged), 0),
		       COALESCE(SUM(e.amount_claimed), 0),
		       COALESCE(SUM(e.amount_reimbursed), 0),
		       COALESCE(SUM(e.gap_amount), 0)
		FROM workcover_claims c
		LEFT JOIN workcover_expenses e ON e.claim_id = c.id
		WHERE c.id = $1
		GROUP BY c.id
	`
	var sum ClaimSummary
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&sum.ID, &sum.ClaimNumber, &sum.Description, &sum.Status, &sum.InjuryDate, &sum.CreatedAt, &sum.UpdatedAt,
		&sum.ExpenseCount, &sum.TotalCharged, &sum.TotalClaimed, &sum.TotalReimbursed, &sum.TotalGap,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying claim summary: %w", err)
	}
	return &sum, nil
}

// WorkCover expenses

const workcoverExpenseColumns = `
	id, claim_id, description, amount_charged, amount_claimed, amount_reimbursed,
	gap_amount, status, expense_date, invoice_number, created_at, updated_at
`

func scanWorkCoverExpense(row pgx.Row) (*WorkCoverExpense, error) {
	var e WorkCoverExpense
	err := row.Scan(
		&e.ID, &e.ClaimID, &e.Description, &e.AmountCharged, &e.AmountClaimed, &e.AmountReimbursed,
		&e.GapAmount, &e.Status, &e.ExpenseDate, &e.InvoiceNumber, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func workcoverExpenseWhere(filter WorkCoverExpenseFilter) whereBuilder {
	var w whereBuilder
	if filter.ClaimID != nil {
		w.add("e.claim_id = $%d", *filter.ClaimID)
	}
	if filter.Status != nil {
		w.add("e.status = $%d", *filter.Status)
	}
	if filter.From != nil {
		w.add("e.expense_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		w.add("e.expense_date <= $%d", *filter.To)
	}
	return w
}

func (s *PostgresStore) ListWorkCoverExpenses(ctx context.Context, filter WorkCoverExpenseFilter) ([]*WorkCoverExpense, error) {
	w := workcoverExpenseWhere(filter)
	query := "SELECT " + workcoverExpenseColumns + " FROM workcover_expenses e" + w.clause() + " ORDER BY e.expense_date DESC"

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying workcover expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*WorkCoverExpense{}
	for rows.Next() {
		e, err := scanWorkCoverExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workcover expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *PostgresStore) GetWorkCoverExpense(ctx context.Context, id string) (*WorkCoverExpense, error) {
	query := "SELECT " + workcoverExpenseColumns + " FROM workcover_expenses e WHERE e.id = $1"
	e, err := scanWorkCoverExpense(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying workcover expense: %w", err)
	}
	return e, nil
}

// ListGapAmounts fetches gap amounts only; the gap column is store-derived.
func (s *PostgresStore) ListGapAmounts(ctx context.Context, filter WorkCoverExpenseFilter) ([]decimal.Decimal, error) {
	w := workcoverExpenseWhere(filter)
	query := "SELECT e.gap_amount FROM workcover_expenses e" + w.clause()

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying gap amounts: %w", err)
	}
	defer rows.Close()

	gaps := []decimal.Decimal{}
	for rows.Next() {
		var g decimal.Decimal
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("scanning gap amount: %w", err)
		}
		gaps = append(gaps, g)
	}
	return gaps, rows.Err()
}

// ListChargedByClaim fetches charged amounts paired with their owning claim
// number, for the combined spending rollup.
func (s *PostgresStore) ListChargedByClaim(ctx context.Context, filter WorkCoverExpenseFilter) ([]AmountWithName, error) {
	w := workcoverExpenseWhere(filter)
	query := `
		SELECT e.amount_charged, c.claim_number
		FROM workcover_expenses e
		JOIN workcover_claims c ON c.id = e.claim_id
	` + w.clause()

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying charged amounts: %w", err)
	}
	defer rows.Close()

	amounts := []AmountWithName{}
	for rows.Next() {
		var a AmountWithName
		if err := rows.Scan(&a.Amount, &a.Name); err != nil {
			return nil, fmt.Errorf("scanning charged amount: %w", err)
		}
		amounts = append(amounts, a)
	}
	return amounts, rows.Err()
}

// Notes

// noteColumns aggregates tags from the association table so Tags is always a
// (possibly empty) list.
const noteColumns = `
	n.id, n.title, n.content, n.category, n.is_pinned, n.is_archived,
	COALESCE(array_agg(t.name ORDER BY t.name) FILTER (WHERE t.name IS NOT NULL), '{}'),
	n.created_at, n.updated_at
`

const noteFrom = `
	FROM notes n
	LEFT JOIN note_tags nt ON nt.note_id = n.id
	LEFT JOIN tags t ON t.id = nt.tag_id
`

func scanNote(row pgx.Row) (*Note, error) {
	var n Note
	err := row.Scan(
		&n.ID, &n.Title, &n.Content, &n.Category, &n.IsPinned, &n.IsArchived,
		&n.Tags, &n.CreatedAt, &n.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return &n, nil
}

func (s *PostgresStore) ListNotes(ctx context.Context, filter NoteFilter) ([]*Note, error) {
	var w whereBuilder
	if filter.Category != nil {
		w.add("n.category = $%d", *filter.Category)
	}
	if filter.IsPinned != nil {
		w.add("n.is_pinned = $%d", *filter.IsPinned)
	}
	if filter.IsArchived != nil {
		w.add("n.is_archived = $%d", *filter.IsArchived)
	}

	// Pinned notes first, then most recently updated.
	query := "SELECT " + noteColumns + noteFrom + w.clause() +
		" GROUP BY n.id ORDER BY n.is_pinned DESC, n.updated_at DESC"

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying notes: %w", err)
	}
	defer rows.Close()

	notes := []*Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *PostgresStore) GetNote(ctx context.Context, id string) (*Note, error) {
	query := "SELECT " + noteColumns + noteFrom + " WHERE n.id = $1 GROUP BY n.id"
	n, err := scanNote(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying note: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CreateNote(ctx context.Context, note *Note) error {
	query := `
		INSERT INTO notes (id, title, content, category, is_pinned, is_archived, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.pool.Exec(ctx, query,
		note.ID, note.Title, note.Content, note.Category,
		note.IsPinned, note.IsArchived, note.CreatedAt, note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting note: %w", err)
	}
	s.logger.Debug("created note", "id", note.ID)
	return nil
}

func (s *PostgresStore) UpdateNote(ctx context.Context, note *Note) error {
	query := `
		UPDATE notes
		SET title = $2, content = $3, category = $4, is_pinned = $5, is_archived = $6, updated_at = $7
		WHERE id = $1
	`
	tag, err := s.pool.Exec(ctx, query,
		note.ID, note.Title, note.Content, note.Category,
		note.IsPinned, note.IsArchived, note.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Calendar

const eventColumns = "id, title, description, event_date, start_time, end_time, location, created_at"

func (s *PostgresStore) ListEvents(ctx context.Context, filter EventFilter) ([]*CalendarEvent, error) {
	var w whereBuilder
	if filter.From != nil {
		w.add("event_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		w.add("event_date <= $%d", *filter.To)
	}
	query := "SELECT " + eventColumns + " FROM calendar_events" + w.clause() + " ORDER BY event_date ASC"

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying calendar events: %w", err)
	}
	defer rows.Close()

	events := []*CalendarEvent{}
	for rows.Next() {
		var e CalendarEvent
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.StartTime, &e.EndTime, &e.Location, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning calendar event: %w", err)
		}
		events = append(events, &e)
	}
	return events, rows.Err()
}

func (s *PostgresStore) GetEvent(ctx context.Context, id string) (*CalendarEvent, error) {
	var e CalendarEvent
	err := s.pool.QueryRow(ctx, "SELECT "+eventColumns+" FROM calendar_events WHERE id = $1", id).Scan(
		&e.ID, &e.Title, &e.Description, &e.EventDate, &e.StartTime, &e.EndTime, &e.Location, &e.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying calendar event: %w", err)
	}
	return &e, nil
}

// Payments

const paymentColumns = "id, account_id, description, amount, payment_date, reference, is_reconciled, created_at"

func scanPayment(row pgx.Row) (*PaymentTransaction, error) {
	var p PaymentTransaction
	err := row.Scan(&p.ID, &p.AccountID, &p.Description, &p.Amount, &p.PaymentDate, &p.Reference, &p.IsReconciled, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) ListPayments(ctx context.Context, filter PaymentFilter) ([]*PaymentTransaction, error) {
	var w whereBuilder
	if filter.AccountID != nil {
		w.add("account_id = $%d", *filter.AccountID)
	}
	if filter.IsReconciled != nil {
		w.add("is_reconciled = $%d", *filter.IsReconciled)
	}
	if filter.From != nil {
		w.add("payment_date >= $%d", *filter.From)
	}
	if filter.To != nil {
		w.add("payment_date <= $%d", *filter.To)
	}
	query := "SELECT " + paymentColumns + " FROM payment_transactions" + w.clause() + " ORDER BY payment_date DESC"

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying payments: %w", err)
	}
	defer rows.Close()

	payments := []*PaymentTransaction{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *PostgresStore) GetPayment(ctx context.Context, id string) (*PaymentTransaction, error) {
	p, err := scanPayment(s.pool.QueryRow(ctx, "SELECT "+paymentColumns+" FROM payment_transactions WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying payment: %w", err)
	}
	return p, nil
}

// Suppliers and categories

const supplierColumns = "id, name, abn, contact_email, contact_phone, is_active, created_at"

func (s *PostgresStore) ListSuppliers(ctx context.Context, filter SupplierFilter) ([]*Supplier, error) {
	var w whereBuilder
	if filter.IsActive != nil {
		w.add("is_active = $%d", *filter.IsActive)
	}
	query := "SELECT " + supplierColumns + " FROM suppliers" + w.clause() + " ORDER BY name ASC"

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("querying suppliers: %w", err)
	}
	defer rows.Close()

	suppliers := []*Supplier{}
	for rows.Next() {
		var sp Supplier
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.ABN, &sp.ContactEmail, &sp.ContactPhone, &sp.IsActive, &sp.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning supplier: %w", err)
		}
		suppliers = append(suppliers, &sp)
	}
	return suppliers, rows.Err()
}

func (s *PostgresStore) GetSupplier(ctx context.Context, id string) (*Supplier, error) {
	var sp Supplier
	err := s.pool.QueryRow(ctx, "SELECT "+supplierColumns+" FROM suppliers WHERE id = $1", id).Scan(
		&sp.ID, &sp.Name, &sp.ABN, &sp.ContactEmail, &sp.ContactPhone, &sp.IsActive, &sp.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying supplier: %w", err)
	}
	return &sp, nil
}

func (s *PostgresStore) ListCategories(ctx context.Context) ([]*ExpenseCategory, error) {
	rows, err := s.pool.Query(ctx, "SELECT id, name, description, created_at FROM expense_categories ORDER BY name ASC")
	if err != nil {
		return nil, fmt.Errorf("querying categories: %w", err)
	}
	defer rows.Close()

	categories := []*ExpenseCategory{}
	for rows.Next() {
		var c ExpenseCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (s *PostgresStore) GetCategory(ctx context.Context, id string) (*ExpenseCategory, error) {
	var c ExpenseCategory
	err := s.pool.QueryRow(ctx, "SELECT id, name, description, created_at FROM expense_categories WHERE id = $1", id).Scan(
		&c.ID, &c.Name, &c.Description, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying category: %w", err)
	}
	return &c, nil
}

// Attachments

const attachmentColumns = "id, entity_type, entity_id, file_name, content_type, extracted_text, created_at"

func scanAttachment(row pgx.Row) (*Attachment, error) {
	var a Attachment
	err := row.Scan(&a.ID, &a.EntityType, &a.EntityID, &a.FileName, &a.ContentType, &a.ExtractedText, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *PostgresStore) ListAttachmentsForEntity(ctx context.Context, entityType, entityID string) ([]*Attachment, error) {
	query := "SELECT " + attachmentColumns + " FROM attachments WHERE entity_type = $1 AND entity_id = $2 ORDER BY created_at DESC"

	rows, err := s.pool.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("querying attachments: %w", err)
	}
	defer rows.Close()

	attachments := []*Attachment{}
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

// Search queries. Each matches the fixed column set for its domain with
// ILIKE substring predicates; ordering is the store default (recency).

func (s *PostgresStore) SearchNotes(ctx context.Context, query string, limit int) ([]*Note, error) {
	q := "SELECT " + noteColumns + noteFrom +
		" WHERE n.title ILIKE $1 OR n.content ILIKE $1 GROUP BY n.id ORDER BY n.updated_at DESC LIMIT $2"

	rows, err := s.pool.Query(ctx, q, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("searching notes: %w", err)
	}
	defer rows.Close()

	notes := []*Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning note: %w", err)
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (s *PostgresStore) SearchClaims(ctx context.Context, query string, limit int) ([]*WorkCoverClaim, error) {
	q := "SELECT " + claimColumns + ` FROM workcover_claims
		WHERE claim_number ILIKE $1 OR description ILIKE $1
		ORDER BY updated_at DESC LIMIT $2`

	rows, err := s.pool.Query(ctx, q, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("searching claims: %w", err)
	}
	defer rows.Close()

	claims := []*WorkCoverClaim{}
	for rows.Next() {
		c, err := scanClaim(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning claim: %w", err)
		}
		claims = append(claims, c)
	}
	return claims, rows.Err()
}

func (s *PostgresStore) SearchAgedCareExpenses(ctx context.Context, query string, limit int) ([]*AgedCareExpense, error) {
	q := "SELECT " + agedCareExpenseColumns + agedCareExpenseFrom +
		" WHERE e.description ILIKE $1 OR e.invoice_number ILIKE $1 ORDER BY e.updated_at DESC LIMIT $2"

	rows, err := s.pool.Query(ctx, q, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("searching aged care expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*AgedCareExpense{}
	for rows.Next() {
		e, err := scanAgedCareExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning aged care expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *PostgresStore) SearchWorkCoverExpenses(ctx context.Context, query string, limit int) ([]*WorkCoverExpense, error) {
	q := "SELECT " + workcoverExpenseColumns + ` FROM workcover_expenses e
		WHERE e.description ILIKE $1 OR e.invoice_number ILIKE $1
		ORDER BY e.updated_at DESC LIMIT $2`

	rows, err := s.pool.Query(ctx, q, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("searching workcover expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*WorkCoverExpense{}
	for rows.Next() {
		e, err := scanWorkCoverExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workcover expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (s *PostgresStore) SearchPayments(ctx context.Context, query string, limit int) ([]*PaymentTransaction, error) {
	q := "SELECT " + paymentColumns + ` FROM payment_transactions
		WHERE description ILIKE $1 OR reference ILIKE $1
		ORDER BY created_at DESC LIMIT $2`

	rows, err := s.pool.Query(ctx, q, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("searching payments: %w", err)
	}
	defer rows.Close()

	payments := []*PaymentTransaction{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (s *PostgresStore) SearchAttachments(ctx context.Context, query string, limit int) ([]*Attachment, error) {
	q := "SELECT " + attachmentColumns + ` FROM attachments
		WHERE file_name ILIKE $1 OR extracted_text ILIKE $1
		ORDER BY created_at DESC LIMIT $2`

	rows, err := s.pool.Query(ctx, q, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("searching attachments: %w", err)
	}
	defer rows.Close()

	attachments := []*Attachment{}
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

// PurgeAccountData calls the server-side bulk delete procedure.
func (s *PostgresStore) PurgeAccountData(ctx context.Context, accountID string) error {
	if _, err := s.pool.Exec(ctx, "SELECT purge_account_data($1)", accountID); err != nil {
		return fmt.Errorf("purging account data: %w", err)
	}
	s.logger.Info("purged account data", "account_id", accountID)
	return nil
}

var _ Store = (*PostgresStore)(nil)
