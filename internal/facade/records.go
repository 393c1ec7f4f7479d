// ABOUTME: Notes, calendar, payments, suppliers, categories, and attachment operations
// ABOUTME: The simpler read-mostly groups sharing the list/getById shape

package facade

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/carelog/carelog-gateway/internal/store"
)

// Notes is the notes operation group.
type Notes struct {
	f *Facade
}

// CreateNoteParams are the fields accepted by notes.create.
type CreateNoteParams struct {
	Title    string   `json:"title"`
	Content  string   `json:"content"`
	Category *string  `json:"category"`
	IsPinned bool     `json:"is_pinned"`
	Tags     []string `json:"tags"`
}

// UpdateNoteParams are the fields accepted by notes.update. Nil fields are
// left unchanged; a non-nil Tags replaces the tag set wholesale.
type UpdateNoteParams struct {
	ID         string   `json:"id"`
	Title      *string  `json:"title"`
	Content    *string  `json:"content"`
	Category   *string  `json:"category"`
	IsPinned   *bool    `json:"is_pinned"`
	IsArchived *bool    `json:"is_archived"`
	Tags       []string `json:"tags"`
}

// List returns notes matching the filter, pinned first, then most recently
// updated.
func (g *Notes) List(ctx context.Context, filter store.NoteFilter) ([]*store.Note, error) {
	notes, err := g.f.store.ListNotes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

// GetByID returns one note, or nil when the id does not exist.
func (g *Notes) GetByID(ctx context.Context, id string) (*store.Note, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	note, err := g.f.store.GetNote(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

// Create records a new note and returns it.
func (g *Notes) Create(ctx context.Context, params CreateNoteParams) (*store.Note, error) {
	if params.Title == "" {
		return nil, fmt.Errorf("title is required")
	}
	tags := params.Tags
	if tags == nil {
		tags = []string{}
	}
	now := time.Now().UTC()
	note := &store.Note{
		ID:        uuid.NewString(),
		Title:     params.Title,
		Content:   params.Content,
		Category:  params.Category,
		IsPinned:  params.IsPinned,
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := g.f.store.CreateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to create note: %w", err)
	}
	g.f.logger.Info("note created", "note_id", note.ID)
	return note, nil
}

// Update applies the non-nil fields of params to an existing note and returns
// the updated record.
func (g *Notes) Update(ctx context.Context, params UpdateNoteParams) (*store.Note, error) {
	if params.ID == "" {
		return nil, fmt.Errorf("id is required")
	}
	note, err := g.f.store.GetNote(ctx, params.ID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("note %s not found", params.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	if params.Title != nil {
		note.Title = *params.Title
	}
	if params.Content != nil {
		note.Content = *params.Content
	}
	if params.Category != nil {
		note.Category = params.Category
	}
	if params.IsPinned != nil {
		note.IsPinned = *params.IsPinned
	}
	if params.IsArchived != nil {
		note.IsArchived = *params.IsArchived
	}
	if params.Tags != nil {
		note.Tags = params.Tags
	}
	note.UpdatedAt = time.Now().UTC()
	if err := g.f.store.UpdateNote(ctx, note); err != nil {
		return nil, fmt.Errorf("failed to update note: %w", err)
	}
	g.f.logger.Info("note updated", "note_id", note.ID)
	return note, nil
}

// Calendar is the calendar operation group.
type Calendar struct {
	f *Facade
}

// List returns events in the inclusive date range, soonest first.
func (g *Calendar) List(ctx context.Context, filter store.EventFilter) ([]*store.CalendarEvent, error) {
	events, err := g.f.store.ListEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetByID returns one event, or nil when the id does not exist.
func (g *Calendar) GetByID(ctx context.Context, id string) (*store.CalendarEvent, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	event, err := g.f.store.GetEvent(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// Payments is the payments operation group.
type Payments struct {
	f *Facade
}

// List returns payments matching the filter, newest payment_date first.
func (g *Payments) List(ctx context.Context, filter store.PaymentFilter) ([]*store.PaymentTransaction, error) {
	payments, err := g.f.store.ListPayments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	return payments, nil
}

// GetByID returns one payment, or nil when the id does not exist.
func (g *Payments) GetByID(ctx context.Context, id string) (*store.PaymentTransaction, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	payment, err := g.f.store.GetPayment(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return payment, nil
}

// Suppliers is the suppliers operation group.
type Suppliers struct {
	f *Facade
}

// List returns suppliers matching the filter, ordered by name.
func (g *Suppliers) List(ctx context.Context, filter store.SupplierFilter) ([]*store.Supplier, error) {
	suppliers, err := g.f.store.ListSuppliers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

// GetByID returns one supplier, or nil when the id does not exist.
func (g *Suppliers) GetByID(ctx context.Context, id string) (*store.Supplier, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	supplier, err := g.f.store.GetSupplier(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}
	return supplier, nil
}

// Categories is the categories operation group.
type Categories struct {
	f *Facade
}

// List returns every expense category, ordered by name.
func (g *Categories) List(ctx context.Context) ([]*store.ExpenseCategory, error) {
	categories, err := g.f.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// GetByID returns one category, or nil when the id does not exist.
func (g *Categories) GetByID(ctx context.Context, id string) (*store.ExpenseCategory, error) {
	if id == "" {
		return nil, fmt.Errorf("id is required")
	}
	category, err := g.f.store.GetCategory(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// Attachments is the attachments operation group.
type Attachments struct {
	f *Facade
}

// ListForEntity returns the attachments linked to one entity, newest first.
func (g *Attachments) ListForEntity(ctx context.Context, entityType, entityID string) ([]*store.Attachment, error) {
	if entityType == "" {
		return nil, fmt.Errorf("entity_type is required")
	}
	if entityID == "" {
		return nil, fmt.Errorf("entity_id is required")
	}
	attachments, err := g.f.store.ListAttachmentsForEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attachments: %w", err)
	}
	return attachments, nil
}

// Search matches attachments by file name and extracted text. A store failure
// degrades to an empty result reported through the partial-error map, so the
// caller still gets a well-formed envelope.
func (g *Attachments) Search(ctx context.Context, query string) ([]*store.Attachment, map[string]string, error) {
	attachments, err := g.f.store.SearchAttachments(ctx, query, attachmentSearchLimit)
	if err != nil {
		g.f.logger.Warn("attachment search failed", "error", err)
		return []*store.Attachment{}, map[string]string{domainAttachments: err.Error()}, nil
	}
	return attachments, nil, nil
}
