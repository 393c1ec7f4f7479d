// ABOUTME: Tool dispatcher executing the three agent-facing operations
// ABOUTME: Every outcome, failure included, becomes a serializable envelope

package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"time"

	"github.com/carelog/carelog-gateway/internal/facade"
	"github.com/carelog/carelog-gateway/internal/registry"
)

// DefaultTimeout bounds a single tool invocation.
const DefaultTimeout = 30 * time.Second

// ErrKind classifies dispatcher failures. The set is closed: resolution
// (the method path did not resolve), invocation (the resolved operation
// failed), aggregation (a fan-out join failed as a whole).
type ErrKind string

const (
	ErrKindResolution  ErrKind = "resolution"
	ErrKindInvocation  ErrKind = "invocation"
	ErrKindAggregation ErrKind = "aggregation"
)

// Envelope is the uniform serializable result of every tool call. Success
// envelopes carry the operation's payload fields; failure envelopes carry an
// error message and, for resolution failures, the valid alternatives.
type Envelope struct {
	Success bool `json:"success"`

	// execute_query fields
	Data  any  `json:"data,omitempty"`
	Count *int `json:"count,omitempty"`

	// search fields. Query is a pointer so the field serializes for search
	// envelopes even when the query string is empty, and never otherwise.
	Query      *string `json:"query,omitempty"`
	TotalCount *int    `json:"totalCount,omitempty"`
	Results    any     `json:"results,omitempty"`

	// get_schema fields
	Domain string `json:"domain,omitempty"`
	Schema any    `json:"schema,omitempty"`

	// degraded fan-out domains, keyed by domain name
	PartialErrors map[string]string `json:"partialErrors,omitempty"`

	// failure fields
	Error            string   `json:"error,omitempty"`
	AvailableMethods []string `json:"availableMethods,omitempty"`
}

// Dispatcher executes agent tool calls against the command table and the
// facade. Errors never escape: every path returns an envelope.
type Dispatcher struct {
	registry *registry.Registry
	facade   *facade.Facade
	logger   *slog.Logger
	timeout  time.Duration
}

// New creates a Dispatcher. A non-positive timeout falls back to
// DefaultTimeout.
func New(reg *registry.Registry, f *facade.Facade, logger *slog.Logger, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Dispatcher{
		registry: reg,
		facade:   f,
		logger:   logger.With("component", "dispatcher"),
		timeout:  timeout,
	}
}

// failure builds a failure envelope. The kind prefixes the message so the
// agent can tell a bad method path from a failed operation.
func failure(kind ErrKind, err error, available []string) *Envelope {
	return &Envelope{
		Success:          false,
		Error:            fmt.Sprintf("%s error: %s", kind, err.Error()),
		AvailableMethods: available,
	}
}

// invocationError normalizes a handler failure, naming the timeout when the
// per-call deadline expired.
func (d *Dispatcher) invocationError(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("operation timed out after %s", d.timeout)
	}
	return err
}

// ExecuteQuery resolves the dotted method path and runs the bound operation.
// The count field is present exactly when the result is a slice. A missing
// record serializes as an explicit null, not an omitted field.
func (d *Dispatcher) ExecuteQuery(ctx context.Context, method string, args json.RawMessage) *Envelope {
	op, err := d.registry.Resolve(method)
	if err != nil {
		var resErr *registry.ResolutionError
		if errors.As(err, &resErr) {
			d.logger.Warn("method resolution failed", "method", method, "reason", resErr.Reason)
			return failure(ErrKindResolution, err, resErr.Available)
		}
		return failure(ErrKindResolution, err, d.registry.GroupNames())
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	started := time.Now()
	result, partial, err := op.Handler(ctx, args)
	if err != nil {
		err = d.invocationError(ctx, err)
		d.logger.Warn("invocation failed", "method", op.Path, "error", err)
		return failure(ErrKindInvocation, err, nil)
	}
	d.logger.Debug("invocation complete", "method", op.Path, "duration", time.Since(started))

	env := &Envelope{Success: true, PartialErrors: partial}
	if result == nil || reflect.ValueOf(result).Kind() == reflect.Ptr && reflect.ValueOf(result).IsNil() {
		env.Data = json.RawMessage("null")
		return env
	}
	env.Data = result
	if v := reflect.ValueOf(result); v.Kind() == reflect.Slice {
		count := v.Len()
		env.Count = &count
	}
	return env
}

// Search runs the fan-out aggregator across the requested entity types.
// The envelope echoes the query and reports the combined match count; failed
// domains appear in partialErrors with their slice empty.
func (d *Dispatcher) Search(ctx context.Context, query string, entityTypes []string, limit int) *Envelope {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	results, err := d.facade.Search.All(ctx, query, entityTypes, limit)
	if err != nil {
		err = d.invocationError(ctx, err)
		d.logger.Warn("search failed", "query", query, "error", err)
		return failure(ErrKindAggregation, err, nil)
	}

	total := results.Total()
	env := &Envelope{
		Success:    true,
		Query:      &query,
		TotalCount: &total,
		Results:    results,
	}
	if len(results.Errors) > 0 {
		env.PartialErrors = results.Errors
	}
	return env
}

// GetSchema returns the documentation for one schema domain, defaulting to
// the "all" pseudo-domain. A named domain yields a single schema object;
// "all" yields the array of every domain. Unknown domains echo a placeholder
// schema, never a failure.
func (d *Dispatcher) GetSchema(_ context.Context, domain string) *Envelope {
	if domain == "" {
		domain = registry.DomainAll
	}
	env := &Envelope{Success: true, Domain: domain}
	if domain == registry.DomainAll {
		env.Schema = d.registry.AllSchemas()
	} else {
		env.Schema = d.registry.Schema(domain)
	}
	return env
}
