// ABOUTME: Tests for the command table, the path resolver, and schema docs
// ABOUTME: Exercises every registered path and resolution failure localization

package registry

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carelog/carelog-gateway/internal/facade"
	"github.com/carelog/carelog-gateway/internal/store"
)

func newTestRegistry(t *testing.T) (*Registry, *store.MockStore) {
	t.Helper()
	mock := store.NewMockStore()
	return Build(facade.New(mock, slog.Default())), mock
}

func TestResolveEveryRegisteredPath(t *testing.T) {
	r, _ := newTestRegistry(t)

	for _, g := range r.Groups() {
		for _, op := range g.Operations {
			resolved, err := r.Resolve(op.Path)
			require.NoError(t, err, "path %s must resolve", op.Path)
			assert.Same(t, op, resolved)
		}
	}
}

func TestResolveStripsCallParens(t *testing.T) {
	r, _ := newTestRegistry(t)

	bare, err := r.Resolve("agedCareExpenses.list")
	require.NoError(t, err)
	withParens, err := r.Resolve("agedCareExpenses.list()")
	require.NoError(t, err)
	assert.Same(t, bare, withParens)
}

func TestResolveFailureLocalization(t *testing.T) {
	r, _ := newTestRegistry(t)

	t.Run("unknown group offers group names", func(t *testing.T) {
		_, err := r.Resolve("pharmacy.list")
		var resErr *ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Contains(t, resErr.Error(), "pharmacy.list")
		assert.Contains(t, resErr.Available, "agedCareExpenses")
		assert.Contains(t, resErr.Available, "notes")
	})

	t.Run("unknown operation offers the group's methods", func(t *testing.T) {
		_, err := r.Resolve("notes.delete")
		var resErr *ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Contains(t, resErr.Available, "notes.list")
		assert.Contains(t, resErr.Available, "notes.create")
		assert.NotContains(t, resErr.Available, "payments.list", "alternatives stay local to the group")
	})

	t.Run("malformed path", func(t *testing.T) {
		for _, path := range []string{"", "notes", "a.b.c"} {
			_, err := r.Resolve(path)
			var resErr *ResolutionError
			require.ErrorAs(t, err, &resErr, "path %q", path)
			assert.NotEmpty(t, resErr.Available)
		}
	})
}

func TestHandlersRejectMalformedArguments(t *testing.T) {
	r, _ := newTestRegistry(t)

	op, err := r.Resolve("agedCareExpenses.list")
	require.NoError(t, err)

	_, _, err = op.Handler(context.Background(), json.RawMessage(`{"status": 42}`))
	require.Error(t, err)

	// Absent and null arguments are both fine
	_, _, err = op.Handler(context.Background(), nil)
	require.NoError(t, err)
	_, _, err = op.Handler(context.Background(), json.RawMessage("null"))
	require.NoError(t, err)
}

func TestSchemaDomains(t *testing.T) {
	r, _ := newTestRegistry(t)

	t.Run("named domain", func(t *testing.T) {
		schema := r.Schema("workcover")
		assert.Equal(t, "workcover", schema.Domain)
		names := make([]string, 0, len(schema.Methods))
		for _, m := range schema.Methods {
			names = append(names, m.Name)
		}
		assert.Contains(t, names, "workcoverClaims.findByClaimNumber")
		assert.Contains(t, names, "workcoverExpenses.getTotalGap")
		assert.NotContains(t, names, "notes.list")
	})

	t.Run("every method documents its return shape and an example", func(t *testing.T) {
		for _, schema := range r.AllSchemas() {
			for _, m := range schema.Methods {
				assert.NotEmpty(t, m.Returns, "method %s must document its return shape", m.Name)
				assert.Contains(t, m.Example, m.Name, "method %s example must invoke the method", m.Name)
			}
		}
	})

	t.Run("all covers every domain", func(t *testing.T) {
		schemas := r.AllSchemas()
		require.Len(t, schemas, len(DomainNames()))
		seen := make(map[string]bool)
		for _, s := range schemas {
			seen[s.Domain] = true
			assert.NotEmpty(t, s.Description)
		}
		for _, name := range DomainNames() {
			assert.True(t, seen[name], "domain %s missing from all", name)
		}
	})

	t.Run("unknown domain echoes a placeholder", func(t *testing.T) {
		schema := r.Schema("bogus")
		assert.Equal(t, "bogus", schema.Domain)
		assert.Equal(t, "Unknown domain", schema.Description)
		require.NotNil(t, schema.Methods)
		assert.Empty(t, schema.Methods)
	})

	t.Run("every registered operation is documented in some domain", func(t *testing.T) {
		documented := make(map[string]bool)
		for _, s := range r.AllSchemas() {
			for _, m := range s.Methods {
				documented[m.Name] = true
			}
		}
		for _, g := range r.Groups() {
			for _, op := range g.Operations {
				assert.True(t, documented[op.Path], "operation %s has no schema entry", op.Path)
			}
		}
	})
}
