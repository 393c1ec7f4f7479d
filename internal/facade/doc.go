// Package facade is the typed data-access layer between the tool dispatcher
// and the store. Operations are grouped by domain (agedCareAccounts, notes,
// search, ...) and each group method maps to one dotted method path in the
// capability registry.
//
// The facade owns the client-side aggregations: expense totals, category
// spending breakdowns, and gap totals accumulate with fixed-point decimals.
// The fan-out search and the analytics merge run their store queries
// concurrently and isolate per-domain failures instead of failing the whole
// operation.
package facade
