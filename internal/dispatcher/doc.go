// Package dispatcher executes the three agent-facing tool operations:
// execute_query, search, and get_schema. Every call produces an Envelope,
// success or failure alike, so the transport layer never has to interpret
// errors. Failures are classified by a closed kind set and built in one
// place.
package dispatcher
