// Package registry is the capability registry: the statically enumerable
// command table binding every dotted method path an agent may call to a typed
// facade operation. Resolution walks the table, never the facade's structure,
// so the callable surface is exactly what Build registers. Resolution
// failures carry the valid alternatives at the deepest segment that did
// resolve, which is what makes unknown-method errors self-correcting for an
// agent.
package registry
