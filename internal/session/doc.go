// Package session implements the client-side review controller. A Session
// owns the transient state of one review pass (working set, current card,
// counters, feedback) and coordinates the pure scheduling rules in
// internal/srs with the durable stores, guaranteeing that what the user
// sees never diverges from what the server of record has acknowledged.
package session
