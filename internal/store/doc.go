// Package store holds packaged artifacts between fan-out and fan-in.
//
// The store is a concurrent map keyed by asset name. Keys are disjoint by
// construction (the registry enforces unique asset names before any job
// starts), so workers never contend on the same key and a duplicate put
// signals a bug rather than a race.
package store
