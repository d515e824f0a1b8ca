// Package catalog holds the dashboard state machine: the last fetched product
// snapshot, the filter and sort inputs, and the derived result list.
//
// # States
//
//	Idle ──load──> Loading ──ok──> Loaded
//	                  │               │
//	                  └──err──> Error─┴──retry──> Loading
//
// There is no terminal state; the user retries for as long as they like.
//
// # Derivation
//
// Results are never stored. Every Results or View call runs Derive over the
// snapshot: title substring (case-insensitive), exact category,
// favorites-only, then a stable price sort. At catalog sizes of a few hundred
// items recomputing per frame costs nothing.
//
// # Failed Loads
//
// A failed load leaves the snapshot in memory. By default the Error state
// hides it (empty results, empty categories) so the error view is what the
// user sees. Options.RetainOnError keeps deriving from the stale snapshot.
package catalog
