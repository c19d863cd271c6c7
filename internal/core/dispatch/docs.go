// Package dispatch implements the reconciliation loop that keeps orders and
// couriers converging: it expires stale couriers, reminds couriers sitting
// on unaccepted assignments, detects fleet-state changes between ticks, and
// applies the optimizer's acceptable pairings.
//
// The loop is deliberately stateless across process restarts except for the
// previous-tick snapshot, which starts empty so the first tick after boot
// always runs a full assignment pass.
//
// # Tick anatomy
//
// Each Engine.Tick executes, strictly in order:
//
//  1. Stale-courier expiry (per-courier transaction, best-effort notify)
//  2. Tardy-acceptance reminders for assigned-but-unaccepted orders
//  3. Snapshot build and structural comparison with the previous tick
//  4. Conditional assignment pass (only when the snapshot changed)
//  5. Snapshot swap and fire-and-forget audit append
//
// Failures in one sub-step are isolated from the others; only a failure to
// read the fleet state aborts a tick.
package dispatch
