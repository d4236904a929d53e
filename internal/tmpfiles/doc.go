// Package tmpfiles allocates the per-job temp artifact paths the external
// transcriber writes to and guarantees their idempotent cleanup.
//
// Every active job owns exactly one Artifacts set; both terminal exit paths
// and cancellation remove it, so the work directory cannot grow without
// bound across a session.
package tmpfiles
