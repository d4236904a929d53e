// Package daemon owns the scribed runtime: the single-instance lock, the
// tick loop that drives the scheduler, and the archiving of completed
// transcripts.
//
// The scheduler itself is a plain tick-driven state machine; the daemon is
// the cadence driver and serializes every scheduler call (ticks and IPC
// requests) behind one mutex.
package daemon
