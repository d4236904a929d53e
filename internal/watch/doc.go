// Package watch decides, by polling output artifacts, when a detached
// transcriber process has finished, and estimates its progress while it
// runs.
//
// Exit status is deliberately never consulted. The external process honors
// a write-then-signal ordering contract: it flushes the full output
// artifact first, then signals completion either through the artifact's
// nonzero size or by creating a tiny marker file. The side channel is read
// exactly once, after completion has already been detected, purely to
// classify success versus failure. Polling a stream the process is still
// writing caused large platform-specific slowdowns in practice, so no code
// in this package reads the side channel or the bulk output while the job
// is running.
package watch
