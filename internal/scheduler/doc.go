// Package scheduler queues transcription jobs and advances them through a
// tick-driven, single-concurrency state machine.
//
// The scheduler never blocks: Tick performs exactly one state advance (poll
// the active job, or promote the next pending job, or reset idle counters)
// and returns. One continuation fires per job, exactly once, with either a
// segment payload or an error. Cancellation is best-effort and
// non-preemptive: the underlying OS process is not terminated, only the
// logical references and temp artifacts are dropped.
//
// A Scheduler is not safe for concurrent use; the daemon serializes every
// call behind its own mutex.
package scheduler
