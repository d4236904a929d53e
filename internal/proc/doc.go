// Package proc builds transcriber command lines and launches them as
// detached background processes.
//
// The launcher only reports whether the OS accepted the launch; it has no
// visibility into the process after that. Success and failure are decided
// later by watching output artifacts, never by exit status.
package proc
