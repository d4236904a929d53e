// Package preflight verifies the environment before the daemon accepts
// jobs: the transcriber executable resolves, the work directory is
// accessible, and enough free space remains for temp artifacts.
package preflight
