// Package ipc exposes the daemon over JSON-RPC Unix sockets and ships the
// matching client used by the CLI.
//
// It owns socket lifecycle management, request/response DTOs, and the
// conversions between scheduler/store models and lightweight wire
// representations. Reuse these types when adding new RPC endpoints so the
// protocol stays compatible with existing commands.
package ipc
