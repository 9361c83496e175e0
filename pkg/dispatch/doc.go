// Package dispatch routes inbound frames to their handlers.
//
// Administrative command types are matched exhaustively and executed
// against the registry; every other type is forwarded to the external
// command processor, whose optional reply is echoed back to the
// originating client under the same type. All per-frame failures are
// contained: a malformed frame is a silent no-op, a processor error is
// logged and swallowed, and only an oversized frame is terminal for its
// connection.
package dispatch
