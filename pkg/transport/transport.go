// Package transport provides the frame transports the demo binaries
// speak envelopes over: tcp and quic for cross-process links, mem for
// in-process tests. A Stream carries opaque length-prefixed frames; all
// serialization, correlation tracking and retry policy stay with the
// caller.
package transport

import (
    "context"
    "net"
)

// Kind identifies a link type.
type Kind int

const (
    KindUnknown Kind = iota
    KindTCP
    KindQUIC
    KindMem
)

func (k Kind) String() string {
    switch k {
    case KindTCP:
        return "tcp"
    case KindQUIC:
        return "quic"
    case KindMem:
        return "mem"
    default:
        return "unknown"
    }
}

// ByKind returns a fresh transport for the named kind ("tcp", "quic",
// "mem").
func ByKind(name string) (Transport, bool) {
    switch name {
    case "tcp":
        return NewTCP(), true
    case "quic":
        return NewQUIC(), true
    case "mem":
        return NewMem(), true
    default:
        return nil, false
    }
}

// Stream is a bidirectional frame channel carrying serialized envelopes
// as opaque bytes. SendFrame is internally locked so replies may be
// written from a different goroutine than the main reader.
type Stream interface {
    SendFrame([]byte) error
    RecvFrame() ([]byte, error)
    Close() error
}

// Listener accepts inbound streams.
type Listener interface {
    // Accept blocks until an inbound stream is available or ctx is done.
    Accept(ctx context.Context) (Stream, error)
    Addr() net.Addr
    Close() error
}

// Transport dials and listens for streams of a specific kind.
type Transport interface {
    Kind() Kind
    Listen(ctx context.Context, address string) (Listener, error)
    Dial(ctx context.Context, address string) (Stream, error)
}
