package transport

import (
    "context"
    "errors"
    "net"
)

// TCP is a stream transport over plain TCP.
type TCP struct{}

func NewTCP() *TCP { return &TCP{} }

func (t *TCP) Kind() Kind { return KindTCP }

func (t *TCP) Listen(ctx context.Context, address string) (Listener, error) {
    l, err := net.Listen("tcp", address)
    if err != nil {
        return nil, err
    }
    tl := &tcpListener{l: l, newCh: make(chan Stream, 8), closeCh: make(chan struct{})}
    go tl.acceptLoop()
    go func() { <-ctx.Done(); _ = tl.Close() }()
    return tl, nil
}

func (t *TCP) Dial(ctx context.Context, address string) (Stream, error) {
    d := &net.Dialer{}
    c, err := d.DialContext(ctx, "tcp", address)
    if err != nil {
        return nil, err
    }
    return newFrameConn(c, c.Close), nil
}

type tcpListener struct {
    l       net.Listener
    newCh   chan Stream
    closeCh chan struct{}
}

func (l *tcpListener) Addr() net.Addr { return l.l.Addr() }

func (l *tcpListener) Accept(ctx context.Context) (Stream, error) {
    select {
    case <-ctx.Done():
        return nil, ctx.Err()
    case <-l.closeCh:
        return nil, errors.New("tcp listener closed")
    case s := <-l.newCh:
        return s, nil
    }
}

func (l *tcpListener) Close() error {
    select {
    case <-l.closeCh:
    default:
        close(l.closeCh)
    }
    return l.l.Close()
}

func (l *tcpListener) acceptLoop() {
    for {
        c, err := l.l.Accept()
        if err != nil {
            return
        }
        s := newFrameConn(c, c.Close)
        select {
        case l.newCh <- s:
        default:
            _ = s.Close()
        }
    }
}
