package transport

import (
    "context"
    "errors"
    "net"
    "sync"
)

// Mem is an in-process transport over net.Pipe, addressed by listener
// name. Used in tests and as a stand-in for a real link.
type Mem struct {
    mu        sync.Mutex
    listeners map[string]*memListener
}

func NewMem() *Mem { return &Mem{listeners: make(map[string]*memListener)} }

func (t *Mem) Kind() Kind { return KindMem }

func (t *Mem) Listen(ctx context.Context, name string) (Listener, error) {
    t.mu.Lock()
    defer t.mu.Unlock()
    if _, ok := t.listeners[name]; ok {
        return nil, errors.New("mem: listener already exists")
    }
    l := &memListener{name: name, newCh: make(chan Stream, 8), closeCh: make(chan struct{})}
    t.listeners[name] = l
    go func() {
        <-ctx.Done()
        _ = l.Close()
        t.mu.Lock()
        delete(t.listeners, name)
        t.mu.Unlock()
    }()
    return l, nil
}

func (t *Mem) Dial(ctx context.Context, name string) (Stream, error) {
    t.mu.Lock()
    l := t.listeners[name]
    t.mu.Unlock()
    if l == nil {
        return nil, errors.New("mem: no such listener")
    }
    c1, c2 := net.Pipe()
    srv := newFrameConn(c1, c1.Close)
    cli := newFrameConn(c2, c2.Close)
    select {
    case l.newCh <- srv:
    default:
        _ = srv.Close()
        _ = cli.Close()
        return nil, errors.New("mem: listener backlog full")
    }
    go func() { <-ctx.Done(); _ = cli.Close() }()
    return cli, nil
}

type memListener struct {
    name    string
    newCh   chan Stream
    closeCh chan struct{}
}

type memAddr string

func (a memAddr) Network() string { return "mem" }
func (a memAddr) String() string  { return string(a) }

func (l *memListener) Addr() net.Addr { return memAddr(l.name) }

func (l *memListener) Accept(ctx context.Context) (Stream, error) {
    select {
    case <-ctx.Done():
        return nil, ctx.Err()
    case <-l.closeCh:
        return nil, errors.New("mem listener closed")
    case s := <-l.newCh:
        return s, nil
    }
}

func (l *memListener) Close() error {
    select {
    case <-l.closeCh:
    default:
        close(l.closeCh)
    }
    return nil
}
