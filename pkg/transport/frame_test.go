package transport

import (
    "bytes"
    "errors"
    "net"
    "testing"
)

func framePair() (*frameConn, *frameConn) {
    c1, c2 := net.Pipe()
    return newFrameConn(c1, c1.Close), newFrameConn(c2, c2.Close)
}

func TestFrameRoundTrip(t *testing.T) {
    a, b := framePair()
    defer a.Close()
    defer b.Close()

    frames := [][]byte{
        []byte("hello"),
        {}, // zero-length frames are legal
        bytes.Repeat([]byte{0xab}, 1<<16),
    }
    go func() {
        for _, f := range frames {
            _ = a.SendFrame(f)
        }
    }()
    for i, want := range frames {
        got, err := b.RecvFrame()
        if err != nil { t.Fatalf("recv %d: %v", i, err) }
        if !bytes.Equal(got, want) {
            t.Fatalf("frame %d: %d bytes, want %d", i, len(got), len(want))
        }
    }
}

func TestFrameRejectsOversized(t *testing.T) {
    a, b := framePair()
    defer a.Close()
    defer b.Close()

    if err := a.SendFrame(make([]byte, maxFrame+1)); !errors.Is(err, errFrameSize) {
        t.Fatalf("expected errFrameSize, got %v", err)
    }
}

func TestFrameRejectsCorruptLength(t *testing.T) {
    c1, c2 := net.Pipe()
    defer c1.Close()
    fc := newFrameConn(c2, c2.Close)
    defer fc.Close()

    // A raw length prefix past the frame cap.
    go func() {
        _, _ = c1.Write([]byte{0xff, 0xff, 0xff, 0xff})
    }()
    if _, err := fc.RecvFrame(); !errors.Is(err, errFrameSize) {
        t.Fatalf("expected errFrameSize, got %v", err)
    }
}
