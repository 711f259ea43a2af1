package transport

import (
    "bufio"
    "encoding/binary"
    "errors"
    "io"
    "sync"
)

// maxFrame bounds a single frame; envelopes carrying array payloads can
// be large, absurd sizes indicate a corrupt stream.
const maxFrame = 1 << 28

var errFrameSize = errors.New("transport: invalid frame size")

// frameConn implements Stream over any byte stream using u32 LE
// length-prefixed frames.
type frameConn struct {
    mu    sync.Mutex
    br    *bufio.Reader
    bw    *bufio.Writer
    close func() error
}

func newFrameConn(rw io.ReadWriter, close func() error) *frameConn {
    return &frameConn{
        br:    bufio.NewReader(rw),
        bw:    bufio.NewWriter(rw),
        close: close,
    }
}

func (c *frameConn) SendFrame(b []byte) error {
    if len(b) > maxFrame {
        return errFrameSize
    }
    c.mu.Lock()
    defer c.mu.Unlock()
    var lenbuf [4]byte
    binary.LittleEndian.PutUint32(lenbuf[:], uint32(len(b)))
    if _, err := c.bw.Write(lenbuf[:]); err != nil {
        return err
    }
    if _, err := c.bw.Write(b); err != nil {
        return err
    }
    return c.bw.Flush()
}

func (c *frameConn) RecvFrame() ([]byte, error) {
    var lenbuf [4]byte
    if _, err := io.ReadFull(c.br, lenbuf[:]); err != nil {
        return nil, err
    }
    n := int(binary.LittleEndian.Uint32(lenbuf[:]))
    if n > maxFrame {
        return nil, errFrameSize
    }
    buf := make([]byte, n)
    if _, err := io.ReadFull(c.br, buf); err != nil {
        return nil, err
    }
    return buf, nil
}

func (c *frameConn) Close() error {
    if c.close != nil {
        return c.close()
    }
    return nil
}
