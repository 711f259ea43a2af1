package transport

import (
    "context"
    "testing"
    "time"

    "github.com/vuer-ai/vuer-message-protocol/pkg/protocol"
    "github.com/vuer-ai/vuer-message-protocol/pkg/protocol/serializer"
    "github.com/vuer-ai/vuer-message-protocol/pkg/zdata"
)

func TestMemEnvelopeExchange(t *testing.T) {
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()

    tr := NewMem()
    if tr.Kind() != KindMem {
        t.Fatalf("kind: %v", tr.Kind())
    }
    l, err := tr.Listen(ctx, "bus")
    if err != nil { t.Fatalf("listen: %v", err) }

    ser := serializer.NewMsgPack(nil)

    // Server: answer COMPUTE with the sum of its args.
    go func() {
        s, err := l.Accept(ctx)
        if err != nil {
            return
        }
        defer s.Close()
        frame, err := s.RecvFrame()
        if err != nil {
            return
        }
        dec, err := ser.Decode(frame)
        if err != nil {
            return
        }
        req := protocol.FromMap(dec.(map[string]any))
        var sum float64
        for _, a := range req.Args {
            switch n := a.(type) {
            case int8:
                sum += float64(n)
            case int64:
                sum += float64(n)
            case float64:
                sum += n
            }
        }
        resp := protocol.Respond(req, true, "", 0).WithData(map[string]any{
            "result": sum,
            "scale":  zdata.FromFloat32s([]float32{1, 2}),
        })
        out, err := ser.Encode(resp)
        if err != nil {
            return
        }
        _ = s.SendFrame(out)
    }()

    c, err := tr.Dial(ctx, "bus")
    if err != nil { t.Fatalf("dial: %v", err) }
    defer c.Close()

    req := protocol.NewRequest("COMPUTE", "COMPUTE_RESULT", []any{1, 2, 3}, nil, 0).WithCorrelation()
    wire, err := ser.Encode(req)
    if err != nil { t.Fatalf("encode request: %v", err) }
    if err := c.SendFrame(wire); err != nil { t.Fatalf("send: %v", err) }

    frame, err := c.RecvFrame()
    if err != nil { t.Fatalf("recv: %v", err) }
    dec, err := ser.Decode(frame)
    if err != nil { t.Fatalf("decode response: %v", err) }
    resp := protocol.FromMap(dec.(map[string]any))

    if !resp.IsResponseTo(req) {
        t.Fatalf("response does not correlate: %#v", resp)
    }
    data := resp.Data.(map[string]any)
    if got, _ := data["result"].(float64); got != 6 {
        t.Fatalf("result: %v", data["result"])
    }
    if _, ok := data["scale"].(*zdata.Array); !ok {
        t.Fatalf("array payload not restored: %#v", data["scale"])
    }
}

func TestMemDialWithoutListener(t *testing.T) {
    tr := NewMem()
    if _, err := tr.Dial(context.Background(), "nobody"); err == nil {
        t.Fatalf("expected dial error")
    }
}

func TestMemDuplicateListener(t *testing.T) {
    ctx, cancel := context.WithCancel(context.Background())
    defer cancel()

    tr := NewMem()
    if _, err := tr.Listen(ctx, "bus"); err != nil {
        t.Fatalf("listen: %v", err)
    }
    if _, err := tr.Listen(ctx, "bus"); err == nil {
        t.Fatalf("expected duplicate listener error")
    }
}

func TestMemAcceptHonorsContext(t *testing.T) {
    ctx, cancel := context.WithCancel(context.Background())
    tr := NewMem()
    l, err := tr.Listen(ctx, "bus")
    if err != nil { t.Fatalf("listen: %v", err) }

    done := make(chan error, 1)
    go func() {
        _, err := l.Accept(ctx)
        done <- err
    }()
    cancel()
    select {
    case err := <-done:
        if err == nil {
            t.Fatalf("expected context error")
        }
    case <-time.After(time.Second):
        t.Fatalf("accept did not return after cancel")
    }
}
