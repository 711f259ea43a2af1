// vrpc-client is a demo client: it pushes a small scene to a
// vrpc-server, including an ndarray payload, then runs one COMPUTE RPC
// round trip and prints the correlated response.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/vuer-ai/vuer-message-protocol/pkg/protocol"
	"github.com/vuer-ai/vuer-message-protocol/pkg/protocol/serializer"
	"github.com/vuer-ai/vuer-message-protocol/pkg/transport"
	"github.com/vuer-ai/vuer-message-protocol/pkg/zdata"
)

func main() {
	kind := flag.String("kind", "tcp", "transport kind: tcp|quic|mem")
	addr := flag.String("addr", "127.0.0.1:8012", "address to connect to")
	format := flag.String("serializer", "msgpack", "wire format: msgpack|json|cbor|pbstruct")
	timeout := flag.Duration("timeout", 5*time.Second, "dial/rpc timeout")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	ser, err := serializer.ByName(*format, nil)
	if err != nil {
		logger.Fatal("serializer", zap.Error(err))
	}
	tr, ok := transport.ByKind(*kind)
	if !ok {
		logger.Fatal("unknown transport kind", zap.String("kind", *kind))
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	st, err := tr.Dial(ctx, *addr)
	if err != nil {
		logger.Fatal("dial", zap.Error(err))
	}
	defer st.Close()

	send := func(m *protocol.Message) {
		b, err := ser.Encode(m)
		if err != nil {
			logger.Fatal("encode", zap.Error(err))
		}
		if err := st.SendFrame(b); err != nil {
			logger.Fatal("send", zap.Error(err))
		}
	}

	// Scene bootstrap: a root, then a box with an ndarray position.
	send(protocol.SetEvent(map[string]any{"tag": "scene", "key": "root"}, 0))
	positions := zdata.FromFloat32s([]float32{0, 0.5, 0, 1, 0.5, 1}, 2, 3)
	send(protocol.AddEvent([]any{
		map[string]any{"tag": "mesh", "key": "box1", "positions": positions},
	}, "", 0))

	// One RPC round trip.
	req := protocol.NewRequest("COMPUTE", "COMPUTE_RESULT", []any{1, 2, 3}, nil, 0).
		WithCorrelation()
	send(req)

	for {
		frame, err := st.RecvFrame()
		if err != nil {
			logger.Fatal("recv", zap.Error(err))
		}
		v, err := ser.Decode(frame)
		if err != nil {
			logger.Fatal("decode", zap.Error(err))
		}
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		resp := protocol.FromMap(m)
		if !resp.IsResponseTo(req) {
			logger.Info("event", zap.String("etype", resp.Etype))
			continue
		}
		if resp.OK == nil || !*resp.OK {
			logger.Fatal("rpc failed", zap.String("error", resp.Error))
		}
		fmt.Println("COMPUTE_RESULT:", resp.Data)
		return
	}
}
