// vrpc-server is a demo scene server: it accepts envelope streams over
// the configured transport, applies scene-update events to an in-memory
// node set, and answers COMPUTE RPC requests.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"

	"github.com/vuer-ai/vuer-message-protocol/pkg/config"
	"github.com/vuer-ai/vuer-message-protocol/pkg/observability"
	"github.com/vuer-ai/vuer-message-protocol/pkg/protocol"
	"github.com/vuer-ai/vuer-message-protocol/pkg/protocol/serializer"
	"github.com/vuer-ai/vuer-message-protocol/pkg/transport"
)

func main() {
	cfgPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	cfg := config.MustLoad(*cfgPath)
	logger, err := observability.SetupLogger(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ser, err := serializer.ByName(cfg.Serializer, nil)
	if err != nil {
		logger.Fatal("serializer", zap.Error(err))
	}
	tr, ok := transport.ByKind(cfg.Transport.Kind)
	if !ok {
		logger.Fatal("unknown transport kind", zap.String("kind", cfg.Transport.Kind))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	l, err := tr.Listen(ctx, cfg.Transport.Listen)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}
	defer l.Close()
	logger.Info("listening",
		zap.String("addr", l.Addr().String()),
		zap.String("kind", cfg.Transport.Kind),
		zap.String("serializer", ser.Name()))

	srv := &sceneServer{ser: ser, log: logger, nodes: make(map[string]any)}
	for {
		st, err := l.Accept(ctx)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Warn("accept", zap.Error(err))
			}
			return
		}
		go srv.serve(st)
	}
}

// sceneServer keeps the authoritative node set, keyed by node key.
type sceneServer struct {
	ser serializer.Serializer
	log *zap.Logger

	mu    sync.Mutex
	scene any
	nodes map[string]any
}

func (s *sceneServer) serve(st transport.Stream) {
	defer st.Close()
	for {
		frame, err := st.RecvFrame()
		if err != nil {
			return
		}
		reply, err := s.handleFrame(frame)
		if err != nil {
			s.log.Warn("handle", zap.Error(err))
			continue
		}
		if reply == nil {
			continue
		}
		out, err := s.ser.Encode(reply)
		if err != nil {
			s.log.Warn("encode reply", zap.Error(err))
			continue
		}
		if err := st.SendFrame(out); err != nil {
			return
		}
	}
}

func (s *sceneServer) handleFrame(frame []byte) (*protocol.Message, error) {
	v, err := s.ser.Decode(frame)
	if err != nil {
		return nil, err
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("frame is %T, not an envelope", v)
	}
	msg := protocol.FromMap(m)
	if msg.Rtype != "" {
		return s.handleRPC(msg), nil
	}
	return s.handleEvent(msg), nil
}

func (s *sceneServer) handleEvent(msg *protocol.Message) *protocol.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch msg.Etype {
	case protocol.EtypeSet:
		s.scene = msg.Data
		s.nodes = make(map[string]any)
		s.log.Info("scene set")
	case protocol.EtypeAdd, protocol.EtypeUpsert, protocol.EtypeUpdate:
		for _, key := range s.absorbNodes(msg.Data) {
			s.log.Debug("node stored", zap.String("key", key))
		}
	case protocol.EtypeRemove:
		data, _ := msg.Data.(map[string]any)
		keys, _ := data["keys"].([]any)
		for _, k := range keys {
			if key, ok := k.(string); ok {
				delete(s.nodes, key)
			}
		}
		s.log.Info("nodes removed", zap.Int("count", len(keys)))
	default:
		s.log.Debug("event ignored", zap.String("etype", msg.Etype))
	}
	return nil
}

func (s *sceneServer) absorbNodes(data any) []string {
	m, _ := data.(map[string]any)
	nodes, _ := m["nodes"].([]any)
	var keys []string
	for _, n := range nodes {
		node, ok := n.(map[string]any)
		if !ok {
			continue
		}
		key, _ := node["key"].(string)
		if key == "" {
			continue
		}
		s.nodes[key] = node
		keys = append(keys, key)
	}
	return keys
}

func (s *sceneServer) handleRPC(req *protocol.Message) *protocol.Message {
	switch req.Etype {
	case "COMPUTE":
		var sum float64
		for _, a := range req.Args {
			// Wire formats disagree on integer width for small numbers.
			switch n := a.(type) {
			case int8:
				sum += float64(n)
			case int16:
				sum += float64(n)
			case int32:
				sum += float64(n)
			case int64:
				sum += float64(n)
			case int:
				sum += float64(n)
			case uint8:
				sum += float64(n)
			case uint16:
				sum += float64(n)
			case uint32:
				sum += float64(n)
			case uint64:
				sum += float64(n)
			case float32:
				sum += float64(n)
			case float64:
				sum += n
			}
		}
		return protocol.Respond(req, true, "", 0).
			WithData(map[string]any{"result": sum})
	default:
		return protocol.Respond(req, false, "unknown rpc: "+req.Etype, 0)
	}
}
