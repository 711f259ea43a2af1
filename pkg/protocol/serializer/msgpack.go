package serializer

import (
    "bytes"

    "github.com/vmihailenco/msgpack/v5"

    "github.com/vuer-ai/vuer-message-protocol/pkg/zdata"
)

// MsgPack is the binary-native front-end: MessagePack carries record
// payload bytes as bin values, so traversal output goes straight to the
// packer. Greedy defaults to true; turning it off skips ZData traversal
// entirely and packs the value as-is.
type MsgPack struct {
    Greedy bool
    reg    *zdata.Registry
}

// NewMsgPack returns a greedy MessagePack serializer backed by reg
// (nil means zdata.Default).
func NewMsgPack(reg *zdata.Registry) *MsgPack {
    return &MsgPack{Greedy: true, reg: registryOrDefault(reg)}
}

func (s *MsgPack) Name() string { return NameMsgPack }

func (s *MsgPack) Encode(v any) ([]byte, error) {
    if s.Greedy {
        enc, err := encodeTree(s.reg, v)
        if err != nil {
            return nil, err
        }
        v = enc
    }
    return msgpack.Marshal(v)
}

func (s *MsgPack) Decode(data []byte) (any, error) {
    dec := msgpack.NewDecoder(bytes.NewReader(data))
    // String-keyed maps throughout; the traversal only understands
    // map[string]any containers.
    dec.SetMapDecoder(func(d *msgpack.Decoder) (any, error) {
        return d.DecodeMap()
    })
    var out any
    if err := dec.Decode(&out); err != nil {
        return nil, err
    }
    if !s.Greedy {
        return out, nil
    }
    return decodeTree(s.reg, out)
}
