package serializer

import (
    "fmt"

    "google.golang.org/protobuf/proto"
    "google.golang.org/protobuf/types/known/structpb"

    "github.com/vuer-ai/vuer-message-protocol/pkg/zdata"
)

// PBStruct serializes through google.protobuf.Struct with deterministic
// proto marshaling. Struct has no bytes kind, which makes this a
// text-class format: byte payloads go through the binary-safe wrapping,
// and numbers come back as float64, exactly like JSON.
//
// The top-level value must be a mapping (a Struct is a map of fields);
// envelopes always are.
type PBStruct struct {
    Greedy bool
    reg    *zdata.Registry
}

// NewPBStruct returns a greedy protobuf-Struct serializer backed by reg
// (nil means zdata.Default).
func NewPBStruct(reg *zdata.Registry) *PBStruct {
    return &PBStruct{Greedy: true, reg: registryOrDefault(reg)}
}

func (s *PBStruct) Name() string { return NamePBStruct }

func (s *PBStruct) Encode(v any) ([]byte, error) {
    if s.Greedy {
        enc, err := encodeTree(s.reg, v)
        if err != nil {
            return nil, err
        }
        v = enc
    }
    m, ok := WrapBytes(v).(map[string]any)
    if !ok {
        return nil, fmt.Errorf("pbstruct: top-level value must be a mapping, got %T", v)
    }
    st, err := structpb.NewStruct(m)
    if err != nil {
        return nil, fmt.Errorf("pbstruct: %w", err)
    }
    return proto.MarshalOptions{Deterministic: true}.Marshal(st)
}

func (s *PBStruct) Decode(data []byte) (any, error) {
    var st structpb.Struct
    if err := proto.Unmarshal(data, &st); err != nil {
        return nil, err
    }
    out, err := UnwrapBytes(st.AsMap())
    if err != nil {
        return nil, err
    }
    if !s.Greedy {
        return out, nil
    }
    return decodeTree(s.reg, out)
}
