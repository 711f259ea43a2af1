package serializer

import (
    "encoding/json"

    "github.com/vuer-ai/vuer-message-protocol/pkg/zdata"
)

// JSON is the text-native front-end: greedy traversal plus the
// binary-safe byte wrapping, applied symmetrically. The wrapping runs
// even when Greedy is off, since JSON cannot carry raw bytes either way.
//
// JSON numbers decode as float64, so integer-valued fields come back as
// floats; record metadata readers coerce.
type JSON struct {
    Greedy bool
    reg    *zdata.Registry
}

// NewJSON returns a greedy JSON serializer backed by reg (nil means
// zdata.Default).
func NewJSON(reg *zdata.Registry) *JSON {
    return &JSON{Greedy: true, reg: registryOrDefault(reg)}
}

func (s *JSON) Name() string { return NameJSON }

func (s *JSON) Encode(v any) ([]byte, error) {
    if s.Greedy {
        enc, err := encodeTree(s.reg, v)
        if err != nil {
            return nil, err
        }
        v = enc
    }
    return json.Marshal(WrapBytes(v))
}

func (s *JSON) Decode(data []byte) (any, error) {
    var out any
    if err := json.Unmarshal(data, &out); err != nil {
        return nil, err
    }
    out, err := UnwrapBytes(out)
    if err != nil {
        return nil, err
    }
    if !s.Greedy {
        return out, nil
    }
    return decodeTree(s.reg, out)
}
