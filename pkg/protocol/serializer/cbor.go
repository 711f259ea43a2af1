package serializer

import (
    "reflect"

    cbor "github.com/fxamacker/cbor/v2"

    "github.com/vuer-ai/vuer-message-protocol/pkg/zdata"
)

// CBOR is the second binary-native front-end (RFC 8949, canonical
// encoding): byte strings ride natively, maps decode back to
// map[string]any so traversal sees the same container shapes as the
// other formats.
type CBOR struct {
    Greedy bool
    reg    *zdata.Registry
    enc    cbor.EncMode
    dec    cbor.DecMode
}

// NewCBOR returns a greedy CBOR serializer backed by reg (nil means
// zdata.Default).
func NewCBOR(reg *zdata.Registry) (*CBOR, error) {
    em, err := cbor.CanonicalEncOptions().EncMode()
    if err != nil {
        return nil, err
    }
    dm, err := cbor.DecOptions{
        DefaultMapType: reflect.TypeOf(map[string]any(nil)),
    }.DecMode()
    if err != nil {
        return nil, err
    }
    return &CBOR{Greedy: true, reg: registryOrDefault(reg), enc: em, dec: dm}, nil
}

func (s *CBOR) Name() string { return NameCBOR }

func (s *CBOR) Encode(v any) ([]byte, error) {
    if s.Greedy {
        enc, err := encodeTree(s.reg, v)
        if err != nil {
            return nil, err
        }
        v = enc
    }
    return s.enc.Marshal(v)
}

func (s *CBOR) Decode(data []byte) (any, error) {
    var out any
    if err := s.dec.Unmarshal(data, &out); err != nil {
        return nil, err
    }
    if !s.Greedy {
        return out, nil
    }
    return decodeTree(s.reg, out)
}
