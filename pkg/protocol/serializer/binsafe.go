package serializer

import (
    "encoding/base64"
    "fmt"

    "github.com/vuer-ai/vuer-message-protocol/pkg/zdata"
)

// BytesMarker is the single field of a wrapped byte payload. A
// legitimate application mapping whose only field is this marker with a
// string value is indistinguishable from a wrapped payload and will be
// mis-restored on the way back; no escaping is provided.
const BytesMarker = "__bytes__"

// WrapBytes recursively replaces every raw byte sequence in the tree
// with {"__bytes__": base64}, making the tree safe for wire formats
// that cannot carry binary natively. Records are walked like any other
// mapping so their payload bytes get wrapped in place.
func WrapBytes(v any) any {
    switch x := v.(type) {
    case []byte:
        return map[string]any{BytesMarker: base64.StdEncoding.EncodeToString(x)}
    case map[string]any:
        out := make(map[string]any, len(x))
        for k, val := range x {
            out[k] = WrapBytes(val)
        }
        return out
    case zdata.Record:
        return WrapBytes(map[string]any(x))
    case []any:
        out := make([]any, len(x))
        for i, val := range x {
            out[i] = WrapBytes(val)
        }
        return out
    default:
        return v
    }
}

// UnwrapBytes reverses WrapBytes: any mapping whose only field is the
// marker with a string value becomes the decoded raw bytes.
func UnwrapBytes(v any) (any, error) {
    switch x := v.(type) {
    case map[string]any:
        if s, ok := wrappedString(x); ok {
            b, err := base64.StdEncoding.DecodeString(s)
            if err != nil {
                return nil, fmt.Errorf("unwrap bytes: %w", err)
            }
            return b, nil
        }
        out := make(map[string]any, len(x))
        for k, val := range x {
            dec, err := UnwrapBytes(val)
            if err != nil {
                return nil, err
            }
            out[k] = dec
        }
        return out, nil
    case []any:
        out := make([]any, len(x))
        for i, val := range x {
            dec, err := UnwrapBytes(val)
            if err != nil {
                return nil, err
            }
            out[i] = dec
        }
        return out, nil
    default:
        return v, nil
    }
}

func wrappedString(m map[string]any) (string, bool) {
    if len(m) != 1 {
        return "", false
    }
    s, ok := m[BytesMarker].(string)
    return s, ok
}
