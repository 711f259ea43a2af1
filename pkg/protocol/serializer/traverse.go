package serializer

import (
    "github.com/vuer-ai/vuer-message-protocol/pkg/protocol"
    "github.com/vuer-ai/vuer-message-protocol/pkg/zdata"
)

// Greedy traversal: depth-first over string-keyed mappings and
// sequences, applying single-value ZData dispatch at the boundaries.
//
// The two modes are deliberately asymmetric. encodeTree checks for a
// container before ever offering a value to leaf dispatch, so a generic
// mapping that happens to satisfy a registered predicate is still walked
// as a container; only a direct, non-recursive Registry.Encode call can
// dispatch it as a leaf. decodeTree short-circuits at record boundaries:
// a record-shaped mapping is decoded as one unit and its internal fields
// are never walked.

func encodeTree(reg *zdata.Registry, v any) (any, error) {
    switch x := v.(type) {
    case *protocol.Message:
        return encodeTree(reg, x.AsMap())
    case protocol.Message:
        return encodeTree(reg, x.AsMap())
    case map[string]any:
        out := make(map[string]any, len(x))
        for k, val := range x {
            enc, err := encodeTree(reg, val)
            if err != nil {
                return nil, err
            }
            out[k] = enc
        }
        return out, nil
    case []any:
        out := make([]any, len(x))
        for i, val := range x {
            enc, err := encodeTree(reg, val)
            if err != nil {
                return nil, err
            }
            out[i] = enc
        }
        return out, nil
    default:
        return reg.Encode(v)
    }
}

func decodeTree(reg *zdata.Registry, v any) (any, error) {
    if rec, ok := zdata.AsRecord(v); ok {
        return reg.Decode(rec)
    }
    switch x := v.(type) {
    case map[string]any:
        out := make(map[string]any, len(x))
        for k, val := range x {
            dec, err := decodeTree(reg, val)
            if err != nil {
                return nil, err
            }
            out[k] = dec
        }
        return out, nil
    case zdata.Record:
        // Record-typed but ztype-less; walk it as a plain mapping.
        return decodeTree(reg, map[string]any(x))
    case []any:
        out := make([]any, len(x))
        for i, val := range x {
            dec, err := decodeTree(reg, val)
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
