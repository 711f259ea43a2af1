// Package serializer provides the wire front-ends for envelope and
// payload trees: greedy recursive ZData traversal composed with one
// concrete format per front-end. Binary-native formats (msgpack, cbor)
// carry record payload bytes directly; text-class formats (json,
// pbstruct) additionally pass every byte payload through the reversible
// binary-safe wrapping.
package serializer

import (
    "fmt"

    "github.com/vuer-ai/vuer-message-protocol/pkg/zdata"
)

// Serializer turns one complete in-memory value into wire bytes and
// back. There is no streaming or partial decode.
type Serializer interface {
    // Name returns the short format identifier ("msgpack", "json", ...).
    Name() string
    Encode(v any) ([]byte, error)
    Decode(data []byte) (any, error)
}

// Format names accepted by ByName.
const (
    NameMsgPack  = "msgpack"
    NameJSON     = "json"
    NameCBOR     = "cbor"
    NamePBStruct = "pbstruct"
)

// ByName returns a greedy serializer for the named format backed by reg
// (nil means zdata.Default).
func ByName(name string, reg *zdata.Registry) (Serializer, error) {
    switch name {
    case NameMsgPack:
        return NewMsgPack(reg), nil
    case NameJSON:
        return NewJSON(reg), nil
    case NameCBOR:
        return NewCBOR(reg)
    case NamePBStruct:
        return NewPBStruct(reg), nil
    default:
        return nil, fmt.Errorf("unknown serializer: %q", name)
    }
}

func registryOrDefault(reg *zdata.Registry) *zdata.Registry {
    if reg == nil {
        return zdata.Default
    }
    return reg
}
