// Package protocol defines the message envelope and field conventions
// for scene-update events and RPC calls exchanged between heterogeneous
// producers and consumers. The envelope is a flat tagged map on the
// wire; serialization lives in the serializer subpackage.
package protocol

import "time"

// Envelope field names as they appear on the wire.
const (
    FieldTs     = "ts"
    FieldEtype  = "etype"
    FieldRtype  = "rtype"
    FieldArgs   = "args"
    FieldKwargs = "kwargs"
    FieldData   = "data"
    FieldValue  = "value"
    FieldKey    = "key"
    FieldUUID   = "uuid"
    FieldOK     = "ok"
    FieldError  = "error"
)

// Message is the envelope superset. Concrete kinds (client event, server
// event, RPC request/response) are field subsets; consumers treat any
// field irrelevant to a given kind as absent. Data carries server-origin
// payloads, Value client-origin ones.
type Message struct {
    Ts     int64          `msgpack:"ts" json:"ts"`
    Etype  string         `msgpack:"etype" json:"etype"`
    Rtype  string         `msgpack:"rtype,omitempty" json:"rtype,omitempty"`
    Args   []any          `msgpack:"args,omitempty" json:"args,omitempty"`
    Kwargs map[string]any `msgpack:"kwargs,omitempty" json:"kwargs,omitempty"`
    Data   any            `msgpack:"data,omitempty" json:"data,omitempty"`
    Value  any            `msgpack:"value,omitempty" json:"value,omitempty"`
    Key    string         `msgpack:"key,omitempty" json:"key,omitempty"`
    UUID   string         `msgpack:"uuid,omitempty" json:"uuid,omitempty"`
    OK     *bool          `msgpack:"ok,omitempty" json:"ok,omitempty"`
    Error  string         `msgpack:"error,omitempty" json:"error,omitempty"`
}

// NowMillis returns the current wall clock in integer milliseconds, the
// envelope timestamp unit.
func NowMillis() int64 { return time.Now().UnixMilli() }

func stamp(ts int64) int64 {
    if ts > 0 {
        return ts
    }
    return NowMillis()
}

// NewClientEvent builds a value-bearing client-origin event. key may be
// empty; ts <= 0 stamps the current time.
func NewClientEvent(etype string, value any, key string, ts int64) *Message {
    return &Message{Ts: stamp(ts), Etype: etype, Value: value, Key: key}
}

// NewServerEvent builds a data-bearing server-origin event.
func NewServerEvent(etype string, data any, ts int64) *Message {
    return &Message{Ts: stamp(ts), Etype: etype, Data: data}
}

// AsMap returns the wire view of the message: a map carrying only the
// fields that are set.
func (m *Message) AsMap() map[string]any {
    out := map[string]any{
        FieldTs:    m.Ts,
        FieldEtype: m.Etype,
    }
    if m.Rtype != "" {
        out[FieldRtype] = m.Rtype
    }
    if m.Args != nil {
        out[FieldArgs] = m.Args
    }
    if m.Kwargs != nil {
        out[FieldKwargs] = m.Kwargs
    }
    if m.Data != nil {
        out[FieldData] = m.Data
    }
    if m.Value != nil {
        out[FieldValue] = m.Value
    }
    if m.Key != "" {
        out[FieldKey] = m.Key
    }
    if m.UUID != "" {
        out[FieldUUID] = m.UUID
    }
    if m.OK != nil {
        out[FieldOK] = *m.OK
    }
    if m.Error != "" {
        out[FieldError] = m.Error
    }
    return out
}

// FromMap rebuilds a Message from its wire view. Wire formats disagree
// on integer width for ts, so any numeric representation is accepted.
func FromMap(m map[string]any) *Message {
    out := &Message{}
    out.Ts = asInt64(m[FieldTs])
    out.Etype, _ = m[FieldEtype].(string)
    out.Rtype, _ = m[FieldRtype].(string)
    out.Args, _ = m[FieldArgs].([]any)
    out.Kwargs, _ = m[FieldKwargs].(map[string]any)
    out.Data = m[FieldData]
    out.Value = m[FieldValue]
    out.Key, _ = m[FieldKey].(string)
    out.UUID, _ = m[FieldUUID].(string)
    if ok, isBool := m[FieldOK].(bool); isBool {
        out.OK = &ok
    }
    out.Error, _ = m[FieldError].(string)
    return out
}

func asInt64(v any) int64 {
    switch n := v.(type) {
    case int64:
        return n
    case int:
        return int64(n)
    case int32:
        return int64(n)
    case int16:
        return int64(n)
    case int8:
        return int64(n)
    case uint64:
        return int64(n)
    case uint32:
        return int64(n)
    case uint16:
        return int64(n)
    case uint8:
        return int64(n)
    case uint:
        return int64(n)
    case float64:
        return int64(n)
    case float32:
        return int64(n)
    default:
        return 0
    }
}
