package zdata

import "fmt"

// Well-known record fields. Codecs may add their own metadata fields but
// must not repurpose "ztype" or "b".
const (
    FieldZtype = "ztype" // required, non-empty string
    FieldBytes = "b"     // codec payload bytes
    FieldDType = "dtype" // numeric codecs: element type tag
    FieldShape = "shape" // numeric codecs: ordered dimension sizes
)

// Record is the ZData wire shape: a tagged mapping carrying the codec
// payload plus open scalar metadata. It is deliberately a map type so
// that a record freshly built by an encoder and a record unmarshaled
// from the wire look identical to the traversal layer.
type Record map[string]any

// Ztype returns the record's type tag, or "" if absent/not a string.
func (r Record) Ztype() string {
    s, _ := r[FieldZtype].(string)
    return s
}

// Bytes returns the payload bytes. A string payload (produced by text
// formats before the binary-safe layer runs) is passed through as raw
// bytes.
func (r Record) Bytes() []byte {
    switch b := r[FieldBytes].(type) {
    case []byte:
        return b
    case string:
        return []byte(b)
    default:
        return nil
    }
}

// DType returns the element-type tag, or "" if absent.
func (r Record) DType() DType {
    s, _ := r[FieldDType].(string)
    return DType(s)
}

// Shape returns the declared dimension sizes. Wire formats disagree on
// integer representation (msgpack int64/uint64, json float64), so every
// numeric element type is coerced.
func (r Record) Shape() ([]int, error) {
    raw, ok := r[FieldShape]
    if !ok {
        return nil, fmt.Errorf("%w: record has no shape", ErrCorruptPayload)
    }
    switch s := raw.(type) {
    case []int:
        return append([]int(nil), s...), nil
    case []any:
        out := make([]int, len(s))
        for i, e := range s {
            n, ok := toInt(e)
            if !ok {
                return nil, fmt.Errorf("%w: shape element %d is %T", ErrCorruptPayload, i, e)
            }
            out[i] = n
        }
        return out, nil
    default:
        return nil, fmt.Errorf("%w: shape is %T", ErrCorruptPayload, raw)
    }
}

// IsRecord reports whether v is record-shaped: a string-keyed mapping
// carrying a non-empty string ztype field.
func IsRecord(v any) bool {
    _, ok := AsRecord(v)
    return ok
}

// AsRecord converts v to a Record when it is record-shaped.
func AsRecord(v any) (Record, bool) {
    var m Record
    switch x := v.(type) {
    case Record:
        m = x
    case map[string]any:
        m = Record(x)
    default:
        return nil, false
    }
    if m.Ztype() == "" {
        return nil, false
    }
    return m, true
}

func toInt(v any) (int, bool) {
    switch n := v.(type) {
    case int:
        return n, true
    case int8:
        return int(n), true
    case int16:
        return int(n), true
    case int32:
        return int(n), true
    case int64:
        return int(n), true
    case uint:
        return int(n), true
    case uint8:
        return int(n), true
    case uint16:
        return int(n), true
    case uint32:
        return int(n), true
    case uint64:
        return int(n), true
    case float32:
        return int(n), true
    case float64:
        return int(n), true
    default:
        return 0, false
    }
}
