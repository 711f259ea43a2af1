package zdata

import (
    "encoding/binary"
    "encoding/json"
    "fmt"
    "sort"
)

// ZtypeTensors tags records produced by the named multi-array codec.
const ZtypeTensors = "tensors"

// ArrayMap is a named collection of dense arrays packed into a single
// validated container. It is a distinct map type on purpose: the greedy
// traversal treats generic string-keyed mappings as containers, while an
// ArrayMap is a leaf handed to this codec whole.
type ArrayMap map[string]*Array

// Container layout, one contiguous buffer:
//
//  0..7   uint64 LE header length H
//  8..8+H JSON header: name -> {dtype, shape, data_offsets:[start,end]}
//  rest   entry payloads, offsets relative to the end of the header
//
// Entry names are sorted so identical inputs produce identical bytes.
type tensorEntry struct {
    DType   string   `json:"dtype"`
    Shape   []int    `json:"shape"`
    Offsets [2]int64 `json:"data_offsets"`
}

func encodeTensors(v any) (Record, error) {
    var m ArrayMap
    switch x := v.(type) {
    case ArrayMap:
        m = x
    case map[string]*Array:
        m = ArrayMap(x)
    default:
        return nil, fmt.Errorf("%w: tensors encoder needs ArrayMap, got %T", ErrInvalidCodecInput, v)
    }

    names := make([]string, 0, len(m))
    for name := range m {
        names = append(names, name)
    }
    sort.Strings(names)

    header := make(map[string]tensorEntry, len(m))
    var offset int64
    for _, name := range names {
        a := m[name]
        if a == nil {
            return nil, fmt.Errorf("%w: entry %q is nil", ErrInvalidCodecInput, name)
        }
        if err := a.validate(); err != nil {
            return nil, fmt.Errorf("%w: entry %q: %v", ErrInvalidCodecInput, name, err)
        }
        end := offset + int64(len(a.Data))
        header[name] = tensorEntry{
            DType:   string(a.DType),
            Shape:   append([]int(nil), a.Shape...),
            Offsets: [2]int64{offset, end},
        }
        offset = end
    }

    hb, err := json.Marshal(header)
    if err != nil {
        return nil, fmt.Errorf("%w: header: %v", ErrInvalidCodecInput, err)
    }
    buf := make([]byte, 8+len(hb), 8+len(hb)+int(offset))
    binary.LittleEndian.PutUint64(buf[:8], uint64(len(hb)))
    copy(buf[8:], hb)
    for _, name := range names {
        buf = append(buf, m[name].Data...)
    }

    return Record{
        FieldZtype: ZtypeTensors,
        FieldBytes: buf,
    }, nil
}

func decodeTensors(r Record) (any, error) {
    b := r.Bytes()
    if len(b) < 8 {
        return nil, fmt.Errorf("%w: tensors container shorter than header length", ErrCorruptPayload)
    }
    hlen := binary.LittleEndian.Uint64(b[:8])
    if hlen > uint64(len(b)-8) {
        return nil, fmt.Errorf("%w: tensors header length %d exceeds payload", ErrCorruptPayload, hlen)
    }
    var header map[string]tensorEntry
    if err := json.Unmarshal(b[8:8+hlen], &header); err != nil {
        return nil, fmt.Errorf("%w: tensors header: %v", ErrCorruptPayload, err)
    }

    data := b[8+hlen:]
    out := make(ArrayMap, len(header))
    for name, e := range header {
        start, end := e.Offsets[0], e.Offsets[1]
        if start < 0 || end < start || end > int64(len(data)) {
            return nil, fmt.Errorf("%w: entry %q offsets [%d,%d) out of range", ErrCorruptPayload, name, start, end)
        }
        a := &Array{
            DType: DType(e.DType),
            Shape: e.Shape,
            Data:  append([]byte(nil), data[start:end]...),
        }
        if err := a.validate(); err != nil {
            return nil, fmt.Errorf("%w: entry %q: %v", ErrCorruptPayload, name, err)
        }
        out[name] = a
    }
    return out, nil
}
