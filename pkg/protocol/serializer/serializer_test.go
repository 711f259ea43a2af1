package serializer

import (
    "testing"

    "github.com/vuer-ai/vuer-message-protocol/pkg/protocol"
    "github.com/vuer-ai/vuer-message-protocol/pkg/zdata"
)

func allSerializers(t *testing.T) []Serializer {
    t.Helper()
    out := make([]Serializer, 0, 4)
    for _, name := range []string{NameMsgPack, NameJSON, NameCBOR, NamePBStruct} {
        s, err := ByName(name, nil)
        if err != nil { t.Fatalf("%s: %v", name, err) }
        if s.Name() != name {
            t.Fatalf("name mismatch: %q != %q", s.Name(), name)
        }
        out = append(out, s)
    }
    return out
}

func TestEnvelopeRoundTripAllFormats(t *testing.T) {
    verts := zdata.FromFloat32s([]float32{0, 0.5, 0, 1, 0.5, 1}, 2, 3)
    node := map[string]any{"key": "pointcloud", "vertices": verts}
    env := protocol.AddEvent([]any{node}, "", 123)

    for _, s := range allSerializers(t) {
        wire, err := s.Encode(env)
        if err != nil { t.Fatalf("%s encode: %v", s.Name(), err) }

        dec, err := s.Decode(wire)
        if err != nil { t.Fatalf("%s decode: %v", s.Name(), err) }
        m, ok := dec.(map[string]any)
        if !ok { t.Fatalf("%s: decoded %T", s.Name(), dec) }

        got := protocol.FromMap(m)
        if got.Etype != protocol.EtypeAdd || got.Ts != 123 {
            t.Fatalf("%s envelope: %#v", s.Name(), got)
        }
        data := got.Data.(map[string]any)
        if data["to"] != protocol.DefaultTarget {
            t.Fatalf("%s to: %v", s.Name(), data["to"])
        }
        nodes := data["nodes"].([]any)
        n := nodes[0].(map[string]any)
        if n["key"] != "pointcloud" {
            t.Fatalf("%s node key: %v", s.Name(), n["key"])
        }
        arr, ok := n["vertices"].(*zdata.Array)
        if !ok {
            t.Fatalf("%s vertices not restored: %#v", s.Name(), n["vertices"])
        }
        if len(arr.Shape) != 2 || arr.Shape[0] != 2 || arr.Shape[1] != 3 {
            t.Fatalf("%s shape: %v", s.Name(), arr.Shape)
        }
        vals, err := arr.Float32s()
        if err != nil { t.Fatalf("%s float32s: %v", s.Name(), err) }
        if vals[1] != 0.5 || vals[5] != 1 {
            t.Fatalf("%s values: %v", s.Name(), vals)
        }
    }
}

func TestTensorsSurviveEveryFormat(t *testing.T) {
    tensors := zdata.ArrayMap{
        "pos": zdata.FromFloat64s([]float64{1.5, 2.5}),
        "idx": zdata.FromInt32s([]int32{0, 1}),
    }
    env := protocol.NewServerEvent("FRAME", map[string]any{"tensors": tensors}, 5)

    for _, s := range allSerializers(t) {
        wire, err := s.Encode(env)
        if err != nil { t.Fatalf("%s encode: %v", s.Name(), err) }
        dec, err := s.Decode(wire)
        if err != nil { t.Fatalf("%s decode: %v", s.Name(), err) }
        got := protocol.FromMap(dec.(map[string]any))
        back, ok := got.Data.(map[string]any)["tensors"].(zdata.ArrayMap)
        if !ok {
            t.Fatalf("%s tensors not restored: %#v", s.Name(), got.Data)
        }
        pos, err := back["pos"].Float64s()
        if err != nil { t.Fatalf("%s pos: %v", s.Name(), err) }
        if pos[0] != 1.5 || pos[1] != 2.5 {
            t.Fatalf("%s pos values: %v", s.Name(), pos)
        }
    }
}

func TestRawBytesSurviveTextFormats(t *testing.T) {
    // Raw bytes that never belonged to a record must still cross a
    // text-class wire intact.
    env := map[string]any{"blob": []byte{0x00, 0xff, 0x10}}
    for _, name := range []string{NameJSON, NamePBStruct} {
        s, err := ByName(name, nil)
        if err != nil { t.Fatalf("%s: %v", name, err) }
        wire, err := s.Encode(env)
        if err != nil { t.Fatalf("%s encode: %v", name, err) }
        dec, err := s.Decode(wire)
        if err != nil { t.Fatalf("%s decode: %v", name, err) }
        blob, ok := dec.(map[string]any)["blob"].([]byte)
        if !ok || len(blob) != 3 || blob[1] != 0xff {
            t.Fatalf("%s blob: %#v", name, dec)
        }
    }
}

func TestNonGreedySkipsTraversal(t *testing.T) {
    s := NewMsgPack(nil)
    s.Greedy = false

    rec, err := zdata.Encode(zdata.FromUint8s([]uint8{9}))
    if err != nil { t.Fatalf("encode: %v", err) }
    wire, err := s.Encode(map[string]any{"r": rec})
    if err != nil { t.Fatalf("marshal: %v", err) }
    dec, err := s.Decode(wire)
    if err != nil { t.Fatalf("unmarshal: %v", err) }
    // Non-greedy mode must leave the record as a plain mapping.
    r := dec.(map[string]any)["r"]
    if _, isArr := r.(*zdata.Array); isArr {
        t.Fatalf("non-greedy decode still ran zdata")
    }
    if zt, _ := zdata.Ztype(r); zt != zdata.ZtypeArray {
        t.Fatalf("record shape lost: %#v", r)
    }
}

func TestPBStructRejectsNonMappingTopLevel(t *testing.T) {
    s := NewPBStruct(nil)
    if _, err := s.Encode([]any{1, 2}); err == nil {
        t.Fatalf("expected top-level mapping error")
    }
}

func TestByNameUnknown(t *testing.T) {
    if _, err := ByName("avro", nil); err == nil {
        t.Fatalf("expected unknown serializer error")
    }
}
