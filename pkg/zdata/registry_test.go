package zdata

import (
    "errors"
    "testing"
)

type point struct{ X, Y int }

func pointCodec() (EncodeFunc, DecodeFunc) {
    enc := func(v any) (Record, error) {
        p := v.(point)
        return Record{FieldZtype: "point", FieldBytes: []byte{byte(p.X), byte(p.Y)}}, nil
    }
    dec := func(r Record) (any, error) {
        b := r.Bytes()
        if len(b) != 2 {
            return nil, ErrCorruptPayload
        }
        return point{X: int(b[0]), Y: int(b[1])}, nil
    }
    return enc, dec
}

func TestExactTypeDispatch(t *testing.T) {
    r := NewRegistry()
    enc, dec := pointCodec()
    if err := r.Register("point", enc, dec, ForType(point{})); err != nil {
        t.Fatalf("register: %v", err)
    }
    out, err := r.Encode(point{X: 3, Y: 7})
    if err != nil { t.Fatalf("encode: %v", err) }
    rec, ok := AsRecord(out)
    if !ok || rec.Ztype() != "point" {
        t.Fatalf("expected point record, got %#v", out)
    }
    back, err := r.Decode(rec)
    if err != nil { t.Fatalf("decode: %v", err) }
    if back.(point) != (point{X: 3, Y: 7}) {
        t.Fatalf("roundtrip mismatch: %#v", back)
    }
}

func TestPredicateOrderFirstMatchWins(t *testing.T) {
    r := NewRegistry()
    wide := func(v any) bool { _, ok := v.(string); return ok }
    narrow := func(v any) bool { s, ok := v.(string); return ok && len(s) > 3 }
    strEnc := func(zt string) EncodeFunc {
        return func(v any) (Record, error) {
            return Record{FieldZtype: zt, FieldBytes: []byte(v.(string))}, nil
        }
    }
    strDec := func(r Record) (any, error) { return string(r.Bytes()), nil }

    if err := r.Register("str-wide", strEnc("str-wide"), strDec, ForPredicate(wide)); err != nil {
        t.Fatalf("register wide: %v", err)
    }
    if err := r.Register("str-narrow", strEnc("str-narrow"), strDec, ForPredicate(narrow)); err != nil {
        t.Fatalf("register narrow: %v", err)
    }

    // Both predicates match; the one registered first must win.
    out, err := r.Encode("abcdef")
    if err != nil { t.Fatalf("encode: %v", err) }
    rec, _ := AsRecord(out)
    if rec.Ztype() != "str-wide" {
        t.Fatalf("expected first-registered predicate to win, got %q", rec.Ztype())
    }
}

func TestExactBeatsPredicate(t *testing.T) {
    r := NewRegistry()
    enc, dec := pointCodec()
    anyPoint := func(v any) bool { _, ok := v.(point); return ok }
    if err := r.Register("point-pred", enc, dec, ForPredicate(anyPoint)); err != nil {
        t.Fatalf("register predicate: %v", err)
    }
    if err := r.Register("point", enc, dec, ForType(point{})); err != nil {
        t.Fatalf("register exact: %v", err)
    }
    out, err := r.Encode(point{X: 1, Y: 2})
    if err != nil { t.Fatalf("encode: %v", err) }
    rec, _ := AsRecord(out)
    if zt := rec.Ztype(); zt != "point" {
        t.Fatalf("exact type should beat predicate, got %q", zt)
    }
}

func TestEncodePassThrough(t *testing.T) {
    r := NewRegistry()
    for _, v := range []any{"hello", 42, nil, true} {
        out, err := r.Encode(v)
        if err != nil { t.Fatalf("encode %v: %v", v, err) }
        if out != v {
            t.Fatalf("expected pass-through for %v, got %#v", v, out)
        }
    }
}

func TestDecodePassThrough(t *testing.T) {
    r := NewRegistry()
    // A mapping without a ztype field is not a record.
    plain := map[string]any{"a": 1}
    out, err := r.Decode(plain)
    if err != nil { t.Fatalf("decode: %v", err) }
    if m, ok := out.(map[string]any); !ok || m["a"] != 1 {
        t.Fatalf("expected pass-through, got %#v", out)
    }
}

func TestDecodeUnknownZtype(t *testing.T) {
    r := NewRegistry()
    _, err := r.Decode(map[string]any{FieldZtype: "no-such-codec"})
    if !errors.Is(err, ErrUnknownType) {
        t.Fatalf("expected ErrUnknownType, got %v", err)
    }
}

func TestRegisterEmptyZtype(t *testing.T) {
    r := NewRegistry()
    enc, dec := pointCodec()
    if err := r.Register("", enc, dec); !errors.Is(err, ErrInvalidRegistration) {
        t.Fatalf("expected ErrInvalidRegistration, got %v", err)
    }
}

func TestStrictModeRejectsReRegistration(t *testing.T) {
    r := NewRegistry(WithStrictTypes())
    enc, dec := pointCodec()
    if err := r.Register(ZtypeArray, enc, dec); !errors.Is(err, ErrInvalidRegistration) {
        t.Fatalf("expected ErrInvalidRegistration, got %v", err)
    }
}

func TestSilentOverwriteReplacesDecoder(t *testing.T) {
    r := NewRegistry()
    enc, _ := pointCodec()
    marker := func(Record) (any, error) { return "replaced", nil }
    if err := r.Register(ZtypeArray, enc, marker); err != nil {
        t.Fatalf("re-register: %v", err)
    }
    out, err := r.Decode(Record{FieldZtype: ZtypeArray})
    if err != nil { t.Fatalf("decode: %v", err) }
    if out != "replaced" {
        t.Fatalf("expected the replacement decoder to run, got %#v", out)
    }
}

func TestListTypes(t *testing.T) {
    r := NewRegistry()
    got := r.ListTypes()
    want := []string{ZtypeImage, ZtypeArray, ZtypeTensors} // sorted: image, ndarray, tensors
    if len(got) != len(want) {
        t.Fatalf("builtins: %v", got)
    }
    for i := range want {
        if got[i] != want[i] {
            t.Fatalf("expected sorted %v, got %v", want, got)
        }
    }
}
