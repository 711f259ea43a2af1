// Package zdata implements the tagged-record encoding scheme for payload
// kinds that have no native representation in generic wire formats:
// dense numeric arrays, images, and named multi-array collections.
//
// Values are encoded into self-describing records (see Record) by codecs
// looked up through a Registry. The package-level functions operate on
// Default, the single composition-root registry; extension packages add
// support for new payload types by calling Register at load time, which
// is the sole extension point.
//
//    arr := zdata.FromFloat32s([]float32{1, 2, 3, 4}, 2, 2)
//    rec, _ := zdata.Encode(arr)           // Record{ztype: "ndarray", ...}
//    back, _ := zdata.Decode(rec)          // *Array, byte-exact
package zdata

// Default is the process-wide registry with the built-in codecs loaded.
// It is an ordinary *Registry; code that wants isolation can make its
// own with NewRegistry and ignore this one.
var Default = NewRegistry()

func registerBuiltins(r *Registry) {
    // Registration of builtins cannot fail: ztypes are non-empty.
    _ = r.Register(ZtypeArray, encodeArray, decodeArray, ForType(&Array{}))
    _ = r.Register(ZtypeImage, encodeImage, decodeImage,
        ForType(&Image{}), ForPredicate(isImage))
    _ = r.Register(ZtypeTensors, encodeTensors, decodeTensors,
        ForType(ArrayMap(nil)), ForType(map[string]*Array(nil)))
}

// Encode dispatches v through the default registry. Unmatched values
// pass through unchanged.
func Encode(v any) (any, error) { return Default.Encode(v) }

// Decode reverses Encode through the default registry. Non-record values
// pass through unchanged.
func Decode(v any) (any, error) { return Default.Decode(v) }

// IsZData reports whether v is a record-shaped value.
func IsZData(v any) bool { return IsRecord(v) }

// Ztype returns the type tag of a record-shaped value.
func Ztype(v any) (string, bool) {
    rec, ok := AsRecord(v)
    if !ok {
        return "", false
    }
    return rec.Ztype(), true
}

// ListTypes returns the ztypes registered on the default registry.
func ListTypes() []string { return Default.ListTypes() }

// Register adds a codec pair to the default registry.
func Register(ztype string, enc EncodeFunc, dec DecodeFunc, opts ...RegisterOption) error {
    return Default.Register(ztype, enc, dec, opts...)
}
