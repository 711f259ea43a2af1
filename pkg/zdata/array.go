package zdata

import (
    "encoding/binary"
    "fmt"
    "math"
)

// ZtypeArray tags records produced by the dense numeric array codec.
const ZtypeArray = "ndarray"

// DType names the element type of an Array. The on-wire layout is fixed
// little-endian regardless of host order.
type DType string

const (
    Int8       DType = "int8"
    Int16      DType = "int16"
    Int32      DType = "int32"
    Int64      DType = "int64"
    Uint8      DType = "uint8"
    Uint16     DType = "uint16"
    Uint32     DType = "uint32"
    Uint64     DType = "uint64"
    Float32    DType = "float32"
    Float64    DType = "float64"
    Complex64  DType = "complex64"
    Complex128 DType = "complex128"
)

// Size returns the per-element byte width, or 0 for an unknown dtype.
func (d DType) Size() int {
    switch d {
    case Int8, Uint8:
        return 1
    case Int16, Uint16:
        return 2
    case Int32, Uint32, Float32:
        return 4
    case Int64, Uint64, Float64, Complex64:
        return 8
    case Complex128:
        return 16
    default:
        return 0
    }
}

// Array is a dense homogeneous numeric array: flat little-endian bytes
// plus an element-type tag and an ordered shape. Data holds exactly
// prod(Shape) * DType.Size() bytes; the ndarray encoder rejects anything
// else with ErrInvalidCodecInput.
type Array struct {
    DType DType
    Shape []int
    Data  []byte
}

// Len returns the element count implied by the shape. An empty shape
// means a zero-length one-dimensional array, not a scalar.
func (a *Array) Len() int {
    if len(a.Shape) == 0 {
        return 0
    }
    n := 1
    for _, d := range a.Shape {
        if d < 0 {
            return -1
        }
        n *= d
    }
    return n
}

func (a *Array) validate() error {
    size := a.DType.Size()
    if size == 0 {
        return fmt.Errorf("unknown dtype %q", a.DType)
    }
    n := a.Len()
    if n < 0 {
        return fmt.Errorf("negative dimension in shape %v", a.Shape)
    }
    if len(a.Data) != n*size {
        return fmt.Errorf("dtype %s shape %v needs %d bytes, have %d",
            a.DType, a.Shape, n*size, len(a.Data))
    }
    return nil
}

func shapeOrFlat(n int, shape []int) []int {
    if len(shape) == 0 {
        return []int{n}
    }
    return append([]int(nil), shape...)
}

// FromInt8s builds an int8 array. Omitting shape yields a 1-D array.
func FromInt8s(v []int8, shape ...int) *Array {
    b := make([]byte, len(v))
    for i, x := range v {
        b[i] = byte(x)
    }
    return &Array{DType: Int8, Shape: shapeOrFlat(len(v), shape), Data: b}
}

// FromUint8s builds a uint8 array.
func FromUint8s(v []uint8, shape ...int) *Array {
    return &Array{DType: Uint8, Shape: shapeOrFlat(len(v), shape), Data: append([]byte(nil), v...)}
}

// FromInt16s builds an int16 array.
func FromInt16s(v []int16, shape ...int) *Array {
    b := make([]byte, 2*len(v))
    for i, x := range v {
        binary.LittleEndian.PutUint16(b[2*i:], uint16(x))
    }
    return &Array{DType: Int16, Shape: shapeOrFlat(len(v), shape), Data: b}
}

// FromUint16s builds a uint16 array.
func FromUint16s(v []uint16, shape ...int) *Array {
    b := make([]byte, 2*len(v))
    for i, x := range v {
        binary.LittleEndian.PutUint16(b[2*i:], x)
    }
    return &Array{DType: Uint16, Shape: shapeOrFlat(len(v), shape), Data: b}
}

// FromInt32s builds an int32 array.
func FromInt32s(v []int32, shape ...int) *Array {
    b := make([]byte, 4*len(v))
    for i, x := range v {
        binary.LittleEndian.PutUint32(b[4*i:], uint32(x))
    }
    return &Array{DType: Int32, Shape: shapeOrFlat(len(v), shape), Data: b}
}

// FromUint32s builds a uint32 array.
func FromUint32s(v []uint32, shape ...int) *Array {
    b := make([]byte, 4*len(v))
    for i, x := range v {
        binary.LittleEndian.PutUint32(b[4*i:], x)
    }
    return &Array{DType: Uint32, Shape: shapeOrFlat(len(v), shape), Data: b}
}

// FromInt64s builds an int64 array.
func FromInt64s(v []int64, shape ...int) *Array {
    b := make([]byte, 8*len(v))
    for i, x := range v {
        binary.LittleEndian.PutUint64(b[8*i:], uint64(x))
    }
    return &Array{DType: Int64, Shape: shapeOrFlat(len(v), shape), Data: b}
}

// FromUint64s builds a uint64 array.
func FromUint64s(v []uint64, shape ...int) *Array {
    b := make([]byte, 8*len(v))
    for i, x := range v {
        binary.LittleEndian.PutUint64(b[8*i:], x)
    }
    return &Array{DType: Uint64, Shape: shapeOrFlat(len(v), shape), Data: b}
}

// FromFloat32s builds a float32 array. The bit pattern of every element
// is preserved exactly, NaN payloads included.
func FromFloat32s(v []float32, shape ...int) *Array {
    b := make([]byte, 4*len(v))
    for i, x := range v {
        binary.LittleEndian.PutUint32(b[4*i:], math.Float32bits(x))
    }
    return &Array{DType: Float32, Shape: shapeOrFlat(len(v), shape), Data: b}
}

// FromFloat64s builds a float64 array.
func FromFloat64s(v []float64, shape ...int) *Array {
    b := make([]byte, 8*len(v))
    for i, x := range v {
        binary.LittleEndian.PutUint64(b[8*i:], math.Float64bits(x))
    }
    return &Array{DType: Float64, Shape: shapeOrFlat(len(v), shape), Data: b}
}

// FromComplex64s builds a complex64 array, stored as interleaved
// real/imag float32 pairs.
func FromComplex64s(v []complex64, shape ...int) *Array {
    b := make([]byte, 8*len(v))
    for i, x := range v {
        binary.LittleEndian.PutUint32(b[8*i:], math.Float32bits(real(x)))
        binary.LittleEndian.PutUint32(b[8*i+4:], math.Float32bits(imag(x)))
    }
    return &Array{DType: Complex64, Shape: shapeOrFlat(len(v), shape), Data: b}
}

// FromComplex128s builds a complex128 array, stored as interleaved
// real/imag float64 pairs.
func FromComplex128s(v []complex128, shape ...int) *Array {
    b := make([]byte, 16*len(v))
    for i, x := range v {
        binary.LittleEndian.PutUint64(b[16*i:], math.Float64bits(real(x)))
        binary.LittleEndian.PutUint64(b[16*i+8:], math.Float64bits(imag(x)))
    }
    return &Array{DType: Complex128, Shape: shapeOrFlat(len(v), shape), Data: b}
}

func (a *Array) elems(want DType) (int, error) {
    if a.DType != want {
        return 0, fmt.Errorf("array is %s, not %s", a.DType, want)
    }
    if err := a.validate(); err != nil {
        return 0, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
    }
    return a.Len(), nil
}

// Int8s reinterprets the payload as int8 elements in shape order.
func (a *Array) Int8s() ([]int8, error) {
    n, err := a.elems(Int8)
    if err != nil {
        return nil, err
    }
    out := make([]int8, n)
    for i := range out {
        out[i] = int8(a.Data[i])
    }
    return out, nil
}

// Uint8s reinterprets the payload as uint8 elements.
func (a *Array) Uint8s() ([]uint8, error) {
    n, err := a.elems(Uint8)
    if err != nil {
        return nil, err
    }
    return append([]uint8(nil), a.Data[:n]...), nil
}

// Int16s reinterprets the payload as int16 elements.
func (a *Array) Int16s() ([]int16, error) {
    n, err := a.elems(Int16)
    if err != nil {
        return nil, err
    }
    out := make([]int16, n)
    for i := range out {
        out[i] = int16(binary.LittleEndian.Uint16(a.Data[2*i:]))
    }
    return out, nil
}

// Uint16s reinterprets the payload as uint16 elements.
func (a *Array) Uint16s() ([]uint16, error) {
    n, err := a.elems(Uint16)
    if err != nil {
        return nil, err
    }
    out := make([]uint16, n)
    for i := range out {
        out[i] = binary.LittleEndian.Uint16(a.Data[2*i:])
    }
    return out, nil
}

// Int32s reinterprets the payload as int32 elements.
func (a *Array) Int32s() ([]int32, error) {
    n, err := a.elems(Int32)
    if err != nil {
        return nil, err
    }
    out := make([]int32, n)
    for i := range out {
        out[i] = int32(binary.LittleEndian.Uint32(a.Data[4*i:]))
    }
    return out, nil
}

// Uint32s reinterprets the payload as uint32 elements.
func (a *Array) Uint32s() ([]uint32, error) {
    n, err := a.elems(Uint32)
    if err != nil {
        return nil, err
    }
    out := make([]uint32, n)
    for i := range out {
        out[i] = binary.LittleEndian.Uint32(a.Data[4*i:])
    }
    return out, nil
}

// Int64s reinterprets the payload as int64 elements.
func (a *Array) Int64s() ([]int64, error) {
    n, err := a.elems(Int64)
    if err != nil {
        return nil, err
    }
    out := make([]int64, n)
    for i := range out {
        out[i] = int64(binary.LittleEndian.Uint64(a.Data[8*i:]))
    }
    return out, nil
}

// Uint64s reinterprets the payload as uint64 elements.
func (a *Array) Uint64s() ([]uint64, error) {
    n, err := a.elems(Uint64)
    if err != nil {
        return nil, err
    }
    out := make([]uint64, n)
    for i := range out {
        out[i] = binary.LittleEndian.Uint64(a.Data[8*i:])
    }
    return out, nil
}

// Float32s reinterprets the payload as float32 elements.
func (a *Array) Float32s() ([]float32, error) {
    n, err := a.elems(Float32)
    if err != nil {
        return nil, err
    }
    out := make([]float32, n)
    for i := range out {
        out[i] = math.Float32frombits(binary.LittleEndian.Uint32(a.Data[4*i:]))
    }
    return out, nil
}

// Float64s reinterprets the payload as float64 elements.
func (a *Array) Float64s() ([]float64, error) {
    n, err := a.elems(Float64)
    if err != nil {
        return nil, err
    }
    out := make([]float64, n)
    for i := range out {
        out[i] = math.Float64frombits(binary.LittleEndian.Uint64(a.Data[8*i:]))
    }
    return out, nil
}

// Complex64s reinterprets the payload as complex64 elements.
func (a *Array) Complex64s() ([]complex64, error) {
    n, err := a.elems(Complex64)
    if err != nil {
        return nil, err
    }
    out := make([]complex64, n)
    for i := range out {
        re := math.Float32frombits(binary.LittleEndian.Uint32(a.Data[8*i:]))
        im := math.Float32frombits(binary.LittleEndian.Uint32(a.Data[8*i+4:]))
        out[i] = complex(re, im)
    }
    return out, nil
}

// Complex128s reinterprets the payload as complex128 elements.
func (a *Array) Complex128s() ([]complex128, error) {
    n, err := a.elems(Complex128)
    if err != nil {
        return nil, err
    }
    out := make([]complex128, n)
    for i := range out {
        re := math.Float64frombits(binary.LittleEndian.Uint64(a.Data[16*i:]))
        im := math.Float64frombits(binary.LittleEndian.Uint64(a.Data[16*i+8:]))
        out[i] = complex(re, im)
    }
    return out, nil
}

func shapeToAny(shape []int) []any {
    out := make([]any, len(shape))
    for i, d := range shape {
        out[i] = d
    }
    return out
}

func encodeArray(v any) (Record, error) {
    a, ok := v.(*Array)
    if !ok {
        return nil, fmt.Errorf("%w: ndarray encoder needs *Array, got %T", ErrInvalidCodecInput, v)
    }
    if err := a.validate(); err != nil {
        return nil, fmt.Errorf("%w: %v", ErrInvalidCodecInput, err)
    }
    return Record{
        FieldZtype: ZtypeArray,
        FieldBytes: append([]byte(nil), a.Data...),
        FieldDType: string(a.DType),
        // Shape travels as []any so every wire format can carry it.
        FieldShape: shapeToAny(a.Shape),
    }, nil
}

func decodeArray(r Record) (any, error) {
    dtype := r.DType()
    size := dtype.Size()
    if size == 0 {
        return nil, fmt.Errorf("%w: unknown dtype %q", ErrCorruptPayload, string(dtype))
    }
    shape, err := r.Shape()
    if err != nil {
        return nil, err
    }
    a := &Array{DType: dtype, Shape: shape, Data: r.Bytes()}
    // Validate declared dims against the payload length before any
    // reinterpretation happens.
    if err := a.validate(); err != nil {
        return nil, fmt.Errorf("%w: %v", ErrCorruptPayload, err)
    }
    return a, nil
}
