package zdata

import "errors"

// Error kinds surfaced by the registry and the built-in codecs. Callers
// match with errors.Is; every failure is local to the single value being
// processed and is never retried.
var (
    // ErrInvalidRegistration reports an empty or malformed ztype at
    // Register time, or a re-registration conflict in strict mode.
    ErrInvalidRegistration = errors.New("zdata: invalid registration")

    // ErrUnknownType reports a decode of a record whose ztype has no
    // registered decoder.
    ErrUnknownType = errors.New("zdata: unknown ztype")

    // ErrCorruptPayload reports record metadata (dtype, shape, offsets)
    // inconsistent with the payload byte length.
    ErrCorruptPayload = errors.New("zdata: corrupt payload")

    // ErrInvalidCodecInput reports encoder input violating the codec's
    // structural precondition. No partial encoding is produced.
    ErrInvalidCodecInput = errors.New("zdata: invalid codec input")
)
