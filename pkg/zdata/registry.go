package zdata

import (
    "fmt"
    "reflect"
    "sort"
    "sync"

    "go.uber.org/zap"
)

// EncodeFunc converts one value into a tagged record.
type EncodeFunc func(v any) (Record, error)

// DecodeFunc reconstructs the value a record was encoded from.
type DecodeFunc func(r Record) (any, error)

// Registry maps ztype identifiers to codec pairs and dispatches encode
// calls by exact runtime type first, then by ordered predicate scan.
// Registration order of predicates is the dispatch tie-break; identical
// registration sequences always dispatch identically.
//
// Register takes the write side of an RWMutex, Encode/Decode the read
// side, so registration may race safely with traffic; the intended use
// is still load-time registration followed by read-only traffic.
type Registry struct {
    mu     sync.RWMutex
    strict bool
    log    *zap.Logger

    exact      map[reflect.Type]encoderEntry
    predicates []predicateEntry
    decoders   map[string]DecodeFunc
}

type encoderEntry struct {
    ztype string
    enc   EncodeFunc
}

type predicateEntry struct {
    check func(any) bool
    ztype string
    enc   EncodeFunc
}

// Option configures a Registry at construction time.
type Option func(*Registry)

// WithStrictTypes makes re-registration of an existing ztype fail with
// ErrInvalidRegistration instead of silently replacing the decoder.
func WithStrictTypes() Option {
    return func(r *Registry) { r.strict = true }
}

// WithLogger installs a logger for registration diagnostics. The default
// is a nop logger, which keeps decoder overwrites silent.
func WithLogger(l *zap.Logger) Option {
    return func(r *Registry) {
        if l != nil {
            r.log = l
        }
    }
}

// RegisterOption attaches dispatch keys to a registration.
type RegisterOption func(*registration)

type registration struct {
    types      []reflect.Type
    predicates []func(any) bool
}

// ForType keys the encoder to the exact runtime type of sample.
func ForType(sample any) RegisterOption {
    t := reflect.TypeOf(sample)
    return func(reg *registration) {
        if t != nil {
            reg.types = append(reg.types, t)
        }
    }
}

// ForPredicate appends an ordered fallback predicate for the encoder.
// Predicates run in registration order after exact-type lookup misses;
// the first one returning true wins.
func ForPredicate(check func(any) bool) RegisterOption {
    return func(reg *registration) {
        if check != nil {
            reg.predicates = append(reg.predicates, check)
        }
    }
}

// NewRegistry builds a registry with the built-in codecs (ndarray,
// image, tensors) already registered.
func NewRegistry(opts ...Option) *Registry {
    r := &Registry{
        log:      zap.NewNop(),
        exact:    make(map[reflect.Type]encoderEntry),
        decoders: make(map[string]DecodeFunc),
    }
    for _, o := range opts {
        o(r)
    }
    registerBuiltins(r)
    return r
}

// Register stores dec under ztype and keys enc by the given exact types
// and predicates. An empty ztype fails with ErrInvalidRegistration.
// Re-registering an existing ztype replaces its decoder silently unless
// the registry was built with WithStrictTypes.
func (r *Registry) Register(ztype string, enc EncodeFunc, dec DecodeFunc, opts ...RegisterOption) error {
    if ztype == "" {
        return fmt.Errorf("%w: empty ztype", ErrInvalidRegistration)
    }
    var reg registration
    for _, o := range opts {
        o(&reg)
    }

    r.mu.Lock()
    defer r.mu.Unlock()
    if _, exists := r.decoders[ztype]; exists {
        if r.strict {
            return fmt.Errorf("%w: ztype %q already registered", ErrInvalidRegistration, ztype)
        }
        r.log.Debug("zdata: replacing decoder", zap.String("ztype", ztype))
    }
    r.decoders[ztype] = dec
    for _, t := range reg.types {
        r.exact[t] = encoderEntry{ztype: ztype, enc: enc}
    }
    for _, p := range reg.predicates {
        r.predicates = append(r.predicates, predicateEntry{check: p, ztype: ztype, enc: enc})
    }
    return nil
}

// Encode dispatches v to a registered encoder: exact runtime type match
// first, then the predicate list in registration order. A value matching
// nothing is returned unchanged, not wrapped and not flagged.
func (r *Registry) Encode(v any) (any, error) {
    if v == nil {
        return v, nil
    }
    r.mu.RLock()
    defer r.mu.RUnlock()

    if e, ok := r.exact[reflect.TypeOf(v)]; ok {
        rec, err := e.enc(v)
        if err != nil {
            return nil, err
        }
        return rec, nil
    }
    for _, p := range r.predicates {
        if p.check(v) {
            rec, err := p.enc(v)
            if err != nil {
                return nil, err
            }
            return rec, nil
        }
    }
    return v, nil
}

// Decode reconstructs the original value from a record-shaped mapping.
// Anything that is not record-shaped passes through unchanged. A record
// with an unregistered ztype fails with ErrUnknownType, never silently.
func (r *Registry) Decode(v any) (any, error) {
    rec, ok := AsRecord(v)
    if !ok {
        return v, nil
    }
    ztype := rec.Ztype()

    r.mu.RLock()
    dec, ok := r.decoders[ztype]
    r.mu.RUnlock()
    if !ok {
        return nil, fmt.Errorf("%w: %q", ErrUnknownType, ztype)
    }
    return dec(rec)
}

// ListTypes returns the registered ztype names, sorted.
func (r *Registry) ListTypes() []string {
    r.mu.RLock()
    defer r.mu.RUnlock()
    out := make([]string, 0, len(r.decoders))
    for zt := range r.decoders {
        out = append(out, zt)
    }
    sort.Strings(out)
    return out
}
