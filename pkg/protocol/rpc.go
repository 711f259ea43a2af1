package protocol

import "github.com/google/uuid"

// RPC correlation is a naming convention, not tracked state: a request
// declares the etype its response must use (rtype) and optionally an
// opaque correlation token (uuid). Matching requests to responses,
// enforcing exactly-one response, and timeouts are all the business of
// the transport/dispatch layer above this package.

// NewCorrelationID returns a fresh opaque correlation token.
func NewCorrelationID() string { return uuid.NewString() }

// NewRequest builds an RPC request. args and kwargs may be nil.
func NewRequest(etype, rtype string, args []any, kwargs map[string]any, ts int64) *Message {
    return &Message{Ts: stamp(ts), Etype: etype, Rtype: rtype, Args: args, Kwargs: kwargs}
}

// WithCorrelation attaches a fresh correlation token when the message
// does not carry one yet, and returns the message for chaining.
func (m *Message) WithCorrelation() *Message {
    if m.UUID == "" {
        m.UUID = NewCorrelationID()
    }
    return m
}

// NewResponse builds an RPC response under the given etype (the
// originating request's rtype). errmsg should be non-empty when ok is
// false. Attach the payload with WithData or WithValue.
func NewResponse(etype string, ok bool, errmsg string, ts int64) *Message {
    return &Message{Ts: stamp(ts), Etype: etype, OK: &ok, Error: errmsg}
}

// WithData sets the server-origin payload. A response carries exactly
// one of data/value, so any client payload is cleared.
func (m *Message) WithData(data any) *Message {
    m.Data = data
    m.Value = nil
    return m
}

// WithValue sets the client-origin payload and clears any server one.
func (m *Message) WithValue(value any) *Message {
    m.Value = value
    m.Data = nil
    return m
}

// Respond builds a response to req: etype is req.Rtype and the
// correlation token is copied over when present.
func Respond(req *Message, ok bool, errmsg string, ts int64) *Message {
    resp := NewResponse(req.Rtype, ok, errmsg, ts)
    resp.UUID = req.UUID
    return resp
}

// IsResponseTo reports whether m follows the correlation convention for
// a response to req: etype matches the request's rtype, and when the
// request carried a correlation token the response echoes it.
func (m *Message) IsResponseTo(req *Message) bool {
    if req.Rtype == "" || m.Etype != req.Rtype {
        return false
    }
    return req.UUID == "" || m.UUID == req.UUID
}
