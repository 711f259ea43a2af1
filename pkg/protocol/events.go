package protocol

// Scene-update and scheduling event tags.
const (
    EtypeSet     = "SET"
    EtypeAdd     = "ADD"
    EtypeUpsert  = "UPSERT"
    EtypeUpdate  = "UPDATE"
    EtypeRemove  = "REMOVE"
    EtypeTimeout = "TIMEOUT"
)

// DefaultTarget is the node attachment point used when none is given.
const DefaultTarget = "children"

// SetEvent initializes or resets the scene. The scene description is
// carried opaque; ts <= 0 stamps the current time (all factories).
func SetEvent(scene any, ts int64) *Message {
    return NewServerEvent(EtypeSet, scene, ts)
}

// AddEvent appends nodes under the target attachment point.
func AddEvent(nodes []any, to string, ts int64) *Message {
    if to == "" {
        to = DefaultTarget
    }
    return NewServerEvent(EtypeAdd, map[string]any{"nodes": nodes, "to": to}, ts)
}

// UpsertEvent inserts or replaces nodes under the target attachment
// point. Idempotent by key on the consumer side.
func UpsertEvent(nodes []any, to string, ts int64) *Message {
    if to == "" {
        to = DefaultTarget
    }
    return NewServerEvent(EtypeUpsert, map[string]any{"nodes": nodes, "to": to}, ts)
}

// UpdateEvent patches existing nodes; each entry is a partial node
// object that must include its key.
func UpdateEvent(nodes []any, ts int64) *Message {
    return NewServerEvent(EtypeUpdate, map[string]any{"nodes": nodes}, ts)
}

// RemoveEvent removes nodes by key.
func RemoveEvent(keys []string, ts int64) *Message {
    ks := make([]any, len(keys))
    for i, k := range keys {
        ks[i] = k
    }
    return NewServerEvent(EtypeRemove, map[string]any{"keys": ks}, ts)
}

// TimeoutEvent schedules fn on the consumer after timeout seconds.
func TimeoutEvent(timeout float64, fn string, ts int64) *Message {
    return NewServerEvent(EtypeTimeout, map[string]any{"timeout": timeout, "fn": fn}, ts)
}
