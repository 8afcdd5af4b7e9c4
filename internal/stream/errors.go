package stream

import (
	"errors"
	"fmt"
)

// ErrPoolEmpty reports that no segment is Available. It is backpressure,
// not a failure: the stream skips the spawn for that tick.
var ErrPoolEmpty = errors.New("stream: no segment available")

// PoolStateError reports an invalid membership transition. It means the
// active order and the pool have desynchronized and should never happen in
// steady-state operation.
type PoolStateError struct {
	Op     string // "take" or "release"
	ID     SegmentID
	Reason string
}

func (e *PoolStateError) Error() string {
	return fmt.Sprintf("stream: cannot %s segment %d: %s", e.Op, e.ID, e.Reason)
}

// ConfigError reports a malformed stream configuration.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("stream: invalid config %s: %s", e.Field, e.Reason)
}
