package linkgraph

import (
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/agentstation/utc"
)

// IDGenerator hands out link ids. Ids must be unique within a process;
// ordering across runs is not guaranteed.
type IDGenerator interface {
	Next(t LinkType) string
}

// Counter is the standard IDGenerator: a monotonically increasing counter
// combined with the link type and a base-36 millisecond suffix.
type Counter struct {
	n   atomic.Uint64
	now func() utc.Time
}

// NewCounter returns a Counter starting at zero.
func NewCounter() *Counter {
	return &Counter{now: utc.Now}
}

// Next returns the next id, e.g. "robot_to_cell-1-m3x9k2a".
func (c *Counter) Next(t LinkType) string {
	n := c.n.Add(1)
	now := utc.Now
	if c.now != nil {
		now = c.now
	}
	return fmt.Sprintf("%s-%d-%s", strings.ToLower(string(t)), n,
		strconv.FormatInt(now().UnixMilli(), 36))
}

// Count returns how many ids have been issued since the last reset.
func (c *Counter) Count() uint64 {
	return c.n.Load()
}

// Reset restarts the counter at zero. Test harnesses only.
func (c *Counter) Reset() {
	c.n.Store(0)
}

var defaultIDs = NewCounter()

// DefaultIDs returns the process-wide counter used when no generator is
// injected.
func DefaultIDs() *Counter {
	return defaultIDs
}

// ResetDefaultIDs resets the process-wide counter. Test harnesses only.
func ResetDefaultIDs() {
	defaultIDs.Reset()
}
