package rules

import (
	"fmt"
	"sync/atomic"

	"github.com/gofrs/uuid/v5"
)

var fallbackNodeSeq atomic.Uint64

// newNodeID mints a node identifier for alpha and output nodes. Node
// identity only needs to be unique within a single compiled network; the
// session uses output node IDs to remember which rules were guard-skipped.
// IDs are random v4 UUIDs, so they differ between runs, and they do not
// appear in the trace or in emitted events.
func newNodeID() string {
	id, err := uuid.NewV4()
	if err != nil {
		// uuid.NewV4 only fails if the process is out of entropy; a
		// counter-based fallback keeps IDs unique rather than panicking
		// the whole engine.
		return fmt.Sprintf("node-fallback-%d", fallbackNodeSeq.Add(1))
	}
	return id.String()
}
