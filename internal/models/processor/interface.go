package processor

import (
	"context"
	"errors"
)

// Sentinel errors shared by all provider implementations. Callers decide what
// a failure means for their flow; no implementation retries on its own.
var (
	ErrEmptyReply     = errors.New("processor: empty reply")
	ErrMalformedReply = errors.New("processor: reply is not valid JSON for the expected shape")
)

// Processor is the seam to a hosted generative endpoint. One call submits one
// instruction plus input data and parses exactly one structured JSON reply
// into out.
type Processor interface {
	ProcessWithType(ctx context.Context, instruction string, input interface{}, out interface{}) error
}
