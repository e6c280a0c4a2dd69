// Package llm provides the gateway to the generative model: a chat-style
// completion taking system instructions and a user message and returning a
// single text blob. Structure is enforced by prompt instruction and post-hoc
// validation, never by a structured-output mode.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyCompletion indicates the model returned no usable text candidate.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Gateway executes one completion round trip. Implementations are opaque to
// the advisory flow; cross-cutting concerns (timeout, retry) wrap a Gateway
// rather than living inside one.
type Gateway interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Name() string
}
