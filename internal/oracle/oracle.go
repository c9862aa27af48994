package oracle

import "context"

// Options are the sampling parameters for one completion call.
type Options struct {
	MaxTokens   int
	Temperature float32
}

// Oracle is the text-completion dependency of the classification passes.
// Given a system prompt and a user string it returns a text blob that is
// expected, but not guaranteed, to contain one JSON object. Tests
// substitute a deterministic fake.
type Oracle interface {
	Complete(ctx context.Context, system, user string, opts Options) (string, error)
}
