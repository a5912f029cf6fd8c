package ports

import "context"

// Completer is the LLM capability boundary: one resolved prompt in, one
// reply out. Implementations own their network timeout and any retry
// policy; the engine treats a failure as terminal for the invocation.
type Completer interface {
	Complete(ctx context.Context, model, prompt string) (string, error)
}
