package agent

import (
	"context"

	"npcmind/internal/llm"
)

// Completer is the slice of the completion service the pipeline uses. Tests
// substitute canned fakes.
type Completer interface {
	CompleteText(ctx context.Context, req llm.TextCompletionRequest) (string, error)
	CompleteJSON(ctx context.Context, req llm.JSONCompletionRequest) (string, error)
}
