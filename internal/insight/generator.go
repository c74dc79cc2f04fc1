package insight

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/reviewpulse/reviewpulse/internal/store"
)

// Collaborator is the external text-generation service. Implementations carry
// their own model identity and sampling configuration; Complete returns the
// full completion text or an error.
type Collaborator interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Token caps per prompt shape.
const (
	ReplyMaxTokens   = 150
	InsightMaxTokens = 350
)

// Generator builds prompts and delegates them to a Collaborator. Its methods
// are total: a collaborator failure is collapsed into a sentinel string so
// callers always get text back, never an error.
type Generator struct {
	collab Collaborator
	log    *zap.Logger
}

func NewGenerator(collab Collaborator, log *zap.Logger) *Generator {
	return &Generator{collab: collab, log: log}
}

// UserReply generates a short courteous reply to a single submission.
func (g *Generator) UserReply(ctx context.Context, name string, rating int, reviewText string) string {
	return g.generate(ctx, BuildReplyPrompt(name, rating, reviewText), ReplyMaxTokens)
}

// Summary generates the admin feedback summary over the trailing window.
func (g *Generator) Summary(ctx context.Context, records []store.Record) string {
	return g.generate(ctx, BuildSummaryPrompt(records), InsightMaxTokens)
}

// Actions generates prioritized improvement actions over the trailing window.
func (g *Generator) Actions(ctx context.Context, records []store.Record) string {
	return g.generate(ctx, BuildActionsPrompt(records), InsightMaxTokens)
}

func (g *Generator) generate(ctx context.Context, prompt string, maxTokens int) string {
	text, err := g.collab.Complete(ctx, prompt, maxTokens)
	if err != nil {
		g.log.Warn("text generation failed", zap.Error(err))
		return fmt.Sprintf("[LLM error: %v]", err)
	}
	return text
}
