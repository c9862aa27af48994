package classifier

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/queensconnect/civic-navigate/internal/oracle"
	"github.com/queensconnect/civic-navigate/internal/prompts"
)

const answerMaxTokens = 300

// AnswerResult is the outcome of the fallback answering pass. Crisis is
// a deliberate duplicate of the dedicated crisis screen; both checks are
// kept (see the answerer prompt template).
type AnswerResult struct {
	Answer     string `json:"answer"`
	Crisis     bool   `json:"crisis"`
	OutOfScope bool   `json:"outOfScope"`
	Reason     string `json:"reason"`
}

// Answerer produces a short region-scoped factual answer for queries the
// router could not map to a destination.
type Answerer struct {
	oracle  oracle.Oracle
	prompts *prompts.Library
	logger  *zap.Logger
}

func NewAnswerer(o oracle.Oracle, p *prompts.Library, logger *zap.Logger) *Answerer {
	return &Answerer{oracle: o, prompts: p, logger: logger}
}

// Answer runs the answering pass. Returns ErrMalformedOutput for
// unparseable replies and a wrapped transport error for oracle failures.
func (a *Answerer) Answer(ctx context.Context, query string) (AnswerResult, error) {
	system, err := a.prompts.Answerer()
	if err != nil {
		return AnswerResult{}, fmt.Errorf("error rendering answerer prompt: %w", err)
	}

	response, err := a.oracle.Complete(ctx, system, query, oracle.Options{
		MaxTokens:   answerMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return AnswerResult{}, fmt.Errorf("answering pass failed: %w", err)
	}

	raw, ok := extractJSON(response)
	if !ok {
		a.logger.Warn("Answerer returned no JSON", zap.String("response", response))
		return AnswerResult{}, ErrMalformedOutput
	}

	var result AnswerResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		a.logger.Warn("Failed to parse answerer reply",
			zap.Error(err),
			zap.String("response", response))
		return AnswerResult{}, ErrMalformedOutput
	}

	if !result.Crisis && !result.OutOfScope && result.Answer == "" {
		a.logger.Warn("Answerer reply had no usable field", zap.String("response", response))
		return AnswerResult{}, ErrMalformedOutput
	}

	return result, nil
}
