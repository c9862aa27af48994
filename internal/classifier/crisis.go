package classifier

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/queensconnect/civic-navigate/internal/oracle"
	"github.com/queensconnect/civic-navigate/internal/prompts"
)

const crisisMaxTokens = 20

type crisisVerdict struct {
	Crisis bool `json:"crisis"`
}

// CrisisClassifier screens a query for self-harm risk before any routing
// runs. It is tuned for recall; the help-seeking carve-out lives in the
// prompt template.
type CrisisClassifier struct {
	oracle  oracle.Oracle
	prompts *prompts.Library
	logger  *zap.Logger
}

func NewCrisisClassifier(o oracle.Oracle, p *prompts.Library, logger *zap.Logger) *CrisisClassifier {
	return &CrisisClassifier{oracle: o, prompts: p, logger: logger}
}

// IsCrisis returns true only on a positive, well-formed verdict. Every
// failure mode — prompt rendering, oracle transport, malformed output —
// reads as "not a crisis, continue to routing". A fault here must never
// block a legitimate request, and must never fabricate a crisis response.
func (c *CrisisClassifier) IsCrisis(ctx context.Context, query string) bool {
	system, err := c.prompts.Crisis()
	if err != nil {
		c.logger.Error("Failed to render crisis prompt", zap.Error(err))
		return false
	}

	response, err := c.oracle.Complete(ctx, system, query, oracle.Options{
		MaxTokens:   crisisMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		c.logger.Warn("Crisis classifier call failed, continuing to routing", zap.Error(err))
		return false
	}

	raw, ok := extractJSON(response)
	if !ok {
		c.logger.Warn("Crisis classifier returned no JSON, continuing to routing",
			zap.String("response", response))
		return false
	}

	var verdict crisisVerdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		c.logger.Warn("Failed to parse crisis verdict, continuing to routing",
			zap.Error(err),
			zap.String("response", response))
		return false
	}

	return verdict.Crisis
}
