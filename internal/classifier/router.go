package classifier

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/queensconnect/civic-navigate/internal/models"
	"github.com/queensconnect/civic-navigate/internal/oracle"
	"github.com/queensconnect/civic-navigate/internal/prompts"
	"github.com/queensconnect/civic-navigate/internal/vocab"
)

const routerMaxTokens = 300

// Sentinel destination values the prompt reserves for non-matches.
const (
	destNoMatch    = "NO_MATCH"
	destOutOfScope = "OUT_OF_SCOPE"
)

// RouteOutcome is the three-way result of the routing pass. The
// orchestrator's fallback branching depends on distinguishing an explicit
// no-match from a hard error, so these are a tagged result, not errors.
type RouteOutcome int

const (
	RouteMatched RouteOutcome = iota
	RouteNoMatch
	RouteOutOfScope
)

type RouteResult struct {
	Outcome     RouteOutcome
	Destination models.Destination
	Params      models.RouteParams
}

type routerReply struct {
	Destination      string `json:"destination"`
	SearchTerm       string `json:"searchTerm"`
	Category         string `json:"category"`
	GovernmentType   string `json:"governmentType"`
	DateStart        string `json:"dateStart"`
	DateEnd          string `json:"dateEnd"`
	Employer         string `json:"employer"`
	Location         string `json:"location"`
	OrganizationType string `json:"organizationType"`
}

// Router maps a query onto one of the fixed destinations, grounded in
// the live vocabularies.
type Router struct {
	oracle  oracle.Oracle
	prompts *prompts.Library
	logger  *zap.Logger
}

func NewRouter(o oracle.Oracle, p *prompts.Library, logger *zap.Logger) *Router {
	return &Router{oracle: o, prompts: p, logger: logger}
}

// Route runs the routing pass. It returns a RouteResult on any
// well-formed reply, ErrMalformedOutput when the oracle responded with
// something unparseable, and a wrapped transport error otherwise.
// Malformed output is never reported as a no-match; that would mask
// oracle failures as fallback-answer opportunities.
func (r *Router) Route(ctx context.Context, query string, v vocab.Vocabularies) (RouteResult, error) {
	system, err := r.prompts.Router(v.Employers, v.Categories)
	if err != nil {
		return RouteResult{}, fmt.Errorf("error rendering router prompt: %w", err)
	}

	response, err := r.oracle.Complete(ctx, system, query, oracle.Options{
		MaxTokens:   routerMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return RouteResult{}, fmt.Errorf("routing pass failed: %w", err)
	}

	raw, ok := extractJSON(response)
	if !ok {
		r.logger.Warn("Router returned no JSON", zap.String("response", response))
		return RouteResult{}, ErrMalformedOutput
	}

	var reply routerReply
	if err := json.Unmarshal([]byte(raw), &reply); err != nil {
		r.logger.Warn("Failed to parse router reply",
			zap.Error(err),
			zap.String("response", response))
		return RouteResult{}, ErrMalformedOutput
	}

	switch reply.Destination {
	case destNoMatch:
		return RouteResult{Outcome: RouteNoMatch}, nil
	case destOutOfScope:
		return RouteResult{Outcome: RouteOutOfScope}, nil
	}

	dest := models.Destination(reply.Destination)
	if !models.Destinations[dest] {
		r.logger.Warn("Router chose an unknown destination",
			zap.String("destination", reply.Destination))
		return RouteResult{}, ErrMalformedOutput
	}

	return RouteResult{
		Outcome:     RouteMatched,
		Destination: dest,
		Params: models.RouteParams{
			SearchTerm:       reply.SearchTerm,
			Category:         reply.Category,
			GovernmentType:   reply.GovernmentType,
			DateStart:        reply.DateStart,
			DateEnd:          reply.DateEnd,
			Employer:         reply.Employer,
			Location:         reply.Location,
			OrganizationType: reply.OrganizationType,
		},
	}, nil
}
