package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/queensconnect/civic-navigate/internal/alert"
	"github.com/queensconnect/civic-navigate/internal/classifier"
	"github.com/queensconnect/civic-navigate/internal/models"
	"github.com/queensconnect/civic-navigate/internal/quota"
	"github.com/queensconnect/civic-navigate/internal/vocab"
)

// User-facing messages for the non-routed outcomes.
const (
	MsgQuotaExceeded     = "Daily search limit exceeded"
	MsgServiceUnavail    = "Search is temporarily unavailable. Please try again later."
	MsgCouldntUnderstand = "Sorry, I couldn't understand that request. Try rephrasing it."
	MsgCouldntProcess    = "Sorry, I couldn't process that question. Try rephrasing it."
)

// SafetyMessage builds the fixed, non-personalized crisis response. The
// same text is used whether the dedicated crisis screen or the answerer's
// embedded tripwire fires.
func SafetyMessage(hotline, resourcesSection string) string {
	return fmt.Sprintf("You matter, and you don't have to go through this alone. "+
		"Please call or text %s (Suicide & Crisis Lifeline) to talk with someone right now, any time, day or night. "+
		"You can also find local support in the %s section of this site.", hotline, resourcesSection)
}

// OutOfScopeMessage is shown when the query concerns somewhere or
// something this service doesn't cover.
func OutOfScopeMessage(region string) string {
	return fmt.Sprintf("This search only covers %s. Please try a search about the local area.", region)
}

// Pipeline sequences the four stages of intent resolution: quota guard,
// context loader, crisis classifier, router (with the answering
// fallback). Each invocation is stateless; the usage counter row is the
// only cross-request coordination.
type Pipeline struct {
	guard      *quota.Guard
	loader     *vocab.Loader
	crisis     *classifier.CrisisClassifier
	router     *classifier.Router
	answerer   *classifier.Answerer
	alerter    alert.Alerter
	region     string
	safetyText string
	now        func() time.Time
	logger     *zap.Logger
}

type Config struct {
	Guard      *quota.Guard
	Loader     *vocab.Loader
	Crisis     *classifier.CrisisClassifier
	Router     *classifier.Router
	Answerer   *classifier.Answerer
	Alerter    alert.Alerter // optional
	Region     string
	SafetyText string
	Now        func() time.Time // optional, defaults to time.Now
	Logger     *zap.Logger
}

func New(cfg Config) *Pipeline {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Pipeline{
		guard:      cfg.Guard,
		loader:     cfg.Loader,
		crisis:     cfg.Crisis,
		router:     cfg.Router,
		answerer:   cfg.Answerer,
		alerter:    cfg.Alerter,
		region:     cfg.Region,
		safetyText: cfg.SafetyText,
		now:        now,
		logger:     cfg.Logger,
	}
}

// Resolve turns one query into exactly one decision. Stage order is
// fixed and short-circuiting: quota, vocabularies, crisis screen,
// routing, then the answering fallback only on an explicit no-match.
func (p *Pipeline) Resolve(ctx context.Context, query string) models.Decision {
	now := p.now()

	if err := p.guard.Allow(ctx, now); err != nil {
		if errors.Is(err, quota.ErrQuotaExceeded) {
			if p.alerter != nil {
				p.alerter.QuotaExhausted(quota.DateKey(now), p.guard.Limit())
			}
			return models.RejectedDecision(models.RejectQuotaExceeded, MsgQuotaExceeded)
		}
		p.logger.Error("Quota guard failed", zap.Error(err))
		return models.RejectedDecision(models.RejectUpstream, MsgServiceUnavail)
	}

	vocabularies := p.loader.Load(ctx)

	if p.crisis.IsCrisis(ctx, query) {
		return models.CrisisDecision(p.safetyText)
	}

	route, err := p.router.Route(ctx, query, vocabularies)
	if err != nil {
		if errors.Is(err, classifier.ErrMalformedOutput) {
			return models.RejectedDecision(models.RejectUnintelligible, MsgCouldntUnderstand)
		}
		p.logger.Error("Routing pass failed", zap.Error(err))
		return models.RejectedDecision(models.RejectUpstream, MsgServiceUnavail)
	}

	switch route.Outcome {
	case classifier.RouteMatched:
		return models.RoutedDecision(route.Destination, route.Params)
	case classifier.RouteOutOfScope:
		return models.RejectedDecision(models.RejectOutOfScope, OutOfScopeMessage(p.region))
	}

	// Explicit no-match: fall through to the answering tier.
	answer, err := p.answerer.Answer(ctx, query)
	if err != nil {
		if errors.Is(err, classifier.ErrMalformedOutput) {
			return models.RejectedDecision(models.RejectUnintelligible, MsgCouldntProcess)
		}
		p.logger.Error("Answering pass failed", zap.Error(err))
		return models.RejectedDecision(models.RejectUpstream, MsgServiceUnavail)
	}

	switch {
	case answer.Crisis:
		return models.CrisisDecision(p.safetyText)
	case answer.OutOfScope:
		return models.RejectedDecision(models.RejectOutOfScope, OutOfScopeMessage(p.region))
	default:
		return models.AnsweredDecision(answer.Answer)
	}
}

// Usage exposes today's counter for the read-only usage endpoint.
func (p *Pipeline) Usage(ctx context.Context) (models.UsageCounter, int, error) {
	counter, err := p.guard.Usage(ctx, p.now())
	if err != nil {
		return models.UsageCounter{}, 0, err
	}
	return counter, p.guard.Limit(), nil
}
