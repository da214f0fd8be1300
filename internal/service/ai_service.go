package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/metrics"
	"github.com/arturoeanton/campus-wellness-api/internal/port"
)

// ReferralMessage is attached to a support reply that mentions self-harm.
const ReferralMessage = "Please contact on-campus counselors or mental health helplines immediately."

var referralTriggers = []string{"self-harm", "suicide"}

// AIService builds prompts, calls the completion provider and parses replies.
type AIService struct {
	provider   port.CompletionProvider
	alerts     port.AlertStore
	bus        *AlertBus
	timeout    time.Duration
	maxTries   uint
	newBackOff func() backoff.BackOff
}

// NewAIService creates the AI orchestration service. Every completion call
// runs under timeout and is retried up to maxRetries times.
func NewAIService(provider port.CompletionProvider, alerts port.AlertStore, bus *AlertBus, timeout time.Duration, maxRetries int) *AIService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &AIService{
		provider: provider,
		alerts:   alerts,
		bus:      bus,
		timeout:  timeout,
		maxTries: uint(maxRetries) + 1,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = 250 * time.Millisecond
			return b
		},
	}
}

// ModelName reports the configured model.
func (s *AIService) ModelName() string {
	return s.provider.ModelName()
}

// SupportChat answers a student message with coping strategies.
func (s *AIService) SupportChat(ctx context.Context, req domain.SupportChatRequest) (*domain.SupportChatResult, error) {
	text, err := s.complete(ctx, "support_chat", supportChatSystem, supportChatPrompt(req))
	if err != nil {
		return nil, err
	}
	res := ParseSupportChat(text)
	return &res, nil
}

// InterpretScores returns the model's summary of a check-in verbatim.
func (s *AIService) InterpretScores(ctx context.Context, req domain.InterpretScoresRequest) (*domain.ScoreSummary, error) {
	text, err := s.complete(ctx, "interpret_scores", interpretScoresSystem, interpretScoresPrompt(req))
	if err != nil {
		return nil, err
	}
	return &domain.ScoreSummary{Summary: text}, nil
}

// ProactiveInsight recommends at most one pathway from the available set.
func (s *AIService) ProactiveInsight(ctx context.Context, req domain.ProactiveInsightRequest) (*domain.InsightResult, error) {
	text, err := s.complete(ctx, "proactive_insight", proactiveInsightSystem, proactiveInsightPrompt(req))
	if err != nil {
		return nil, err
	}
	res := ParseInsight(text, req.AvailablePathwayIDs)
	return &res, nil
}

// AssessRisk asks for a structured verdict and raises a counselor alert on
// high risk. The alert keeps the reason only.
func (s *AIService) AssessRisk(ctx context.Context, uid string, req domain.RiskAssessmentRequest) (*domain.RiskAssessment, error) {
	var verdict domain.RiskAssessment
	if err := s.completeJSON(ctx, "risk_assessment", riskAssessmentSystem, riskAssessmentPrompt(req), riskAssessmentSchema, &verdict); err != nil {
		return nil, err
	}
	if verdict.IsHighRisk {
		s.raiseAlert(ctx, uid, verdict.CounselorAlertReason)
	}
	return &verdict, nil
}

// ChatTurn runs the support reply and the risk assessment concurrently.
// A failed reply fails the turn and cancels the assessment; a failed
// assessment only drops Risk.
func (s *AIService) ChatTurn(ctx context.Context, uid string, req domain.SupportChatRequest) (*domain.ChatTurnResult, error) {
	var (
		chat *domain.SupportChatResult
		risk *domain.RiskAssessment
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		r, err := s.SupportChat(gctx, req)
		if err != nil {
			return err
		}
		chat = r
		return nil
	})
	g.Go(func() error {
		r, err := s.AssessRisk(gctx, uid, domain.RiskAssessmentRequest{
			StudentMessage: req.UserInput,
			ChatHistory:    req.ChatHistory,
		})
		if err != nil {
			slog.Warn("risk assessment unavailable, delivering reply unassessed", "uid", uid, "error", err)
			return nil
		}
		risk = r
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &domain.ChatTurnResult{SupportChatResult: *chat, Risk: risk}, nil
}

// ParseSupportChat applies the referral substring heuristic to a reply.
func ParseSupportChat(text string) domain.SupportChatResult {
	res := domain.SupportChatResult{Response: text}
	for _, trigger := range referralTriggers {
		if strings.Contains(text, trigger) {
			res.ReferralSuggestion = ReferralMessage
			break
		}
	}
	return res
}

// ParseInsight reads the first line as the pathway id and the rest as the
// rationale. An id outside available is dropped.
func ParseInsight(text string, available []string) domain.InsightResult {
	first, rest, _ := strings.Cut(text, "\n")
	id := strings.Trim(strings.TrimSpace(first), "`\"'")

	res := domain.InsightResult{InsightRationale: strings.TrimSpace(rest)}
	if id != "" && slices.Contains(available, id) {
		res.RecommendedPathwayID = id
	}
	return res
}

func (s *AIService) raiseAlert(ctx context.Context, uid, reason string) {
	alert := &domain.CounselorAlert{
		ID:        uuid.NewString(),
		UserID:    uid,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
	metrics.CounselorAlerts.Inc()
	slog.Warn("counselor alert raised", "uid", uid, "alert_id", alert.ID)

	if err := s.alerts.CreateAlert(ctx, alert); err != nil {
		slog.Error("failed to store counselor alert", "alert_id", alert.ID, "error", err)
	}
	if s.bus != nil {
		s.bus.Publish(*alert)
	}
}

func (s *AIService) complete(ctx context.Context, op, system, prompt string) (string, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := backoff.Retry(ctx, func() (string, error) {
		return s.provider.Complete(ctx, system, prompt)
	}, backoff.WithBackOff(s.newBackOff()), backoff.WithMaxTries(s.maxTries))
	metrics.AIDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	return text, s.classify(ctx, op, err)
}

func (s *AIService) completeJSON(ctx context.Context, op, system, prompt string, schema json.RawMessage, out any) error {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		return struct{}{}, s.provider.CompleteJSON(ctx, system, prompt, schema, out)
	}, backoff.WithBackOff(s.newBackOff()), backoff.WithMaxTries(s.maxTries))
	metrics.AIDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	return s.classify(ctx, op, err)
}

func (s *AIService) classify(ctx context.Context, op string, err error) error {
	if err == nil {
		metrics.AIRequests.WithLabelValues(op, metrics.ResultOK).Inc()
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		metrics.AIRequests.WithLabelValues(op, metrics.ResultTimeout).Inc()
		slog.Error("ai completion timed out", "operation", op, "model", s.provider.ModelName(), "timeout", s.timeout)
		return fmt.Errorf("%w: %s", port.ErrAIServiceTimeout, op)
	}
	metrics.AIRequests.WithLabelValues(op, metrics.ResultError).Inc()
	slog.Error("ai completion failed", "operation", op, "model", s.provider.ModelName(), "error", err)
	return fmt.Errorf("%w: %s: %v", port.ErrAIService, op, err)
}
