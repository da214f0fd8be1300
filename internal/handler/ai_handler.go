package handler

import (
	"github.com/gofiber/fiber/v3"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
	"github.com/arturoeanton/campus-wellness-api/internal/service"
)

// AIHandler exposes the completion-backed wellness features.
type AIHandler struct {
	ai *service.AIService
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(ai *service.AIService) *AIHandler {
	return &AIHandler{ai: ai}
}

// Register sets up AI routes.
func (h *AIHandler) Register(router fiber.Router) {
	ai := router.Group("/ai")
	ai.Post("/support-chat", h.SupportChat)
	ai.Post("/interpret-scores", h.InterpretScores)
	ai.Post("/proactive-insights", h.ProactiveInsight)
	ai.Post("/risk-assessment", h.RiskAssessment)
}

type supportChatResponse struct {
	domain.SupportChatResult
	RiskAssessed bool  `json:"riskAssessed"`
	IsHighRisk   *bool `json:"isHighRisk,omitempty"`
}

// SupportChat answers with coping strategies. The risk assessment runs
// alongside; when it fails the reply is still returned with riskAssessed=false.
func (h *AIHandler) SupportChat(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	var req domain.SupportChatRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}

	turn, err := h.ai.ChatTurn(c.Context(), p.UID, req)
	if err != nil {
		return writeError(c, err)
	}

	res := supportChatResponse{SupportChatResult: turn.SupportChatResult}
	if turn.Risk != nil {
		res.RiskAssessed = true
		res.IsHighRisk = &turn.Risk.IsHighRisk
	}
	return c.JSON(res)
}

// InterpretScores summarizes a check-in in plain language.
func (h *AIHandler) InterpretScores(c fiber.Ctx) error {
	var req domain.InterpretScoresRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	summary, err := h.ai.InterpretScores(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}

// ProactiveInsight recommends a pathway from anonymous interaction metadata.
func (h *AIHandler) ProactiveInsight(c fiber.Ctx) error {
	var req domain.ProactiveInsightRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	insight, err := h.ai.ProactiveInsight(c.Context(), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(insight)
}

// RiskAssessment returns the structured warm hand-off verdict.
func (h *AIHandler) RiskAssessment(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return writeError(c, err)
	}
	var req domain.RiskAssessmentRequest
	if err := bindJSON(c, &req); err != nil {
		return writeError(c, err)
	}
	verdict, err := h.ai.AssessRisk(c.Context(), p.UID, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(verdict)
}
