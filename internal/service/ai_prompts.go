package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/arturoeanton/campus-wellness-api/internal/domain"
)

const supportChatSystem = `You are a support chat assistant for university students. Offer instant, personal coping strategies.

Read the student's message and answer with clear, simple advice.

Formatting rules:
- Present every coping strategy as a bulleted or numbered list.
- Keep each point short. Avoid long paragraphs.
- If the student mentions thoughts of self-harm, your first priority is to direct them to on-campus counselors or a mental health helpline.`

const interpretScoresSystem = `You are a gentle, supportive assistant inside a student wellness app. You explain the results of a mental health check-in.

You are not a doctor and must not give a diagnosis. Focus on encouragement and next steps.

Write a short summary:
- Thank the student for completing the check-in.
- Explain in plain words what each score may suggest.
- If either level is Moderate or higher, clearly but kindly recommend speaking with a counselor.
- If both levels are low, encourage them and point to the app's resources for staying well.
- Use two or three short paragraphs and finish on a positive note.`

const proactiveInsightSystem = `You are a wellness analyst acting as a quiet early-warning signal. You only see anonymous behavioral metadata, never personal data, chats or post content.

Pick the single most relevant wellness pathway to feature on the student's home screen, or none if no pattern stands out.

Answer format:
line 1: exactly one pathway id from the provided list, or an empty line
following lines: a brief internal rationale`

const riskAssessmentSystem = `You assess whether a student in a support chat is at high risk and needs a counselor right away.

Consider suicidal ideation, self-harm, hopelessness and severe distress across the latest message and the history.

If the student is at high risk set isHighRisk to true and give a detailed counselorAlertReason.
Otherwise set isHighRisk to false and give a brief counselorAlertReason.`

// riskAssessmentSchema is the structured output contract for AssessRisk.
var riskAssessmentSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "isHighRisk": {"type": "boolean"},
    "counselorAlertReason": {"type": "string"}
  },
  "required": ["isHighRisk", "counselorAlertReason"],
  "additionalProperties": false
}`)

func formatHistory(history []domain.ChatTurn) string {
	lines := make([]string, 0, len(history))
	for _, t := range history {
		lines = append(lines, t.Role+": "+t.Content)
	}
	return strings.Join(lines, "\n")
}

func supportChatPrompt(req domain.SupportChatRequest) string {
	return fmt.Sprintf("Student Message: %s\nChat History: %s\n\nResponse:", req.UserInput, formatHistory(req.ChatHistory))
}

func interpretScoresPrompt(req domain.InterpretScoresRequest) string {
	return fmt.Sprintf(`The student completed two questionnaires:
1. PHQ-9 (depression symptoms): %d out of 27, considered '%s'.
2. GAD-7 (anxiety symptoms): %d out of 21, considered '%s'.`,
		*req.PHQ9Score, req.PHQ9Level, *req.GAD7Score, req.GAD7Level)
}

func proactiveInsightPrompt(req domain.ProactiveInsightRequest) string {
	logins, _ := json.Marshal(req.InteractionPatterns.RecentLoginTimes)
	resources, _ := json.Marshal(req.InteractionPatterns.ResourceAccessLog)
	pathways, _ := json.Marshal(req.AvailablePathwayIDs)
	return fmt.Sprintf(`Interaction patterns:
- Recent Login Times: %s
- Resource Access Log: %s
- Forum Activity: %s

Available Pathway IDs: %s`, logins, resources, req.InteractionPatterns.ForumActivityLevel, pathways)
}

func riskAssessmentPrompt(req domain.RiskAssessmentRequest) string {
	return fmt.Sprintf("Student Message: %s\nChat History: %s", req.StudentMessage, formatHistory(req.ChatHistory))
}
