package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// MaxMessageContentBytes bounds a single chat message or user input.
const MaxMessageContentBytes = 32 * 1024

// requestValidate is shared by every request type in this file.
var requestValidate *validator.Validate

func init() {
	requestValidate = validator.New()
	requestValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = requestValidate.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxMessageContentBytes
	})
}

// validateStruct runs the tag rules and flattens the first failure into a
// message that is safe to show a client.
func validateStruct(v any) error {
	err := requestValidate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	return &RequestError{Field: verrs[0].Namespace(), Tag: verrs[0].Tag()}
}

// RequestError describes the first rule a request body broke.
type RequestError struct {
	Field string
	Tag   string
}

func (e *RequestError) Error() string {
	field := e.Field
	if _, rest, ok := strings.Cut(field, "."); ok {
		field = rest
	}
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s has an unsupported value", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// SupportChatRequest is the body of POST /api/ai/support-chat.
type SupportChatRequest struct {
	UserInput   string     `json:"userInput"   validate:"required,maxbytes"`
	ChatHistory []ChatTurn `json:"chatHistory" validate:"max=100,dive"`
}

func (r *SupportChatRequest) Validate() error { return validateStruct(r) }

// RiskAssessmentRequest is the body of POST /api/ai/risk-assessment.
type RiskAssessmentRequest struct {
	StudentMessage string     `json:"studentMessage" validate:"required,maxbytes"`
	ChatHistory    []ChatTurn `json:"chatHistory"    validate:"max=100,dive"`
}

func (r *RiskAssessmentRequest) Validate() error { return validateStruct(r) }

// InterpretScoresRequest is the body of POST /api/ai/interpret-scores.
type InterpretScoresRequest struct {
	PHQ9Score *int   `json:"phq9Score" validate:"required,min=0,max=27"`
	PHQ9Level string `json:"phq9Level" validate:"required,max=64"`
	GAD7Score *int   `json:"gad7Score" validate:"required,min=0,max=21"`
	GAD7Level string `json:"gad7Level" validate:"required,max=64"`
}

func (r *InterpretScoresRequest) Validate() error { return validateStruct(r) }

// ProactiveInsightRequest is the body of POST /api/ai/proactive-insights.
type ProactiveInsightRequest struct {
	InteractionPatterns InteractionPatterns `json:"interactionPatterns"`
	AvailablePathwayIDs []string            `json:"availablePathwayIds" validate:"required,min=1,max=100,dive,required,max=64"`
}

func (r *ProactiveInsightRequest) Validate() error { return validateStruct(r) }

// CheckinRequest is the body of POST /api/wellness-checkins.
type CheckinRequest struct {
	PHQ9Score *int `json:"phq9Score" validate:"required,min=0,max=27"`
	GAD7Score *int `json:"gad7Score" validate:"required,min=0,max=21"`
}

func (r *CheckinRequest) Validate() error { return validateStruct(r) }

// CreatePostRequest is the body of POST /api/posts.
type CreatePostRequest struct {
	Content string `json:"content" validate:"required,max=5000"`
}

func (r *CreatePostRequest) Validate() error {
	r.Content = strings.TrimSpace(r.Content)
	return validateStruct(r)
}

// RoleChangeRequest is the body of PUT /api/users/:id/role.
type RoleChangeRequest struct {
	NewRole string `json:"newRole" validate:"required"`
}

func (r *RoleChangeRequest) Validate() error { return validateStruct(r) }

// AppointmentRequest is the body of POST /api/appointments.
type AppointmentRequest struct {
	CounselorID string `json:"counselorId" validate:"required,max=128"`
	Date        string `json:"date"        validate:"required,datetime=2006-01-02"`
	Time        string `json:"time"        validate:"required,max=32"`
	Reason      string `json:"reason"      validate:"max=2000"`
}

func (r *AppointmentRequest) Validate() error { return validateStruct(r) }

// AppointmentStatusRequest is the body of PUT /api/appointments/:id.
type AppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

func (r *AppointmentStatusRequest) Validate() error { return validateStruct(r) }

// SessionRequest is the body of POST /api/sessions.
type SessionRequest struct {
	CounselorName string    `json:"counselorName" validate:"required,max=128"`
	Date          time.Time `json:"date"`
	Status        string    `json:"status"        validate:"omitempty,oneof=scheduled completed cancelled"`
}

func (r *SessionRequest) Validate() error {
	if r.Date.IsZero() {
		return &RequestError{Field: "date", Tag: "required"}
	}
	return validateStruct(r)
}

// PathwayCompleteRequest is the body of POST /api/pathways/complete.
type PathwayCompleteRequest struct {
	PathwayID string `json:"pathwayId" validate:"required,max=64"`
}

func (r *PathwayCompleteRequest) Validate() error { return validateStruct(r) }

// ProfileUpdateRequest is the body of PUT /api/users/me.
type ProfileUpdateRequest struct {
	Name  *string `json:"name"  validate:"omitempty,max=128"`
	Email *string `json:"email" validate:"omitempty,email"`
}

func (r *ProfileUpdateRequest) Validate() error { return validateStruct(r) }
