package port

import "errors"

// Sentinel errors used across ports.
var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrPolicyViolation    = errors.New("policy violation")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyReported    = errors.New("already reported")
	ErrAIService          = errors.New("ai service error")
	ErrAIServiceTimeout   = errors.New("ai service timeout")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrTokenExpired       = errors.New("token expired")
	ErrClaimStoreNotFound = errors.New("claim not found")
)

// PolicyError names the business rule a request would have broken.
type PolicyError struct {
	Rule string
}

func (e *PolicyError) Error() string { return e.Rule }

// Is makes PolicyError match ErrPolicyViolation.
func (e *PolicyError) Is(target error) bool { return target == ErrPolicyViolation }

// ValidationError carries a client-safe description of a bad request.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidArgument }

// Invalid builds a ValidationError.
func Invalid(msg string) error {
	return &ValidationError{Message: msg}
}
