package chat

import (
	"fmt"
	"time"
)

// ErrorType classifies a chat pipeline failure.
type ErrorType int

const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeInvalidStructure
	ErrorTypeRateLimited
	ErrorTypeServiceBusy
	ErrorTypeAuth
	ErrorTypeService
	ErrorTypeNetwork
)

// ChatError is the typed error surfaced by the chat pipeline. RetryAt is set
// only for rate-limit failures and tells the caller when the current window
// expires.
type ChatError struct {
	Type    ErrorType
	Message string
	Err     error
	RetryAt time.Time
}

func (e *ChatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s (%s): %v", e.TypeString(), e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.TypeString(), e.Message)
}

func (e *ChatError) Unwrap() error {
	return e.Err
}

func (e *ChatError) TypeString() string {
	switch e.Type {
	case ErrorTypeInvalidStructure:
		return "InvalidStructure"
	case ErrorTypeRateLimited:
		return "RateLimited"
	case ErrorTypeServiceBusy:
		return "ServiceBusy"
	case ErrorTypeAuth:
		return "AuthError"
	case ErrorTypeService:
		return "ServiceError"
	case ErrorTypeNetwork:
		return "NetworkFailure"
	default:
		return "UnknownError"
	}
}

// UserMessage returns a message safe to show end users. Raw provider error
// text never passes through here.
func (e *ChatError) UserMessage() string {
	switch e.Type {
	case ErrorTypeInvalidStructure:
		return e.Message
	case ErrorTypeRateLimited:
		return "Too many requests. Please wait a moment and try again."
	case ErrorTypeServiceBusy:
		return "The assistant is handling a lot of questions right now. Please try again shortly."
	case ErrorTypeAuth:
		return "The assistant is not available right now."
	case ErrorTypeService:
		return "The assistant ran into a problem answering that. Please try again."
	default:
		return "Something went wrong. Please try again."
	}
}

// NewChatError creates a ChatError.
func NewChatError(errType ErrorType, message string, err error) *ChatError {
	return &ChatError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}
