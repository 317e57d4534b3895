package matcher

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/JOURN3Y-AU/journ3y-website-nextjs-sub000/internal/common"
)

// Kind classifies a failed match.
type Kind int

// Failure kinds.
const (
	KindUnknown Kind = iota
	KindInvalidInput
	KindNotConfigured
	KindCatalogUnavailable
	KindProviderContractViolation
	KindProviderUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "InvalidInput"
	case KindNotConfigured:
		return "NotConfigured"
	case KindCatalogUnavailable:
		return "CatalogUnavailable"
	case KindProviderContractViolation:
		return "ProviderContractViolation"
	case KindProviderUnavailable:
		return "ProviderUnavailable"
	default:
		return "Unknown"
	}
}

// HTTPStatus returns the response status for failures of this kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindCatalogUnavailable:
		return http.StatusServiceUnavailable
	case KindProviderContractViolation, KindProviderUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Messages shown to end users.
const (
	msgInvalidInput       = "Please describe your business."
	msgNotConfigured      = "Industry matching is not available right now."
	msgCatalogUnavailable = "We couldn't load our industry list. Please try again shortly."
	msgProviderFailed     = "We couldn't match your business right now. Please try again."
)

// Error is a failed match. The embedded UserError carries the message that is
// safe to return to clients; its Err holds the diagnostic cause and is only logged.
type Error struct {
	*common.UserError
	Kind Kind
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.UserError
}

// UserMessage returns the client-facing message for failures of this kind.
func (k Kind) UserMessage() string {
	switch k {
	case KindInvalidInput:
		return msgInvalidInput
	case KindNotConfigured:
		return msgNotConfigured
	case KindCatalogUnavailable:
		return msgCatalogUnavailable
	default:
		return msgProviderFailed
	}
}

func newError(kind Kind, err error) *Error {
	return &Error{
		UserError: &common.UserError{UserMessage: kind.UserMessage(), Err: err},
		Kind:      kind,
	}
}

// KindOf returns the Kind of err, or KindUnknown when err is not a match failure.
func KindOf(err error) Kind {
	var me *Error
	if errors.As(err, &me) {
		return me.Kind
	}
	return KindUnknown
}
