package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failed generative call.
type Kind string

const (
	KindMalformedResponse Kind = "malformed_response"
	KindSchemaViolation   Kind = "schema_violation"
	KindNoImageReturned   Kind = "no_image_returned"
	KindTransportFailure  Kind = "transport_failure"
)

// Sentinels for errors.Is matching.
var (
	ErrMalformedResponse = &Error{Kind: KindMalformedResponse}
	ErrSchemaViolation   = &Error{Kind: KindSchemaViolation}
	ErrNoImageReturned   = &Error{Kind: KindNoImageReturned}
	ErrTransportFailure  = &Error{Kind: KindTransportFailure}
)

// Error is a classified failure. All kinds are terminal for the call that
// produced them; the caller decides whether to resubmit.
type Error struct {
	Kind   Kind
	Op     string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the package sentinels work with
// errors.Is regardless of Op or Detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Message is the user-facing text for a failure kind.
func (e *Error) Message() string {
	switch e.Kind {
	case KindMalformedResponse:
		return "The model returned a response that could not be read. Please try again."
	case KindSchemaViolation:
		return "The model response was incomplete. Please try again."
	case KindNoImageReturned:
		return "The image model did not return an image. Please try again."
	case KindTransportFailure:
		return "Failed to reach the generation service. Please check your API key and try again."
	}
	return "Generation failed."
}

func Malformed(op string, err error) error {
	return &Error{Kind: KindMalformedResponse, Op: op, Err: err}
}

func SchemaViolation(op, format string, args ...any) error {
	return &Error{Kind: KindSchemaViolation, Op: op, Detail: fmt.Sprintf(format, args...)}
}

func NoImage(op string) error {
	return &Error{Kind: KindNoImageReturned, Op: op, Detail: "no image data returned from model"}
}

func Transport(op string, err error) error {
	return &Error{Kind: KindTransportFailure, Op: op, Err: err}
}

// KindOf returns the kind of the first classified error in err's chain.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
