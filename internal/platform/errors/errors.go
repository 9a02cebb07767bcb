package errors

import (
	"errors"
	"fmt"
)

// Kind classifies an error for routing and surface mapping.
type Kind string

const (
	// Request-level kinds.
	KindBadInput        Kind = "bad_input"
	KindUnknownVoice    Kind = "unknown_voice"
	KindBadMixSyntax    Kind = "bad_mix_syntax"
	KindSessionNotFound Kind = "session_not_found"
	KindBackpressure    Kind = "backpressure"

	// Pipeline kinds.
	KindPhonemizerUnavailable Kind = "phonemizer_unavailable"
	KindInferenceFailed       Kind = "inference_failed"
	KindInferenceTimeout      Kind = "inference_timeout"

	// Resource kinds.
	KindResourceMissing    Kind = "resource_missing"
	KindPackCorrupt        Kind = "pack_corrupt"
	KindPackUnknownVersion Kind = "pack_unknown_version"

	// Infrastructure kinds.
	KindConfig    Kind = "config"
	KindBootstrap Kind = "bootstrap"
	KindStorage   Kind = "storage"
	KindTransport Kind = "transport"
	KindInternal  Kind = "internal"
	KindUnknown   Kind = "unknown"
)

type Error struct {
	Kind    Kind
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Kind, e.Op, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Kind, e.Op, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Wrap attaches kind and op metadata to err. Already-typed errors pass
// through unchanged so the innermost classification wins.
func Wrap(kind Kind, op, message string, err error) *Error {
	if err == nil {
		return nil
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed
	}

	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
		Cause:   err,
	}
}

func New(kind Kind, op, message string) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: message,
	}
}

func Newf(kind Kind, op, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	}
}

// IsKind checks whether any error in the chain matches the provided kind.
func IsKind(err error, kind Kind) bool {
	var target *Error
	for err != nil {
		if errors.As(err, &target) {
			return target.Kind == kind
		}
		err = errors.Unwrap(err)
	}
	return false
}

// KindOf returns the kind of the first typed error in the chain, or
// KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var target *Error
	if errors.As(err, &target) {
		return target.Kind
	}
	return KindUnknown
}
