package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "error with cause",
			err: Wrap(KindPackCorrupt, "pack.load", "directory truncated",
				errors.New("unexpected EOF")),
			contains: []string{"[pack_corrupt:pack.load]", "directory truncated", "unexpected EOF"},
		},
		{
			name:     "error without cause",
			err:      New(KindBadInput, "mix.parse", "empty expression"),
			contains: []string{"[bad_input:mix.parse]", "empty expression"},
		},
		{
			name:     "formatted message",
			err:      Newf(KindUnknownVoice, "mix.resolve", "no voice %q", "af_ghost"),
			contains: []string{"[unknown_voice:mix.resolve]", `no voice "af_ghost"`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(errStr, substr) {
					t.Errorf("error string %q does not contain %q", errStr, substr)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	wrappedErr := Wrap(KindInferenceFailed, "driver.run", "session run failed", originalErr)

	if !errors.Is(wrappedErr, originalErr) {
		t.Error("Unwrap should expose the original error")
	}
}

func TestWrap_PreservesInnerClassification(t *testing.T) {
	inner := New(KindUnknownVoice, "mix.resolve", "no such voice")
	outer := Wrap(KindInternal, "engine.synthesize", "sentence failed", fmt.Errorf("resolve: %w", inner))

	if outer.Kind != KindUnknownVoice {
		t.Errorf("Wrap rewrapped a typed error: kind = %s", outer.Kind)
	}
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		expected bool
	}{
		{
			name:     "direct error kind match",
			err:      New(KindSessionNotFound, "stream.append", "no session"),
			kind:     KindSessionNotFound,
			expected: true,
		},
		{
			name:     "wrapped error kind match",
			err:      fmt.Errorf("handler: %w", New(KindBackpressure, "stream.append", "queue full")),
			kind:     KindBackpressure,
			expected: true,
		},
		{
			name:     "error kind mismatch",
			err:      New(KindBadInput, "speech.request", "empty text"),
			kind:     KindInferenceTimeout,
			expected: false,
		},
		{
			name:     "non-typed error",
			err:      errors.New("plain error"),
			kind:     KindBadInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsKind(tt.err, tt.kind)
			if result != tt.expected {
				t.Errorf("IsKind() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(New(KindPackUnknownVersion, "pack.load", "bad magic")); got != KindPackUnknownVersion {
		t.Errorf("KindOf typed = %s", got)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf untyped = %s", got)
	}
	if got := KindOf(fmt.Errorf("outer: %w", New(KindResourceMissing, "registry.load", "model file"))); got != KindResourceMissing {
		t.Errorf("KindOf wrapped = %s", got)
	}
}
