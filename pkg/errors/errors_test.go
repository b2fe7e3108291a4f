package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_String(t *testing.T) {
	err := New(ErrCodeInvalidDefinition, "node %d: empty name", 3)
	if got, want := err.Error(), "INVALID_DEFINITION: node 3: empty name"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := Wrap(ErrCodeLayoutFailed, errors.New("syntax error in line 2"), "graphviz dot")
	if got, want := wrapped.Error(), "LAYOUT_FAILED: graphviz dot: syntax error in line 2"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestWrap_Unwrap(t *testing.T) {
	cause := errors.New("exit status 1")
	err := Wrap(ErrCodeConversionFailed, cause, "rsvg-convert")
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if errors.Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
}

func TestIs_GetCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
	}{
		{"coded", New(ErrCodeAnchorNotFound, "no svg tag"), ErrCodeAnchorNotFound},
		{"outer code wins", Wrap(ErrCodeLayoutFailed, New(ErrCodeInvalidInput, "inner"), "outer"), ErrCodeLayoutFailed},
		{"behind fmt wrap", fmt.Errorf("render svg: %w", New(ErrCodeNotFound, "x")), ErrCodeNotFound},
		{"plain", errors.New("plain"), ""},
		{"nil", nil, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.code {
				t.Errorf("GetCode() = %q, want %q", got, tt.code)
			}
			if tt.code != "" && !Is(tt.err, tt.code) {
				t.Errorf("Is(%q) = false", tt.code)
			}
			if Is(tt.err, ErrCodeUnsupported) {
				t.Error("Is(UNSUPPORTED) = true")
			}
		})
	}
	if Is(errors.New("plain"), "") {
		t.Error("the empty code should never match")
	}
}

func TestMessages(t *testing.T) {
	tests := []struct {
		err        error
		user, full string
	}{
		{New(ErrCodeInvalidInput, "scale must be positive"), "scale must be positive", "scale must be positive"},
		{Wrap(ErrCodeLayoutFailed, errors.New("syntax error"), "graphviz dot"), "graphviz dot", "graphviz dot: syntax error"},
		{errors.New("plain"), "plain", "plain"},
	}
	for _, tt := range tests {
		if got := UserMessage(tt.err); got != tt.user {
			t.Errorf("UserMessage(%v) = %q, want %q", tt.err, got, tt.user)
		}
		if got := Detail(tt.err); got != tt.full {
			t.Errorf("Detail(%v) = %q, want %q", tt.err, got, tt.full)
		}
	}
}

func TestCode_Invalid(t *testing.T) {
	for _, c := range []Code{ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeInvalidDefinition, ErrCodeInvalidLayout} {
		if !c.Invalid() {
			t.Errorf("%s.Invalid() = false", c)
		}
	}
	for _, c := range []Code{ErrCodeNotFound, ErrCodeLayoutFailed, ErrCodeInternal, ""} {
		if c.Invalid() {
			t.Errorf("%q.Invalid() = true", c)
		}
	}
}
