package errors

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestNewFormatsMessage(t *testing.T) {
	err := New(ErrCodeInvalidDirective, "layer %q: bad fragment %q", "Cards", "front")

	if err.Code != ErrCodeInvalidDirective {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeInvalidDirective)
	}
	want := `INVALID_DIRECTIVE: layer "Cards": bad fragment "front"`
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapKeepsCause(t *testing.T) {
	err := Wrap(ErrCodeFilesystem, os.ErrPermission, "create %s", "/out")

	if want := "FILESYSTEM: create /out: permission denied"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, os.ErrPermission) {
		t.Error("errors.Is(err, os.ErrPermission) = false, want true")
	}
	if errors.Unwrap(err) != os.ErrPermission {
		t.Errorf("Unwrap() = %v", errors.Unwrap(err))
	}
}

func TestCodeLookups(t *testing.T) {
	directive := New(ErrCodeInvalidDirective, "bad selector")
	tests := []struct {
		name    string
		err     error
		code    Code
		is      bool
		message string
	}{
		{"direct", directive, ErrCodeInvalidDirective, true, "bad selector"},
		{"other code", directive, ErrCodeInvalidDocument, false, "bad selector"},
		{"outermost code wins", Wrap(ErrCodeInvalidDocument, directive, "load cards.svg"), ErrCodeInvalidDocument, true, "load cards.svg"},
		{"fmt wrapped", fmt.Errorf("export: %w", directive), ErrCodeInvalidDirective, true, "bad selector"},
		{"plain", errors.New("plain"), "", false, "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != "" {
				if got := Is(tt.err, tt.code); got != tt.is {
					t.Errorf("Is(%s) = %v, want %v", tt.code, got, tt.is)
				}
			}
			if tt.is && GetCode(tt.err) != tt.code {
				t.Errorf("GetCode() = %v, want %v", GetCode(tt.err), tt.code)
			}
			if got := UserMessage(tt.err); got != tt.message {
				t.Errorf("UserMessage() = %q, want %q", got, tt.message)
			}
		})
	}
}

func TestNilError(t *testing.T) {
	if Is(nil, ErrCodeInternal) || GetCode(nil) != "" || IsToolError(nil) {
		t.Error("nil error should match nothing")
	}
}

func TestToolError(t *testing.T) {
	t.Run("with cause", func(t *testing.T) {
		err := &ToolError{Tool: "inkscape", Cause: errors.New("exit status 1")}
		expected := "inkscape failed: exit status 1"
		if err.Error() != expected {
			t.Errorf("Error() = %v, want %v", err.Error(), expected)
		}
	})

	t.Run("without cause", func(t *testing.T) {
		err := &ToolError{Tool: "magick"}
		if err.Error() != "magick failed" {
			t.Errorf("Error() = %v, want %v", err.Error(), "magick failed")
		}
	})

	t.Run("code method", func(t *testing.T) {
		err := &ToolError{}
		if err.Code() != ErrCodeExternalTool {
			t.Errorf("Code() = %v, want %v", err.Code(), ErrCodeExternalTool)
		}
	})

	t.Run("detected through wrapping", func(t *testing.T) {
		err := Wrap(ErrCodeExternalTool, &ToolError{Tool: "inkscape"}, "render card1")
		if !IsToolError(err) {
			t.Error("IsToolError() = false, want true")
		}
		if IsToolError(errors.New("plain")) {
			t.Error("IsToolError(plain) = true, want false")
		}
	})
}
