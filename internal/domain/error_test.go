package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "message only",
			err:      &Error{Code: EINVALID, Message: "itens is required"},
			expected: "itens is required",
		},
		{
			name:     "with operation",
			err:      &Error{Code: ENOTFOUND, Op: "tax.calculate", Message: "empresa not found: 42"},
			expected: "tax.calculate: empresa not found: 42",
		},
		{
			name: "with wrapped error",
			err: &Error{
				Code:    EINTERNAL,
				Op:      "postgres.config",
				Message: "failed to load tax configuration",
				Err:     errors.New("connection refused"),
			},
			expected: "postgres.config: failed to load tax configuration: connection refused",
		},
		{
			name: "wrapped error without op",
			err: &Error{
				Code:    EINTERNAL,
				Message: "failed to load tax configuration",
				Err:     errors.New("connection refused"),
			},
			expected: "failed to load tax configuration: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	underlying := errors.New("underlying error")
	err := Internal(underlying, "postgres.company", "failed to load company")

	if !errors.Is(err, underlying) {
		t.Error("errors.Is should find underlying error")
	}
}

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "domain error", err: &Error{Code: EINVALID, Message: "test"}, expected: EINVALID},
		{
			name:     "wrapped domain error",
			err:      fmt.Errorf("wrapped: %w", NotFound("tax.calculate", "natureza de operação", "7")),
			expected: ENOTFOUND,
		},
		{name: "non-domain error", err: errors.New("some error"), expected: EINTERNAL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorCode(tt.err); got != tt.expected {
				t.Errorf("ErrorCode() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{name: "nil error", err: nil, expected: ""},
		{name: "domain error with message", err: Invalid("tax.request", "ufDestino must be a valid UF"), expected: "ufDestino must be a valid UF"},
		{
			name:     "internal error hides message",
			err:      &Error{Code: EINTERNAL, Message: "database connection string leaked"},
			expected: "An internal error occurred. Please try again later.",
		},
		{
			name:     "non-domain error returns generic message",
			err:      errors.New("some internal detail"),
			expected: "An internal error occurred. Please try again later.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.expected {
				t.Errorf("ErrorMessage() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestErrorOp(t *testing.T) {
	if got := ErrorOp(NotFound("tax.calculate", "cliente", "9")); got != "tax.calculate" {
		t.Errorf("ErrorOp() = %q, want %q", got, "tax.calculate")
	}
	if got := ErrorOp(errors.New("plain")); got != "" {
		t.Errorf("ErrorOp() = %q, want empty", got)
	}
}

func TestErrorf(t *testing.T) {
	err := Errorf(EINVALID, "tax.request", "item %d: quantidade must be positive", 3)

	var domainErr *Error
	if !errors.As(err, &domainErr) {
		t.Fatal("Errorf should return *Error")
	}
	if domainErr.Code != EINVALID {
		t.Errorf("Code = %q, want %q", domainErr.Code, EINVALID)
	}
	if domainErr.Message != "item 3: quantidade must be positive" {
		t.Errorf("Message = %q", domainErr.Message)
	}
}

func TestIsCode(t *testing.T) {
	if !IsCode(NotFound("op", "empresa", "1"), ENOTFOUND) {
		t.Error("NotFound should carry ENOTFOUND")
	}
	if IsCode(Invalid("op", "bad"), ENOTFOUND) {
		t.Error("Invalid should not match ENOTFOUND")
	}
	if !IsCode(errors.New("test"), EINTERNAL) {
		t.Error("non-domain errors should match EINTERNAL")
	}
}

func TestValidationError(t *testing.T) {
	t.Run("single field", func(t *testing.T) {
		err := AddFieldError(nil, "itens[0].quantidade", "must be greater than 0")
		ve, ok := err.(*ValidationError)
		if !ok {
			t.Fatal("AddFieldError(nil) should return *ValidationError")
		}
		if ve.Error() != "itens[0].quantidade: must be greater than 0" {
			t.Errorf("Error() = %q", ve.Error())
		}
	})

	t.Run("multiple fields", func(t *testing.T) {
		err := AddFieldError(nil, "empresaId", "is required")
		err = AddFieldError(err, "naturezaOperacaoId", "is required")

		fields := GetValidationFields(err)
		if len(fields) != 2 {
			t.Errorf("Fields count = %d, want 2", len(fields))
		}
	})

	t.Run("non-validation error", func(t *testing.T) {
		if GetValidationFields(errors.New("test")) != nil {
			t.Error("GetValidationFields should return nil for non-validation error")
		}
	})
}
