package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKind_HTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{kind: InvalidInput, want: http.StatusBadRequest},
		{kind: Unreachable, want: http.StatusBadGateway},
		{kind: Timeout, want: http.StatusGatewayTimeout},
		{kind: ParsingFailed, want: http.StatusInternalServerError},
		{kind: Unknown, want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.HTTPStatus(); got != tt.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAppError_WrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("analyze: %w", &AppError{Kind: Unreachable, Message: "unreachable", Cause: cause})

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause through AppError")
	}

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As should find the AppError")
	}
	if appErr.Error() != "unreachable: dial tcp: connection refused" {
		t.Errorf("Error() = %q", appErr.Error())
	}
}

func TestAppError_WithoutCause(t *testing.T) {
	err := &AppError{Kind: InvalidInput, Message: "bad url"}
	if err.Error() != "bad url" {
		t.Errorf("Error() = %q, want %q", err.Error(), "bad url")
	}
	if err.Unwrap() != nil {
		t.Error("Unwrap() should be nil without a cause")
	}
}
