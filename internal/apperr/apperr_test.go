package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mmynk/ekkora/internal/docstore"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"validation", Validationf("amount must be positive"), Validation},
		{"permission", Permissionf("viewer cannot write"), Permission},
		{"wrapped not found", fmt.Errorf("load church: %w", NotFoundf("church %s", "c1")), NotFound},
		{"store not found", fmt.Errorf("get: %w", docstore.ErrNotFound), NotFound},
		{"store denied", docstore.ErrPermissionDenied, Permission},
		{"store duplicate", fmt.Errorf("create: %w", docstore.ErrAlreadyExists), Conflict},
		{"store unavailable", fmt.Errorf("query: %w", docstore.ErrUnavailable), Transient},
		{"wrap keeps kind", Wrap(Conflict, errors.New("boom"), "already bound"), Conflict},
		{"plain error", errors.New("boom"), Internal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Errorf("KindOf(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWrapNil(t *testing.T) {
	if err := Wrap(Transient, nil, "ignored"); err != nil {
		t.Errorf("Wrap(nil) = %v, want nil", err)
	}
}

func TestErrorMessage(t *testing.T) {
	err := Wrap(Transient, errors.New("dial tcp"), "store unavailable")
	if got := err.Error(); got != "store unavailable: dial tcp" {
		t.Errorf("Error() = %q", got)
	}
	var e *Error
	if !errors.As(err, &e) || e.Message != "store unavailable" {
		t.Errorf("errors.As failed: %#v", e)
	}
}
