package apierrors

import (
	"net/http"
	"testing"
)

func TestRegistry_CoreCodesRegistered(t *testing.T) {
	// Core codes should be registered via init()
	codes := Registry.All()
	if len(codes) == 0 {
		t.Fatal("No codes registered")
	}

	mustExist := []string{
		CodeBadRequest,
		CodeValidationFailed,
		CodeInvalidID,
		CodeNotFound,
		CodeConflict,
		CodeRateLimited,
		CodeStoreError,
		CodeInternalError,
		CodeServiceUnavailable,
	}

	for _, code := range mustExist {
		if _, ok := Registry.Get(code); !ok {
			t.Errorf("Core code %q not registered", code)
		}
	}
}

func TestRegistry_HTTPStatus(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{CodeBadRequest, http.StatusBadRequest},
		{CodeValidationFailed, http.StatusUnprocessableEntity},
		{CodeInvalidID, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeConflict, http.StatusConflict},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeStoreError, http.StatusInternalServerError},
		{CodeInternalError, http.StatusInternalServerError},
		{CodeServiceUnavailable, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := Registry.HTTPStatus(tt.code); got != tt.status {
				t.Errorf("HTTPStatus(%q) = %d, want %d", tt.code, got, tt.status)
			}
		})
	}
}

func TestRegistry_UnknownCode(t *testing.T) {
	// Unknown code should return 500 status
	status := Registry.HTTPStatus("amend:no_such_code")
	if status != http.StatusInternalServerError {
		t.Errorf("HTTPStatus for unknown code = %d, want %d", status, http.StatusInternalServerError)
	}

	// Unknown code message should be the code itself
	msg := Registry.Message("amend:no_such_code")
	if msg != "amend:no_such_code" {
		t.Errorf("Message for unknown code = %q, want %q", msg, "amend:no_such_code")
	}
}

func TestNewHelpers(t *testing.T) {
	e := New(CodeConflict)
	if e.Code != CodeConflict {
		t.Errorf("Code = %q, want %q", e.Code, CodeConflict)
	}
	if e.Message == "" {
		t.Error("New should carry the registered message")
	}

	m := NewWithMessage(CodeValidationFailed, "unknown sort field")
	if m.Message != "unknown sort field" {
		t.Errorf("Message = %q, want override", m.Message)
	}
}
