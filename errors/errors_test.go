package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestAppErrorError(t *testing.T) {
	e := New(ErrCodeInvalidInput, "bad request body", http.StatusBadRequest)
	want := "INVALID_INPUT: bad request body"
	if e.Error() != want {
		t.Errorf("Error() = %q, want %q", e.Error(), want)
	}

	cause := stderrors.New("eof")
	e = e.WithCause(cause)
	if e.Error() != "INVALID_INPUT: bad request body (cause: eof)" {
		t.Errorf("unexpected Error() with cause: %q", e.Error())
	}
	if !stderrors.Is(e, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		code       ErrorCode
		httpStatus int
		retryable  bool
	}{
		{"invalid input", InvalidInput("text", "too short"), ErrCodeInvalidInput, http.StatusBadRequest, false},
		{"missing field", MissingField("sessionId"), ErrCodeMissingField, http.StatusBadRequest, false},
		{"not found", NotFound("translation", "XYZ"), ErrCodeNotFound, http.StatusNotFound, false},
		{"external service", ExternalServiceError("oracle", stderrors.New("503")), ErrCodeExternalService, http.StatusBadGateway, true},
		{"unavailable", ServiceUnavailable("oracle"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable, true},
		{"internal", Internal(stderrors.New("boom")), ErrCodeInternal, http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.code)
			}
			if tt.err.HTTPStatus != tt.httpStatus {
				t.Errorf("HTTPStatus = %d, want %d", tt.err.HTTPStatus, tt.httpStatus)
			}
			if tt.err.Retryable != tt.retryable {
				t.Errorf("Retryable = %v, want %v", tt.err.Retryable, tt.retryable)
			}
		})
	}
}

func TestToResponse(t *testing.T) {
	e := MissingField("version")
	resp := e.ToResponse()
	if resp.Error.Code != ErrCodeMissingField {
		t.Errorf("response code = %s", resp.Error.Code)
	}
	if resp.Error.Details["field"] != "version" {
		t.Errorf("details = %v", resp.Error.Details)
	}
}

func TestAsAppError(t *testing.T) {
	e := Internal(nil)
	wrapped := stderrors.Join(stderrors.New("outer"), e)
	got, ok := AsAppError(wrapped)
	if !ok || got != e {
		t.Error("expected AsAppError to unwrap the AppError")
	}
	if _, ok := AsAppError(stderrors.New("plain")); ok {
		t.Error("plain error should not convert")
	}
}
