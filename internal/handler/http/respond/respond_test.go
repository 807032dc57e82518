package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestJSON(t *testing.T) {
	tests := []struct {
		name         string
		code         int
		data         any
		expectedCode int
		expectedBody string
	}{
		{
			name:         "success with map",
			code:         http.StatusOK,
			data:         map[string]string{"message": "success"},
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"success"}`,
		},
		{
			name:         "created with struct",
			code:         http.StatusCreated,
			data:         struct{ ID int }{ID: 123},
			expectedCode: http.StatusCreated,
			expectedBody: `{"ID":123}`,
		},
		{
			name:         "no content with nil",
			code:         http.StatusNoContent,
			data:         nil,
			expectedCode: http.StatusNoContent,
			expectedBody: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			JSON(w, tt.code, tt.data)

			if w.Code != tt.expectedCode {
				t.Errorf("expected status %d, got %d", tt.expectedCode, w.Code)
			}
			if got := w.Header().Get("Content-Type"); got != "application/json" {
				t.Errorf("expected Content-Type application/json, got %q", got)
			}
			body := strings.TrimSpace(w.Body.String())
			if body != tt.expectedBody {
				t.Errorf("expected body %q, got %q", tt.expectedBody, body)
			}
		})
	}
}

func TestError(t *testing.T) {
	w := httptest.NewRecorder()

	Error(w, http.StatusBadRequest, errors.New("jurisdiction code is required"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}
	if body["error"] != "jurisdiction code is required" {
		t.Errorf("unexpected error message: %q", body["error"])
	}
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name        string
		code        int
		err         error
		expectedMsg string
	}{
		{
			name:        "validation message passes through",
			code:        http.StatusBadRequest,
			err:         errors.New("url is required"),
			expectedMsg: "url is required",
		},
		{
			name:        "not found passes through",
			code:        http.StatusNotFound,
			err:         errors.New("resource not found"),
			expectedMsg: "resource not found",
		},
		{
			name:        "internal detail is masked",
			code:        http.StatusBadRequest,
			err:         errors.New(`dial tcp 10.0.0.5:5432: connection refused`),
			expectedMsg: "internal server error",
		},
		{
			name:        "500 always masked even with safe words",
			code:        http.StatusInternalServerError,
			err:         errors.New("resource not found while scanning rows"),
			expectedMsg: "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			SafeError(w, tt.code, tt.err)

			if w.Code != tt.code {
				t.Errorf("expected status %d, got %d", tt.code, w.Code)
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("failed to unmarshal body: %v", err)
			}
			if body["error"] != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, body["error"])
			}
		})
	}
}

func TestSafeError_NilError(t *testing.T) {
	w := httptest.NewRecorder()

	SafeError(w, http.StatusInternalServerError, nil)

	// Nothing should be written for a nil error.
	if w.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", w.Body.String())
	}
}

func TestAppError(t *testing.T) {
	inner := fmt.Errorf("pq: duplicate key value violates unique constraint")
	appErr := NewAppError(http.StatusConflict, "resource already exists", inner)

	if appErr.Error() != inner.Error() {
		t.Errorf("Error() should expose the internal error, got %q", appErr.Error())
	}
	if !errors.Is(appErr, inner) {
		t.Error("expected errors.Is to unwrap to the internal error")
	}
}

func TestSafeErrorV2_AppError(t *testing.T) {
	w := httptest.NewRecorder()

	inner := errors.New("pq: duplicate key value violates unique constraint")
	err := fmt.Errorf("create resource: %w", NewAppError(http.StatusConflict, "resource already exists", inner))

	SafeErrorV2(w, http.StatusInternalServerError, err)

	// The AppError's code and user message win over the caller's code.
	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}
	if body["error"] != "resource already exists" {
		t.Errorf("expected user message, got %q", body["error"])
	}
}

func TestSafeErrorV2_PlainErrorFallsBack(t *testing.T) {
	w := httptest.NewRecorder()

	SafeErrorV2(w, http.StatusBadRequest, errors.New("tag must be lowercase"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to unmarshal body: %v", err)
	}
	if body["error"] != "tag must be lowercase" {
		t.Errorf("expected safe message passthrough, got %q", body["error"])
	}
}
