package response

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestSuccess(t *testing.T) {
	resp := Success(map[string]string{"name": "test"})

	if !resp.Success {
		t.Error("Expected success to be true")
	}
	if resp.Data == nil {
		t.Error("Expected data to be set")
	}
	if resp.Error != nil {
		t.Error("Expected error to be nil")
	}
	if resp.Meta != nil {
		t.Error("Expected meta to be nil")
	}
}

func TestSuccess_JSONFormat(t *testing.T) {
	jsonBytes, err := json.Marshal(Success(map[string]string{"id": "123"}))
	if err != nil {
		t.Fatalf("Failed to marshal response: %v", err)
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(jsonBytes, &parsed); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}

	if parsed["success"] != true {
		t.Errorf("Expected success=true, got %v", parsed["success"])
	}
	if _, ok := parsed["error"]; ok {
		t.Error("Expected error field to be omitted")
	}
	if _, ok := parsed["meta"]; ok {
		t.Error("Expected meta field to be omitted")
	}
}

func TestError(t *testing.T) {
	resp := Error(ErrCodeNotFound, "Event not found")

	if resp.Success {
		t.Error("Expected success to be false")
	}
	if resp.Data != nil {
		t.Error("Expected data to be nil")
	}
	if resp.Error == nil {
		t.Fatal("Expected error to be set")
	}
	if resp.Error.Code != ErrCodeNotFound {
		t.Errorf("Error.Code = %q, want %q", resp.Error.Code, ErrCodeNotFound)
	}
	if resp.Error.Message != "Event not found" {
		t.Errorf("Error.Message = %q, want %q", resp.Error.Message, "Event not found")
	}
}

func TestValidationFailed(t *testing.T) {
	resp := ValidationFailed(map[string]string{"email": "must be a valid email"})

	if resp.Error.Code != ErrCodeValidationFailed {
		t.Errorf("Error.Code = %q, want %q", resp.Error.Code, ErrCodeValidationFailed)
	}
	if resp.Error.Details["email"] != "must be a valid email" {
		t.Errorf("Details[email] = %q", resp.Error.Details["email"])
	}
}

func TestPaginated(t *testing.T) {
	tests := []struct {
		name           string
		page, limit    int
		total          int64
		wantTotalPages int
	}{
		{"exact pages", 1, 10, 30, 3},
		{"partial last page", 2, 10, 31, 4},
		{"empty", 1, 10, 0, 0},
		{"zero limit", 1, 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := Paginated([]string{}, tt.page, tt.limit, tt.total)
			if resp.Meta == nil {
				t.Fatal("Expected meta to be set")
			}
			if resp.Meta.TotalPages != tt.wantTotalPages {
				t.Errorf("TotalPages = %d, want %d", resp.Meta.TotalPages, tt.wantTotalPages)
			}
			if resp.Meta.Page != tt.page || resp.Meta.Limit != tt.limit || resp.Meta.Total != tt.total {
				t.Errorf("Meta = %+v", resp.Meta)
			}
		})
	}
}

func TestDefaultMessages(t *testing.T) {
	tests := []struct {
		name string
		resp *Response
		code string
	}{
		{"unauthorized", Unauthorized(""), ErrCodeUnauthorized},
		{"forbidden", Forbidden(""), ErrCodeForbidden},
		{"not found", NotFound(""), ErrCodeNotFound},
		{"conflict", Conflict(""), ErrCodeConflict},
		{"internal", InternalError(""), ErrCodeInternalError},
		{"too many", TooManyRequests(""), ErrCodeTooManyRequests},
		{"unavailable", ServiceUnavailable(""), ErrCodeServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.resp.Error.Code != tt.code {
				t.Errorf("Code = %q, want %q", tt.resp.Error.Code, tt.code)
			}
			if tt.resp.Error.Message == "" {
				t.Error("Expected a default message")
			}
		})
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeConflict, http.StatusConflict},
		{ErrCodeInvalidStateTransition, http.StatusBadRequest},
		{ErrCodeTooManyRequests, http.StatusTooManyRequests},
		{"UNKNOWN", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := GetHTTPStatus(tt.code); got != tt.want {
				t.Errorf("GetHTTPStatus(%q) = %d, want %d", tt.code, got, tt.want)
			}
		})
	}
}
