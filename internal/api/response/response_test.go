package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, w
}

func TestOK_WhenCalled_ThenWrapsDataInEnvelope(t *testing.T) {
	// Arrange
	c, w := testContext()

	// Act
	OK(c, map[string]string{"table": "products"})

	// Assert
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var envelope SuccessResponse
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	data, ok := envelope.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("expected data object, got %T", envelope.Data)
	}
	if data["table"] != "products" {
		t.Errorf("expected table 'products', got %v", data["table"])
	}
}

func TestError_WhenRequestIDInContext_ThenIncludesTraceID(t *testing.T) {
	// Arrange
	c, w := testContext()
	c.Set("request_id", "req-123")

	// Act
	BadRequest(c, "invalid request body", "sql is required")

	// Assert
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var envelope ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if envelope.Error != "invalid request body" {
		t.Errorf("unexpected error message: %s", envelope.Error)
	}
	if envelope.TraceID != "req-123" {
		t.Errorf("expected trace ID 'req-123', got '%s'", envelope.TraceID)
	}
}

func TestConflict_WhenCalled_ThenReturns409(t *testing.T) {
	// Arrange
	c, w := testContext()

	// Act
	Conflict(c, "duplicate entry", "Duplicate entry '1' for key 'order_id'")

	// Assert
	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", w.Code)
	}
}

func TestServiceUnavailable_WhenCalled_ThenReturns503(t *testing.T) {
	// Arrange
	c, w := testContext()

	// Act
	ServiceUnavailable(c, "database unreachable")

	// Assert
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}

func TestGetRequestID_WhenNotSet_ThenGeneratesOne(t *testing.T) {
	// Arrange
	c, _ := testContext()

	// Act
	id := GetRequestID(c)

	// Assert
	if id == "" {
		t.Error("expected a generated request ID")
	}
}
