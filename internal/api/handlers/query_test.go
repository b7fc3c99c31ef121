package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"

	"github.com/madsbk/sqlbridge/internal/db"
	"github.com/madsbk/sqlbridge/internal/logging"
	"github.com/madsbk/sqlbridge/internal/models"
	"github.com/madsbk/sqlbridge/internal/testutil/fakes"
)

func setupQueryRouter(executor *fakes.FakeExecutor) *gin.Engine {
	return setupQueryRouterWithAudit(executor, nil)
}

func setupQueryRouterWithAudit(executor *fakes.FakeExecutor, publisher AuditPublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewQueryHandler(logging.NewNoOpLogger(), executor, publisher)
	router := gin.New()
	router.POST("/query", handler.RunQuery)
	router.POST("/exec", handler.RunScript)
	return router
}

func TestRunQuery_WhenValidRequest_ThenReturns200WithResultSet(t *testing.T) {
	// Arrange
	executor := fakes.NewFakeExecutor()
	executor.QueryResult = &models.ResultSet{
		Columns: []string{"product_id", "product_name"},
		Rows:    [][]string{{"1", "laptop"}, {"2", "mouse"}},
	}
	router := setupQueryRouter(executor)

	body, _ := json.Marshal(models.QueryRequest{SQL: "SELECT * FROM products"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	router.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var responseWrapper struct {
		Data models.ResultSet `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &responseWrapper); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(responseWrapper.Data.Rows) != 2 {
		t.Errorf("expected 2 rows, got %d", len(responseWrapper.Data.Rows))
	}
	if len(executor.QueriedSQL) != 1 || executor.QueriedSQL[0] != "SELECT * FROM products" {
		t.Errorf("expected recorded query, got %v", executor.QueriedSQL)
	}
}

func TestRunQuery_WhenBodyMissingSQL_ThenReturns400(t *testing.T) {
	// Arrange
	router := setupQueryRouter(fakes.NewFakeExecutor())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")

	// Act
	router.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestRunQuery_WhenStatementFails_ThenReturns400(t *testing.T) {
	// Arrange
	executor := fakes.NewFakeExecutor()
	executor.QueryErr = &db.QueryError{
		Statement: "SELECT * FROM missing",
		Err:       &mysql.MySQLError{Number: 1146, Message: "Table 'missing' doesn't exist"},
	}
	router := setupQueryRouter(executor)

	body, _ := json.Marshal(models.QueryRequest{SQL: "SELECT * FROM missing"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	router.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	var responseWrapper struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &responseWrapper); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if responseWrapper.Error != "statement failed" {
		t.Errorf("expected error 'statement failed', got '%s'", responseWrapper.Error)
	}
}

func TestRunQuery_WhenConnectionLost_ThenReturns503(t *testing.T) {
	// Arrange
	executor := fakes.NewFakeExecutor()
	executor.QueryErr = &db.ConnectionError{Addr: "localhost:3306", Err: db.ErrNotConnected}
	router := setupQueryRouter(executor)

	body, _ := json.Marshal(models.QueryRequest{SQL: "SELECT 1"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/query", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	router.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected status 503, got %d", w.Code)
	}
}

func TestRunScript_WhenMultipleStatements_ThenReturnsStatementCountAndRowsAffected(t *testing.T) {
	// Arrange
	executor := fakes.NewFakeExecutor()
	executor.ExecAffected = 3
	router := setupQueryRouter(executor)

	script := "USE tech_store; UPDATE products SET price = 10 WHERE product_id = 1; DELETE FROM orders WHERE order_id = 9;"
	body, _ := json.Marshal(models.ExecRequest{SQL: script})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/exec", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	router.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var responseWrapper struct {
		Data models.ExecResult `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &responseWrapper); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if responseWrapper.Data.Statements != 3 {
		t.Errorf("expected 3 statements, got %d", responseWrapper.Data.Statements)
	}
	if responseWrapper.Data.RowsAffected != 3 {
		t.Errorf("expected 3 rows affected, got %d", responseWrapper.Data.RowsAffected)
	}
}

func TestRunScript_WhenAuditPublisherConfigured_ThenPublishesExecEvent(t *testing.T) {
	// Arrange
	executor := fakes.NewFakeExecutor()
	executor.ExecAffected = 2
	publisher := fakes.NewFakePublisher()
	router := setupQueryRouterWithAudit(executor, publisher)

	body, _ := json.Marshal(models.ExecRequest{SQL: "UPDATE products SET price = 10"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/exec", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	router.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	events := publisher.Events()
	if len(events) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(events))
	}
	if events[0].Kind != models.AuditKindExec {
		t.Errorf("expected kind '%s', got '%s'", models.AuditKindExec, events[0].Kind)
	}
	if events[0].RowsAffected != 2 {
		t.Errorf("expected 2 rows affected, got %d", events[0].RowsAffected)
	}
	if !events[0].Succeeded {
		t.Error("expected audit event to be marked succeeded")
	}
}

func TestRunScript_WhenDuplicateEntry_ThenReturns409(t *testing.T) {
	// Arrange
	executor := fakes.NewFakeExecutor()
	executor.ExecErr = &db.QueryError{
		Statement: "INSERT INTO products VALUES (1, 'laptop')",
		Err:       &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1' for key 'PRIMARY'"},
	}
	router := setupQueryRouter(executor)

	body, _ := json.Marshal(models.ExecRequest{SQL: "INSERT INTO products VALUES (1, 'laptop')"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/exec", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	// Act
	router.ServeHTTP(w, req)

	// Assert
	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", w.Code)
	}

	var responseWrapper struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &responseWrapper); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if responseWrapper.Error != "duplicate entry" {
		t.Errorf("expected error 'duplicate entry', got '%s'", responseWrapper.Error)
	}
}
