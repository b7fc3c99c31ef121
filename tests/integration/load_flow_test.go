//go:build integration

package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/madsbk/sqlbridge/internal/api/handlers"
	"github.com/madsbk/sqlbridge/internal/loader"
	"github.com/madsbk/sqlbridge/internal/logging"
	"github.com/madsbk/sqlbridge/internal/models"
	"github.com/madsbk/sqlbridge/internal/testutil/fakes"
)

func writeCSV(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func manifestBody(t *testing.T) []byte {
	t.Helper()
	manifest := map[string]any{
		"database":  "tech_store",
		"overwrite": true,
		"tables": []map[string]any{
			{
				"name":        "products",
				"columns":     []string{"product_id INT NOT NULL", "product_name VARCHAR(255)", "price DECIMAL(10,2)"},
				"data":        "products.csv",
				"primary_key": "product_id",
			},
			{
				"name":    "orders",
				"columns": []string{"order_id INT NOT NULL", "product_id INT", "quantity INT"},
				"data":    "orders.csv",
				"foreign_keys": []map[string]any{
					{"column": "product_id", "references": map[string]any{"table": "products"}},
				},
			},
		},
	}
	body, err := json.Marshal(manifest)
	require.NoError(t, err)
	return body
}

func TestLoadFlow_ManifestThroughAPI_LoadsTablesAndPublishesAudit(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()
	writeCSV(t, dir, "products.csv", "product_id,product_name,price\n1,laptop,999.99\n2,mouse,19.99\n")
	writeCSV(t, dir, "orders.csv", "order_id,product_id,quantity\n10,1,2\n")

	store := fakes.NewFakeStore()
	publisher := fakes.NewFakePublisher()
	svc := loader.NewService(store, publisher, logging.NewNoOpLogger(), dir)
	handler := handlers.NewDatasetHandler(logging.NewNoOpLogger(), svc)

	router := gin.New()
	router.POST("/api/v1/datasets/load", handler.LoadDataset)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/load", bytes.NewReader(manifestBody(t)))
	req.Header.Set("Content-Type", "application/json")

	// Act
	router.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var responseWrapper struct {
		Data models.LoadReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &responseWrapper))
	report := responseWrapper.Data
	require.Equal(t, "tech_store", report.Database)
	require.Len(t, report.Tables, 2)
	require.False(t, report.Failed())
	require.EqualValues(t, 3, report.RowsInserted())

	require.Equal(t, "tech_store", store.Selected)
	require.Len(t, store.Rows("products"), 2)
	require.Len(t, store.Rows("orders"), 1)
	require.Equal(t, "product_id", store.PrimaryKey("products"))
	require.Len(t, store.ForeignKeys("orders"), 1)

	events := publisher.Events()
	require.Len(t, events, 1)
	require.Equal(t, models.AuditKindLoad, events[0].Kind)
	require.True(t, events[0].Succeeded)
}

func TestLoadFlow_InvalidManifest_RejectedBeforeLoading(t *testing.T) {
	// Arrange
	gin.SetMode(gin.TestMode)
	store := fakes.NewFakeStore()
	svc := loader.NewService(store, nil, logging.NewNoOpLogger(), t.TempDir())
	handler := handlers.NewDatasetHandler(logging.NewNoOpLogger(), svc)

	router := gin.New()
	router.POST("/api/v1/datasets/load", handler.LoadDataset)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/datasets/load", bytes.NewReader([]byte(`{"database":"tech_store","tables":[]}`)))
	req.Header.Set("Content-Type", "application/json")

	// Act
	router.ServeHTTP(w, req)

	// Assert
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, store.Databases)
}
