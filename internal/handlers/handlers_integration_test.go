package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"stockroom/internal/handlers"
	"stockroom/internal/models"
	"stockroom/internal/repositories"
	"stockroom/internal/services"
)

var dbSeq int64

// setupApp builds a Fiber app over a fresh in-memory SQLite database with all
// handlers and services wired, mirroring main.go without the broker.
func setupApp(t *testing.T) *fiber.App {
	t.Helper()

	dsn := fmt.Sprintf("file:handlertest%d?mode=memory&cache=shared", atomic.AddInt64(&dbSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Order{}, &models.OrderItem{}))

	productRepo := repositories.NewGORMProductRepository(db)
	orderRepo := repositories.NewGORMOrderRepository(db)

	productService := services.NewProductService(productRepo)
	orderService := services.NewOrderService(orderRepo, nil) // nil publisher: no broker in tests

	productHandler := handlers.NewProductHandler(productService)
	orderHandler := handlers.NewOrderHandler(orderService)

	app := fiber.New()
	productHandler.RegisterRoutes(app)
	orderHandler.RegisterRoutes(app)

	return app
}

// TestMain suppresses logging during tests for cleaner output.
func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func createProduct(t *testing.T, app *fiber.App, name string, price float64, stock int) models.Product {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name":           name,
		"description":    "integration test item",
		"price":          price,
		"stock_quantity": stock,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var product models.Product
	decode(t, resp, &product)
	require.NotZero(t, product.ID)
	return product
}

func TestProductsEmptyList(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/products", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "no products", body["message"])
}

func TestProductCRUDFlow(t *testing.T) {
	app := setupApp(t)

	created := createProduct(t, app, "Laptop", 1200.00, 10)
	assert.Equal(t, "Laptop", created.Name)
	assert.Equal(t, 1200.00, created.Price)
	assert.Equal(t, 10, created.StockQuantity)

	// Retrieval by the new id works immediately, and twice identically.
	var first, second models.Product
	resp := doJSON(t, app, http.MethodGet, fmt.Sprintf("/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &first)
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/products/%d", created.ID), nil)
	decode(t, resp, &second)
	assert.Equal(t, first, second)
	assert.Equal(t, created.ID, first.ID)

	// List now contains it.
	resp = doJSON(t, app, http.MethodGet, "/products", nil)
	var products []models.Product
	decode(t, resp, &products)
	assert.Len(t, products, 1)

	// Subset update: only the price changes.
	resp = doJSON(t, app, http.MethodPut, fmt.Sprintf("/products/%d", created.ID), map[string]interface{}{
		"price": 999.99,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Product
	decode(t, resp, &updated)
	assert.Equal(t, 999.99, updated.Price)
	assert.Equal(t, "Laptop", updated.Name)
	assert.Equal(t, 10, updated.StockQuantity)

	// Delete, then confirm it is gone.
	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var delBody map[string]string
	decode(t, resp, &delBody)
	assert.Equal(t, "deleted", delBody["message"])

	resp = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/products/%d", created.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func TestProductGetMissingIsNotAnError(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/products/9999", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "not found", body["message"])
}

func TestProductCreateRejectsBadPayload(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/products", map[string]interface{}{
		"name":           "",
		"price":          -1.0,
		"stock_quantity": 5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestProductUpdateMissingReturns404(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPut, "/products/4242", map[string]interface{}{
		"name": "Ghost",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "not found", body["message"])
}

func TestOrdersEmptyList(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodGet, "/orders", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "no orders", body["message"])
}

func TestOrderCreationFlow(t *testing.T) {
	app := setupApp(t)

	p1 := createProduct(t, app, "P1", 10.00, 800)
	p2 := createProduct(t, app, "P2", 20.00, 800)

	resp := doJSON(t, app, http.MethodPost, "/orders", map[string]interface{}{
		"date":   "2026-03-14T12:00:00Z",
		"status": "in_progress",
		"items": []map[string]interface{}{
			{"product_id": p1.ID, "quantity": 1},
			{"product_id": p2.ID, "quantity": 800},
		},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var order models.Order
	decode(t, resp, &order)
	assert.NotZero(t, order.ID)
	assert.Equal(t, models.OrderStatusInProgress, order.Status)
	assert.Equal(t, "2026-03-14T12:00:00Z", order.Date.UTC().Format("2006-01-02T15:04:05Z"))
	assert.Len(t, order.Items, 2)

	// Stock decremented: 800-1 and 800-800.
	var after models.Product
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/products/%d", p1.ID), nil)
	decode(t, resp, &after)
	assert.Equal(t, 799, after.StockQuantity)
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/products/%d", p2.ID), nil)
	decode(t, resp, &after)
	assert.Equal(t, 0, after.StockQuantity)

	// The order is retrievable with its items.
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched models.Order
	decode(t, resp, &fetched)
	assert.Equal(t, order.ID, fetched.ID)
	assert.Len(t, fetched.Items, 2)
}

func TestOrderCreationInsufficientStock(t *testing.T) {
	app := setupApp(t)

	p1 := createProduct(t, app, "P1", 10.00, 100)
	p2 := createProduct(t, app, "P2", 20.00, 5)

	resp := doJSON(t, app, http.MethodPost, "/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": p1.ID, "quantity": 10},
			{"product_id": p2.ID, "quantity": 6},
		},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Contains(t, body["message"], fmt.Sprintf("insufficient stock for product %d", p2.ID))

	// Nothing committed.
	resp = doJSON(t, app, http.MethodGet, "/orders", nil)
	var empty map[string]string
	decode(t, resp, &empty)
	assert.Equal(t, "no orders", empty["message"])

	var stock models.Product
	resp = doJSON(t, app, http.MethodGet, fmt.Sprintf("/products/%d", p1.ID), nil)
	decode(t, resp, &stock)
	assert.Equal(t, 100, stock.StockQuantity)
}

func TestOrderCreationUnknownProduct(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": 9999, "quantity": 1},
		},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, "invalid product id", body["message"])
}

func TestOrderCreationRejectsEmptyItems(t *testing.T) {
	app := setupApp(t)

	resp := doJSON(t, app, http.MethodPost, "/orders", map[string]interface{}{
		"items": []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestOrderStatusUpdate(t *testing.T) {
	app := setupApp(t)

	p := createProduct(t, app, "P", 10.00, 10)
	resp := doJSON(t, app, http.MethodPost, "/orders", map[string]interface{}{
		"items": []map[string]interface{}{
			{"product_id": p.ID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var order models.Order
	decode(t, resp, &order)

	resp = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/orders/%d", order.ID), map[string]interface{}{
		"status": "shipped",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var updated models.Order
	decode(t, resp, &updated)
	assert.Equal(t, models.OrderStatusShipped, updated.Status)

	// Unknown status is rejected by validation.
	resp = doJSON(t, app, http.MethodPatch, fmt.Sprintf("/orders/%d", order.ID), map[string]interface{}{
		"status": "teleported",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	// Missing order is a 404.
	resp = doJSON(t, app, http.MethodPatch, "/orders/9999", map[string]interface{}{
		"status": "shipped",
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}
