package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func setupControllerTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Currency{},
		&models.PaymentMethod{},
		&models.OrderState{},
		&models.Salesperson{},
		&models.Client{},
		&models.Supplier{},
		&models.ProductType{},
		&models.Product{},
		&models.Order{},
		&models.OrderLine{},
		&models.Item{},
		&models.UserType{},
		&models.User{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

func seedTestClient(t *testing.T, db *gorm.DB, cliCod string) models.Client {
	t.Helper()
	name := "Cliente " + cliCod
	client := models.Client{CliCod: cliCod, CliNom: &name}
	require.NoError(t, db.Create(&client).Error)
	return client
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestCreateOrderEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)
	seedTestClient(t, db, "CLI001")

	tests := []struct {
		name           string
		requestBody    map[string]interface{}
		expectedStatus int
		expectedError  string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name: "Successfully create order with one line",
			requestBody: map[string]interface{}{
				"clicod": "CLI001",
				"ordfec": "2024-03-15",
				"orderProduct": []map[string]interface{}{
					{
						"prodcod":    "P1",
						"ordprodcan": 2,
						"prodcost":   100,
						"prodvent":   150,
					},
				},
			},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.True(t, response["success"].(bool))
				data := response["data"].(map[string]interface{})
				assert.Equal(t, float64(1), data["ordcod"])
				products := data["products"].([]interface{})
				require.Len(t, products, 1)
				line := products[0].(map[string]interface{})
				assert.Equal(t, "P1", line["prodcod"])
				assert.Equal(t, float64(2), line["ordprodcan"])
			},
		},
		{
			name: "Fail with unknown client",
			requestBody: map[string]interface{}{
				"clicod": "NOPE",
				"orderProduct": []map[string]interface{}{
					{"prodcod": "P1", "ordprodcan": 1},
				},
			},
			expectedStatus: http.StatusNotFound,
			expectedError:  "NOT_FOUND",
		},
		{
			name: "Fail with line missing product code",
			requestBody: map[string]interface{}{
				"clicod": "CLI001",
				"orderProduct": []map[string]interface{}{
					{"ordprodcan": 1},
				},
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.POST("/orders/create", CreateOrder)

			body, _ := json.Marshal(tt.requestBody)
			req, _ := http.NewRequest(http.MethodPost, "/orders/create", bytes.NewBuffer(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			response := decodeResponse(t, w)

			if tt.expectedError != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			}
			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}

func TestGetOrderEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)
	seedTestClient(t, db, "CLI001")

	created := createOrderViaAPI(t, map[string]interface{}{
		"clicod": "CLI001",
		"ordfec": "2024-03-15",
		"orderProduct": []map[string]interface{}{
			{"prodcod": "P1", "ordprodcan": 1, "prodcost": 50, "prodvent": 80},
		},
	})

	tests := []struct {
		name           string
		path           string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Get existing order",
			path:           fmt.Sprintf("/orders/order/%d", created),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Order not found",
			path:           "/orders/order/999",
			expectedStatus: http.StatusNotFound,
			expectedError:  "NOT_FOUND",
		},
		{
			name:           "Non-numeric order id",
			path:           "/orders/order/abc",
			expectedStatus: http.StatusBadRequest,
			expectedError:  "VALIDATION_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupTestRouter()
			router.GET("/orders/order/:id", GetOrder)

			req, _ := http.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			response := decodeResponse(t, w)

			if tt.expectedError != "" {
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedError, errorData["code"])
			} else {
				data := response["data"].(map[string]interface{})
				assert.Equal(t, "2024-03-15", data["ordfec"])
				products := data["products"].([]interface{})
				require.Len(t, products, 1)
			}
		})
	}
}

func TestDeleteOrdersEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)
	seedTestClient(t, db, "CLI001")

	ordCod := createOrderViaAPI(t, map[string]interface{}{
		"clicod": "CLI001",
		"orderProduct": []map[string]interface{}{
			{"prodcod": "P1", "ordprodcan": 1},
		},
	})

	router := setupTestRouter()
	router.POST("/orders/delete", DeleteOrders)

	// Empty list is rejected before touching the database
	body, _ := json.Marshal(map[string]interface{}{"orders": []int{}})
	req, _ := http.NewRequest(http.MethodPost, "/orders/delete", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body, _ = json.Marshal(map[string]interface{}{"orders": []int{ordCod}})
	req, _ = http.NewRequest(http.MethodPost, "/orders/delete", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["deletedOrders"])
	assert.Equal(t, float64(1), data["deletedLines"])

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestDuplicateOrderEndpoint(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)
	seedTestClient(t, db, "CLI001")

	ordCod := createOrderViaAPI(t, map[string]interface{}{
		"clicod": "CLI001",
		"orderProduct": []map[string]interface{}{
			{"prodcod": "P1", "ordprodcan": 3},
		},
	})

	router := setupTestRouter()
	router.POST("/orders/duplicate", DuplicateOrder)

	body, _ := json.Marshal(map[string]interface{}{"ordcod": ordCod})
	req, _ := http.NewRequest(http.MethodPost, "/orders/duplicate", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	newOrdCod := int(data["ordcod"].(float64))
	assert.NotEqual(t, ordCod, newOrdCod)

	var lines []models.OrderLine
	require.NoError(t, db.Find(&lines, "ordcod = ?", newOrdCod).Error)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].OrdProdCan)
}

// createOrderViaAPI posts an order through the handler and returns its key
func createOrderViaAPI(t *testing.T, requestBody map[string]interface{}) int {
	t.Helper()
	router := setupTestRouter()
	router.POST("/orders/create", CreateOrder)

	body, _ := json.Marshal(requestBody)
	req, _ := http.NewRequest(http.MethodPost, "/orders/create", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	return int(data["ordcod"].(float64))
}
