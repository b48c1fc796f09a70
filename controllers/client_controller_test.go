package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gonzalofarias/distribuidora-api/config"
	"github.com/gonzalofarias/distribuidora-api/models"
	"github.com/gonzalofarias/distribuidora-api/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubFetcher feeds canned vendor records to the sync endpoints
type stubFetcher struct {
	contacts    []services.ZetaContact
	articles    []services.ZetaArticle
	contactsErr error
	articlesErr error
}

func (f *stubFetcher) FetchContacts() ([]services.ZetaContact, error) {
	return f.contacts, f.contactsErr
}

func (f *stubFetcher) FetchArticles() ([]services.ZetaArticle, error) {
	return f.articles, f.articlesErr
}

func clientRouter() *gin.Engine {
	router := setupTestRouter()
	router.GET("/clients", ListClients)
	router.GET("/clients/:id", GetClient)
	router.POST("/clients", CreateClient)
	router.PATCH("/clients/:id", UpdateClient)
	router.DELETE("/clients/:id", DeleteClient)
	router.POST("/clients/fetch", FetchClients)
	return router
}

func TestClientCRUD(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)
	router := clientRouter()

	// Create
	body, _ := json.Marshal(map[string]interface{}{
		"clicod": "CLI001",
		"clinom": "Electro Norte",
		"cliruc": "219876540017",
	})
	req, _ := http.NewRequest(http.MethodPost, "/clients", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// Duplicate key is a conflict
	req, _ = http.NewRequest(http.MethodPost, "/clients", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "CONFLICT")

	// Read back
	req, _ = http.NewRequest(http.MethodGet, "/clients/CLI001", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "Electro Norte", data["clinom"])

	// Update replaces the writable fields
	body, _ = json.Marshal(map[string]interface{}{"clinom": "Electro Norte S.A."})
	req, _ = http.NewRequest(http.MethodPatch, "/clients/CLI001", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var stored models.Client
	require.NoError(t, db.First(&stored, "clicod = ?", "CLI001").Error)
	assert.Equal(t, "Electro Norte S.A.", *stored.CliNom)
	assert.Nil(t, stored.CliRuc)

	// List
	req, _ = http.NewRequest(http.MethodGet, "/clients", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	response = decodeResponse(t, w)
	assert.Len(t, response["data"].([]interface{}), 1)

	// Delete, then the same key is gone
	req, _ = http.NewRequest(http.MethodDelete, "/clients/CLI001", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req, _ = http.NewRequest(http.MethodDelete, "/clients/CLI001", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateClientRequiresCode(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)
	router := clientRouter()

	body, _ := json.Marshal(map[string]interface{}{"clinom": "Sin Codigo"})
	req, _ := http.NewRequest(http.MethodPost, "/clients", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
}

func TestFetchClients(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)
	services.SetZetaFetcher(&stubFetcher{
		contacts: []services.ZetaContact{
			{Codigo: "C1", Nombre: "Electro Norte", EsCliente: "S"},
			{Codigo: "P1", Nombre: "Solo Proveedor", EsProveedor: "S"},
		},
	})
	defer services.SetZetaFetcher(nil)
	router := clientRouter()

	req, _ := http.NewRequest(http.MethodPost, "/clients/fetch", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	response := decodeResponse(t, w)
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(1), data["synced"])

	var count int64
	db.Model(&models.Client{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestFetchClientsVendorDown(t *testing.T) {
	db := setupControllerTestDB(t)
	config.SetDB(db)
	services.SetZetaFetcher(&stubFetcher{contactsErr: errors.New("vendor API returned status 500")})
	defer services.SetZetaFetcher(nil)
	router := clientRouter()

	req, _ := http.NewRequest(http.MethodPost, "/clients/fetch", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "SYNC_ERROR")
}
