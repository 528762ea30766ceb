package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appstock "github.com/jhoicas/stock-ledger-api/internal/application/stock"
	"github.com/jhoicas/stock-ledger-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/stock-ledger-api/internal/interfaces/http"
)

// buildAPI levanta la API completa sobre el adaptador en memoria, con el
// router y el middleware de auth reales.
func buildAPI() *fiber.App {
	store := memory.NewStore()
	handler := apphttp.NewStockHandler(
		appstock.NewCreateUseCase(store.Records()),
		appstock.NewMutationUseCase(store),
		appstock.NewDeactivateUseCase(store),
		appstock.NewQueryUseCase(store.Records(), store.Ledger(), 10),
	)
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{Stock: handler, JWTSecret: testJWTSecret})
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerFor(t, testActorID))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func createProduct(t *testing.T, app *fiber.App, productID string) {
	t.Helper()
	resp := doJSON(t, app, http.MethodPost, "/api/products", fiber.Map{"product_id": productID, "name": "producto"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAPI_SinToken_Retorna401(t *testing.T) {
	app := buildAPI()
	req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_CrearProductoDuplicado_Retorna409(t *testing.T) {
	app := buildAPI()
	createProduct(t, app, "p1")

	resp := doJSON(t, app, http.MethodPost, "/api/products", fiber.Map{"product_id": "p1"})
	body := decode(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", body["code"])
}

func TestAPI_AddStock_DevuelveNuevaCantidad(t *testing.T) {
	app := buildAPI()
	createProduct(t, app, "p1")

	resp := doJSON(t, app, http.MethodPost, "/api/stock/p1/add", fiber.Map{"quantity": 100, "reason": "compra"})
	body := decode(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(100), body["new_quantity"])
}

func TestAPI_AddStock_CantidadInvalida_Retorna400(t *testing.T) {
	app := buildAPI()
	createProduct(t, app, "p1")

	resp := doJSON(t, app, http.MethodPost, "/api/stock/p1/add", fiber.Map{"quantity": 0})
	body := decode(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestAPI_AddStock_Inexistente_Retorna404(t *testing.T) {
	app := buildAPI()
	resp := doJSON(t, app, http.MethodPost, "/api/stock/nope/add", fiber.Map{"quantity": 1})
	body := decode(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body["code"])
}

// TestAPI_RemoveStock_Insuficiente: el 409 incluye requested y available para
// armar el mensaje al usuario.
func TestAPI_RemoveStock_Insuficiente_Retorna409ConDatos(t *testing.T) {
	app := buildAPI()
	createProduct(t, app, "p1")
	doJSON(t, app, http.MethodPost, "/api/stock/p1/add", fiber.Map{"quantity": 100}).Body.Close()

	resp := doJSON(t, app, http.MethodPost, "/api/stock/p1/remove", fiber.Map{"quantity": 150})
	body := decode(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "INSUFFICIENT_STOCK", body["code"])
	assert.Equal(t, float64(150), body["requested"])
	assert.Equal(t, float64(100), body["available"])
}

func TestAPI_Deactivate_ConStock_Retorna409ConCantidad(t *testing.T) {
	app := buildAPI()
	createProduct(t, app, "p1")
	doJSON(t, app, http.MethodPost, "/api/stock/p1/add", fiber.Map{"quantity": 5}).Body.Close()

	resp := doJSON(t, app, http.MethodDelete, "/api/products/p1", nil)
	body := decode(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "HAS_STOCK", body["code"])
	assert.Equal(t, float64(5), body["current_quantity"])
}

func TestAPI_Deactivate_SinStock_Retorna204YBloqueaMutaciones(t *testing.T) {
	app := buildAPI()
	createProduct(t, app, "p1")

	resp := doJSON(t, app, http.MethodDelete, "/api/products/p1", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// Mutar un producto desactivado rechaza con PRODUCT_INACTIVE
	resp = doJSON(t, app, http.MethodPost, "/api/stock/p1/add", fiber.Map{"quantity": 1})
	body := decode(t, resp)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "PRODUCT_INACTIVE", body["code"])
}

func TestAPI_Historial_FiltraYOrdena(t *testing.T) {
	app := buildAPI()
	createProduct(t, app, "p1")
	for i := 1; i <= 3; i++ {
		doJSON(t, app, http.MethodPost, "/api/stock/p1/add", fiber.Map{"quantity": i * 10}).Body.Close()
	}

	resp := doJSON(t, app, http.MethodGet, "/api/stock/movements?product_id=p1&limit=2", nil)
	body := decode(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["total"])

	entries := body["entries"].([]any)
	first := entries[0].(map[string]any)
	assert.Equal(t, float64(30), first["delta"], "la última mutación aparece primero")
	assert.Equal(t, float64(60), first["quantity_after"])
	assert.Equal(t, "Added", first["change_type"])
	assert.Equal(t, testActorID, first["actor_id"], "el actor sale del token")
}

func TestAPI_Historial_FechaInvalida_Retorna400(t *testing.T) {
	app := buildAPI()
	resp := doJSON(t, app, http.MethodGet, "/api/stock/movements?from=ayer", nil)
	body := decode(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body["code"])
}

func TestAPI_Status_UmbralDelQuery(t *testing.T) {
	app := buildAPI()
	createProduct(t, app, "p1")
	doJSON(t, app, http.MethodPost, "/api/stock/p1/add", fiber.Map{"quantity": 10}).Body.Close()

	resp := doJSON(t, app, http.MethodGet, "/api/stock/p1/status", nil)
	body := decode(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Low", body["status"])

	resp = doJSON(t, app, http.MethodGet, "/api/stock/p1/status?threshold=5", nil)
	body = decode(t, resp)
	assert.Equal(t, "InStock", body["status"])
}

func TestAPI_LowStock_Reporte(t *testing.T) {
	app := buildAPI()
	createProduct(t, app, "agotado")
	createProduct(t, app, "sano")
	doJSON(t, app, http.MethodPost, "/api/stock/sano/add", fiber.Map{"quantity": 99}).Body.Close()

	resp := doJSON(t, app, http.MethodGet, "/api/stock/low", nil)
	body := decode(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(1), body["total"])

	products := body["products"].([]any)
	first := products[0].(map[string]any)
	assert.Equal(t, "agotado", first["product_id"])
	assert.Equal(t, "OutOfStock", first["status"])
}

func TestAPI_EscenarioCompleto(t *testing.T) {
	app := buildAPI()
	createProduct(t, app, "p1")

	steps := []struct {
		method string
		path   string
		body   any
		status int
	}{
		{http.MethodPost, "/api/stock/p1/add", fiber.Map{"quantity": 100}, http.StatusOK},
		{http.MethodPost, "/api/stock/p1/remove", fiber.Map{"quantity": 150}, http.StatusConflict},
		{http.MethodPost, "/api/stock/p1/remove", fiber.Map{"quantity": 100}, http.StatusOK},
		{http.MethodDelete, "/api/products/p1", nil, http.StatusNoContent},
	}
	for i, s := range steps {
		resp := doJSON(t, app, s.method, s.path, s.body)
		resp.Body.Close()
		require.Equal(t, s.status, resp.StatusCode, fmt.Sprintf("paso %d: %s %s", i, s.method, s.path))
	}
}
