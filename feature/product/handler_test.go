package product_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"product-configurator/core/storage/mocks"
	"product-configurator/feature/product"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	svc, _ := setupService(t, mockClient)
	product.NewHandler(svc).RegisterRoutes(app)
	return app, mockClient
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	_ = json.Unmarshal(raw, &out)
	return resp.StatusCode, out
}

func doList(t *testing.T, app *fiber.App, path string) (int, []map[string]any) {
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	var out []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestHandleSlots(t *testing.T) {
	app, _ := setupTestApp(t)

	status, model := doJSON(t, app, "POST", "/products/models", map[string]string{"name": "Cabinet"})
	require.Equal(t, fiber.StatusCreated, status)
	id := model["id"].(string)

	status, body := doJSON(t, app, "POST", "/products/models/"+id+"/slots", map[string]string{"name": "3"})
	assert.Equal(t, fiber.StatusCreated, status)
	assert.Equal(t, "generate", body["post_commit"].(map[string]any)["action"])

	status, slots := doList(t, app, "/products/models/"+id+"/slots")
	assert.Equal(t, fiber.StatusOK, status)
	require.Len(t, slots, 18)
	assert.Equal(t, "1", slots[0]["name"])
	assert.Equal(t, "18", slots[17]["name"])

	status, body = doJSON(t, app, "POST", "/products/models/"+id+"/slots", map[string]string{"name": "3"})
	assert.Equal(t, fiber.StatusConflict, status)
	assert.Equal(t, "slot '3' already exists for the selected model", body["error"])

	status, _ = doJSON(t, app, "POST", "/products/models/"+id+"/slots", map[string]string{"name": ""})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doJSON(t, app, "GET", "/products/models/"+id+"/slots/3/validate", nil)
	assert.Equal(t, fiber.StatusConflict, status)

	status, body = doJSON(t, app, "GET", "/products/models/"+id+"/slots/20/validate", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["valid"])

	status, body = doJSON(t, app, "POST", "/products/models/"+id+"/slots/generate", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, body["created"])
}

func TestHandleSlots_UnknownModel(t *testing.T) {
	app, _ := setupTestApp(t)

	status, _ := doJSON(t, app, "POST", "/products/models/missing/slots", map[string]string{"name": "1"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = doJSON(t, app, "POST", "/products/models/missing/slots/generate", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandleQuotations(t *testing.T) {
	app, _ := setupTestApp(t)

	for _, opt := range []map[string]any{
		{"product_model": "SelA", "slot": "S1", "name": "a", "list_price": 10.5},
		{"product_model": "SelA", "slot": "S2", "name": "b"},
		{"product_model": "SelB", "slot": "S3", "name": "c"},
	} {
		status, _ := doJSON(t, app, "POST", "/products/options", opt)
		require.Equal(t, fiber.StatusCreated, status)
	}

	status, body := doJSON(t, app, "POST", "/products/quotations", map[string]any{"name": "Q", "product_model": "SelA"})
	require.Equal(t, fiber.StatusCreated, status)
	id := body["id"].(string)

	status, lines := doList(t, app, "/products/quotations/"+id+"/lines")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Len(t, lines, 2)

	status, _ = doJSON(t, app, "PATCH", "/products/quotations/"+id, map[string]any{"product_model": "SelB"})
	assert.Equal(t, fiber.StatusOK, status)

	_, lines = doList(t, app, "/products/quotations/"+id+"/lines")
	require.Len(t, lines, 1)
	assert.Equal(t, "S3", lines[0]["slot"])

	status, body = doJSON(t, app, "POST", "/products/quotations/"+id+"/resync", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, float64(1), body["deleted"])
	assert.Equal(t, float64(1), body["created"])

	status, _ = doJSON(t, app, "PATCH", "/products/quotations/"+id, map[string]any{"id": "other"})
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = doJSON(t, app, "PATCH", "/products/quotations/missing", map[string]any{"name": "x"})
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _ = doJSON(t, app, "GET", "/products/quotations/missing/lines", nil)
	assert.Equal(t, fiber.StatusNotFound, status)
}

func TestHandleResync_NoSelection(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, "POST", "/products/quotations", map[string]any{"name": "Q"})
	require.Equal(t, fiber.StatusCreated, status)

	status, body = doJSON(t, app, "POST", "/products/quotations/"+body["id"].(string)+"/resync", nil)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, product.ErrNoSelection.Error(), body["error"])
}

func TestHandleCheckSchema(t *testing.T) {
	app, _ := setupTestApp(t)

	status, body := doJSON(t, app, "GET", "/products/schema", nil)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, true, body["ok"])
	assert.Len(t, body["tables"], 5)
}

func TestHandleBadBody(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/products/models", bytes.NewReader([]byte("{")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
