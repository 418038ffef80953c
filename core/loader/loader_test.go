package loader_test

import (
	"errors"
	"net/http/httptest"
	"testing"

	"product-configurator/core/loader"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubFeature struct {
	name    string
	enabled bool
	err     error
}

func (f *stubFeature) Name() string    { return f.name }
func (f *stubFeature) IsEnabled() bool { return f.enabled }
func (f *stubFeature) Load(app fiber.Router) error {
	if f.err != nil {
		return f.err
	}
	app.Get("/"+f.name, func(c *fiber.Ctx) error { return c.SendString(f.name) })
	return nil
}

func TestManager_LoadAll(t *testing.T) {
	app := fiber.New()
	mgr := loader.NewManager()
	mgr.Register(&stubFeature{name: "products", enabled: true})
	mgr.Register(&stubFeature{name: "disabled", enabled: false})

	loaded, err := mgr.LoadAll(app)
	require.NoError(t, err)
	assert.Equal(t, []string{"products"}, loaded)

	resp, err := app.Test(httptest.NewRequest("GET", "/products", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/disabled", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestManager_LoadAllFailure(t *testing.T) {
	mgr := loader.NewManager()
	mgr.Register(&stubFeature{name: "first", enabled: true})
	mgr.Register(&stubFeature{name: "broken", enabled: true, err: errors.New("boom")})

	loaded, err := mgr.LoadAll(fiber.New())
	assert.ErrorContains(t, err, "failed to load feature broken")
	assert.Equal(t, []string{"first"}, loaded)
}
