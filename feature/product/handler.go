package product

import (
	"errors"

	"product-configurator/core/logger"
	"product-configurator/core/reconcile"
	"product-configurator/feature/product/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the product configurator.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the product routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/products")
	group.Post("/models", h.HandleCreateModel)
	group.Post("/models/:id/slots", h.HandleCreateSlot)
	group.Get("/models/:id/slots", h.HandleListSlots)
	group.Post("/models/:id/slots/generate", h.HandleGenerateSlots)
	group.Get("/models/:id/slots/:key/validate", h.HandleValidateSlot)
	group.Post("/options", h.HandleCreateOption)
	group.Post("/quotations", h.HandleCreateQuotation)
	group.Patch("/quotations/:id", h.HandleUpdateQuotation)
	group.Post("/quotations/:id/resync", h.HandleResyncQuotation)
	group.Get("/quotations/:id/lines", h.HandleListQuotationLines)
	group.Get("/catalog/exports", h.HandleListCatalogExports)
	group.Post("/catalog/import", h.HandleImportCatalog)
	group.Get("/schema", h.HandleCheckSchema)
}

type createModelRequest struct {
	Name string `json:"name"`
}

type createSlotRequest struct {
	Name string `json:"name"`
}

type createQuotationRequest struct {
	Name         string  `json:"name"`
	ProductModel *string `json:"product_model"`
}

type importCatalogRequest struct {
	Object string `json:"object"`
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, reconcile.ErrMissingKey),
		errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrMissingID),
		errors.Is(err, ErrNoSelection):
		return fiber.StatusBadRequest
	case errors.Is(err, reconcile.ErrDuplicateKey):
		return fiber.StatusConflict
	case errors.Is(err, reconcile.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *Handler) fail(c *fiber.Ctx, msg string, err error) error {
	status := statusFor(err)
	l := logger.WithRayID(h.service.logger, c)
	if status == fiber.StatusInternalServerError {
		l.Error(msg, zap.Error(err))
	} else {
		l.Debug(msg, zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "invalid request body",
	})
}

// HandleCreateModel creates a product model.
// @Summary Create Product Model
// @Tags products
// @Accept json
// @Produce json
// @Param body body createModelRequest true "Model"
// @Success 201 {object} models.ProductModel
// @Failure 400 {object} map[string]string
// @Router /products/models [post]
func (h *Handler) HandleCreateModel(c *fiber.Ctx) error {
	var req createModelRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	m, err := h.service.CreateModel(c.Context(), req.Name)
	if err != nil {
		return h.fail(c, "Create model failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// HandleCreateSlot creates a slot on a product model.
// The first slot of a model generates the remaining numbered slots.
// @Summary Create Product Slot
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Product model id"
// @Param body body createSlotRequest true "Slot"
// @Success 201 {object} Execution
// @Failure 400 {object} map[string]string "Slot number is empty"
// @Failure 404 {object} map[string]string "Unknown model"
// @Failure 409 {object} map[string]string "Slot already exists"
// @Router /products/models/{id}/slots [post]
func (h *Handler) HandleCreateSlot(c *fiber.Ctx) error {
	var req createSlotRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	exec, err := h.service.CreateSlot(c.Context(), c.Params("id"), req.Name)
	if err != nil {
		return h.fail(c, "Create slot failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(exec)
}

// HandleListSlots lists the slots of a product model.
// @Summary List Product Slots
// @Tags products
// @Produce json
// @Param id path string true "Product model id"
// @Success 200 {array} models.ProductSlot
// @Failure 404 {object} map[string]string
// @Router /products/models/{id}/slots [get]
func (h *Handler) HandleListSlots(c *fiber.Ctx) error {
	slots, err := h.service.ListSlots(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "List slots failed", err)
	}
	return c.JSON(slots)
}

// HandleGenerateSlots creates the missing numbered slots of a product model.
// @Summary Generate Product Slots
// @Tags products
// @Produce json
// @Param id path string true "Product model id"
// @Success 200 {object} map[string][]string
// @Failure 404 {object} map[string]string
// @Router /products/models/{id}/slots/generate [post]
func (h *Handler) HandleGenerateSlots(c *fiber.Ctx) error {
	created, err := h.service.GenerateSlots(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Generate slots failed", err)
	}
	if created == nil {
		created = []string{}
	}
	return c.JSON(fiber.Map{"created": created})
}

// HandleValidateSlot checks whether a slot number is free on a product model.
// @Summary Validate Product Slot
// @Tags products
// @Produce json
// @Param id path string true "Product model id"
// @Param key path string true "Slot number"
// @Success 200 {object} map[string]bool
// @Failure 409 {object} map[string]string
// @Router /products/models/{id}/slots/{key}/validate [get]
func (h *Handler) HandleValidateSlot(c *fiber.Ctx) error {
	if err := h.service.ValidateSlot(c.Context(), c.Params("id"), c.Params("key")); err != nil {
		return h.fail(c, "Validate slot failed", err)
	}
	return c.JSON(fiber.Map{"valid": true})
}

// HandleCreateOption adds a catalog option.
// @Summary Create Product Option
// @Tags products
// @Accept json
// @Produce json
// @Param body body models.ProductOption true "Option"
// @Success 201 {object} models.ProductOption
// @Router /products/options [post]
func (h *Handler) HandleCreateOption(c *fiber.Ctx) error {
	var opt models.ProductOption
	if err := c.BodyParser(&opt); err != nil {
		return badBody(c)
	}
	if err := h.service.CreateOption(c.Context(), &opt); err != nil {
		return h.fail(c, "Create option failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(opt)
}

// HandleCreateQuotation creates a quotation and its lines.
// @Summary Create Product Quotation
// @Tags products
// @Accept json
// @Produce json
// @Param body body createQuotationRequest true "Quotation"
// @Success 201 {object} Execution
// @Router /products/quotations [post]
func (h *Handler) HandleCreateQuotation(c *fiber.Ctx) error {
	var req createQuotationRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	exec, err := h.service.CreateQuotation(c.Context(), req.Name, req.ProductModel)
	if err != nil {
		return h.fail(c, "Create quotation failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(exec)
}

// HandleUpdateQuotation updates a quotation. A new product model replaces its lines.
// @Summary Update Product Quotation
// @Tags products
// @Accept json
// @Produce json
// @Param id path string true "Quotation id"
// @Param body body map[string]any true "Fields (name, product_model)"
// @Success 200 {object} Execution
// @Failure 404 {object} map[string]string
// @Router /products/quotations/{id} [patch]
func (h *Handler) HandleUpdateQuotation(c *fiber.Ctx) error {
	var fields map[string]any
	if err := c.BodyParser(&fields); err != nil {
		return badBody(c)
	}
	exec, err := h.service.UpdateQuotation(c.Context(), c.Params("id"), fields)
	if err != nil {
		return h.fail(c, "Update quotation failed", err)
	}
	return c.JSON(exec)
}

// HandleResyncQuotation rebuilds the lines of a quotation.
// @Summary Resync Quotation Lines
// @Tags products
// @Produce json
// @Param id path string true "Quotation id"
// @Success 200 {object} reconcile.ResyncResult
// @Failure 404 {object} map[string]string
// @Router /products/quotations/{id}/resync [post]
func (h *Handler) HandleResyncQuotation(c *fiber.Ctx) error {
	res, err := h.service.ResyncQuotation(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "Resync quotation failed", err)
	}
	return c.JSON(res)
}

// HandleListQuotationLines lists the lines of a quotation.
// @Summary List Quotation Lines
// @Tags products
// @Produce json
// @Param id path string true "Quotation id"
// @Success 200 {array} models.GenerateQuotation
// @Failure 404 {object} map[string]string
// @Router /products/quotations/{id}/lines [get]
func (h *Handler) HandleListQuotationLines(c *fiber.Ctx) error {
	lines, err := h.service.ListQuotationLines(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, "List quotation lines failed", err)
	}
	return c.JSON(lines)
}

// HandleListCatalogExports lists catalog exports in the bucket.
// @Summary List Catalog Exports
// @Tags catalog
// @Produce json
// @Param prefix query string false "Object prefix"
// @Success 200 {array} string
// @Router /products/catalog/exports [get]
func (h *Handler) HandleListCatalogExports(c *fiber.Ctx) error {
	keys, err := h.service.ListCatalogExports(c.Context(), c.Query("prefix"))
	if err != nil {
		return h.fail(c, "List catalog exports failed", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return c.JSON(keys)
}

// HandleImportCatalog imports a catalog export from the bucket.
// @Summary Import Catalog
// @Tags catalog
// @Accept json
// @Produce json
// @Param body body importCatalogRequest false "Object key, defaults to the configured catalog object"
// @Success 200 {object} map[string]int
// @Router /products/catalog/import [post]
func (h *Handler) HandleImportCatalog(c *fiber.Ctx) error {
	var req importCatalogRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badBody(c)
		}
	}
	count, err := h.service.ImportCatalog(c.Context(), req.Object)
	if err != nil {
		return h.fail(c, "Catalog import failed", err)
	}
	return c.JSON(fiber.Map{"imported": count})
}

// HandleCheckSchema compares the live tables with the product models.
// @Summary Check Schema
// @Tags products
// @Produce json
// @Success 200 {object} SchemaReport
// @Router /products/schema [get]
func (h *Handler) HandleCheckSchema(c *fiber.Ctx) error {
	report, err := h.service.CheckSchema(c.Context())
	if err != nil {
		return h.fail(c, "Schema check failed", err)
	}
	return c.JSON(report)
}
