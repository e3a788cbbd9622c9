package items

import (
	"lootdex/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for items.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the items routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/items")
	group.Get("/search", h.HandleSearch)
	group.Get("/:id", h.HandleGet)
}

// HandleSearch searches the item corpus.
// @Summary Search Items
// @Description Case-insensitive substring search on item id and name. An empty query returns the full corpus; otherwise only the shard matching the query's first character is scanned.
// @Tags items
// @Accept json
// @Produce json
// @Param q query string false "Search query"
// @Success 200 {object} map[string]interface{} "Search results"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /items/search [get]
func (h *Handler) HandleSearch(c *fiber.Ctx) error {
	query := c.Query("q")
	l := logger.WithRayID(h.service.logger, c)

	results, err := h.service.Search(c.Context(), query)
	if err != nil {
		l.Error("Item search failed", zap.String("query", query), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"count": len(results),
		"items": results,
	})
}

// HandleGet returns a single item.
// @Summary Get Item
// @Description Looks up a single item by id inside its shard.
// @Tags items
// @Accept json
// @Produce json
// @Param id path string true "Item Identifier"
// @Success 200 {object} corpus.Item "Item"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /items/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	id := c.Params("id")
	l := logger.WithRayID(h.service.logger, c)

	item, err := h.service.Get(c.Context(), id)
	if err != nil {
		l.Error("Item lookup failed", zap.String("item", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if item == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "item not found",
		})
	}

	return c.JSON(item)
}
