package loot

import (
	"lootdex/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for loot resolution.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the loot routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/loot")
	group.Get("/resolve/:itemId", h.HandleResolve)
}

// HandleResolve cross-references one item id against every loot source.
// @Summary Resolve Item Loot Sources
// @Description Returns every loot table and loot bucket that can produce the given item, including indirect hits through buckets and heuristic hits in legacy exports.
// @Tags loot
// @Accept json
// @Produce json
// @Param itemId path string true "Item Identifier (e.g. 'WEAPONSWORD001')"
// @Success 200 {object} loot.Resolution "Resolution"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /loot/resolve/{itemId} [get]
func (h *Handler) HandleResolve(c *fiber.Ctx) error {
	itemID := c.Params("itemId")
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.Resolve(c.Context(), itemID)
	if err != nil {
		l.Error("Loot resolution failed", zap.String("item", itemID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(result)
}
