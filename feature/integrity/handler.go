package integrity

import (
	"lootdex/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for integrity checks.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the integrity routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/integrity")
	group.Get("/corpus", h.HandleCorpusCheck)
}

// HandleCorpusCheck checks the published dump for completeness.
// @Summary Check Corpus
// @Description Verifies that every dump object the resolver and search depend on exists in the bucket.
// @Tags integrity
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Corpus Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/corpus [get]
func (h *Handler) HandleCorpusCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	missing, err := h.service.CheckCorpus(c.Context())
	if err != nil {
		l.Error("Corpus check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing corpus objects detected", zap.Strings("missing", missing))
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}
