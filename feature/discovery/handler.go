package discovery

import (
	"bytes"
	"errors"

	"offer-reconciler/core/logger"
	"offer-reconciler/core/reconcile"
	"offer-reconciler/core/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for discovery ingestion.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the discovery routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/discovery")
	group.Post("/:state", h.HandleDiscover)
	group.Get("/:state/casinos", h.HandleListCasinos)
}

// HandleDiscover reconciles a discovery batch.
// @Summary Submit Discovered Casinos
// @Description Stores the casinos found for a state. Casinos matching an existing casino of the state are reported as duplicates and not saved. The state is created on first use.
// @Tags discovery
// @Accept json
// @Produce json
// @Param state path string true "State abbreviation"
// @Param body body Request true "Discovered casinos"
// @Success 200 {object} reconcile.DiscoveryResult "Discovery Result"
// @Failure 400 {object} map[string]interface{} "Bad Request"
// @Failure 500 {object} reconcile.DiscoveryResult "Failed Discovery"
// @Router /discovery/{state} [post]
func (h *Handler) HandleDiscover(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	state := c.Params("state")

	req, err := DecodeRequest(bytes.NewReader(c.Body()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.service.Validate(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "validation failed",
				"fields": utils.ValidationErrors(err),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Reconciling discovered casinos", zap.String("state", state), zap.Int("casinos", len(req.Casinos)))
	result := h.service.Reconcile(c.Context(), state, req.Casinos)
	if !result.Success {
		l.Error("Discovery failed", zap.String("state", state), zap.String("error", result.Error))
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}

	return c.JSON(result)
}

// HandleListCasinos lists the casinos of a state.
// @Summary List State Casinos
// @Description Lists every casino stored for a state, oldest first.
// @Tags discovery
// @Produce json
// @Param state path string true "State abbreviation"
// @Success 200 {array} models.Casino "Casinos"
// @Failure 404 {object} map[string]string "Unknown State"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /discovery/{state}/casinos [get]
func (h *Handler) HandleListCasinos(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	casinos, err := h.service.Casinos(c.Context(), c.Params("state"))
	if err != nil {
		if errors.Is(err, reconcile.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		l.Error("Failed to list casinos", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(casinos)
}
