package research

import (
	"strconv"

	"offer-reconciler/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for research batches.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the research routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/research")
	group.Post("/run", h.HandleRun)
	group.Get("/candidates", h.HandleCandidates)
}

func batchSize(c *fiber.Ctx) (int, error) {
	raw := c.Query("batch_size")
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

// HandleRun triggers one research batch.
// @Summary Run Research Batch
// @Description Selects the next casinos due for research, asks the provider for their offers and merges them. The call blocks until the batch finishes.
// @Tags research
// @Produce json
// @Param batch_size query int false "Casinos per batch"
// @Param trigger query string false "manual or cron"
// @Success 200 {object} reconcile.BatchResult "Batch Result"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} reconcile.BatchResult "Failed Batch"
// @Router /research/run [post]
func (h *Handler) HandleRun(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	size, err := batchSize(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "batch_size must be an integer"})
	}
	trigger, err := ParseTrigger(c.Query("trigger"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Triggering research batch", zap.Int("batch_size", size), zap.String("trigger", string(trigger)))
	result := h.service.Run(c.Context(), size, trigger)
	if !result.Success {
		l.Error("Research batch failed", zap.String("phase", string(result.Phase)), zap.String("error", result.Error))
		return c.Status(fiber.StatusInternalServerError).JSON(result)
	}

	return c.JSON(result)
}

// HandleCandidates previews the next research batch.
// @Summary Preview Research Candidates
// @Description Lists the casinos the next batch would research, with their priority tier.
// @Tags research
// @Produce json
// @Param batch_size query int false "Casinos per batch"
// @Success 200 {object} map[string]interface{} "Candidates"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /research/candidates [get]
func (h *Handler) HandleCandidates(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	size, err := batchSize(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "batch_size must be an integer"})
	}

	candidates, err := h.service.Candidates(c.Context(), size)
	if err != nil {
		l.Error("Candidate selection failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"count":      len(candidates),
		"candidates": candidates,
	})
}
