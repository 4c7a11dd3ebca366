package casinos

import (
	"errors"

	"offer-reconciler/core/logger"
	"offer-reconciler/core/reconcile"
	"offer-reconciler/core/utils"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for casinos and their offers.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the casino routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/casinos")
	group.Get("/:id", h.HandleGet)
	group.Patch("/:id/tracking", h.HandleTracking)
	group.Get("/:id/offers", h.HandleOffers)
	group.Post("/:id/offers/merge", h.HandleMerge)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, reconcile.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, reconcile.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.service.logger, c).Error("Casino request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// bind parses and validates a JSON body. It returns the error response body, or nil.
func bind(c *fiber.Ctx, out any) fiber.Map {
	if err := c.BodyParser(out); err != nil {
		return fiber.Map{"error": "invalid request body"}
	}
	if err := utils.Validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fiber.Map{"error": "validation failed", "fields": utils.ValidationErrors(err)}
		}
		return fiber.Map{"error": err.Error()}
	}
	return nil
}

// HandleGet returns one casino.
// @Summary Get Casino
// @Tags casinos
// @Produce json
// @Param id path string true "Casino ID"
// @Success 200 {object} models.Casino "Casino"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /casinos/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	casino, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(casino)
}

// HandleTracking toggles research tracking of a casino.
// @Summary Set Casino Tracking
// @Description Tracked casinos are researched first and re-researched when stale.
// @Tags casinos
// @Accept json
// @Produce json
// @Param id path string true "Casino ID"
// @Param body body TrackingRequest true "Tracking flag"
// @Success 200 {object} models.Casino "Updated Casino"
// @Failure 400 {object} map[string]interface{} "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /casinos/{id}/tracking [patch]
func (h *Handler) HandleTracking(c *fiber.Ctx) error {
	var req TrackingRequest
	if msg := bind(c, &req); msg != nil {
		return c.Status(fiber.StatusBadRequest).JSON(msg)
	}

	id := c.Params("id")
	casino, err := h.service.SetTracked(c.Context(), id, *req.Tracked)
	if err != nil {
		return h.fail(c, err)
	}

	logger.WithRayID(h.service.logger, c).Info("Casino tracking changed", zap.String("casino_id", id), zap.Bool("tracked", *req.Tracked))
	return c.JSON(casino)
}

// HandleOffers lists a casino's offers.
// @Summary List Casino Offers
// @Description Lists the offers of every source, oldest first.
// @Tags casinos
// @Produce json
// @Param id path string true "Casino ID"
// @Param include_deprecated query boolean false "Include deprecated offers"
// @Success 200 {array} models.Offer "Offers"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /casinos/{id}/offers [get]
func (h *Handler) HandleOffers(c *fiber.Ctx) error {
	offers, err := h.service.Offers(c.Context(), c.Params("id"), c.QueryBool("include_deprecated", false))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(offers)
}

// HandleMerge merges offers from an external feed.
// @Summary Merge Feed Offers
// @Description Reconciles the submitted offers with the casino's offers of the same source. Offers of the source that are not submitted are deprecated.
// @Tags casinos
// @Accept json
// @Produce json
// @Param id path string true "Casino ID"
// @Param dry_run query boolean false "Plan without writing"
// @Param body body MergeRequest true "Offers"
// @Success 200 {object} MergeResponse "Merge Result"
// @Failure 400 {object} map[string]interface{} "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /casinos/{id}/offers/merge [post]
func (h *Handler) HandleMerge(c *fiber.Ctx) error {
	var req MergeRequest
	if msg := bind(c, &req); msg != nil {
		return c.Status(fiber.StatusBadRequest).JSON(msg)
	}

	id := c.Params("id")
	dryRun := c.QueryBool("dry_run", false)
	resp, err := h.service.MergeOffers(c.Context(), id, req, dryRun)
	if err != nil {
		return h.fail(c, err)
	}

	logger.WithRayID(h.service.logger, c).Info("Merged feed offers",
		zap.String("casino_id", id),
		zap.String("source", resp.Plan.Source),
		zap.Bool("dry_run", dryRun),
		zap.Int("created", resp.Plan.Summary.Created),
		zap.Int("updated", resp.Plan.Summary.Updated),
		zap.Int("deprecated", resp.Plan.Summary.Deprecated),
	)
	return c.JSON(resp)
}
