package reports

import (
	"errors"
	"time"

	"offer-reconciler/core/audit"
	"offer-reconciler/core/logger"
	"offer-reconciler/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves archived run reports.
type Handler struct {
	sink   *audit.Sink
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(sink *audit.Sink, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{sink: sink, logger: logger}
}

// RegisterRoutes registers the report routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reports")
	group.Get("/:kind/:date", h.HandleList)
	group.Get("/:kind/:date/:run", h.HandleGet)
}

// params validates the kind and date path parameters.
func params(c *fiber.Ctx) (string, time.Time, error) {
	kind := c.Params("kind")
	if kind != audit.KindResearch && kind != audit.KindDiscovery {
		return "", time.Time{}, errors.New("kind must be research or discovery")
	}
	day, err := time.Parse(time.DateOnly, c.Params("date"))
	if err != nil {
		return "", time.Time{}, errors.New("date must be YYYY-MM-DD")
	}
	return kind, day, nil
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, audit.ErrDisabled):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, reconcile.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.logger, c).Error("Report request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}

// HandleList lists the reports archived on a day.
// @Summary List Run Reports
// @Tags reports
// @Produce json
// @Param kind path string true "research or discovery"
// @Param date path string true "Day, YYYY-MM-DD"
// @Success 200 {array} audit.ReportInfo "Reports"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 503 {object} map[string]string "Archive Disabled"
// @Router /reports/{kind}/{date} [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	kind, day, err := params(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	reports, err := h.sink.List(c.Context(), kind, day)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(reports)
}

// HandleGet returns one archived report.
// @Summary Get Run Report
// @Tags reports
// @Produce json
// @Param kind path string true "research or discovery"
// @Param date path string true "Day, YYYY-MM-DD"
// @Param run path string true "Run ID"
// @Success 200 {object} audit.Report "Report"
// @Failure 400 {object} map[string]string "Bad Request"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 503 {object} map[string]string "Archive Disabled"
// @Router /reports/{kind}/{date}/{run} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	kind, day, err := params(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	report, err := h.sink.Get(c.Context(), kind, day, c.Params("run"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(report)
}
