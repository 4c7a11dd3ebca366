package integrity

import (
	"offer-reconciler/core/logger"
	"offer-reconciler/feature/integrity/checks"

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
	group.Get("/", h.HandleIntegrityCheck)
	group.Get("/schema", h.HandleSchemaCheck)
	group.Get("/storage", h.HandleStorageCheck)
	group.Get("/orphans", h.HandleOrphanCheck)
}

// HandleIntegrityCheck runs every check without fixing anything.
// @Summary Run All Integrity Checks
// @Description Checks the database schema, the report archive and orphaned records.
// @Tags integrity
// @Produce json
// @Success 200 {object} map[string]interface{} "Combined Report"
// @Router /integrity [get]
func (h *Handler) HandleIntegrityCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Triggering all integrity checks")

	ctx := c.Context()
	report := make(map[string]interface{})

	if schema, err := h.service.CheckSchema(); err != nil {
		report["schema"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["schema"] = schema
	}

	if missing, err := h.service.CheckStorage(ctx); err != nil {
		report["storage"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["storage"] = fiber.Map{"status": "ok", "missing": missing}
	}

	if orphans, err := h.service.CheckOrphans(ctx); err != nil {
		report["orphans"] = fiber.Map{"status": "error", "error": err.Error()}
	} else {
		report["orphans"] = orphans
	}

	return c.JSON(report)
}

// HandleSchemaCheck checks and optionally migrates the schema.
// @Summary Check Database Schema
// @Description Compares the live tables with the models. With fix=true the schema is migrated first.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Migrate the schema"
// @Success 200 {object} checks.SchemaReport "Schema Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/schema [get]
func (h *Handler) HandleSchemaCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var (
		report *checks.SchemaReport
		err    error
	)
	if c.Query("fix") == "true" {
		l.Info("Migrating schema")
		report, err = h.service.FixSchema()
	} else {
		report, err = h.service.CheckSchema()
	}
	if err != nil {
		l.Error("Schema check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if !report.Matched {
		l.Warn("Schema differences detected", zap.Int("issues", len(report.Issues)))
	}
	return c.JSON(report)
}

// HandleStorageCheck checks and optionally fixes the report archive.
// @Summary Check Report Archive
// @Description Checks that the bucket and the report folders exist. Optionally creates them.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Create missing folders"
// @Success 200 {object} map[string]interface{} "Storage Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/storage [get]
func (h *Handler) HandleStorageCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	missing, err := h.service.CheckStorage(c.Context())
	if err != nil {
		l.Error("Storage check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if len(missing) > 0 {
		l.Warn("Missing report folders detected", zap.Strings("missing", missing))

		if fix {
			l.Info("Attempting to fix missing report folders")
			if err := h.service.FixStorage(c.Context(), missing); err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":   "Failed to fix report folders",
					"details": err.Error(),
					"missing": missing,
				})
			}
			return c.JSON(fiber.Map{
				"status": "fixed",
				"fixed":  missing,
			})
		}
	}

	return c.JSON(fiber.Map{
		"status":  "checked",
		"missing": missing,
	})
}

// HandleOrphanCheck finds and optionally deprecates orphaned records.
// @Summary Check Orphaned Records
// @Description Finds casinos without a state and active offers without a casino. With fix=true orphaned offers are deprecated.
// @Tags integrity
// @Produce json
// @Param fix query boolean false "Deprecate orphaned offers"
// @Success 200 {object} map[string]interface{} "Orphan Report"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /integrity/orphans [get]
func (h *Handler) HandleOrphanCheck(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	fix := c.Query("fix") == "true"

	report, err := h.service.CheckOrphans(c.Context())
	if err != nil {
		l.Error("Orphan check failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if fix && len(report.OffersWithoutCasino) > 0 {
		l.Info("Deprecating orphaned offers", zap.Int("count", len(report.OffersWithoutCasino)))
		if err := h.service.FixOrphans(c.Context(), report); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error":   "Failed to deprecate orphaned offers",
				"details": err.Error(),
			})
		}
		return c.JSON(fiber.Map{"status": "fixed", "report": report})
	}

	return c.JSON(fiber.Map{"status": "checked", "report": report})
}
