package reports

import (
	"offer-reconciler/core/audit"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	enabled bool
	handler *Handler
}

// NewFeature creates a new reports feature. It is only enabled when run
// reports are archived.
func NewFeature(sink *audit.Sink, enabled bool, logger *zap.Logger) *Feature {
	return &Feature{enabled: enabled, handler: NewHandler(sink, logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "reports"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
