package research

import (
	"offer-reconciler/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates a new research feature.
func NewFeature(store reconcile.Store, researcher reconcile.Researcher, audit reconcile.AuditSink, cfg Config, logger *zap.Logger) *Feature {
	svc := NewService(store, researcher, audit, cfg, logger)
	return &Feature{service: svc, handler: NewHandler(svc)}
}

// Service returns the feature's service, for use outside HTTP.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "research"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
