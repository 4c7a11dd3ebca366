// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface, which reports whether it is
// enabled and registers its routes.
//
// # Feature Interface
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// # Manager
//
// The Manager holds the registry of available features:
//   - Register() adds a feature
//   - LoadAll() loads the enabled ones in registration order
//
// Features such as 'research', 'discovery' and 'casinos' are developed and
// tested in isolation and only meet in cmd/start.
package loader
