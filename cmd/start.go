package cmd

import (
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"offer-reconciler/core/loader"
	"offer-reconciler/core/middleware/auth"
	"offer-reconciler/core/middleware/rayid"
	"offer-reconciler/core/middleware/requestlog"
	"offer-reconciler/feature/casinos"
	"offer-reconciler/feature/discovery"
	"offer-reconciler/feature/integrity"
	"offer-reconciler/feature/reports"
	"offer-reconciler/feature/research"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// @title Offer Reconciler API
// @version 1.0
// @description API for researching and reconciling casino offers.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the offer reconciler server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		rt, err := bootstrap(ctx)
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer rt.close()
		logg := rt.log
		zap.ReplaceGlobals(logg)

		researcher, err := rt.researcher(ctx)
		if err != nil {
			logg.Fatal("Failed to create research provider", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			ReadTimeout:           rt.cfg.Server.ReadTimeout(),
			WriteTimeout:          rt.cfg.Server.WriteTimeout(),
		})

		mgr := loader.NewManager()
		mgr.Register(research.NewFeature(rt.store, researcher, rt.sink, rt.cfg.Research, logg))
		mgr.Register(discovery.NewFeature(rt.store, rt.sink, rt.cfg.Discovery, logg))
		mgr.Register(casinos.NewFeature(rt.store, logg))
		mgr.Register(reports.NewFeature(rt.sink, rt.archiving(), logg))
		mgr.Register(integrity.NewFeature(rt.client, rt.db, rt.integrityOptions(), logg))

		// RayID first so that every later log line carries it
		app.Use(rayid.New())
		app.Use(requestlog.New(logg))

		app.Get("/swagger/*", swagger.HandlerDefault)

		app.Use(auth.New(auth.Config{
			ApiKey: rt.cfg.Server.ApiKey,
			Skip: func(c *fiber.Ctx) bool {
				return strings.HasPrefix(c.Path(), "/swagger")
			},
		}))

		loaded, err := mgr.LoadAll(app)
		if err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}
		logg.Info("Features loaded", zap.Strings("features", loaded))

		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(rt.cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
