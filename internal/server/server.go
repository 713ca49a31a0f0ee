// Package server is the local development server: it serves rendered frames,
// the scene description and GeoJSON, and accepts drift and trip updates.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ChicagoDave/ridemap/pkg/drift"
	"github.com/ChicagoDave/ridemap/pkg/geo"
	"github.com/ChicagoDave/ridemap/pkg/scene"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"
)

// Server is the local development server for one scene.
type Server struct {
	projectPath string
	port        string
	scene       *scene.Scene
	feed        *drift.Feed
	app         *fiber.App
	log         *logrus.Entry
}

// New creates a server for an assembled scene. Drift pushed over HTTP and
// drift from the scene's configured source both flow through one feed.
func New(projectPath, port string, sc *scene.Scene, log *logrus.Entry) *Server {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	s := &Server{
		projectPath: projectPath,
		port:        port,
		scene:       sc,
		feed:        drift.NewFeed(),
		log:         log.WithField("scene_id", sc.ID),
	}

	s.app = fiber.New(fiber.Config{
		AppName:               "ridemap dev server",
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})
	s.app.Use(recover.New())
	s.app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
		Output: s.log.Logger.WriterLevel(logrus.DebugLevel),
	}))
	s.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))
	s.routes()

	sc.AttachDrift(s.feed, nil)
	return s
}

func (s *Server) routes() {
	s.app.Get("/", s.handleIndex)
	s.app.Get("/health", s.handleHealth)

	api := s.app.Group("/api")
	{
		api.Get("/scene", s.handleScene)
		api.Get("/graph", s.handleGraph)
		api.Get("/validation", s.handleValidation)
		api.Get("/geojson", s.handleGeoJSON)
		api.Get("/map.png", s.handleMap)
		api.Get("/frame.png", s.handleFrame)
		api.Get("/transform", s.handleTransform)

		api.Post("/drift", s.handleDrift)
		api.Post("/advance", s.handleAdvance)
		api.Post("/reroute", s.handleReroute)
	}
}

// App exposes the fiber app, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Feed is the drift feed the scene camera is attached to.
func (s *Server) Feed() *drift.Feed {
	return s.feed
}

// Start runs the configured drift source and serves HTTP until ctx is
// cancelled.
func (s *Server) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.runDrift(ctx)

	errc := make(chan error, 1)
	go func() {
		addr := ":" + s.port
		s.log.WithFields(logrus.Fields{
			"addr":    "http://localhost" + addr,
			"project": s.projectPath,
		}).Info("ridemap server starting")
		errc <- s.app.Listen(addr)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	s.log.Info("shutting down server")
	if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	s.scene.Close()
	return nil
}

// runDrift forwards the scene's configured external source into the feed.
// Source failures are logged; the camera keeps its last drift.
func (s *Server) runDrift(ctx context.Context) {
	log := s.log.WithField("source", s.scene.Spec.Drift.Source)
	src := s.scene.ExternalDrift(log)
	if src == nil {
		return
	}
	unsubscribe := src.Subscribe(func(off geo.Point) { s.feed.Push(off) })
	defer unsubscribe()

	err := src.Run(ctx)
	switch {
	case errors.Is(err, drift.ErrAcquisitionTimeout):
		log.Warn("drift source timed out; drift frozen at last value")
	case err != nil:
		log.WithError(err).Error("drift source stopped")
	default:
		log.Debug("drift source stopped")
	}
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
