package api

import (
	"sensor-bridge/pkg/config"
	"sensor-bridge/pkg/store"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// Server is the read API. It shares nothing in-process with the
// ingestion path; both sides meet only in the external store.
type Server struct {
	app  *fiber.App
	port string
}

// NewServer wires the fiber app and routes. live may be nil when the
// cache is disabled.
func NewServer(cfg *config.Config, st store.Store, live LiveSource) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	app.Use(cors.New())

	app.Get("/", Index(cfg))
	app.Get("/health", Health())

	apiGroup := app.Group("/api")
	apiGroup.Get("/sensor", SensorData(st))
	apiGroup.Get("/sensor/live", LiveData(live, st))

	return &Server{app: app, port: cfg.HTTPPort}
}

// Listen blocks serving HTTP until Shutdown is called.
func (s *Server) Listen() error {
	return s.app.Listen(":" + s.port)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for in-process request tests.
func (s *Server) App() *fiber.App {
	return s.app
}
