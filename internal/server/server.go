// Package server is an in-memory implementation of the API the client SDK
// talks to. It exists for local development and end-to-end tests; it is not a
// production backend.
package server

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server wires the in-memory store and handlers onto an echo instance.
type Server struct {
	echo  *echo.Echo
	store *Store
}

// New creates a Server with all routes mounted under /api.
func New(jwtSecret string) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Validator = NewValidator()

	store := NewStore()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api")

	authHandler := NewAuthHandler(store, jwtSecret)
	authHandler.RegisterAuthRoutes(api)

	protected := api.Group("", BearerAuth(jwtSecret))
	authHandler.RegisterProfileRoutes(protected)
	NewPostHandler(store).RegisterPostRoutes(protected)
	NewCommentHandler(store).RegisterCommentRoutes(protected)

	return &Server{echo: e, store: store}
}

// Handler exposes the HTTP handler, for tests running against httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Store exposes the in-memory store, for tests seeding state directly.
func (s *Server) Store() *Store {
	return s.store
}

// Start runs the server on the given port and blocks.
func (s *Server) Start(port string) error {
	log.Printf("devserver listening on :%s", port)
	return s.echo.Start(":" + port)
}
