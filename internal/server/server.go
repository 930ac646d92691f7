/*
Package server implements the application's network transport layer.
It initializes the HTTP server, configures timeouts, and manages
core service dependencies like the database and generation pipeline.
*/
package server

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"nutriplan/internal/auth"
	"nutriplan/internal/database"
	"nutriplan/internal/mealplan"
	"nutriplan/internal/openrouter"
	"nutriplan/internal/tavily"
	"nutriplan/internal/user"
)

// Server defines the configuration and dependencies for the HTTP service.
type Server struct {
	// port specifies the TCP port the server will listen on.
	port int

	// db provides access to the database service and connection pool.
	db database.Service

	// Echo is the underlying web framework instance.
	*echo.Echo
}

// NewServer initializes a new Server instance and returns a configured *http.Server.
// It reads configuration from environment variables and sets production-ready
// network timeouts.
func NewServer() *http.Server {
	// Attempt to parse port from environment; fallback to 8080 if not set or invalid.
	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port == 0 {
		port = 8080
	}

	newApp := &Server{
		port: port,
		db:   database.NewService(),
	}

	if err := auth.InitAuth(newApp.db.Pool()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize auth")
	}

	generator, err := openrouter.NewClient()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize generation client")
	}
	searcher, err := tavily.NewClient()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize search client")
	}
	if !searcher.Configured() {
		log.Warn().Msg("TAVILY_API_KEY not set, evidence annotation disabled")
	}

	user.InitUserPackage(newApp.db.Pool(), mealplan.NewPipeline(generator, searcher))

	// Configure the standard library http.Server with the application's router and timeouts.
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", newApp.port),
		Handler:      newApp.RegisterRoutes(), // Injected from routes.go
		IdleTimeout:  time.Minute,             // Time to wait for the next request on keep-alive connections.
		ReadTimeout:  10 * time.Second,        // Maximum duration for reading the entire request.
		WriteTimeout: 3 * time.Minute,         // Generation calls can run long.
	}

	return server
}
