package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog/log"

	"nutriplan/internal/auth"
	"nutriplan/internal/user"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.Use(middleware.Recover())
	e.Use(LoggerMiddleware)

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://*", "http://*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public routes
	e.GET("/health", s.healthHandler)
	e.POST("/signup", auth.SignupHandler)
	e.POST("/login", auth.LoginHandler)
	e.POST("/auth/refresh", auth.RefreshHandler)

	// Protected routes
	protected := e.Group("")
	protected.Use(auth.JwtAuthMiddleware)

	// Profile
	protected.POST("/profile", user.UpsertProfileHandler)
	protected.GET("/profile", user.GetProfileHandler)
	protected.PUT("/profile", user.UpsertProfileHandler)

	// Plans
	protected.POST("/plans", user.GeneratePlanHandler)
	protected.GET("/plans", user.ListPlansHandler)
	protected.GET("/plans/:plan_id", user.GetPlanHandler)
	protected.PUT("/plans/:plan_id", user.UpdatePlanHandler)
	protected.DELETE("/plans/:plan_id", user.DeletePlanHandler)

	// Item editing
	protected.POST("/plans/items/:item_id/edit", user.EditItemHandler)
	protected.POST("/plans/items/:item_id/undo", user.UndoItemHandler)

	// Standalone snack generation
	protected.POST("/snacks/generate", user.GenerateSnackHandler)

	return e
}

func (s *Server) healthHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, s.db.Health())
}

func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set("X-Request-ID", requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)

		return next(c)
	}
}
