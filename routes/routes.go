package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"saludagenda/handlers"
	"saludagenda/middleware"
	"saludagenda/models"
	userService "saludagenda/services/user"
)

// RegisterAuthRoutes registers the session endpoints.
func RegisterAuthRoutes(r *gin.Engine, h *handlers.Handler) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", h.RegisterHandler)
		api.POST("/login", h.LoginHandler)
		api.POST("/logout", h.LogoutHandler)
	}
}

// RegisterAppointmentRoutes registers the booking and agenda endpoints. Each
// dashboard is a role-guarded view over the same appointment store.
func RegisterAppointmentRoutes(r *gin.Engine, h *handlers.Handler, users userService.Service) {
	api := r.Group("/api/appointments")
	api.Use(middleware.SessionAuthMiddleware(users))
	{
		api.GET("/me", middleware.RequireRole(models.RolePatient), h.MyAppointmentsHandler)
		api.POST("", middleware.RequireRole(models.RolePatient, models.RoleDoctor, models.RoleAdmin), h.BookAppointmentHandler)
		api.GET("/doctor", middleware.RequireRole(models.RoleDoctor), h.DoctorAgendaHandler)
		api.GET("", middleware.RequireRole(models.RoleAdmin), h.AdminOverviewHandler)
		api.PATCH("/:id/status", h.UpdateStatusHandler)
	}
}

// RegisterBlockRoutes registers blocked slot management for doctors.
func RegisterBlockRoutes(r *gin.Engine, h *handlers.Handler, users userService.Service) {
	doctors := r.Group("/api/doctors")
	doctors.Use(middleware.SessionAuthMiddleware(users))
	{
		doctors.GET("/:id/blocks", middleware.RequireRole(models.RoleDoctor, models.RoleAdmin), h.ListBlockedSlotsHandler)
		doctors.POST("/:id/blocks", middleware.RequireRole(models.RoleDoctor, models.RoleAdmin), h.AddBlockedSlotHandler)
	}

	blocks := r.Group("/api/blocks")
	blocks.Use(middleware.SessionAuthMiddleware(users))
	{
		blocks.DELETE("/:id", middleware.RequireRole(models.RoleDoctor, models.RoleAdmin), h.RemoveBlockedSlotHandler)
	}
}

// RegisterCatalogRoutes registers the specialty and doctor catalogs used by
// the booking form.
func RegisterCatalogRoutes(r *gin.Engine, h *handlers.Handler, users userService.Service) {
	api := r.Group("/api")
	api.Use(middleware.SessionAuthMiddleware(users))
	{
		api.GET("/doctors", h.ListDoctorsHandler)
		api.GET("/specialties", h.ListSpecialtiesHandler)
		api.POST("/specialties", middleware.RequireRole(models.RoleAdmin), h.AddSpecialtyHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Salud Agenda API"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, users userService.Service) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, h)
	RegisterAppointmentRoutes(r, h, users)
	RegisterBlockRoutes(r, h, users)
	RegisterCatalogRoutes(r, h, users)
}
