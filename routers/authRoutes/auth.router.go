package authRoutes

import (
	authController "atomixlab/controllers/auth"
	"atomixlab/middleware"
	"atomixlab/models"
	authValidator "atomixlab/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/auth")

	// Creating accounts is itself an admin action
	authGroup.Post("/register", authValidator.Register(), middleware.Protect, middleware.RestrictTo(models.RoleAdmin), authController.Register)
	authGroup.Post("/login", authValidator.Login(), authController.Login)
	authGroup.Get("/me", middleware.Protect, authController.Me)
}
