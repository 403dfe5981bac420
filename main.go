package main

import (
	"atomixlab/config"
	"atomixlab/database"
	authRoutes "atomixlab/routers/authRoutes"
	courseRoutes "atomixlab/routers/courseRoutes"
	niveauScolaireRoutes "atomixlab/routers/niveauScolaireRoutes"
	reassignmentRoutes "atomixlab/routers/reassignmentRoutes"
	sessionRoutes "atomixlab/routers/sessionRoutes"
	thematiqueRoutes "atomixlab/routers/thematiqueRoutes"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.AppConfig.FrontendURL,
		AllowMethods: "GET,POST,PUT,DELETE",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Health check endpoint for monitoring services
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// API index
	app.Get("/api", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Bienvenue sur l'API AtomixLab",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"auth":             "/api/auth",
				"courses":          "/api/courses",
				"sessions":         "/api/sessions",
				"niveauxScolaires": "/api/niveaux-scolaires",
				"thematiques":      "/api/thematiques",
				"reassignment":     "/api/reassignment",
			},
		})
	})

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	sessionRoutes.SetupSessionRoutes(app)
	niveauScolaireRoutes.SetupNiveauScolaireRoutes(app)
	thematiqueRoutes.SetupThematiqueRoutes(app)
	reassignmentRoutes.SetupReassignmentRoutes(app)

	// Serve the SPA from the public folder
	app.Static("/", "./public")

	go func() {
		log.Printf("Server is running on port %s (%s)", config.AppConfig.Port, config.AppConfig.Env)
		if err := app.Listen(":" + config.AppConfig.Port); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	database.Close()
}
