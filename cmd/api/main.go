package main

import (
	"fmt"
	"log"

	"posting-engine/config"
	"posting-engine/internal/notify"
	"posting-engine/internal/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: no .env file found, using system environment variables.")
	}

	config.ConnectDB()

	app := fiber.New()

	app.Use(cors.New())
	app.Use(logger.New())

	notifier := notify.NewMailNotifier()

	routes.SetupAuthRoutes(app, config.DB)
	routes.SetupPostingRoutes(app, config.DB, notifier)

	addr := ":" + config.GetEnv("PORT", "3000")
	fmt.Println("Posting engine listening on", addr)
	log.Fatal(app.Listen(addr))
}
