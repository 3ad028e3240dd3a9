package main

import (
	"fmt"
	"log"

	"posting-engine/config"
	"posting-engine/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: no .env file found, using system environment variables.")
	}

	config.ConnectDB()

	database.SeedAll(config.DB)

	fmt.Println("Seeding finished.")
}
