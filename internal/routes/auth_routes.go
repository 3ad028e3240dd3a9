package routes

import (
	"posting-engine/internal/handler"
	"posting-engine/internal/repository"
	"posting-engine/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupAuthRoutes(app *fiber.App, db *gorm.DB) {
	repo := repository.NewCaseworkerRepository(db)
	uc := usecase.NewAuthUsecase(repo)
	hdl := handler.NewAuthHandler(uc)

	app.Post("/api/auth/login", hdl.Login)
}
