package routes

import (
	"posting-engine/internal/handler"
	"posting-engine/internal/middleware"
	"posting-engine/internal/notify"
	"posting-engine/internal/repository"
	"posting-engine/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SetupPostingRoutes mounts the whole pipeline: flow status, draft lists,
// note sheets and the joining ledger.
func SetupPostingRoutes(app *fiber.App, db *gorm.DB, notifier notify.Notifier) {
	flowStatusUC := usecase.NewFlowStatusUsecase(repository.NewFlowStatusRepository(db))
	draftListUC := usecase.NewDraftListUsecase(db)
	joiningUC := usecase.NewJoiningUsecase(db)
	noteSheetUC := usecase.NewNoteSheetUsecase(db, joiningUC, notifier)

	flowStatusHdl := handler.NewFlowStatusHandler(flowStatusUC)
	draftListHdl := handler.NewDraftListHandler(draftListUC)
	noteSheetHdl := handler.NewNoteSheetHandler(noteSheetUC)
	joiningHdl := handler.NewJoiningHandler(joiningUC)

	api := app.Group("/api/posting", middleware.Auth)

	api.Post("/flow-status/batch", flowStatusHdl.BatchStatus)

	api.Post("/draft-lists", draftListHdl.Create)
	api.Get("/draft-lists", draftListHdl.ListByType)
	api.Get("/draft-lists/:id", draftListHdl.Get)
	api.Delete("/draft-lists/:id", draftListHdl.Discard)

	api.Post("/note-sheets", noteSheetHdl.Create)
	api.Get("/note-sheets", noteSheetHdl.ListByStatus)
	api.Get("/note-sheets/:id", noteSheetHdl.Get)
	api.Put("/note-sheets/:id", noteSheetHdl.UpdateMetadata)
	api.Post("/note-sheets/:id/submit", noteSheetHdl.Submit)
	api.Post("/note-sheets/:id/finalize", noteSheetHdl.Finalize)
	api.Post("/note-sheets/:id/approve", noteSheetHdl.Approve)
	api.Post("/note-sheets/:id/decline", noteSheetHdl.Decline)

	api.Get("/joinings/pending", joiningHdl.ListPending)
	api.Get("/joinings/history", joiningHdl.ListHistory)
	api.Post("/joinings/:id/join", joiningHdl.RecordJoin)
}
