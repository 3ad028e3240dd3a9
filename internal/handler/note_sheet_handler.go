package handler

import (
	"posting-engine/internal/model"
	"posting-engine/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type NoteSheetHandler struct {
	noteSheets *usecase.NoteSheetUsecase
}

func NewNoteSheetHandler(noteSheets *usecase.NoteSheetUsecase) *NoteSheetHandler {
	return &NoteSheetHandler{noteSheets: noteSheets}
}

type CreateNoteSheetRequest struct {
	DraftListID uint              `json:"draft_list_id"`
	PostingType model.PostingType `json:"posting_type"`
}

func (h *NoteSheetHandler) Create(c *fiber.Ctx) error {
	var req CreateNoteSheetRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sheet, err := h.noteSheets.CreateFromDraftList(req.DraftListID, req.PostingType, actor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "note sheet created, draft list consumed",
		"data":    sheet,
	})
}

func (h *NoteSheetHandler) ListByStatus(c *fiber.Ctx) error {
	sheets, err := h.noteSheets.ListByStatus(
		model.PostingType(c.Query("type")),
		model.SheetStatus(c.Query("status")),
	)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": sheets})
}

func (h *NoteSheetHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	sheet, err := h.noteSheets.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": sheet})
}

func (h *NoteSheetHandler) UpdateMetadata(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	var patch usecase.MetadataPatch
	if err := c.BodyParser(&patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sheet, err := h.noteSheets.UpdateMetadata(id, patch)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "note sheet updated",
		"data":    sheet,
	})
}

func (h *NoteSheetHandler) Submit(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	sheet, err := h.noteSheets.SubmitForFinalized(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "note sheet submitted for finalization",
		"data":    sheet,
	})
}

type FinalizeRequest struct {
	UnitAssignments map[uint]usecase.UnitAssignment `json:"unit_assignments"`
}

func (h *NoteSheetHandler) Finalize(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req FinalizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sheet, err := h.noteSheets.FinalizeAndSubmitForApproval(id, req.UnitAssignments)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "units assigned, note sheet routed for approval",
		"data":    sheet,
	})
}

func (h *NoteSheetHandler) Approve(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	sheet, err := h.noteSheets.Approve(id, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "note sheet approved, posting order issued",
		"data":    sheet,
	})
}

type DeclineRequest struct {
	Reason string `json:"reason"`
}

func (h *NoteSheetHandler) Decline(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req DeclineRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	sheet, err := h.noteSheets.Decline(id, req.Reason, actor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "note sheet declined, members released",
		"data":    sheet,
	})
}
