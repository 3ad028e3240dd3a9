package handler

import (
	"posting-engine/internal/model"
	"posting-engine/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type DraftListHandler struct {
	draftLists *usecase.DraftListUsecase
}

func NewDraftListHandler(draftLists *usecase.DraftListUsecase) *DraftListHandler {
	return &DraftListHandler{draftLists: draftLists}
}

func (h *DraftListHandler) Create(c *fiber.Ctx) error {
	var req usecase.CreateDraftListInput
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	list, err := h.draftLists.CreateFromSelection(req, actor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "draft list created",
		"data":    list,
	})
}

func (h *DraftListHandler) ListByType(c *fiber.Ctx) error {
	lists, err := h.draftLists.GetByType(model.PostingType(c.Query("type")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": lists})
}

func (h *DraftListHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.draftLists.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": list})
}

func (h *DraftListHandler) Discard(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}
	if err := h.draftLists.Discard(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "draft list discarded, members released"})
}
