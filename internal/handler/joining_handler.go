package handler

import (
	"posting-engine/internal/model"
	"posting-engine/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type JoiningHandler struct {
	joinings *usecase.JoiningUsecase
}

func NewJoiningHandler(joinings *usecase.JoiningUsecase) *JoiningHandler {
	return &JoiningHandler{joinings: joinings}
}

func (h *JoiningHandler) ListPending(c *fiber.Ctx) error {
	items, err := h.joinings.ListPending(model.PostingType(c.Query("type")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": items})
}

func (h *JoiningHandler) ListHistory(c *fiber.Ctx) error {
	items, err := h.joinings.ListJoined(model.PostingType(c.Query("type")))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"data": items})
}

type RecordJoinRequest struct {
	JoiningDate     string `json:"joining_date"`
	JoinReferenceNo string `json:"join_reference_no"`
}

func (h *JoiningHandler) RecordJoin(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return respondError(c, err)
	}

	var req RecordJoinRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	item, err := h.joinings.RecordJoin(id, req.JoiningDate, req.JoinReferenceNo, actor(c))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"message": "joining recorded",
		"data":    item,
	})
}
