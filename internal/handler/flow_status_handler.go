package handler

import (
	"posting-engine/internal/model"
	"posting-engine/internal/usecase"

	"github.com/gofiber/fiber/v2"
)

type FlowStatusHandler struct {
	flowStatus *usecase.FlowStatusUsecase
}

func NewFlowStatusHandler(flowStatus *usecase.FlowStatusUsecase) *FlowStatusHandler {
	return &FlowStatusHandler{flowStatus: flowStatus}
}

type BatchStatusRequest struct {
	PostingType model.PostingType `json:"posting_type"`
	EmployeeIDs []uint            `json:"employee_ids"`
}

// BatchStatus backs the "already in process" labels on the selection screen.
// Read-only; the selection gate itself is enforced on draft-list creation.
func (h *FlowStatusHandler) BatchStatus(c *fiber.Ctx) error {
	var req BatchStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	stages, err := h.flowStatus.BatchStatus(req.EmployeeIDs, req.PostingType)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"data": stages})
}
