package handlers

import (
	"strings"

	"expense-advisor/internal/advisor"
	"expense-advisor/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatHandler struct {
	advisorService *advisor.Service
	logger         *zap.Logger
}

func NewChatHandler(advisorService *advisor.Service, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		advisorService: advisorService,
		logger:         logger,
	}
}

// Chat godoc
// @Summary Ask the AI advisor about your own transaction history
// @Description Answers a free-text question grounded on the caller's records; a message mentioning chart/graph/plot/visualize also returns a chart URL
// @Tags ai
// @Accept json
// @Produce json
// @Param request body dto.ChatRequest true "Chat request"
// @Success 200 {object} dto.ChatResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /ai/chat [post]
func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Message is required",
		})
	}

	userID, err := currentUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid user identity",
		})
	}

	resp, err := h.advisorService.Chat(c.Context(), userID, req.Message)
	if err != nil {
		h.logger.Error("Chat request failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Chat request failed",
		})
	}

	return c.JSON(resp)
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := c.Locals("userID").(string)
	return uuid.Parse(raw)
}
