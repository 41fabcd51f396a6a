package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/3marnadates-alt/3marna.art/modules/assistant"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GenerateRecipe handles POST /api/v1/assistant/recipe.
func (h *Handlers) GenerateRecipe(c *fiber.Ctx) error {
	var req assistant.RecipeRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}
	}

	recipe, err := h.deps.Assistant.GenerateRecipe(c.UserContext(), req)
	if err != nil {
		if errors.Is(err, assistant.ErrInvalidDifficulty) {
			return badRequest(c, err.Error())
		}
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{
			Error:   "Bad Gateway",
			Message: assistant.ErrRecipeFailed.Error(),
		})
	}
	return c.JSON(recipe)
}

// Chat handles POST /api/v1/assistant/chat.
func (h *Handlers) Chat(c *fiber.Ctx) error {
	var req assistant.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := req.Validate(); err != nil {
		return badRequest(c, err.Error())
	}

	return c.JSON(ChatResponse{Reply: h.deps.Assistant.Chat(c.UserContext(), req)})
}

// clientIPKey holds the client IP captured before the socket upgrade.
const clientIPKey = "client_ip"

// ChatSocket serves /ws/chat. The conversation history lives with the
// connection and starts with the greeting. Each message frame counts against
// the assistant rate limit of the client IP. Closing the socket cancels a
// reply in progress.
func (h *Handlers) ChatSocket(c *websocket.Conn) {
	connID := uuid.NewString()
	ip, _ := c.Locals(clientIPKey).(string)
	h.logger.Info("Chat socket connected", "conn", connID, "ip", ip)
	defer h.logger.Info("Chat socket disconnected", "conn", connID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	history := []assistant.Turn{{Role: assistant.RoleModel, Text: assistant.Greeting}}
	if err := c.WriteJSON(WSMessage{Type: WSTypeGreeting, Text: assistant.Greeting}); err != nil {
		h.logger.Warn("Failed to send greeting", "conn", connID, "error", err)
		return
	}

	frames := make(chan []byte)
	go func() {
		defer close(frames)
		defer cancel()
		for {
			_, data, err := c.ReadMessage()
			if err != nil {
				if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug("Chat socket read error", "conn", connID, "error", err)
				}
				return
			}
			select {
			case frames <- data:
			case <-ctx.Done():
				return
			}
		}
	}()

	for data := range frames {
		var msg WSMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != WSTypeMessage {
			_ = c.WriteJSON(WSMessage{Type: WSTypeError, Text: "Invalid message format"})
			continue
		}

		req := assistant.ChatRequest{Message: msg.Text, History: history}
		if err := req.Validate(); err != nil {
			_ = c.WriteJSON(WSMessage{Type: WSTypeError, Text: err.Error()})
			continue
		}

		if !h.allowFrame(ctx, ip, connID) {
			_ = c.WriteJSON(WSMessage{Type: WSTypeError, Text: "Rate limit exceeded. Please retry later."})
			continue
		}

		reply := h.deps.Assistant.Chat(ctx, req)
		if ctx.Err() != nil {
			return
		}
		history = assistant.TrimHistory(append(history,
			assistant.Turn{Role: assistant.RoleUser, Text: msg.Text},
			assistant.Turn{Role: assistant.RoleModel, Text: reply},
		))

		if err := c.WriteJSON(WSMessage{Type: WSTypeReply, Text: reply}); err != nil {
			h.logger.Debug("Chat socket write error", "conn", connID, "error", err)
			return
		}
	}
}

// allowFrame checks the chat limiter. Limiter errors let the frame through.
func (h *Handlers) allowFrame(ctx context.Context, ip, connID string) bool {
	if h.chatLimiter == nil {
		return true
	}
	key := ip
	if key == "" {
		key = connID
	}
	res, err := h.chatLimiter.Allow(ctx, key)
	if err != nil {
		h.logger.Warn("Rate limiter unavailable, allowing frame", "conn", connID, "error", err)
		return true
	}
	return res.Allowed
}
