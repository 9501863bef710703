package websocket

import (
	"context"
	"encoding/json"
	"time"

	"skillswap/internal/usecase"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

// Events sent by clients.
const (
	EventPing        = "ping"
	EventRegister    = "register"
	EventJoinChat    = "join-chat"
	EventLeaveChat   = "leave-chat"
	EventSendMessage = "send-message"
)

// Replies to clients that are not domain notifications.
const (
	EventPong       = "pong"
	EventError      = "error"
	EventRegistered = "registered"
	EventJoinedChat = "joined-chat"
	EventLeftChat   = "left-chat"
)

const eventTimeout = 10 * time.Second

type inboundEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

type registerData struct {
	UserID string `json:"userId"`
}

type chatData struct {
	ChatRequestID string `json:"chatRequestId"`
}

type sendMessageData struct {
	ChatRequestID string `json:"chatRequestId"`
	SenderID      string `json:"senderId"`
	Content       string `json:"content"`
}

type errorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageService is the part of the messaging use case the socket needs.
type MessageService interface {
	PostMessage(ctx context.Context, senderID, chatRequestID, content string) (*usecase.MessageView, error)
	EnsureParticipant(ctx context.Context, userID, chatRequestID string) error
}

// ChatEvents handles the realtime chat protocol. A successful send-message
// is broadcast by the message use case after it is stored; failures are
// reported to the submitting connection only.
type ChatEvents struct {
	manager  *Manager
	messages MessageService
}

func NewChatEvents(manager *Manager, messages MessageService) *ChatEvents {
	return &ChatEvents{
		manager:  manager,
		messages: messages,
	}
}

func (h *ChatEvents) HandleEvent(ctx context.Context, client *Client, raw []byte) {
	var event inboundEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		h.sendError(client, errors.Validation("Invalid message format", err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, eventTimeout)
	defer cancel()

	logger.Debug("WebSocket: received %q from client %s", event.Type, client.ID)

	switch event.Type {
	case EventPing:
		h.manager.Send(client, EventPong, map[string]string{"status": "alive"})

	case EventRegister:
		h.handleRegister(client, event.Data)

	case EventJoinChat:
		h.handleJoinChat(ctx, client, event.Data)

	case EventLeaveChat:
		h.handleLeaveChat(client, event.Data)

	case EventSendMessage:
		h.handleSendMessage(ctx, client, event.Data)

	default:
		h.sendError(client, errors.Validation("Unknown message type", nil))
	}
}

// handleRegister re-points presence at this connection. The identity is the
// authenticated one; claiming another user's id is refused.
func (h *ChatEvents) handleRegister(client *Client, raw json.RawMessage) {
	var data registerData
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &data); err != nil {
			h.sendError(client, errors.Validation("Invalid register data", err))
			return
		}
	}
	if data.UserID != "" && data.UserID != client.UserID {
		h.sendError(client, errors.Forbidden("Cannot register as another user", nil))
		return
	}

	h.manager.Register(client)
	h.manager.Send(client, EventRegistered, map[string]string{"userId": client.UserID})
}

func (h *ChatEvents) handleJoinChat(ctx context.Context, client *Client, raw json.RawMessage) {
	var data chatData
	if err := json.Unmarshal(raw, &data); err != nil || data.ChatRequestID == "" {
		h.sendError(client, errors.Validation("chatRequestId is required", err))
		return
	}

	if err := h.messages.EnsureParticipant(ctx, client.UserID, data.ChatRequestID); err != nil {
		h.sendError(client, err)
		return
	}

	h.manager.Join(client, data.ChatRequestID)
	h.manager.Send(client, EventJoinedChat, data)
}

func (h *ChatEvents) handleLeaveChat(client *Client, raw json.RawMessage) {
	var data chatData
	if err := json.Unmarshal(raw, &data); err != nil || data.ChatRequestID == "" {
		h.sendError(client, errors.Validation("chatRequestId is required", err))
		return
	}

	h.manager.Leave(client, data.ChatRequestID)
	h.manager.Send(client, EventLeftChat, data)
}

func (h *ChatEvents) handleSendMessage(ctx context.Context, client *Client, raw json.RawMessage) {
	var data sendMessageData
	if err := json.Unmarshal(raw, &data); err != nil || data.ChatRequestID == "" {
		h.sendError(client, errors.Validation("chatRequestId and content are required", err))
		return
	}
	if data.SenderID != "" && data.SenderID != client.UserID {
		h.sendError(client, errors.Forbidden("Cannot send messages as another user", nil))
		return
	}

	if _, err := h.messages.PostMessage(ctx, client.UserID, data.ChatRequestID, data.Content); err != nil {
		h.sendError(client, err)
	}
}

func (h *ChatEvents) sendError(client *Client, err error) {
	payload := errorData{Code: errors.CodeInternal, Message: "An unexpected error occurred"}
	if appErr, ok := errors.As(err); ok {
		payload = errorData{Code: appErr.Code, Message: appErr.Message}
	}
	if payload.Code == errors.CodeInternal {
		logger.Error("WebSocket: event from client %s failed: %v", client.ID, err)
	}
	h.manager.Send(client, EventError, payload)
}
