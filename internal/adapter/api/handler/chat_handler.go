package handler

import (
	"github.com/labstack/echo/v4"

	"skillswap/internal/usecase"
	"skillswap/pkg/response"
)

type ChatHandler struct {
	requestUseCase *usecase.ChatRequestUseCase
	messageUseCase *usecase.MessageUseCase
}

func NewChatHandler(requestUseCase *usecase.ChatRequestUseCase, messageUseCase *usecase.MessageUseCase) *ChatHandler {
	return &ChatHandler{
		requestUseCase: requestUseCase,
		messageUseCase: messageUseCase,
	}
}

type createChatRequestRequest struct {
	ReceiverID string `json:"receiver_id" validate:"required"`
	CourseID   string `json:"course_id" validate:"required"`
	Message    string `json:"message"`
}

type respondRequest struct {
	RequestID string `json:"request_id" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=accept reject"`
}

type sendMessageRequest struct {
	ChatRequestID string `json:"chat_request_id" validate:"required"`
	Content       string `json:"content" validate:"required"`
}

func (h *ChatHandler) CreateRequest(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req createChatRequestRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	request, err := h.requestUseCase.Create(c.Request().Context(), uid, usecase.CreateChatRequestInput{
		ReceiverID: req.ReceiverID,
		CourseID:   req.CourseID,
		Message:    req.Message,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, request)
}

func (h *ChatHandler) PendingRequests(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	requests, err := h.requestUseCase.PendingReceived(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, requests)
}

func (h *ChatHandler) SentRequests(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	requests, err := h.requestUseCase.SentBy(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, requests)
}

func (h *ChatHandler) RespondToRequest(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req respondRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	request, err := h.requestUseCase.Respond(c.Request().Context(), uid, req.RequestID, req.Action)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, request)
}

func (h *ChatHandler) ActiveChats(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	chats, err := h.requestUseCase.AcceptedFor(c.Request().Context(), uid)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, chats)
}

// GetMessages returns the conversation and marks the other side's messages read.
func (h *ChatHandler) GetMessages(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	messages, err := h.messageUseCase.FetchMessages(c.Request().Context(), uid, c.Param("chatRequestId"))
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, messages)
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	uid, err := currentUserID(c)
	if err != nil {
		return response.Error(c, err)
	}

	var req sendMessageRequest
	if err := bindAndValidate(c, &req); err != nil {
		return response.Error(c, err)
	}

	message, err := h.messageUseCase.PostMessage(c.Request().Context(), uid, req.ChatRequestID, req.Content)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}
