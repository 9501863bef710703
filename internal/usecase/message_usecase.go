package usecase

import (
	"context"
	"strings"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
)

type MessageUseCase struct {
	requestRepo repository.ChatRequestRepository
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	notifier    Notifier
}

func NewMessageUseCase(
	requestRepo repository.ChatRequestRepository,
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	notifier Notifier,
) *MessageUseCase {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &MessageUseCase{
		requestRepo: requestRepo,
		messageRepo: messageRepo,
		userRepo:    userRepo,
		notifier:    notifier,
	}
}

// PostMessage stores a message in an accepted chat and then broadcasts it
// to the chat's group. The broadcast never precedes the write. Content is
// validated only after the chat and the sender's membership are checked.
func (uc *MessageUseCase) PostMessage(ctx context.Context, senderID, chatRequestID, content string) (*MessageView, error) {
	request, err := uc.requestRepo.GetByID(ctx, chatRequestID)
	if err != nil {
		return nil, err
	}
	if !request.IsAccepted() {
		return nil, errors.InvalidState("Chat request is not accepted")
	}
	if !request.IsParticipant(senderID) {
		return nil, errors.Forbidden("You are not a participant in this chat", nil)
	}
	if strings.TrimSpace(content) == "" {
		return nil, errors.Validation("Message content is required", nil)
	}

	message := &entity.Message{
		ChatRequestID: chatRequestID,
		SenderID:      senderID,
		Content:       content,
	}
	if err := uc.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	view := &MessageView{Message: message}
	if sender, err := uc.userRepo.GetByID(ctx, senderID); err == nil {
		view.Sender = summarizeUser(sender, false)
	}

	uc.notifier.BroadcastToChat(chatRequestID, EventNewMessage, view)
	return view, nil
}

// FetchMessages returns the thread oldest first. As a side effect every
// message the caller did not write is marked read, on each call.
func (uc *MessageUseCase) FetchMessages(ctx context.Context, callerID, chatRequestID string) ([]*MessageView, error) {
	if err := uc.EnsureParticipant(ctx, callerID, chatRequestID); err != nil {
		return nil, err
	}

	if err := uc.messageRepo.MarkReadExcept(ctx, chatRequestID, callerID); err != nil {
		return nil, err
	}

	messages, err := uc.messageRepo.ListByChatRequest(ctx, chatRequestID)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]string, 0, 2)
	for _, m := range messages {
		senderIDs = append(senderIDs, m.SenderID)
	}
	senders, err := uc.userRepo.GetByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, &MessageView{
			Message: m,
			Sender:  summarizeUser(senders[m.SenderID], false),
		})
	}
	return views, nil
}

// EnsureParticipant fails with NOT_FOUND for an unknown chat and FORBIDDEN
// when userID is neither its sender nor its receiver.
func (uc *MessageUseCase) EnsureParticipant(ctx context.Context, userID, chatRequestID string) error {
	request, err := uc.requestRepo.GetByID(ctx, chatRequestID)
	if err != nil {
		return err
	}
	if !request.IsParticipant(userID) {
		return errors.Forbidden("You are not a participant in this chat", nil)
	}
	return nil
}
