package repository

import (
	"context"

	"skillswap/internal/domain/entity"
)

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	// ListByChatRequest returns the thread oldest first.
	ListByChatRequest(ctx context.Context, chatRequestID string) ([]*entity.Message, error)
	// MarkReadExcept flags every message in the thread not sent by readerID as read.
	MarkReadExcept(ctx context.Context, chatRequestID, readerID string) error
}
