package repository

import (
	"context"

	"skillswap/internal/domain/entity"
)

type ChatRequestRepository interface {
	// Create fails with CONFLICT when a request for the same
	// (sender, receiver, course) triple already exists.
	Create(ctx context.Context, request *entity.ChatRequest) error
	GetByID(ctx context.Context, id string) (*entity.ChatRequest, error)
	GetByTriple(ctx context.Context, senderID, receiverID, courseID string) (*entity.ChatRequest, error)
	// Transition moves a pending request to the given status atomically.
	// It fails with NOT_FOUND if the request is missing and INVALID_STATE
	// if it is no longer pending.
	Transition(ctx context.Context, id string, to entity.ChatRequestStatus) (*entity.ChatRequest, error)
	ListPendingForReceiver(ctx context.Context, receiverID string) ([]*entity.ChatRequest, error)
	ListBySender(ctx context.Context, senderID string) ([]*entity.ChatRequest, error)
	ListAcceptedFor(ctx context.Context, userID string) ([]*entity.ChatRequest, error)
}
