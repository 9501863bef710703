package repository

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
	"skillswap/pkg/logger"
)

const chatRequestsCollection = "chat_requests"

type firestoreChatRequestRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRequestRepository(client *firestore.Client) repository.ChatRequestRepository {
	return &firestoreChatRequestRepository{
		client: client,
	}
}

// Create stores the request under its (sender, receiver, course) key, so a
// second request for the same triple fails with AlreadyExists in the store.
func (r *firestoreChatRequestRepository) Create(ctx context.Context, request *entity.ChatRequest) error {
	request.ID = entity.ChatRequestKey(request.SenderID, request.ReceiverID, request.CourseID)

	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now

	_, err := r.client.Collection(chatRequestsCollection).Doc(request.ID).Create(ctx, request)
	return translateWriteError(err, "Chat request already exists", "Failed to create chat request")
}

func (r *firestoreChatRequestRepository) GetByID(ctx context.Context, id string) (*entity.ChatRequest, error) {
	doc, err := r.client.Collection(chatRequestsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat request", err)
		}
		return nil, errors.Internal("Failed to get chat request", err)
	}

	var request entity.ChatRequest
	if err := doc.DataTo(&request); err != nil {
		return nil, errors.Internal("Failed to parse chat request data", err)
	}

	return &request, nil
}

func (r *firestoreChatRequestRepository) GetByTriple(ctx context.Context, senderID, receiverID, courseID string) (*entity.ChatRequest, error) {
	return r.GetByID(ctx, entity.ChatRequestKey(senderID, receiverID, courseID))
}

func (r *firestoreChatRequestRepository) Transition(ctx context.Context, id string, to entity.ChatRequestStatus) (*entity.ChatRequest, error) {
	ref := r.client.Collection(chatRequestsCollection).Doc(id)

	var updated entity.ChatRequest
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(ref)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Chat request", err)
			}
			return err
		}

		if err := doc.DataTo(&updated); err != nil {
			return err
		}
		if !updated.IsPending() {
			return errors.InvalidState("Chat request has already been " + string(updated.Status))
		}

		updated.Status = to
		updated.UpdatedAt = time.Now()
		return tx.Update(ref, []firestore.Update{
			{Path: "status", Value: updated.Status},
			{Path: "updatedAt", Value: updated.UpdatedAt},
		})
	})
	if err != nil {
		return nil, translateWriteError(err, "", "Failed to update chat request")
	}

	return &updated, nil
}

func (r *firestoreChatRequestRepository) ListPendingForReceiver(ctx context.Context, receiverID string) ([]*entity.ChatRequest, error) {
	query := r.client.Collection(chatRequestsCollection).
		Where("receiverId", "==", receiverID).
		Where("status", "==", entity.ChatRequestPending)
	return r.collect(query.Documents(ctx))
}

func (r *firestoreChatRequestRepository) ListBySender(ctx context.Context, senderID string) ([]*entity.ChatRequest, error) {
	query := r.client.Collection(chatRequestsCollection).Where("senderId", "==", senderID)
	return r.collect(query.Documents(ctx))
}

func (r *firestoreChatRequestRepository) ListAcceptedFor(ctx context.Context, userID string) ([]*entity.ChatRequest, error) {
	var requests []*entity.ChatRequest
	for _, field := range []string{"senderId", "receiverId"} {
		query := r.client.Collection(chatRequestsCollection).
			Where(field, "==", userID).
			Where("status", "==", entity.ChatRequestAccepted)
		found, err := r.collect(query.Documents(ctx))
		if err != nil {
			return nil, err
		}
		requests = append(requests, found...)
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].UpdatedAt.After(requests[j].UpdatedAt)
	})
	return requests, nil
}

func (r *firestoreChatRequestRepository) collect(iter *firestore.DocumentIterator) ([]*entity.ChatRequest, error) {
	defer iter.Stop()

	var requests []*entity.ChatRequest
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.Error("Firestore error while iterating chat requests: %v", err)
			return nil, errors.Internal("Failed to list chat requests", err)
		}

		var request entity.ChatRequest
		if err := doc.DataTo(&request); err != nil {
			return nil, errors.Internal("Failed to parse chat request data", err)
		}
		requests = append(requests, &request)
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}
