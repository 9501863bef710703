package repository

import (
	"context"
	stderrors "errors"
	"time"

	"gorm.io/gorm"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
)

type gormChatRequestRepository struct {
	db *gorm.DB
}

func NewGormChatRequestRepository(db *gorm.DB) repository.ChatRequestRepository {
	return &gormChatRequestRepository{
		db: db,
	}
}

// Create relies on idx_chat_request_triple; the id is the triple key so both
// stores hand out the same identifiers.
func (r *gormChatRequestRepository) Create(ctx context.Context, request *entity.ChatRequest) error {
	request.ID = entity.ChatRequestKey(request.SenderID, request.ReceiverID, request.CourseID)

	now := time.Now()
	request.CreatedAt = now
	request.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(newChatRequestRecord(request)).Error; err != nil {
		if isDuplicateKey(err) {
			return errors.Conflict("Chat request already exists")
		}
		return errors.Internal("Failed to create chat request", err)
	}
	return nil
}

func (r *gormChatRequestRepository) GetByID(ctx context.Context, id string) (*entity.ChatRequest, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id))
}

func (r *gormChatRequestRepository) GetByTriple(ctx context.Context, senderID, receiverID, courseID string) (*entity.ChatRequest, error) {
	return r.first(r.db.WithContext(ctx).
		Where("sender_id = ? AND receiver_id = ? AND course_id = ?", senderID, receiverID, courseID))
}

func (r *gormChatRequestRepository) first(tx *gorm.DB) (*entity.ChatRequest, error) {
	var record chatRequestRecord
	if err := tx.First(&record).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Chat request", err)
		}
		return nil, errors.Internal("Failed to get chat request", err)
	}
	return record.toEntity(), nil
}

// Transition is a conditional update on status = pending. When no row
// matches, a re-read tells a missing request apart from a decided one.
func (r *gormChatRequestRepository) Transition(ctx context.Context, id string, to entity.ChatRequestStatus) (*entity.ChatRequest, error) {
	res := r.db.WithContext(ctx).
		Model(&chatRequestRecord{}).
		Where("id = ? AND status = ?", id, string(entity.ChatRequestPending)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return nil, errors.Internal("Failed to update chat request", res.Error)
	}

	request, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected == 0 {
		return nil, errors.InvalidState("Chat request has already been " + string(request.Status))
	}
	return request, nil
}

func (r *gormChatRequestRepository) ListPendingForReceiver(ctx context.Context, receiverID string) ([]*entity.ChatRequest, error) {
	return r.find(r.db.WithContext(ctx).
		Where("receiver_id = ? AND status = ?", receiverID, string(entity.ChatRequestPending)).
		Order("created_at desc"))
}

func (r *gormChatRequestRepository) ListBySender(ctx context.Context, senderID string) ([]*entity.ChatRequest, error) {
	return r.find(r.db.WithContext(ctx).
		Where("sender_id = ?", senderID).
		Order("created_at desc"))
}

func (r *gormChatRequestRepository) ListAcceptedFor(ctx context.Context, userID string) ([]*entity.ChatRequest, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ? AND (sender_id = ? OR receiver_id = ?)", string(entity.ChatRequestAccepted), userID, userID).
		Order("updated_at desc"))
}

func (r *gormChatRequestRepository) find(tx *gorm.DB) ([]*entity.ChatRequest, error) {
	var records []chatRequestRecord
	if err := tx.Find(&records).Error; err != nil {
		return nil, errors.Internal("Failed to list chat requests", err)
	}

	requests := make([]*entity.ChatRequest, 0, len(records))
	for i := range records {
		requests = append(requests, records[i].toEntity())
	}
	return requests, nil
}
