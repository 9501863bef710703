package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"skillswap/internal/domain/entity"
	"skillswap/internal/domain/repository"
	"skillswap/pkg/errors"
)

type gormMessageRepository struct {
	db *gorm.DB
}

func NewGormMessageRepository(db *gorm.DB) repository.MessageRepository {
	return &gormMessageRepository{
		db: db,
	}
}

func (r *gormMessageRepository) Create(ctx context.Context, message *entity.Message) error {
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	message.CreatedAt = time.Now()

	if err := r.db.WithContext(ctx).Create(newMessageRecord(message)).Error; err != nil {
		return errors.Internal("Failed to create message", err)
	}
	return nil
}

func (r *gormMessageRepository) ListByChatRequest(ctx context.Context, chatRequestID string) ([]*entity.Message, error) {
	var records []messageRecord
	err := r.db.WithContext(ctx).
		Where("chat_request_id = ?", chatRequestID).
		Order("created_at asc").
		Find(&records).Error
	if err != nil {
		return nil, errors.Internal("Failed to list messages", err)
	}

	messages := make([]*entity.Message, 0, len(records))
	for i := range records {
		messages = append(messages, records[i].toEntity())
	}
	return messages, nil
}

func (r *gormMessageRepository) MarkReadExcept(ctx context.Context, chatRequestID, readerID string) error {
	err := r.db.WithContext(ctx).
		Model(&messageRecord{}).
		Where("chat_request_id = ? AND sender_id <> ? AND is_read = ?", chatRequestID, readerID, false).
		Update("is_read", true).Error
	if err != nil {
		return errors.Internal("Failed to mark messages as read", err)
	}
	return nil
}
