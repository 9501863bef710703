package repository

import (
	stderrors "errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"skillswap/internal/domain/entity"
)

type userRecord struct {
	ID             string   `gorm:"primaryKey;size:64"`
	Name           string   `gorm:"not null"`
	Email          string   `gorm:"uniqueIndex;not null"`
	PasswordHash   string   `gorm:"not null"`
	SkillsToTeach  []string `gorm:"serializer:json"`
	SkillsToLearn  []string `gorm:"serializer:json"`
	ProfilePicture string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (userRecord) TableName() string { return "users" }

type courseRecord struct {
	ID               string `gorm:"primaryKey;size:64"`
	OwnerID          string `gorm:"index;not null"`
	Title            string `gorm:"not null"`
	TitleKey         string `gorm:"uniqueIndex;not null"`
	Description      string
	DemoVideo        string
	Thumbnail        string
	RequiredSkill    string
	RequiredSkillKey string `gorm:"index"`
	Category         string
	Duration         string
	Reviews          []string `gorm:"serializer:json"`
	StarRating       float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (courseRecord) TableName() string { return "courses" }

type chatRequestRecord struct {
	ID         string `gorm:"primaryKey;size:64"`
	SenderID   string `gorm:"uniqueIndex:idx_chat_request_triple;index;not null"`
	ReceiverID string `gorm:"uniqueIndex:idx_chat_request_triple;index;not null"`
	CourseID   string `gorm:"uniqueIndex:idx_chat_request_triple;not null"`
	Status     string `gorm:"index;not null"`
	Message    string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (chatRequestRecord) TableName() string { return "chat_requests" }

type messageRecord struct {
	ID            string `gorm:"primaryKey;size:64"`
	ChatRequestID string `gorm:"index;not null"`
	SenderID      string `gorm:"not null"`
	Content       string `gorm:"not null"`
	Read          bool   `gorm:"column:is_read;not null;default:false"`
	CreatedAt     time.Time
}

func (messageRecord) TableName() string { return "messages" }

// Migrate creates or updates the tables and unique indexes the SQL
// repositories rely on.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&userRecord{}, &courseRecord{}, &chatRequestRecord{}, &messageRecord{})
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

func newUserRecord(u *entity.User) *userRecord {
	return &userRecord{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		SkillsToTeach:  u.SkillsToTeach,
		SkillsToLearn:  u.SkillsToLearn,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (r *userRecord) toEntity() *entity.User {
	return &entity.User{
		ID:             r.ID,
		Name:           r.Name,
		Email:          r.Email,
		PasswordHash:   r.PasswordHash,
		SkillsToTeach:  r.SkillsToTeach,
		SkillsToLearn:  r.SkillsToLearn,
		ProfilePicture: r.ProfilePicture,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func newCourseRecord(c *entity.Course) *courseRecord {
	return &courseRecord{
		ID:               c.ID,
		OwnerID:          c.OwnerID,
		Title:            c.Title,
		TitleKey:         c.TitleKey,
		Description:      c.Description,
		DemoVideo:        c.DemoVideo,
		Thumbnail:        c.Thumbnail,
		RequiredSkill:    c.RequiredSkill,
		RequiredSkillKey: c.RequiredSkillKey,
		Category:         c.Category,
		Duration:         c.Duration,
		Reviews:          c.Reviews,
		StarRating:       c.StarRating,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

func (r *courseRecord) toEntity() *entity.Course {
	return &entity.Course{
		ID:               r.ID,
		OwnerID:          r.OwnerID,
		Title:            r.Title,
		TitleKey:         r.TitleKey,
		Description:      r.Description,
		DemoVideo:        r.DemoVideo,
		Thumbnail:        r.Thumbnail,
		RequiredSkill:    r.RequiredSkill,
		RequiredSkillKey: r.RequiredSkillKey,
		Category:         r.Category,
		Duration:         r.Duration,
		Reviews:          r.Reviews,
		StarRating:       r.StarRating,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func newChatRequestRecord(c *entity.ChatRequest) *chatRequestRecord {
	return &chatRequestRecord{
		ID:         c.ID,
		SenderID:   c.SenderID,
		ReceiverID: c.ReceiverID,
		CourseID:   c.CourseID,
		Status:     string(c.Status),
		Message:    c.Message,
		CreatedAt:  c.CreatedAt,
		UpdatedAt:  c.UpdatedAt,
	}
}

func (r *chatRequestRecord) toEntity() *entity.ChatRequest {
	return &entity.ChatRequest{
		ID:         r.ID,
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		CourseID:   r.CourseID,
		Status:     entity.ChatRequestStatus(r.Status),
		Message:    r.Message,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

func newMessageRecord(m *entity.Message) *messageRecord {
	return &messageRecord{
		ID:            m.ID,
		ChatRequestID: m.ChatRequestID,
		SenderID:      m.SenderID,
		Content:       m.Content,
		Read:          m.Read,
		CreatedAt:     m.CreatedAt,
	}
}

func (r *messageRecord) toEntity() *entity.Message {
	return &entity.Message{
		ID:            r.ID,
		ChatRequestID: r.ChatRequestID,
		SenderID:      r.SenderID,
		Content:       r.Content,
		Read:          r.Read,
		CreatedAt:     r.CreatedAt,
	}
}
