package entity

import (
	"fmt"
	"time"
)

type ChatRequestStatus string

const (
	ChatRequestPending  ChatRequestStatus = "pending"
	ChatRequestAccepted ChatRequestStatus = "accepted"
	ChatRequestRejected ChatRequestStatus = "rejected"
)

type ChatRequest struct {
	ID         string            `json:"id" firestore:"id"`
	SenderID   string            `json:"sender_id" firestore:"senderId"`
	ReceiverID string            `json:"receiver_id" firestore:"receiverId"`
	CourseID   string            `json:"course_id" firestore:"courseId"`
	Status     ChatRequestStatus `json:"status" firestore:"status"`
	Message    string            `json:"message" firestore:"message"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

func (r *ChatRequest) IsPending() bool {
	return r.Status == ChatRequestPending
}

func (r *ChatRequest) IsAccepted() bool {
	return r.Status == ChatRequestAccepted
}

// IsParticipant reports whether userID is the sender or the receiver.
func (r *ChatRequest) IsParticipant(userID string) bool {
	return userID != "" && (r.SenderID == userID || r.ReceiverID == userID)
}

// ChatRequestKey identifies the (sender, receiver, course) slot a request occupies.
func ChatRequestKey(senderID, receiverID, courseID string) string {
	return fmt.Sprintf("%s_%s_%s", senderID, receiverID, courseID)
}
