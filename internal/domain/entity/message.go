package entity

import "time"

type Message struct {
	ID            string    `json:"id" firestore:"id"`
	ChatRequestID string    `json:"chat_request_id" firestore:"chatRequestId"`
	SenderID      string    `json:"sender_id" firestore:"senderId"`
	Content       string    `json:"content" firestore:"content"`
	Read          bool      `json:"read" firestore:"read"`
	CreatedAt     time.Time `json:"created_at" firestore:"createdAt"`
}
