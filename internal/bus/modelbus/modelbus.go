// Package modelbus provides models for AMQP transfer objects.

package modelbus

import "time"

// OutboundMessage asks the consumer to post a chat message on behalf of SenderUserID.
type OutboundMessage struct {
	MessageID         string `json:"message_id"`
	SenderUserID      string `json:"sender_user_id" validate:"required"`
	SenderDisplayName string `json:"sender_display_name"`
	ThreadID          string `json:"thread_id" validate:"required"`
	Content           string `json:"content" validate:"required"`
	Priority          string `json:"priority" validate:"omitempty,oneof=Normal High"`
}

// DeliveryReport is published once an OutboundMessage was handled.
type DeliveryReport struct {
	MessageID     string    `json:"message_id"`
	SenderUserID  string    `json:"sender_user_id"`
	ThreadID      string    `json:"thread_id"`
	ChatMessageID string    `json:"chat_message_id,omitempty"`
	Status        string    `json:"status"`
	Error         string    `json:"error,omitempty"`
	HandledAt     time.Time `json:"handled_at"`
}
