package chat

import "time"

// ChatMessagePriority is the delivery priority of a message.
type ChatMessagePriority string

const (
	PriorityNormal ChatMessagePriority = "Normal"
	PriorityHigh   ChatMessagePriority = "High"
)

// ChatThreadMember is a participant of a thread.
type ChatThreadMember struct {
	ID               string     `json:"id" validate:"required"`
	DisplayName      string     `json:"displayName,omitempty"`
	ShareHistoryTime *time.Time `json:"shareHistoryTime,omitempty"`
}

// CreateChatThreadRequest is the body of a create thread call.
type CreateChatThreadRequest struct {
	Topic   string             `json:"topic" validate:"required"`
	Members []ChatThreadMember `json:"members" validate:"min=1,dive"`
}

// IndividualStatus reports the outcome for one member of a multi-status response.
type IndividualStatus struct {
	ID         string `json:"id"`
	StatusCode int32  `json:"statusCode"`
	Message    string `json:"message,omitempty"`
	Type       string `json:"type,omitempty"`
}

// CreateChatThreadResult is returned by CreateChatThread.
type CreateChatThreadResult struct {
	ID             string             `json:"id"`
	MultipleStatus []IndividualStatus `json:"multipleStatus,omitempty"`
}

// ChatThread describes one thread.
type ChatThread struct {
	ID        string             `json:"id"`
	Topic     string             `json:"topic"`
	CreatedOn *time.Time         `json:"createdOn,omitempty"`
	CreatedBy string             `json:"createdBy,omitempty"`
	Members   []ChatThreadMember `json:"members,omitempty"`
}

// ChatThreadInfo is the summary of a thread in a listing.
type ChatThreadInfo struct {
	ID                    string     `json:"id"`
	Topic                 string     `json:"topic"`
	IsDeleted             bool       `json:"isDeleted,omitempty"`
	LastMessageReceivedOn *time.Time `json:"lastMessageReceivedOn,omitempty"`
}

// ListChatThreadsResult is one page of threads.
type ListChatThreadsResult struct {
	Value    []ChatThreadInfo `json:"value"`
	NextLink string           `json:"nextLink,omitempty"`
}

// ChatMessage is a message of a thread.
type ChatMessage struct {
	ID                string              `json:"id"`
	Type              string              `json:"type,omitempty"`
	Priority          ChatMessagePriority `json:"priority,omitempty"`
	Version           string              `json:"version,omitempty"`
	Content           string              `json:"content,omitempty"`
	SenderDisplayName string              `json:"senderDisplayName,omitempty"`
	CreatedOn         *time.Time          `json:"createdOn,omitempty"`
	SenderID          string              `json:"senderId,omitempty"`
	DeletedOn         *time.Time          `json:"deletedOn,omitempty"`
	EditedOn          *time.Time          `json:"editedOn,omitempty"`
}

// ListChatMessagesResult is one page of messages.
type ListChatMessagesResult struct {
	Value    []ChatMessage `json:"value"`
	NextLink string        `json:"nextLink,omitempty"`
}

// SendChatMessageRequest is the body of a send message call.
type SendChatMessageRequest struct {
	Content           string              `json:"content" validate:"required"`
	Priority          ChatMessagePriority `json:"priority,omitempty"`
	SenderDisplayName string              `json:"senderDisplayName,omitempty"`
}

// SendChatMessageResult is returned by SendMessage.
type SendChatMessageResult struct {
	ID string `json:"id"`
}

// UpdateChatMessageRequest is the body of an update message call.
type UpdateChatMessageRequest struct {
	Content  string              `json:"content,omitempty"`
	Priority ChatMessagePriority `json:"priority,omitempty"`
}

// ReadReceipt marks a message as read by a member.
type ReadReceipt struct {
	SenderID      string     `json:"senderId"`
	ChatMessageID string     `json:"chatMessageId"`
	ReadOn        *time.Time `json:"readOn,omitempty"`
}

// ListReadReceiptsResult is one page of read receipts.
type ListReadReceiptsResult struct {
	Value    []ReadReceipt `json:"value"`
	NextLink string        `json:"nextLink,omitempty"`
}

// ListMembersResult is one page of thread members.
type ListMembersResult struct {
	Value    []ChatThreadMember `json:"value"`
	NextLink string             `json:"nextLink,omitempty"`
}

type updateChatThreadRequest struct {
	Topic string `json:"topic"`
}

type sendReadReceiptRequest struct {
	ChatMessageID string `json:"chatMessageId"`
}

type addMembersRequest struct {
	Members []ChatThreadMember `json:"members" validate:"min=1,dive"`
}

// AddMembersResult reports per member failures of an add members call.
type AddMembersResult struct {
	Errors []IndividualStatus `json:"errors,omitempty"`
}
