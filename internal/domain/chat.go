package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptyMessage       = errors.New("message text is empty")
	ErrInvalidMessageType = errors.New("invalid message type")
)

// ChatMessage is one entry in a pair thread
type ChatMessage struct {
	ID        uuid.UUID `json:"id"`
	ThreadID  uuid.UUID `json:"threadId"`
	SenderID  uuid.UUID `json:"senderId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// MessageType classifies a community message payload
type MessageType string

const (
	MessageTypeText MessageType = "text"
	MessageTypeFile MessageType = "file"
	MessageTypeGif  MessageType = "gif"
)

// CommunityMessage is one entry in the global community log. Text may
// accompany a file or gif as a caption.
type CommunityMessage struct {
	ID           uuid.UUID   `json:"id"`
	SenderID     uuid.UUID   `json:"senderId"`
	Text         string      `json:"text"`
	MessageType  MessageType `json:"messageType"`
	FileURL      *string     `json:"fileUrl,omitempty"`
	FileName     *string     `json:"fileName,omitempty"`
	FileMimeType *string     `json:"fileMimeType,omitempty"`
	GifURL       *string     `json:"gifUrl,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`

	Sender *UserCard `json:"sender,omitempty"`
}

// CommunityMessageInput is the client-supplied part of a community message.
// File fields arrive already resolved by the upload endpoint.
type CommunityMessageInput struct {
	Text         string      `json:"text"`
	MessageType  MessageType `json:"messageType"`
	FileURL      *string     `json:"fileUrl,omitempty"`
	FileName     *string     `json:"fileName,omitempty"`
	FileMimeType *string     `json:"fileMimeType,omitempty"`
	GifURL       *string     `json:"gifUrl,omitempty"`
}

type ChatRepository interface {
	// AppendMessage upserts the thread for the unordered {senderID,
	// targetID} pair and appends the message to it.
	AppendMessage(ctx context.Context, senderID, targetID uuid.UUID, text string) (*ChatMessage, error)
	// ThreadMessages returns the pair's messages in persistence order.
	ThreadMessages(ctx context.Context, a, b uuid.UUID, limit, offset int) ([]*ChatMessage, error)
	SaveCommunityMessage(ctx context.Context, senderID uuid.UUID, in CommunityMessageInput) (*CommunityMessage, error)
	// CommunityMessages returns the newest messages first, sender card
	// populated.
	CommunityMessages(ctx context.Context, limit, offset int) ([]*CommunityMessage, error)
}
