package domain

import (
	"context"
	"strings"

	"github.com/google/uuid"
)

// ChatService validates and persists private and community messages. It
// knows nothing about sockets; broadcast happens at the realtime layer after
// persistence succeeds.
type ChatService struct {
	repo ChatRepository
}

func NewChatService(repo ChatRepository) *ChatService {
	return &ChatService{repo: repo}
}

// SendMessage appends a message to the sender/target pair thread, creating
// the thread on first write. Whitespace-only text is rejected before any
// repository call.
func (s *ChatService) SendMessage(ctx context.Context, senderID, targetID uuid.UUID, text string) (*ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	return s.repo.AppendMessage(ctx, senderID, targetID, text)
}

// ThreadMessages returns the pair thread in persistence order
func (s *ChatService) ThreadMessages(ctx context.Context, a, b uuid.UUID, limit, offset int) ([]*ChatMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.ThreadMessages(ctx, a, b, limit, offset)
}

// PostCommunityMessage validates and persists one community broadcast
func (s *ChatService) PostCommunityMessage(ctx context.Context, senderID uuid.UUID, in CommunityMessageInput) (*CommunityMessage, error) {
	in.Text = strings.TrimSpace(in.Text)
	if in.MessageType == "" {
		in.MessageType = MessageTypeText
	}

	switch in.MessageType {
	case MessageTypeText:
		if in.Text == "" {
			return nil, ErrEmptyMessage
		}
	case MessageTypeFile:
		if in.FileURL == nil || *in.FileURL == "" {
			return nil, ErrInvalidMessageType
		}
	case MessageTypeGif:
		if in.GifURL == nil || *in.GifURL == "" {
			return nil, ErrInvalidMessageType
		}
	default:
		return nil, ErrInvalidMessageType
	}

	return s.repo.SaveCommunityMessage(ctx, senderID, in)
}

// CommunityMessages returns community history, newest first
func (s *ChatService) CommunityMessages(ctx context.Context, limit, offset int) ([]*CommunityMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.repo.CommunityMessages(ctx, limit, offset)
}
