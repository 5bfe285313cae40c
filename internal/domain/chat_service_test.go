package domain

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type memChatStore struct {
	messages  []*ChatMessage
	community []*CommunityMessage
}

func (s *memChatStore) AppendMessage(ctx context.Context, senderID, targetID uuid.UUID, text string) (*ChatMessage, error) {
	msg := &ChatMessage{ID: uuid.New(), SenderID: senderID, Text: text, CreatedAt: time.Now()}
	s.messages = append(s.messages, msg)
	return msg, nil
}

func (s *memChatStore) ThreadMessages(ctx context.Context, a, b uuid.UUID, limit, offset int) ([]*ChatMessage, error) {
	return s.messages, nil
}

func (s *memChatStore) SaveCommunityMessage(ctx context.Context, senderID uuid.UUID, in CommunityMessageInput) (*CommunityMessage, error) {
	msg := &CommunityMessage{
		ID:          uuid.New(),
		SenderID:    senderID,
		Text:        in.Text,
		MessageType: in.MessageType,
		FileURL:     in.FileURL,
		GifURL:      in.GifURL,
		CreatedAt:   time.Now(),
	}
	s.community = append(s.community, msg)
	return msg, nil
}

func (s *memChatStore) CommunityMessages(ctx context.Context, limit, offset int) ([]*CommunityMessage, error) {
	return s.community, nil
}

func TestSendMessageRejectsWhitespace(t *testing.T) {
	store := &memChatStore{}
	svc := NewChatService(store)

	for _, text := range []string{"", "   ", "\n\t "} {
		_, err := svc.SendMessage(context.Background(), uuid.New(), uuid.New(), text)
		if err != ErrEmptyMessage {
			t.Fatalf("text %q: expected ErrEmptyMessage, got %v", text, err)
		}
	}
	if len(store.messages) != 0 {
		t.Fatal("empty messages must not reach the store")
	}
}

func TestSendMessageTrimsAndPersists(t *testing.T) {
	store := &memChatStore{}
	svc := NewChatService(store)

	msg, err := svc.SendMessage(context.Background(), uuid.New(), uuid.New(), "  hello  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Text != "hello" {
		t.Fatalf("expected trimmed text, got %q", msg.Text)
	}
	if msg.CreatedAt.IsZero() {
		t.Fatal("expected a server-assigned timestamp")
	}
}

func TestThreadMessagesPreservePersistenceOrder(t *testing.T) {
	store := &memChatStore{}
	svc := NewChatService(store)
	a, b := uuid.New(), uuid.New()

	for _, text := range []string{"one", "two", "three"} {
		if _, err := svc.SendMessage(context.Background(), a, b, text); err != nil {
			t.Fatalf("send %q: %v", text, err)
		}
	}

	msgs, err := svc.ThreadMessages(context.Background(), a, b, 50, 0)
	if err != nil {
		t.Fatalf("thread messages: %v", err)
	}
	want := []string{"one", "two", "three"}
	if len(msgs) != len(want) {
		t.Fatalf("expected %d messages, got %d", len(want), len(msgs))
	}
	for i, w := range want {
		if msgs[i].Text != w {
			t.Fatalf("position %d: expected %q, got %q", i, w, msgs[i].Text)
		}
	}
}

func TestPostCommunityMessageValidation(t *testing.T) {
	store := &memChatStore{}
	svc := NewChatService(store)
	sender := uuid.New()

	url := "https://cdn.example.com/f.png"
	empty := ""

	cases := []struct {
		name    string
		in      CommunityMessageInput
		wantErr error
	}{
		{"plain text", CommunityMessageInput{Text: "hi"}, nil},
		{"empty text", CommunityMessageInput{Text: "  "}, ErrEmptyMessage},
		{"file with url", CommunityMessageInput{MessageType: MessageTypeFile, FileURL: &url}, nil},
		{"file without url", CommunityMessageInput{MessageType: MessageTypeFile}, ErrInvalidMessageType},
		{"file with empty url", CommunityMessageInput{MessageType: MessageTypeFile, FileURL: &empty}, ErrInvalidMessageType},
		{"gif with url", CommunityMessageInput{MessageType: MessageTypeGif, GifURL: &url}, nil},
		{"gif without url", CommunityMessageInput{MessageType: MessageTypeGif}, ErrInvalidMessageType},
		{"unknown type", CommunityMessageInput{MessageType: MessageType("video"), Text: "x"}, ErrInvalidMessageType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PostCommunityMessage(context.Background(), sender, tc.in)
			if err != tc.wantErr {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestFileMessageMayCarryCaption(t *testing.T) {
	store := &memChatStore{}
	svc := NewChatService(store)

	url := "https://cdn.example.com/f.pdf"
	msg, err := svc.PostCommunityMessage(context.Background(), uuid.New(), CommunityMessageInput{
		Text:        "take a look",
		MessageType: MessageTypeFile,
		FileURL:     &url,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Text != "take a look" {
		t.Fatalf("caption lost: %q", msg.Text)
	}
	if msg.FileURL == nil || *msg.FileURL != url {
		t.Fatal("file url lost")
	}
}
