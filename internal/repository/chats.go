package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/devtalkx/backend/internal/domain"
)

// normalizePair orders a participant pair lexicographically so the same two
// users always map to the same thread row.
func normalizePair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if strings.Compare(a.String(), b.String()) > 0 {
		return b, a
	}
	return a, b
}

// AppendMessage upserts the pair thread and appends the message in one
// round trip per statement. The thread is created lazily on first write.
func (r *PostgresRepository) AppendMessage(ctx context.Context, senderID, targetID uuid.UUID, text string) (*domain.ChatMessage, error) {
	low, high := normalizePair(senderID, targetID)

	var threadID uuid.UUID
	upsert := `
		INSERT INTO chat_threads (participant_low, participant_high)
		VALUES ($1, $2)
		ON CONFLICT (participant_low, participant_high)
		DO UPDATE SET updated_at = now()
		RETURNING id
	`
	if err := r.db.QueryRow(ctx, upsert, low, high).Scan(&threadID); err != nil {
		return nil, err
	}

	insert := `
		INSERT INTO chat_messages (thread_id, sender_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, thread_id, sender_id, text, created_at
	`
	var msg domain.ChatMessage
	err := r.db.QueryRow(ctx, insert, threadID, senderID, text).Scan(
		&msg.ID, &msg.ThreadID, &msg.SenderID, &msg.Text, &msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ThreadMessages returns the pair's messages in persistence order
func (r *PostgresRepository) ThreadMessages(ctx context.Context, a, b uuid.UUID, limit, offset int) ([]*domain.ChatMessage, error) {
	low, high := normalizePair(a, b)

	query := `
		SELECT m.id, m.thread_id, m.sender_id, m.text, m.created_at
		FROM chat_messages m
		JOIN chat_threads t ON t.id = m.thread_id
		WHERE t.participant_low = $1 AND t.participant_high = $2
		ORDER BY m.created_at, m.id
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, low, high, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*domain.ChatMessage{}
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(&msg.ID, &msg.ThreadID, &msg.SenderID, &msg.Text, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}

// SaveCommunityMessage appends one message to the global community log
func (r *PostgresRepository) SaveCommunityMessage(ctx context.Context, senderID uuid.UUID, in domain.CommunityMessageInput) (*domain.CommunityMessage, error) {
	query := `
		INSERT INTO community_messages (sender_id, text, message_type, file_url, file_name, file_mime_type, gif_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, sender_id, text, message_type, file_url, file_name, file_mime_type, gif_url, created_at
	`

	var msg domain.CommunityMessage
	err := r.db.QueryRow(ctx, query,
		senderID, in.Text, in.MessageType, in.FileURL, in.FileName, in.FileMimeType, in.GifURL,
	).Scan(
		&msg.ID, &msg.SenderID, &msg.Text, &msg.MessageType,
		&msg.FileURL, &msg.FileName, &msg.FileMimeType, &msg.GifURL, &msg.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// CommunityMessages returns the community log newest first, sender card
// populated for display.
func (r *PostgresRepository) CommunityMessages(ctx context.Context, limit, offset int) ([]*domain.CommunityMessage, error) {
	query := `
		SELECT m.id, m.sender_id, m.text, m.message_type,
		       m.file_url, m.file_name, m.file_mime_type, m.gif_url, m.created_at,
		       ` + cardColumns("u") + `
		FROM community_messages m
		JOIN users u ON u.id = m.sender_id
		ORDER BY m.created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*domain.CommunityMessage{}
	for rows.Next() {
		var msg domain.CommunityMessage
		var sender domain.UserCard
		err := rows.Scan(
			&msg.ID, &msg.SenderID, &msg.Text, &msg.MessageType,
			&msg.FileURL, &msg.FileName, &msg.FileMimeType, &msg.GifURL, &msg.CreatedAt,
			&sender.ID, &sender.FirstName, &sender.LastName, &sender.PhotoURL, &sender.Age,
			&sender.Gender, &sender.Bio, &sender.Skills, &sender.DevRole, &sender.LookingFor,
		)
		if err != nil {
			return nil, err
		}
		msg.Sender = &sender
		messages = append(messages, &msg)
	}
	return messages, rows.Err()
}
