package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/devtalkx/backend/internal/domain"
)

const requestColumns = `id, from_user_id, to_user_id, status, created_at, updated_at`

// CreateRequest inserts a new swipe record. The table must carry a unique
// index on the normalized pair, i.e.
// UNIQUE (LEAST(from_user_id, to_user_id), GREATEST(from_user_id, to_user_id)),
// so a racing duplicate insert fails here rather than leave two records
// behind.
func (r *PostgresRepository) CreateRequest(ctx context.Context, fromID, toID uuid.UUID, status domain.ConnectionStatus) (*domain.ConnectionRequest, error) {
	query := `
		INSERT INTO connection_requests (from_user_id, to_user_id, status)
		VALUES ($1, $2, $3)
		RETURNING ` + requestColumns

	req, err := scanRequest(r.db.QueryRow(ctx, query, fromID, toID, status))
	if isUniqueViolation(err) {
		return nil, domain.ErrDuplicatePair
	}
	return req, err
}

// PairExists checks both directions of the unordered pair, any status
func (r *PostgresRepository) PairExists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM connection_requests
			WHERE (from_user_id = $1 AND to_user_id = $2)
			   OR (from_user_id = $2 AND to_user_id = $1)
		)
	`
	var exists bool
	err := r.db.QueryRow(ctx, query, a, b).Scan(&exists)
	return exists, err
}

// PromotePending flips the fromID->toID pending record to accepted in a
// single conditional update. No matching row means there was nothing
// pending in that direction.
func (r *PostgresRepository) PromotePending(ctx context.Context, fromID, toID uuid.UUID) (*domain.ConnectionRequest, error) {
	query := `
		UPDATE connection_requests
		SET status = $3, updated_at = now()
		WHERE from_user_id = $1 AND to_user_id = $2 AND status = $4
		RETURNING ` + requestColumns

	req, err := scanRequest(r.db.QueryRow(ctx, query,
		fromID, toID, domain.ConnectionStatusAccepted, domain.ConnectionStatusInterested))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNoPendingRequest
	}
	return req, err
}

// Review applies the decision conditioned on the record id, the reviewer
// being the recipient, and the record still being pending. Exactly one of
// two racing reviews can match the condition.
func (r *PostgresRepository) Review(ctx context.Context, requestID, reviewerID uuid.UUID, decision domain.ConnectionStatus) (*domain.ConnectionRequest, error) {
	query := `
		UPDATE connection_requests
		SET status = $3, updated_at = now()
		WHERE id = $1 AND to_user_id = $2 AND status = $4
		RETURNING ` + requestColumns

	req, err := scanRequest(r.db.QueryRow(ctx, query,
		requestID, reviewerID, decision, domain.ConnectionStatusInterested))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrRequestNotReviewable
	}
	return req, err
}

// PendingReceived lists interested requests addressed to the user, sender
// card populated.
func (r *PostgresRepository) PendingReceived(ctx context.Context, userID uuid.UUID) ([]*domain.ConnectionRequest, error) {
	query := `
		SELECT ` + prefixedRequestColumns("cr") + `, ` + cardColumns("u") + `
		FROM connection_requests cr
		JOIN users u ON u.id = cr.from_user_id
		WHERE cr.to_user_id = $1 AND cr.status = $2
		ORDER BY cr.created_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID, domain.ConnectionStatusInterested)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []*domain.ConnectionRequest{}
	for rows.Next() {
		var req domain.ConnectionRequest
		var from domain.UserCard
		err := rows.Scan(
			&req.ID, &req.FromUserID, &req.ToUserID, &req.Status, &req.CreatedAt, &req.UpdatedAt,
			&from.ID, &from.FirstName, &from.LastName, &from.PhotoURL, &from.Age,
			&from.Gender, &from.Bio, &from.Skills, &from.DevRole, &from.LookingFor,
		)
		if err != nil {
			return nil, err
		}
		req.From = &from
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}

// Accepted lists accepted requests involving the user in either direction,
// both cards populated.
func (r *PostgresRepository) Accepted(ctx context.Context, userID uuid.UUID) ([]*domain.ConnectionRequest, error) {
	query := `
		SELECT ` + prefixedRequestColumns("cr") + `, ` + cardColumns("uf") + `, ` + cardColumns("ut") + `
		FROM connection_requests cr
		JOIN users uf ON uf.id = cr.from_user_id
		JOIN users ut ON ut.id = cr.to_user_id
		WHERE (cr.from_user_id = $1 OR cr.to_user_id = $1) AND cr.status = $2
		ORDER BY cr.updated_at DESC
	`

	rows, err := r.db.Query(ctx, query, userID, domain.ConnectionStatusAccepted)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := []*domain.ConnectionRequest{}
	for rows.Next() {
		var req domain.ConnectionRequest
		var from, to domain.UserCard
		err := rows.Scan(
			&req.ID, &req.FromUserID, &req.ToUserID, &req.Status, &req.CreatedAt, &req.UpdatedAt,
			&from.ID, &from.FirstName, &from.LastName, &from.PhotoURL, &from.Age,
			&from.Gender, &from.Bio, &from.Skills, &from.DevRole, &from.LookingFor,
			&to.ID, &to.FirstName, &to.LastName, &to.PhotoURL, &to.Age,
			&to.Gender, &to.Bio, &to.Skills, &to.DevRole, &to.LookingFor,
		)
		if err != nil {
			return nil, err
		}
		req.From = &from
		req.To = &to
		requests = append(requests, &req)
	}
	return requests, rows.Err()
}

func prefixedRequestColumns(alias string) string {
	return alias + `.id, ` + alias + `.from_user_id, ` + alias + `.to_user_id, ` +
		alias + `.status, ` + alias + `.created_at, ` + alias + `.updated_at`
}

func scanRequest(row pgx.Row) (*domain.ConnectionRequest, error) {
	var req domain.ConnectionRequest
	err := row.Scan(
		&req.ID,
		&req.FromUserID,
		&req.ToUserID,
		&req.Status,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &req, nil
}
