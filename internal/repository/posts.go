package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/devtalkx/backend/internal/domain"
)

func (r *PostgresRepository) CreatePost(ctx context.Context, params domain.CreatePostParams) (*domain.Post, error) {
	query := `
		INSERT INTO posts (author_id, title, content, tags, photo_url, link_url)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, author_id, title, content, tags, photo_url, link_url, created_at, updated_at
	`

	post, err := scanPost(r.db.QueryRow(ctx, query,
		params.AuthorID, params.Title, params.Content, params.Tags, params.PhotoURL, params.LinkURL))
	if err != nil {
		return nil, err
	}

	// Attach the author card so the UI can render immediately
	author, err := r.GetUserByID(ctx, params.AuthorID)
	if err == nil {
		post.Author = author.Card()
	}
	return post, nil
}

func (r *PostgresRepository) GetPostByID(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	query := `
		SELECT id, author_id, title, content, tags, photo_url, link_url, created_at, updated_at
		FROM posts WHERE id = $1
	`
	post, err := scanPost(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPostNotFound
	}
	return post, err
}

func (r *PostgresRepository) DeletePost(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostNotFound
	}
	return nil
}

func (r *PostgresRepository) Explore(ctx context.Context, limit, offset int) ([]*domain.Post, error) {
	query := `
		SELECT p.id, p.author_id, p.title, p.content, p.tags, p.photo_url, p.link_url, p.created_at, p.updated_at,
		       ` + cardColumns("u") + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func (r *PostgresRepository) PostsByAuthor(ctx context.Context, authorID uuid.UUID) ([]*domain.Post, error) {
	query := `
		SELECT p.id, p.author_id, p.title, p.content, p.tags, p.photo_url, p.link_url, p.created_at, p.updated_at,
		       ` + cardColumns("u") + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.author_id = $1
		ORDER BY p.created_at DESC
	`
	rows, err := r.db.Query(ctx, query, authorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPosts(rows)
}

func collectPosts(rows pgx.Rows) ([]*domain.Post, error) {
	posts := []*domain.Post{}
	for rows.Next() {
		var post domain.Post
		var author domain.UserCard
		err := rows.Scan(
			&post.ID, &post.AuthorID, &post.Title, &post.Content, &post.Tags,
			&post.PhotoURL, &post.LinkURL, &post.CreatedAt, &post.UpdatedAt,
			&author.ID, &author.FirstName, &author.LastName, &author.PhotoURL, &author.Age,
			&author.Gender, &author.Bio, &author.Skills, &author.DevRole, &author.LookingFor,
		)
		if err != nil {
			return nil, err
		}
		post.Author = &author
		posts = append(posts, &post)
	}
	return posts, rows.Err()
}

func scanPost(row pgx.Row) (*domain.Post, error) {
	var post domain.Post
	err := row.Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Content,
		&post.Tags,
		&post.PhotoURL,
		&post.LinkURL,
		&post.CreatedAt,
		&post.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}
