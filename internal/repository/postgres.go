package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/devtalkx/backend/internal/domain"
)

// PostgresRepository implements the domain repository interfaces using
// PostgreSQL. Atomicity of the swipe/review state machine lives entirely in
// the conditional UPDATE statements here.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const userColumns = `id, first_name, last_name, email, photo_url, age, gender, bio, skills, dev_role, project_link, looking_for, google_id, created_at, updated_at`

// CreateUser creates a new user
func (r *PostgresRepository) CreateUser(ctx context.Context, params domain.CreateUserParams) (*domain.User, error) {
	query := `
		INSERT INTO users (first_name, last_name, email, password_hash, photo_url, google_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	row := r.db.QueryRow(ctx, query,
		params.FirstName,
		params.LastName,
		params.Email,
		params.PasswordHash,
		params.PhotoURL,
		params.GoogleID,
	)

	user, err := scanUser(row)
	if isUniqueViolation(err) {
		return nil, domain.ErrEmailTaken
	}
	return user, err
}

// GetUserByID retrieves a user by ID
func (r *PostgresRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.db.QueryRow(ctx, query, id))
}

// GetUserByEmail retrieves a user by email, including the password hash
func (r *PostgresRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + `, password_hash FROM users WHERE email = $1`
	row := r.db.QueryRow(ctx, query, email)

	var user domain.User
	var passwordHash *string
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PhotoURL,
		&user.Age,
		&user.Gender,
		&user.Bio,
		&user.Skills,
		&user.DevRole,
		&user.ProjectLink,
		&user.LookingFor,
		&user.GoogleID,
		&user.CreatedAt,
		&user.UpdatedAt,
		&passwordHash,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	if passwordHash != nil {
		user.PasswordHash = *passwordHash
	}
	return &user, nil
}

// GetUserByGoogleID retrieves a user by Google ID
func (r *PostgresRepository) GetUserByGoogleID(ctx context.Context, googleID string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	return scanUser(r.db.QueryRow(ctx, query, googleID))
}

// UpdateProfile applies the non-nil fields of the update
func (r *PostgresRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (*domain.User, error) {
	query := `
		UPDATE users SET
			first_name   = COALESCE($2, first_name),
			last_name    = COALESCE($3, last_name),
			photo_url    = COALESCE($4, photo_url),
			gender       = COALESCE($5, gender),
			age          = COALESCE($6, age),
			bio          = COALESCE($7, bio),
			skills       = COALESCE($8, skills),
			dev_role     = COALESCE($9, dev_role),
			project_link = COALESCE($10, project_link),
			looking_for  = COALESCE($11, looking_for),
			updated_at   = now()
		WHERE id = $1
		RETURNING ` + userColumns

	row := r.db.QueryRow(ctx, query,
		id,
		update.FirstName,
		update.LastName,
		update.PhotoURL,
		update.Gender,
		update.Age,
		update.Bio,
		update.Skills,
		update.DevRole,
		update.ProjectLink,
		update.LookingFor,
	)
	return scanUser(row)
}

// UserExists checks if a user id resolves to a registered user
func (r *PostgresRepository) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

// Feed returns discovery cards for users with no connection-request record
// involving the given user, excluding the user themselves.
func (r *PostgresRepository) Feed(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.UserCard, error) {
	query := `
		SELECT ` + cardColumns("u") + `
		FROM users u
		WHERE u.id <> $1
		  AND NOT EXISTS (
			SELECT 1 FROM connection_requests cr
			WHERE (cr.from_user_id = u.id AND cr.to_user_id = $1)
			   OR (cr.from_user_id = $1 AND cr.to_user_id = u.id)
		  )
		ORDER BY u.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := []*domain.UserCard{}
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// Helper functions for scanning rows

func cardColumns(alias string) string {
	return alias + `.id, ` + alias + `.first_name, ` + alias + `.last_name,
		COALESCE(` + alias + `.photo_url, ''), COALESCE(` + alias + `.age, 0),
		COALESCE(` + alias + `.gender, ''), COALESCE(` + alias + `.bio, ''),
		` + alias + `.skills, COALESCE(` + alias + `.dev_role, ''),
		COALESCE(` + alias + `.looking_for, '')`
}

func scanCard(row pgx.Row) (*domain.UserCard, error) {
	var card domain.UserCard
	err := row.Scan(
		&card.ID,
		&card.FirstName,
		&card.LastName,
		&card.PhotoURL,
		&card.Age,
		&card.Gender,
		&card.Bio,
		&card.Skills,
		&card.DevRole,
		&card.LookingFor,
	)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PhotoURL,
		&user.Age,
		&user.Gender,
		&user.Bio,
		&user.Skills,
		&user.DevRole,
		&user.ProjectLink,
		&user.LookingFor,
		&user.GoogleID,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
