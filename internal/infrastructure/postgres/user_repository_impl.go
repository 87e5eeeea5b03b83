package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/go-identity-service/internal/domain"
	"github.com/oksasatya/go-identity-service/internal/domain/repository"
)

const queryTimeout = 5 * time.Second

const userColumns = `
	id, created_at, updated_at, email, password, first_name, last_name,
	role, gender, is_verified, is_banned, google_id, facebook_id`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email domain.EmailAddress) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email.String())

	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id domain.UserID) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id.UUID())

	return scanUser(row)
}

func (r *UserRepository) Create(ctx context.Context, u domain.NewUser) (domain.UserID, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (email, password, first_name, last_name, gender, google_id, facebook_id, is_verified)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`,
		u.Email.String(),
		nullable(u.Password.String()),
		nullable(u.FirstName.String()),
		nullable(u.LastName.String()),
		nullable(u.Gender.String()),
		nullable(u.GoogleID.String()),
		nullable(u.FacebookID.String()),
		u.IsVerified,
	)

	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.UserID{}, repository.ErrEmailTaken
		}
		return domain.UserID{}, err
	}
	return domain.UserIDFromUUID(id), nil
}

// Update applies a merge-patch: COALESCE keeps every column whose patch
// field is nil, and updated_at is always refreshed.
func (r *UserRepository) Update(ctx context.Context, id domain.UserID, patch domain.UpdateUser) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.pool.Exec(ctx, `
		UPDATE users
		SET password    = COALESCE($1, password),
		    first_name  = COALESCE($2, first_name),
		    last_name   = COALESCE($3, last_name),
		    gender      = COALESCE($4, gender),
		    is_verified = COALESCE($5, is_verified),
		    google_id   = COALESCE($6, google_id),
		    facebook_id = COALESCE($7, facebook_id),
		    updated_at  = NOW()
		WHERE id = $8
	`,
		patchString(patch.Password),
		patchString(patch.FirstName),
		patchString(patch.LastName),
		patchString(patch.Gender),
		patch.IsVerified,
		patchString(patch.GoogleID),
		patchString(patch.FacebookID),
		id.UUID(),
	)
	return err
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		id                   uuid.UUID
		createdAt, updatedAt time.Time
		email, role          string
		password, firstName  *string
		lastName, gender     *string
		googleID, facebookID *string
		isVerified, isBanned bool
	)

	err := row.Scan(&id, &createdAt, &updatedAt, &email, &password, &firstName,
		&lastName, &role, &gender, &isVerified, &isBanned, &googleID, &facebookID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		ID:         domain.UserIDFromUUID(id),
		CreatedAt:  createdAt,
		UpdatedAt:  updatedAt,
		IsVerified: isVerified,
		IsBanned:   isBanned,
	}
	if u.Email, err = domain.ParseEmail(email); err != nil {
		return nil, err
	}
	if u.Role, err = domain.ParseRole(role); err != nil {
		return nil, err
	}
	if password != nil {
		if u.Password, err = domain.ParseHashedPassword(*password); err != nil {
			return nil, err
		}
	}
	if firstName != nil {
		if u.FirstName, err = domain.ParseFirstName(*firstName); err != nil {
			return nil, err
		}
	}
	if lastName != nil {
		if u.LastName, err = domain.ParseLastName(*lastName); err != nil {
			return nil, err
		}
	}
	if gender != nil {
		if u.Gender, err = domain.ParseGender(*gender); err != nil {
			return nil, err
		}
	}
	if googleID != nil {
		if u.GoogleID, err = domain.ParseGoogleID(*googleID); err != nil {
			return nil, err
		}
	}
	if facebookID != nil {
		if u.FacebookID, err = domain.ParseFacebookID(*facebookID); err != nil {
			return nil, err
		}
	}
	return u, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type stringer interface{ String() string }

func patchString[T stringer](v *T) *string {
	if v == nil {
		return nil
	}
	s := (*v).String()
	return &s
}

var _ repository.UserRepository = (*UserRepository)(nil)
