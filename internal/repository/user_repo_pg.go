package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airline-reservation/internal/domain"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Exists(ctx context.Context, id int64) (bool, error)
}

type PGUserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) UserRepository {
	return &PGUserRepository{db: db}
}

const userColumns = `id, full_name, email, mobile, password_hash, created_at, updated_at`

func (r *PGUserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRow(ctx, `INSERT INTO users (full_name, email, mobile, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		user.FullName, user.Email, user.Mobile, user.PasswordHash,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return translate("create user", err)
}

// GetByEmail matches the address case-insensitively.
func (r *PGUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email)=lower($1)`, email))
	if err != nil {
		return nil, translate(fmt.Sprintf("get user %s", email), err)
	}
	return u, nil
}

func (r *PGUserRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE id=$1)`, id).Scan(&exists)
	if err != nil {
		return false, translate(fmt.Sprintf("check user %d", id), err)
	}
	return exists, nil
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.FullName, &u.Email, &u.Mobile, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

var _ UserRepository = (*PGUserRepository)(nil)
