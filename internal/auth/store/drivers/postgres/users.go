package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/aussiebroadwan/noteful/internal/auth/domain"
	"github.com/aussiebroadwan/noteful/internal/auth/store"
)

type usersRepo struct {
	pool pool
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, fullname, password_hash, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, oops.Code("USER_NOT_FOUND").With("id", id).Wrap(store.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, oops.Code("USER_GET_BY_ID_FAILED").With("id", id).Wrap(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, username, fullname, password_hash, created_at, updated_at
		FROM users
		WHERE username = $1
	`, username)

	u, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, oops.Code("USER_NOT_FOUND").With("username", username).Wrap(store.ErrNotFound)
	}
	if err != nil {
		return domain.User{}, oops.Code("USER_GET_BY_USERNAME_FAILED").With("username", username).Wrap(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, username, fullname, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, u.ID, u.Username, u.Fullname, u.PasswordHash, u.CreatedAt, u.UpdatedAt)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return oops.Code("USER_EXISTS").With("username", u.Username).Wrap(store.ErrAlreadyExists)
	}
	if err != nil {
		return oops.Code("USER_CREATE_FAILED").With("username", u.Username).Wrap(err)
	}
	return nil
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, username, fullname, password_hash, created_at, updated_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, oops.Code("USER_LIST_FAILED").Wrap(err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, oops.Code("USER_LIST_FAILED").With("operation", "scan").Wrap(err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("USER_LIST_FAILED").Wrap(err)
	}
	return users, nil
}

func scanUser(row pgx.Row) (domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Username, &u.Fullname, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
