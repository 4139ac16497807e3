package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/throneroom/internal/auth"
	"github.com/jason-s-yu/throneroom/internal/models"
)

// ErrUserNotFound is returned when no account matches a lookup.
var ErrUserNotFound = errors.New("user not found")

// ErrInvalidCredentials is returned by AuthenticateUser on a bad email/password pair.
var ErrInvalidCredentials = errors.New("invalid credentials")

const userColumns = `id, email, password, username, is_ephemeral, is_admin, role, settings`

// CreateUser hashes the user's password and inserts the account.
func CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		id, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("failed to generate user id: %w", err)
		}
		user.ID = id
	}
	if user.Role == "" {
		user.Role = "user"
	}

	hash, err := auth.CreateHash(user.Password, auth.DefaultParams)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = hash

	settings, err := json.Marshal(user.Settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	q := `INSERT INTO users (id, email, password, username, is_ephemeral, is_admin, role, settings)
	      VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	err = pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, execErr := tx.Exec(ctx, q,
			user.ID, user.Email, user.Password, user.Username,
			user.IsEphemeral, user.IsAdmin, user.Role, settings,
		)
		return execErr
	})
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func scanUser(row pgx.Row) (*models.User, error) {
	var (
		u        models.User
		settings []byte
	)
	err := row.Scan(&u.ID, &u.Email, &u.Password, &u.Username, &u.IsEphemeral, &u.IsAdmin, &u.Role, &settings)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(settings) > 0 {
		if err := json.Unmarshal(settings, &u.Settings); err != nil {
			return nil, fmt.Errorf("decode settings for %s: %w", u.Username, err)
		}
	}
	return &u, nil
}

// GetUserByID loads an account and its block list.
func GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	if u.BlockList, err = GetBlockList(ctx, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail loads an account without its block list.
func GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email=$1`, email))
}

// GetUserByUsername loads an account by case-insensitive username.
func GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return scanUser(DB.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(username)=$1`, strings.ToLower(username)))
}

// AuthenticateUser verifies email and password and returns the account.
func AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("user not found or db error: %w", err)
	}

	match, err := auth.ComparePasswordAndHash(password, user.Password)
	if err != nil || !match {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
