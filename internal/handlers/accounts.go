// internal/handlers/accounts.go
package handlers

import (
	"context"

	"github.com/google/uuid"
	"github.com/jason-s-yu/throneroom/internal/database"
	"github.com/jason-s-yu/throneroom/internal/models"
)

// Accounts is the account and block-list storage the handlers depend on.
type Accounts interface {
	CreateUser(ctx context.Context, user *models.User) error
	AuthenticateUser(ctx context.Context, email, password string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	AddBlockListEntry(ctx context.Context, ownerID uuid.UUID, username string) error
	RemoveBlockListEntry(ctx context.Context, ownerID uuid.UUID, username string) error
	GetBlockList(ctx context.Context, ownerID uuid.UUID) ([]string, error)
	GetGameRecordsForPlayer(ctx context.Context, name string, limit int) ([]models.GameRecord, error)
}

// PostgresAccounts implements Accounts on the shared database pool.
type PostgresAccounts struct{}

func (PostgresAccounts) CreateUser(ctx context.Context, user *models.User) error {
	return database.CreateUser(ctx, user)
}

func (PostgresAccounts) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	return database.AuthenticateUser(ctx, email, password)
}

func (PostgresAccounts) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return database.GetUserByID(ctx, id)
}

func (PostgresAccounts) AddBlockListEntry(ctx context.Context, ownerID uuid.UUID, username string) error {
	return database.AddBlockListEntry(ctx, ownerID, username)
}

func (PostgresAccounts) RemoveBlockListEntry(ctx context.Context, ownerID uuid.UUID, username string) error {
	return database.RemoveBlockListEntry(ctx, ownerID, username)
}

func (PostgresAccounts) GetBlockList(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	return database.GetBlockList(ctx, ownerID)
}

func (PostgresAccounts) GetGameRecordsForPlayer(ctx context.Context, name string, limit int) ([]models.GameRecord, error) {
	return database.GetGameRecordsForPlayer(ctx, name, limit)
}
