// internal/database/blocklist.go

package database

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// AddBlockListEntry bars username from lobbies owned by ownerID.
func AddBlockListEntry(ctx context.Context, ownerID uuid.UUID, username string) error {
	q := `
		INSERT INTO block_list (owner_id, blocked_username)
		VALUES ($1, $2)
		ON CONFLICT (owner_id, blocked_username) DO NOTHING
	`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, ownerID, strings.ToLower(username))
		return err
	})
}

// RemoveBlockListEntry lifts a block. Removing an absent entry is not an error.
func RemoveBlockListEntry(ctx context.Context, ownerID uuid.UUID, username string) error {
	q := `DELETE FROM block_list WHERE owner_id=$1 AND blocked_username=$2`
	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, q, ownerID, strings.ToLower(username))
		return err
	})
}

// GetBlockList returns the lower-cased usernames blocked by ownerID.
func GetBlockList(ctx context.Context, ownerID uuid.UUID) ([]string, error) {
	rows, err := DB.Query(ctx, `SELECT blocked_username FROM block_list WHERE owner_id=$1 ORDER BY blocked_username`, ownerID)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[string])
}
