// internal/database/game_record.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jason-s-yu/throneroom/internal/models"
)

// InsertGameRecords persists a batch of match records in one transaction.
// Records already stored are left untouched.
func InsertGameRecords(ctx context.Context, records []models.GameRecord) error {
	if len(records) == 0 {
		return nil
	}
	err := pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range records {
			if err := insertGameRecordTx(ctx, tx, rec); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx insert game records: %w", err)
	}
	return nil
}

func insertGameRecordTx(ctx context.Context, tx pgx.Tx, rec models.GameRecord) error {
	ct, err := tx.Exec(ctx, `
		INSERT INTO game_records (game_id, game_type, started_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (game_id) DO NOTHING
	`, rec.GameID, rec.GameType, rec.StartedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return nil
	}

	for seat, p := range rec.Players {
		_, err := tx.Exec(ctx, `
			INSERT INTO game_record_players (game_id, seat, name, faction, agenda)
			VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		`, rec.GameID, seat, p.Name, p.Faction, p.Agenda)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetGameRecordsForPlayer lists the matches a player took part in, newest first.
func GetGameRecordsForPlayer(ctx context.Context, name string, limit int) ([]models.GameRecord, error) {
	rows, err := DB.Query(ctx, `
		SELECT g.game_id, g.game_type, g.started_at
		FROM game_records g
		JOIN game_record_players p ON p.game_id = g.game_id
		WHERE p.name = $1
		ORDER BY g.started_at DESC
		LIMIT $2
	`, name, limit)
	if err != nil {
		return nil, err
	}
	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.GameRecord, error) {
		var rec models.GameRecord
		err := row.Scan(&rec.GameID, &rec.GameType, &rec.StartedAt)
		return rec, err
	})
	if err != nil {
		return nil, err
	}

	for i := range records {
		seats, err := DB.Query(ctx, `
			SELECT name, COALESCE(faction, ''), COALESCE(agenda, '')
			FROM game_record_players
			WHERE game_id = $1
			ORDER BY seat
		`, records[i].GameID)
		if err != nil {
			return nil, err
		}
		records[i].Players, err = pgx.CollectRows(seats, pgx.RowToStructByPos[models.GameRecordPlayer])
		if err != nil {
			return nil, err
		}
	}
	return records, nil
}
