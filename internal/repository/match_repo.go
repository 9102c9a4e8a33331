package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"mafia_webapp/internal/domain"
)

// отвечает за операции с базой данных для истории матчей
type MatchRepository struct {
	db *pgxpool.Pool
}

func NewMatchRepository(db *pgxpool.Pool) *MatchRepository {
	return &MatchRepository{db: db}
}

// Record сохраняет итог завершенного матча
func (r *MatchRepository) Record(ctx context.Context, rec *domain.MatchRecord) error {
	playersJSON, err := json.Marshal(rec.Players)
	if err != nil {
		playersJSON = []byte("[]")
	}

	_, err = r.db.Exec(ctx, `
		INSERT INTO match_history (room_code, room_name, winner, turns, players, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, rec.RoomCode, rec.RoomName, string(rec.Winner), rec.Turns, playersJSON, rec.FinishedAt)
	return err
}

// ListRecent возвращает последние завершенные матчи
func (r *MatchRepository) ListRecent(ctx context.Context, limit int) ([]*domain.MatchRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, room_code, room_name, winner, turns, players, finished_at
		FROM match_history
		ORDER BY finished_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMatches(rows)
}

// ListByPlayer возвращает матчи с участием игрока
func (r *MatchRepository) ListByPlayer(ctx context.Context, playerID int64, limit int) ([]*domain.MatchRecord, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, room_code, room_name, winner, turns, players, finished_at
		FROM match_history
		WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements(players) p
			WHERE (p->>'player_id')::bigint = $1
		)
		ORDER BY finished_at DESC
		LIMIT $2
	`, playerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMatches(rows)
}

// преобразует строки из БД в записи истории
func scanMatches(rows pgx.Rows) ([]*domain.MatchRecord, error) {
	var out []*domain.MatchRecord
	for rows.Next() {
		var rec domain.MatchRecord
		var winner string
		var playersJSON []byte
		if err := rows.Scan(&rec.ID, &rec.RoomCode, &rec.RoomName, &winner, &rec.Turns, &playersJSON, &rec.FinishedAt); err != nil {
			return nil, err
		}
		rec.Winner = domain.Faction(winner)
		if err := json.Unmarshal(playersJSON, &rec.Players); err != nil {
			rec.Players = nil
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
