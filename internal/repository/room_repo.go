package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mafia_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const roomColumns = `
	code, name, host_id, phase, turn_counter, winner,
	kill_target, heal_target, mafia_acted, doctor_acted, detective_acted,
	end_policy, test_mode, members, phase_deadline, version, created_at, ended_at`

// RoomRepository хранит документы комнат в Postgres. Состав участников
// лежит в JSONB-колонке, условное сохранение по колонке version защищает
// от потерянных обновлений.
type RoomRepository struct {
	db *pgxpool.Pool
}

func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var r domain.Room
	var winner *string
	var membersJSON []byte
	var deadline, endedAt *time.Time

	if err := row.Scan(
		&r.Code, &r.Name, &r.HostID, &r.Phase, &r.TurnCounter, &winner,
		&r.KillTarget, &r.HealTarget, &r.MafiaActed, &r.DoctorActed, &r.DetectiveActed,
		&r.EndPolicy, &r.TestMode, &membersJSON, &deadline, &r.Version, &r.CreatedAt, &endedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrRoomNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(membersJSON, &r.Members); err != nil {
		return nil, fmt.Errorf("битый список участников комнаты %s: %w", r.Code, err)
	}
	if winner != nil {
		r.Winner = domain.Faction(*winner)
	}
	if deadline != nil {
		r.PhaseDeadline = *deadline
	}
	if endedAt != nil {
		r.EndedAt = *endedAt
	}
	return &r, nil
}

// FindByID возвращает комнату по коду или domain.ErrRoomNotFound
func (r *RoomRepository) FindByID(ctx context.Context, code string) (*domain.Room, error) {
	row := r.db.QueryRow(ctx, `SELECT `+roomColumns+` FROM rooms WHERE code = $1`, code)
	return scanRoom(row)
}

// FindByMember возвращает все комнаты, где состоит игрок
func (r *RoomRepository) FindByMember(ctx context.Context, playerID int64) ([]*domain.Room, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+roomColumns+`
		FROM rooms
		WHERE EXISTS (
			SELECT 1 FROM jsonb_array_elements(members) AS m
			WHERE (m->>'player_id')::bigint = $1
		)
	`, playerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}

// ListOpen возвращает комнаты в лобби для списка на фронте
func (r *RoomRepository) ListOpen(ctx context.Context) ([]*domain.Room, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+roomColumns+` FROM rooms WHERE phase = $1 ORDER BY created_at DESC
	`, string(domain.PhaseWaiting))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}

// ListActive возвращает комнаты с идущим матчем - по ним после рестарта
// восстанавливаются таймеры фаз
func (r *RoomRepository) ListActive(ctx context.Context) ([]*domain.Room, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+roomColumns+` FROM rooms WHERE phase IN ($1, $2, $3)
	`, string(domain.PhaseNight), string(domain.PhaseDay), string(domain.PhaseEnded))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}

// FindAbandoned возвращает лобби-комнаты, созданные раньше cutoff
func (r *RoomRepository) FindAbandoned(ctx context.Context, cutoff time.Time) ([]*domain.Room, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+roomColumns+` FROM rooms WHERE phase = $1 AND created_at < $2
	`, string(domain.PhaseWaiting), cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRooms(rows)
}

func collectRooms(rows pgx.Rows) ([]*domain.Room, error) {
	var result []*domain.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, room)
	}
	return result, rows.Err()
}

// Insert создает комнату с version=1
func (r *RoomRepository) Insert(ctx context.Context, room *domain.Room) error {
	membersJSON, err := json.Marshal(room.Members)
	if err != nil {
		return err
	}

	room.Version = 1
	return r.db.QueryRow(ctx, `
		INSERT INTO rooms (
			code, name, host_id, phase, turn_counter, winner,
			kill_target, heal_target, mafia_acted, doctor_acted, detective_acted,
			end_policy, test_mode, members, phase_deadline, version
		)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		RETURNING created_at
	`,
		room.Code, room.Name, room.HostID, string(room.Phase), room.TurnCounter, nullFaction(room.Winner),
		room.KillTarget, room.HealTarget, room.MafiaActed, room.DoctorActed, room.DetectiveActed,
		string(room.EndPolicy), room.TestMode, membersJSON, nullTime(room.PhaseDeadline), room.Version,
	).Scan(&room.CreatedAt)
}

// Save сохраняет комнату условной записью по version. Если с момента
// чтения комнату изменили - domain.ErrConflict; если удалили -
// domain.ErrRoomNotFound. Оба исхода штатные.
func (r *RoomRepository) Save(ctx context.Context, room *domain.Room) error {
	membersJSON, err := json.Marshal(room.Members)
	if err != nil {
		return err
	}

	tag, err := r.db.Exec(ctx, `
		UPDATE rooms SET
			name = $2, host_id = $3, phase = $4, turn_counter = $5, winner = $6,
			kill_target = $7, heal_target = $8, mafia_acted = $9,
			doctor_acted = $10, detective_acted = $11,
			end_policy = $12, members = $13, phase_deadline = $14, ended_at = $15,
			version = version + 1
		WHERE code = $1 AND version = $16
	`,
		room.Code, room.Name, room.HostID, string(room.Phase), room.TurnCounter, nullFaction(room.Winner),
		room.KillTarget, room.HealTarget, room.MafiaActed,
		room.DoctorActed, room.DetectiveActed,
		string(room.EndPolicy), membersJSON, nullTime(room.PhaseDeadline), nullTime(room.EndedAt),
		room.Version,
	)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		var exists bool
		if err := r.db.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM rooms WHERE code = $1)`, room.Code,
		).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrRoomNotFound
		}
		return domain.ErrConflict
	}

	room.Version++
	return nil
}

// DeleteByID удаляет комнату; отсутствие строки не считается ошибкой
func (r *RoomRepository) DeleteByID(ctx context.Context, code string) error {
	_, err := r.db.Exec(ctx, `DELETE FROM rooms WHERE code = $1`, code)
	return err
}

func nullFaction(f domain.Faction) *string {
	if f == "" {
		return nil
	}
	s := string(f)
	return &s
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
