package domain

import "time"

// MatchPlayer - участник завершенного матча. Роли здесь уже открыты:
// матч закончен, скрывать нечего.
type MatchPlayer struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Alive    bool   `json:"alive"`
}

// MatchRecord - итог одного матча для истории
type MatchRecord struct {
	ID         int64         `json:"id"`
	RoomCode   string        `json:"room_code"`
	RoomName   string        `json:"room_name"`
	Winner     Faction       `json:"winner"`
	Turns      int           `json:"turns"`
	Players    []MatchPlayer `json:"players"`
	FinishedAt time.Time     `json:"finished_at"`
}

// MatchFromRoom снимает итог с комнаты в фазе ENDED
func MatchFromRoom(r *Room) *MatchRecord {
	rec := &MatchRecord{
		RoomCode:   r.Code,
		RoomName:   r.Name,
		Winner:     r.Winner,
		Turns:      r.TurnCounter,
		FinishedAt: r.EndedAt,
	}
	for _, m := range r.Members {
		rec.Players = append(rec.Players, MatchPlayer{
			PlayerID: m.PlayerID,
			Name:     m.Name,
			Role:     m.Role,
			Alive:    m.Alive,
		})
	}
	return rec
}
