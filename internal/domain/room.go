package domain

import "time"

// Фазы комнаты. Комната всегда находится ровно в одной из них.
type Phase string

const (
	PhaseWaiting Phase = "WAITING" // лобби: игроки заходят и жмут "готов"
	PhaseNight   Phase = "NIGHT"   // ночные действия ролей
	PhaseDay     Phase = "DAY"     // дневное обсуждение и голосование
	PhaseEnded   Phase = "ENDED"   // матч окончен, winner заполнен
)

// Роли игроков. Пустая роль = роли еще не розданы.
type Role string

const (
	RoleMafia     Role = "mafia"
	RoleDoctor    Role = "doctor"
	RoleDetective Role = "detective"
	RoleVillager  Role = "villager"
)

// Фракции для условия победы: мафия против всех остальных.
type Faction string

const (
	FactionMafia     Faction = "mafia"
	FactionVillagers Faction = "villagers"
)

// Faction возвращает фракцию роли
func (r Role) Faction() Faction {
	if r == RoleMafia {
		return FactionMafia
	}
	return FactionVillagers
}

// Политика комнаты после окончания матча
type EndPolicy string

const (
	EndPolicyReset EndPolicy = "reset" // вернуться в лобби тем же составом
	EndPolicyClose EndPolicy = "close" // удалить комнату
)

// Ночные действия
type ActionKind string

const (
	ActionKill  ActionKind = "kill"
	ActionHeal  ActionKind = "heal"
	ActionCheck ActionKind = "check"
)

// Member - участник комнаты. Порядок в Room.Members = порядок входа,
// он определяет наследование хоста.
type Member struct {
	PlayerID  int64  `json:"player_id"`
	Name      string `json:"name"`
	Alive     bool   `json:"alive"`
	Ready     bool   `json:"ready"`
	Role      Role   `json:"role,omitempty"`
	HasVoted  bool   `json:"has_voted"`
	VoteCount int    `json:"vote_count"`
	Protected bool   `json:"protected"`
}

// Room - документ комнаты. Читается и пишется целиком (read-modify-write),
// Version защищает от потерянных обновлений при конкурентной записи.
type Room struct {
	Code        string
	Name        string
	HostID      int64
	Members     []*Member
	Phase       Phase
	TurnCounter int
	Winner      Faction // заполнен тогда и только тогда, когда Phase == ENDED

	// ночная бухгалтерия, сбрасывается при каждом разрешении ночи
	KillTarget     int64
	HealTarget     int64
	MafiaActed     bool
	DoctorActed    bool
	DetectiveActed bool

	EndPolicy EndPolicy
	TestMode  bool

	// дедлайн текущей фазы; по нему таймер восстанавливается после рестарта
	PhaseDeadline time.Time

	Version   int64
	CreatedAt time.Time
	EndedAt   time.Time
}

// Member возвращает участника по id игрока или nil
func (r *Room) Member(playerID int64) *Member {
	for _, m := range r.Members {
		if m.PlayerID == playerID {
			return m
		}
	}
	return nil
}

// HasMember проверяет членство
func (r *Room) HasMember(playerID int64) bool {
	return r.Member(playerID) != nil
}

// RemoveMember удаляет участника, сохраняя порядок входа остальных.
// Возвращает false, если игрока не было в комнате.
func (r *Room) RemoveMember(playerID int64) bool {
	for i, m := range r.Members {
		if m.PlayerID == playerID {
			r.Members = append(r.Members[:i], r.Members[i+1:]...)
			return true
		}
	}
	return false
}

// AliveMembers возвращает живых участников в порядке входа
func (r *Room) AliveMembers() []*Member {
	alive := make([]*Member, 0, len(r.Members))
	for _, m := range r.Members {
		if m.Alive {
			alive = append(alive, m)
		}
	}
	return alive
}

// AllReady - все ли участники нажали "готов"
func (r *Room) AllReady() bool {
	for _, m := range r.Members {
		if !m.Ready {
			return false
		}
	}
	return true
}

// ResetNightState сбрасывает ночную бухгалтерию и защиту доктора
func (r *Room) ResetNightState() {
	r.KillTarget = 0
	r.HealTarget = 0
	r.MafiaActed = false
	r.DoctorActed = false
	r.DetectiveActed = false
	for _, m := range r.Members {
		m.Protected = false
	}
}

// ResetVotes обнуляет состояние голосования у всех участников
func (r *Room) ResetVotes() {
	for _, m := range r.Members {
		m.HasVoted = false
		m.VoteCount = 0
	}
}

// ResetForLobby возвращает комнату в состояние лобби после матча
// (политика "reset": роли и флаги очищаются, состав сохраняется)
func (r *Room) ResetForLobby() {
	r.Phase = PhaseWaiting
	r.Winner = ""
	r.TurnCounter = 0
	r.EndedAt = time.Time{}
	r.PhaseDeadline = time.Time{}
	r.ResetNightState()
	for _, m := range r.Members {
		m.Alive = true
		m.Ready = false
		m.Role = ""
		m.HasVoted = false
		m.VoteCount = 0
	}
}

// PublicMember - участник в публичном представлении (без роли)
type PublicMember struct {
	PlayerID int64  `json:"player_id"`
	Name     string `json:"name"`
	Alive    bool   `json:"alive"`
	Ready    bool   `json:"ready"`
}

// PublicState сериализует комнату для рассылки подписчикам.
// Роли сюда не попадают никогда: игрок узнает свою роль только
// персональным событием your_role.
func (r *Room) PublicState() map[string]any {
	members := make([]PublicMember, 0, len(r.Members))
	for _, m := range r.Members {
		members = append(members, PublicMember{
			PlayerID: m.PlayerID,
			Name:     m.Name,
			Alive:    m.Alive,
			Ready:    m.Ready,
		})
	}

	state := map[string]any{
		"code":    r.Code,
		"name":    r.Name,
		"host_id": r.HostID,
		"phase":   string(r.Phase),
		"turn":    r.TurnCounter,
		"members": members,
	}
	if r.Winner != "" {
		state["winner"] = string(r.Winner)
	}
	if !r.PhaseDeadline.IsZero() {
		state["deadline"] = r.PhaseDeadline.UnixMilli()
	}
	return state
}

// Summary - краткая карточка комнаты для списка лобби
func (r *Room) Summary() map[string]any {
	return map[string]any{
		"code":    r.Code,
		"name":    r.Name,
		"phase":   string(r.Phase),
		"players": len(r.Members),
	}
}
