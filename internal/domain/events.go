package domain

// Имена исходящих событий. События комнаты рассылаются только после того,
// как соответствующая мутация сохранена в сторе.
const (
	EventRoomCreated       = "room_created"
	EventPlayerListUpdated = "player_list_updated"
	EventPhaseChanged      = "phase_changed"
	EventYourRole          = "your_role"             // только владельцу роли
	EventCheckResult       = "check_result"          // только детективу
	EventActionAccepted    = "night_action_accepted" // только автору действия
	EventNightResult       = "night_result"
	EventVoteRecorded      = "vote_recorded"
	EventGameEnded         = "game_ended"
	EventRoomClosed        = "room_closed"
	EventTimerTick         = "timer_tick"
	EventRoomState         = "room_state"
	EventRoomList          = "room_list"
	EventError             = "error"
)

// Имена входящих операций (типы ws-сообщений)
const (
	OpCreateRoom       = "create_room"
	OpJoinRoom         = "join_room"
	OpLeaveRoom        = "leave_room"
	OpToggleReady      = "toggle_ready"
	OpNightAction      = "submit_night_action"
	OpCastVote         = "cast_vote"
	OpHostSkip         = "host_skip_phase"
	OpRequestRoomState = "request_room_state"
	OpRequestRoomList  = "request_room_list"
)
