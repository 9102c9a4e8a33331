package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"sync"
	"time"

	"mafia_webapp/internal/config"
	"mafia_webapp/internal/domain"
	"mafia_webapp/internal/game"
	"mafia_webapp/internal/logger"
)

const (
	roomCodeLen      = 6
	roomCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	maxRoomNameLen   = 64
	maxPlayerNameLen = 32
)

// SessionEngine владеет машиной фаз каждой комнаты. Все мутации одной
// комнаты идут под её именованным мьютексом как один read-modify-write;
// стор дополнительно страхует условной записью по версии. Рассылки
// выполняются только после успешного сохранения, внутри критической
// секции - так события одной комнаты сохраняют причинный порядок.
type SessionEngine struct {
	store   RoomStore
	cfg     *config.Config
	timers  *TimerManager
	bc      Broadcaster
	matches MatchLog

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSessionEngine(store RoomStore, cfg *config.Config) *SessionEngine {
	e := &SessionEngine{
		store:  store,
		cfg:    cfg,
		timers: NewTimerManager(cfg.TimerTicks),
		locks:  make(map[string]*sync.Mutex),
	}
	e.timers.SetExpireHandler(e.handleDeadline)
	return e
}

// SetBroadcaster подключает пуш-транспорт (устанавливается после
// создания hub'а, как callback'и в main)
func (e *SessionEngine) SetBroadcaster(bc Broadcaster) {
	e.bc = bc
	e.timers.SetBroadcaster(bc)
}

// SetMatchLog включает запись истории матчей
func (e *SessionEngine) SetMatchLog(m MatchLog) {
	e.matches = m
}

// Timers отдает менеджер таймеров (для запроса remaining и т.п.)
func (e *SessionEngine) Timers() *TimerManager {
	return e.timers
}

// lockRoom берет мьютекс комнаты, создавая его при первом обращении
func (e *SessionEngine) lockRoom(code string) func() {
	e.mu.Lock()
	l, ok := e.locks[code]
	if !ok {
		l = &sync.Mutex{}
		e.locks[code] = l
	}
	e.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// dropLock убирает мьютекс удаленной комнаты. Гонка с параллельно
// ждущей горутиной безопасна: та увидит ErrRoomNotFound из стора.
func (e *SessionEngine) dropLock(code string) {
	e.mu.Lock()
	delete(e.locks, code)
	e.mu.Unlock()
}

// update выполняет read-modify-write с одним повтором при конфликте
// версий. Вызывающий уже держит мьютекс комнаты.
func (e *SessionEngine) update(ctx context.Context, code string, fn func(r *domain.Room) error) (*domain.Room, error) {
	for attempt := 0; ; attempt++ {
		room, err := e.store.FindByID(ctx, code)
		if err != nil {
			return nil, err
		}
		if err := fn(room); err != nil {
			return nil, err
		}
		if err := e.store.Save(ctx, room); err != nil {
			if errors.Is(err, domain.ErrConflict) && attempt == 0 {
				logger.Warn("конфликт версии комнаты, повтор операции", "room", code)
				continue
			}
			return nil, err
		}
		return room, nil
	}
}

func newRoomCode() string {
	b := make([]byte, roomCodeLen)
	for i := range b {
		n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
		b[i] = roomCodeAlphabet[n.Int64()]
	}
	return string(b)
}

func cleanName(name string, maxLen int) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", domain.ErrEmptyName
	}
	if len(name) > maxLen {
		name = name[:maxLen]
	}
	return name, nil
}

// minPlayers - порог старта; тестовый режим комнаты снижает его до 2
func (e *SessionEngine) minPlayers(room *domain.Room) int {
	min := e.cfg.MinPlayers
	if room.TestMode && min > 2 {
		min = 2
	}
	return min
}

// CreateRoom создает комнату с хостом в качестве первого участника
func (e *SessionEngine) CreateRoom(ctx context.Context, hostID int64, hostName, roomName, endPolicy string) (*domain.Room, error) {
	roomName, err := cleanName(roomName, maxRoomNameLen)
	if err != nil {
		return nil, err
	}
	hostName, err = cleanName(hostName, maxPlayerNameLen)
	if err != nil {
		return nil, err
	}

	policy := domain.EndPolicy(endPolicy)
	if policy == "" {
		policy = domain.EndPolicy(e.cfg.EndPolicy)
	}
	if policy != domain.EndPolicyReset && policy != domain.EndPolicyClose {
		return nil, domain.ErrBadPolicy
	}

	room := &domain.Room{
		Name:   roomName,
		HostID: hostID,
		Members: []*domain.Member{{
			PlayerID: hostID,
			Name:     hostName,
			Alive:    true,
		}},
		Phase:     domain.PhaseWaiting,
		EndPolicy: policy,
		TestMode:  e.cfg.TestMode,
	}

	// короткие коды могут столкнуться - пробуем несколько раз
	var insertErr error
	for attempt := 0; attempt < 5; attempt++ {
		room.Code = newRoomCode()
		if insertErr = e.store.Insert(ctx, room); insertErr == nil {
			break
		}
	}
	if insertErr != nil {
		return nil, insertErr
	}

	logger.Info("комната создана", "room", room.Code, "host", hostID)
	e.bc.EmitGlobal(domain.EventRoomCreated, room.Summary())
	e.bc.EmitToPlayer(hostID, domain.EventRoomState, room.PublicState())
	return room, nil
}

// JoinRoom добавляет игрока в лобби-комнату
func (e *SessionEngine) JoinRoom(ctx context.Context, code string, playerID int64, name string) (*domain.Room, error) {
	name, err := cleanName(name, maxPlayerNameLen)
	if err != nil {
		return nil, err
	}

	unlock := e.lockRoom(code)
	defer unlock()

	room, err := e.update(ctx, code, func(r *domain.Room) error {
		if r.Phase != domain.PhaseWaiting {
			return domain.ErrWrongPhase
		}
		if r.HasMember(playerID) {
			return domain.ErrAlreadyMember
		}
		if len(r.Members) >= e.cfg.MaxPlayers {
			return domain.ErrRoomFull
		}
		r.Members = append(r.Members, &domain.Member{
			PlayerID: playerID,
			Name:     name,
			Alive:    true,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.bc.EmitToRoom(code, domain.EventPlayerListUpdated, room.PublicState())
	return room, nil
}

// LeaveRoom убирает игрока из комнаты в любой фазе. Опустевшая комната
// удаляется вместе со своим таймером; при уходе хоста новым хостом
// становится самый ранний из оставшихся.
func (e *SessionEngine) LeaveRoom(ctx context.Context, code string, playerID int64) error {
	unlock := e.lockRoom(code)
	defer unlock()

	for attempt := 0; ; attempt++ {
		room, err := e.store.FindByID(ctx, code)
		if err != nil {
			return err
		}
		if !room.RemoveMember(playerID) {
			return domain.ErrNotMember
		}

		if len(room.Members) == 0 {
			// комната никогда не остается без хоста - пустая удаляется
			e.timers.Clear(code)
			if err := e.store.DeleteByID(ctx, code); err != nil {
				return err
			}
			e.bc.EmitGlobal(domain.EventRoomClosed, map[string]any{"code": code})
			e.bc.EmitToRoom(code, domain.EventRoomClosed, map[string]any{"code": code})
			e.dropLock(code)
			logger.Info("комната опустела и удалена", "room", code)
			return nil
		}

		if room.HostID == playerID {
			room.HostID = room.Members[0].PlayerID
			logger.Info("хост передан", "room", code, "new_host", room.HostID)
		}

		// уход единственного не готового игрока может выполнить условие
		// старта - оно проверяется на каждой мутации лобби, не только
		// на переключении готовности
		started := false
		if room.Phase == domain.PhaseWaiting && len(room.Members) >= e.minPlayers(room) && room.AllReady() {
			e.startGame(room)
			started = true
		}

		if err := e.store.Save(ctx, room); err != nil {
			if errors.Is(err, domain.ErrConflict) && attempt == 0 {
				continue
			}
			return err
		}

		e.bc.EmitToRoom(code, domain.EventPlayerListUpdated, room.PublicState())
		if started {
			e.announceStart(room)
		}
		return nil
	}
}

// LeaveAllRooms выводит игрока из всех его комнат (обработка дисконнекта).
// Возвращает коды комнат, из которых игрок вышел.
func (e *SessionEngine) LeaveAllRooms(ctx context.Context, playerID int64) []string {
	rooms, err := e.store.FindByMember(ctx, playerID)
	if err != nil {
		logger.Error("поиск комнат игрока не удался", "player", playerID, "error", err)
		return nil
	}

	var left []string
	for _, room := range rooms {
		if err := e.LeaveRoom(ctx, room.Code, playerID); err != nil {
			logger.Warn("выход из комнаты при дисконнекте не удался",
				"room", room.Code, "player", playerID, "error", err)
			continue
		}
		left = append(left, room.Code)
	}
	return left
}

// ToggleReady переключает готовность в лобби. Когда игроков достаточно
// и все готовы - раздаются роли и стартует первая ночь.
func (e *SessionEngine) ToggleReady(ctx context.Context, code string, playerID int64) (*domain.Room, error) {
	started := false

	unlock := e.lockRoom(code)
	defer unlock()

	room, err := e.update(ctx, code, func(r *domain.Room) error {
		started = false
		if r.Phase != domain.PhaseWaiting {
			return domain.ErrWrongPhase
		}
		m := r.Member(playerID)
		if m == nil {
			return domain.ErrNotMember
		}
		m.Ready = !m.Ready

		if len(r.Members) >= e.minPlayers(r) && r.AllReady() {
			e.startGame(r)
			started = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.bc.EmitToRoom(code, domain.EventPlayerListUpdated, room.PublicState())
	if started {
		e.announceStart(room)
	}
	return room, nil
}

// announceStart рассылает события начала матча и заводит таймер первой
// ночи. Вызывается после успешного сохранения.
func (e *SessionEngine) announceStart(room *domain.Room) {
	e.bc.EmitToRoom(room.Code, domain.EventPhaseChanged, map[string]any{
		"from": string(domain.PhaseWaiting),
		"to":   string(domain.PhaseNight),
		"turn": room.TurnCounter,
	})
	// роль - строго личное событие
	for _, m := range room.Members {
		e.bc.EmitToPlayer(m.PlayerID, domain.EventYourRole, map[string]any{
			"room": room.Code,
			"role": string(m.Role),
		})
	}
	e.timers.Start(room.Code, domain.PhaseNight, room.TurnCounter, e.cfg.NightDuration)
	logger.Info("матч начался", "room", room.Code, "players", len(room.Members))
}

// startGame раздает роли и переводит комнату в первую ночь.
// Вызывается внутри update, до сохранения.
func (e *SessionEngine) startGame(r *domain.Room) {
	for _, m := range r.Members {
		m.Alive = true
		m.HasVoted = false
		m.VoteCount = 0
		m.Protected = false
	}
	game.AssignRoles(r.Members, r.TestMode)
	r.ResetNightState()
	r.Winner = ""
	r.TurnCounter = 1
	r.Phase = domain.PhaseNight
	r.PhaseDeadline = time.Now().Add(e.cfg.NightDuration)
}

// SubmitNightAction принимает одно ночное действие роли: kill/heal/check.
// Проверка детектива разрешается сразу при подаче, ответ уходит только
// самому детективу.
func (e *SessionEngine) SubmitNightAction(ctx context.Context, code string, playerID int64, kind domain.ActionKind, targetID int64) error {
	var isMafia bool

	unlock := e.lockRoom(code)
	defer unlock()

	_, err := e.update(ctx, code, func(r *domain.Room) error {
		if r.Phase != domain.PhaseNight {
			return domain.ErrWrongPhase
		}
		actor := r.Member(playerID)
		if actor == nil {
			return domain.ErrNotMember
		}
		if !actor.Alive {
			return domain.ErrActorDead
		}
		if targetID == playerID {
			return domain.ErrSelfTarget
		}
		target := r.Member(targetID)
		if target == nil {
			return domain.ErrBadTarget
		}
		if !target.Alive {
			return domain.ErrTargetDead
		}

		switch kind {
		case domain.ActionKill:
			if actor.Role != domain.RoleMafia {
				return domain.ErrWrongRole
			}
			if r.MafiaActed {
				return domain.ErrAlreadyActed
			}
			r.KillTarget = targetID
			r.MafiaActed = true

		case domain.ActionHeal:
			if actor.Role != domain.RoleDoctor {
				return domain.ErrWrongRole
			}
			if r.DoctorActed {
				return domain.ErrAlreadyActed
			}
			r.HealTarget = targetID
			target.Protected = true
			r.DoctorActed = true

		case domain.ActionCheck:
			if actor.Role != domain.RoleDetective {
				return domain.ErrWrongRole
			}
			if r.DetectiveActed {
				return domain.ErrAlreadyActed
			}
			r.DetectiveActed = true
			isMafia = target.Role.Faction() == domain.FactionMafia

		default:
			return domain.ErrBadAction
		}
		return nil
	})
	if err != nil {
		return err
	}

	// подтверждения ночных действий никогда не уходят в комнату
	if kind == domain.ActionCheck {
		e.bc.EmitToPlayer(playerID, domain.EventCheckResult, map[string]any{
			"room":      code,
			"target_id": targetID,
			"is_mafia":  isMafia,
		})
	} else {
		e.bc.EmitToPlayer(playerID, domain.EventActionAccepted, map[string]any{
			"room":      code,
			"kind":      string(kind),
			"target_id": targetID,
		})
	}
	return nil
}

// CastVote записывает дневной голос живого игрока
func (e *SessionEngine) CastVote(ctx context.Context, code string, playerID, targetID int64) error {
	var count int

	unlock := e.lockRoom(code)
	defer unlock()

	_, err := e.update(ctx, code, func(r *domain.Room) error {
		if r.Phase != domain.PhaseDay {
			return domain.ErrWrongPhase
		}
		voter := r.Member(playerID)
		if voter == nil {
			return domain.ErrNotMember
		}
		if !voter.Alive {
			return domain.ErrActorDead
		}
		if voter.HasVoted {
			return domain.ErrAlreadyVoted
		}
		if targetID == playerID {
			return domain.ErrSelfTarget
		}
		target := r.Member(targetID)
		if target == nil {
			return domain.ErrBadTarget
		}
		if !target.Alive {
			return domain.ErrTargetDead
		}

		voter.HasVoted = true
		target.VoteCount++
		count = target.VoteCount
		return nil
	})
	if err != nil {
		return err
	}

	e.bc.EmitToRoom(code, domain.EventVoteRecorded, map[string]any{
		"target_id": targetID,
		"count":     count,
	})
	return nil
}

// HostSkipPhase - досрочное завершение фазы хостом: снимает естественный
// таймер и синхронно прогоняет тот же путь разрешения фазы
func (e *SessionEngine) HostSkipPhase(ctx context.Context, code string, playerID int64) error {
	room, err := e.store.FindByID(ctx, code)
	if err != nil {
		return err
	}
	if !room.HasMember(playerID) {
		return domain.ErrNotMember
	}
	if room.HostID != playerID {
		return domain.ErrNotHost
	}
	if room.Phase == domain.PhaseWaiting {
		return domain.ErrNoActiveTimer
	}

	if e.timers.ForceExpire(code) {
		return nil
	}
	// таймера нет (например, callback планировщика потерян) - комната
	// зависла в последней сохраненной фазе; продвигаем её по текущему
	// состоянию, защита от двойного продвижения та же
	logger.Warn("пропуск фазы без активного таймера", "room", code, "phase", room.Phase)
	e.handleDeadline(code, room.Phase, room.TurnCounter)
	return nil
}

// RoomState возвращает публичное состояние комнаты (роли скрыты)
func (e *SessionEngine) RoomState(ctx context.Context, code string) (map[string]any, error) {
	room, err := e.store.FindByID(ctx, code)
	if err != nil {
		return nil, err
	}
	state := room.PublicState()
	if left, ok := e.timers.Remaining(code); ok {
		state["remaining_sec"] = int(left.Seconds() + 0.5)
	}
	return state, nil
}

// RoomList возвращает карточки открытых комнат
func (e *SessionEngine) RoomList(ctx context.Context) ([]map[string]any, error) {
	rooms, err := e.store.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	list := make([]map[string]any, 0, len(rooms))
	for _, r := range rooms {
		list = append(list, r.Summary())
	}
	return list, nil
}

// handleDeadline - единственная автономная точка входа: сюда возвращается
// истекший таймер (или форс-скип хоста). Перед мутацией комната
// перечитывается и сверяется с фазой и ходом, для которых таймер
// планировался; устаревшее срабатывание молча отбрасывается.
func (e *SessionEngine) handleDeadline(code string, phase domain.Phase, turn int) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	unlock := e.lockRoom(code)
	defer unlock()

	for attempt := 0; ; attempt++ {
		room, err := e.store.FindByID(ctx, code)
		if err != nil {
			if errors.Is(err, domain.ErrRoomNotFound) {
				// комнату удалили между планированием и срабатыванием
				return
			}
			logger.Error("чтение комнаты при истечении таймера не удалось", "room", code, "error", err)
			return
		}
		if room.Phase != phase || room.TurnCounter != turn {
			logger.Debug("устаревший дедлайн", "room", code,
				"timer_phase", phase, "room_phase", room.Phase)
			return
		}

		var nightOut game.NightOutcome
		var eliminated int64

		switch phase {
		case domain.PhaseNight:
			nightOut = e.resolveNight(room)
		case domain.PhaseDay:
			eliminated = e.resolveDay(room)
		case domain.PhaseEnded:
			if room.EndPolicy == domain.EndPolicyClose {
				e.closeRoom(ctx, room)
				return
			}
			room.ResetForLobby()
		default:
			return
		}

		if err := e.store.Save(ctx, room); err != nil {
			if errors.Is(err, domain.ErrConflict) && attempt == 0 {
				continue
			}
			if errors.Is(err, domain.ErrRoomNotFound) {
				return
			}
			logger.Error("сохранение комнаты при смене фазы не удалось", "room", code, "error", err)
			return
		}

		e.announcePhase(room, phase, nightOut, eliminated)
		return
	}
}

// resolveNight разрешает ночь и решает, куда идти дальше
func (e *SessionEngine) resolveNight(room *domain.Room) game.NightOutcome {
	out := game.ResolveNight(room)

	if winner := game.EvaluateWinner(room); winner != "" {
		e.finishGame(room, winner)
		return out
	}
	room.Phase = domain.PhaseDay
	room.PhaseDeadline = time.Now().Add(e.cfg.DayDuration)
	return out
}

// resolveDay подводит итоги голосования
func (e *SessionEngine) resolveDay(room *domain.Room) (eliminated int64) {
	eliminated = game.ResolveVotes(room)

	if winner := game.EvaluateWinner(room); winner != "" {
		e.finishGame(room, winner)
		return eliminated
	}
	// полный цикл ночь+день завершен
	room.Phase = domain.PhaseNight
	room.TurnCounter++
	room.PhaseDeadline = time.Now().Add(e.cfg.NightDuration)
	return eliminated
}

// finishGame фиксирует победителя и ставит комнату в ENDED
func (e *SessionEngine) finishGame(room *domain.Room, winner domain.Faction) {
	room.Phase = domain.PhaseEnded
	room.Winner = winner
	room.EndedAt = time.Now()
	room.PhaseDeadline = time.Now().Add(e.cfg.EndedDuration)
}

// announcePhase рассылает итоги перехода фазы. Вызывается после
// успешного сохранения.
func (e *SessionEngine) announcePhase(room *domain.Room, from domain.Phase, nightOut game.NightOutcome, eliminated int64) {
	switch from {
	case domain.PhaseNight:
		payload := map[string]any{"turn": room.TurnCounter}
		if nightOut.VictimID != 0 {
			payload["victim_id"] = nightOut.VictimID
		}
		if nightOut.Saved {
			payload["saved"] = true
		}
		e.bc.EmitToRoom(room.Code, domain.EventNightResult, payload)
	case domain.PhaseDay:
		if eliminated != 0 {
			e.bc.EmitToRoom(room.Code, domain.EventPlayerListUpdated, room.PublicState())
		}
	}

	e.bc.EmitToRoom(room.Code, domain.EventPhaseChanged, map[string]any{
		"from": string(from),
		"to":   string(room.Phase),
		"turn": room.TurnCounter,
	})

	switch room.Phase {
	case domain.PhaseNight:
		e.timers.Start(room.Code, domain.PhaseNight, room.TurnCounter, e.cfg.NightDuration)
	case domain.PhaseDay:
		e.timers.Start(room.Code, domain.PhaseDay, room.TurnCounter, e.cfg.DayDuration)
	case domain.PhaseEnded:
		e.bc.EmitToRoom(room.Code, domain.EventGameEnded, map[string]any{
			"winner": string(room.Winner),
		})
		e.timers.Start(room.Code, domain.PhaseEnded, room.TurnCounter, e.cfg.EndedDuration)
		if e.matches != nil {
			go e.recordMatch(domain.MatchFromRoom(room))
		}
	case domain.PhaseWaiting:
		// политика reset вернула комнату в лобби
		e.bc.EmitToRoom(room.Code, domain.EventPlayerListUpdated, room.PublicState())
	}
}

// recordMatch пишет итог матча в историю вне критической секции
func (e *SessionEngine) recordMatch(rec *domain.MatchRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := e.matches.Record(ctx, rec); err != nil {
		logger.Error("запись истории матча не удалась", "room", rec.RoomCode, "error", err)
	}
}

// closeRoom удаляет комнату по политике close после ENDED
func (e *SessionEngine) closeRoom(ctx context.Context, room *domain.Room) {
	e.timers.Clear(room.Code)
	if err := e.store.DeleteByID(ctx, room.Code); err != nil {
		logger.Error("удаление комнаты не удалось", "room", room.Code, "error", err)
		return
	}
	e.bc.EmitToRoom(room.Code, domain.EventRoomClosed, map[string]any{"code": room.Code})
	e.bc.EmitGlobal(domain.EventRoomClosed, map[string]any{"code": room.Code})
	e.dropLock(room.Code)
	logger.Info("комната закрыта по окончании матча", "room", room.Code)
}

// CloseAbandoned удаляет давно заброшенную лобби-комнату (вызывается
// уборщиком). Комната, успевшая ожить, не трогается.
func (e *SessionEngine) CloseAbandoned(ctx context.Context, code string, cutoff time.Time) error {
	unlock := e.lockRoom(code)
	defer unlock()

	room, err := e.store.FindByID(ctx, code)
	if err != nil {
		return err
	}
	if room.Phase != domain.PhaseWaiting || !room.CreatedAt.Before(cutoff) {
		return nil
	}
	if err := e.store.DeleteByID(ctx, code); err != nil {
		return err
	}
	e.bc.EmitToRoom(code, domain.EventRoomClosed, map[string]any{"code": code})
	e.bc.EmitGlobal(domain.EventRoomClosed, map[string]any{"code": code})
	e.dropLock(code)
	logger.Info("заброшенная комната удалена", "room", code)
	return nil
}

// RestoreTimers восстанавливает дедлайны идущих матчей после рестарта
// процесса: дедлайн выводится из сохраненных фазы и phase_deadline,
// а не из потерянной внутрипроцессной памяти
func (e *SessionEngine) RestoreTimers(ctx context.Context) {
	rooms, err := e.store.ListActive(ctx)
	if err != nil {
		logger.Error("восстановление таймеров не удалось", "error", err)
		return
	}

	for _, room := range rooms {
		if room.PhaseDeadline.IsZero() {
			logger.Warn("активная комната без дедлайна фазы", "room", room.Code, "phase", room.Phase)
			continue
		}
		left := time.Until(room.PhaseDeadline)
		if left <= 0 {
			// дедлайн прошел, пока процесс лежал - разрешаем фазу сразу
			go e.handleDeadline(room.Code, room.Phase, room.TurnCounter)
			continue
		}
		e.timers.Start(room.Code, room.Phase, room.TurnCounter, left)
		logger.Info("таймер фазы восстановлен", "room", room.Code,
			"phase", room.Phase, "remaining", left)
	}
}
