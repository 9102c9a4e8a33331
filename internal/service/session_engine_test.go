package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"mafia_webapp/internal/config"
	"mafia_webapp/internal/domain"
)

// memStore - хранилище комнат в памяти для тестов движка. Как и боевой
// стор, отдает копии документов и проверяет версию при сохранении.
type memStore struct {
	mu    sync.Mutex
	rooms map[string]*domain.Room
}

func newMemStore() *memStore {
	return &memStore{rooms: make(map[string]*domain.Room)}
}

func copyRoom(r *domain.Room) *domain.Room {
	data, _ := json.Marshal(r)
	var c domain.Room
	_ = json.Unmarshal(data, &c)
	return &c
}

func (s *memStore) FindByID(_ context.Context, code string) (*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.rooms[code]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return copyRoom(r), nil
}

func (s *memStore) FindByMember(_ context.Context, playerID int64) ([]*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.Room
	for _, r := range s.rooms {
		if r.HasMember(playerID) {
			result = append(result, copyRoom(r))
		}
	}
	return result, nil
}

func (s *memStore) ListOpen(_ context.Context) ([]*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.Room
	for _, r := range s.rooms {
		if r.Phase == domain.PhaseWaiting {
			result = append(result, copyRoom(r))
		}
	}
	return result, nil
}

func (s *memStore) ListActive(_ context.Context) ([]*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.Room
	for _, r := range s.rooms {
		if r.Phase != domain.PhaseWaiting {
			result = append(result, copyRoom(r))
		}
	}
	return result, nil
}

func (s *memStore) FindAbandoned(_ context.Context, cutoff time.Time) ([]*domain.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []*domain.Room
	for _, r := range s.rooms {
		if r.Phase == domain.PhaseWaiting && r.CreatedAt.Before(cutoff) {
			result = append(result, copyRoom(r))
		}
	}
	return result, nil
}

func (s *memStore) Insert(_ context.Context, room *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rooms[room.Code]; ok {
		return errors.New("код комнаты занят")
	}
	room.Version = 1
	room.CreatedAt = time.Now()
	s.rooms[room.Code] = copyRoom(room)
	return nil
}

func (s *memStore) Save(_ context.Context, room *domain.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rooms[room.Code]
	if !ok {
		return domain.ErrRoomNotFound
	}
	if cur.Version != room.Version {
		return domain.ErrConflict
	}
	room.Version++
	s.rooms[room.Code] = copyRoom(room)
	return nil
}

func (s *memStore) DeleteByID(_ context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rooms, code)
	return nil
}

// fakeBroadcaster записывает все рассылки для проверок
type fakeBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

type recordedEvent struct {
	Scope    string // "room", "player", "global"
	Room     string
	PlayerID int64
	Event    string
	Payload  any
}

func (b *fakeBroadcaster) EmitToRoom(code, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{Scope: "room", Room: code, Event: event, Payload: payload})
}

func (b *fakeBroadcaster) EmitToPlayer(playerID int64, event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{Scope: "player", PlayerID: playerID, Event: event, Payload: payload})
}

func (b *fakeBroadcaster) EmitGlobal(event string, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{Scope: "global", Event: event, Payload: payload})
}

func (b *fakeBroadcaster) byEvent(event string) []recordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	var result []recordedEvent
	for _, e := range b.events {
		if e.Event == event {
			result = append(result, e)
		}
	}
	return result
}

func testConfig() *config.Config {
	return &config.Config{
		MinPlayers:    3,
		MaxPlayers:    12,
		NightDuration: time.Minute,
		DayDuration:   time.Minute,
		EndedDuration: time.Minute,
		EndPolicy:     "reset",
		TimerTicks:    false,
	}
}

func newTestEngine(t *testing.T, cfg *config.Config) (*SessionEngine, *memStore, *fakeBroadcaster) {
	t.Helper()
	if cfg == nil {
		cfg = testConfig()
	}
	store := newMemStore()
	bc := &fakeBroadcaster{}
	engine := NewSessionEngine(store, cfg)
	engine.SetBroadcaster(bc)
	return engine, store, bc
}

func mustCreateRoom(t *testing.T, e *SessionEngine) *domain.Room {
	t.Helper()
	room, err := e.CreateRoom(context.Background(), 1, "Хост", "Вечерняя мафия", "")
	if err != nil {
		t.Fatalf("создание комнаты: %v", err)
	}
	return room
}

// seedRoom кладет комнату с нужной фазой и ролями прямо в стор
func seedRoom(t *testing.T, store *memStore, code string, phase domain.Phase, turn int, roles map[int64]domain.Role) *domain.Room {
	t.Helper()
	room := &domain.Room{
		Code:        code,
		Name:        "тест",
		Phase:       phase,
		TurnCounter: turn,
		EndPolicy:   domain.EndPolicyReset,
	}
	first := true
	for id := int64(1); id <= int64(len(roles)); id++ {
		role := roles[id]
		room.Members = append(room.Members, &domain.Member{
			PlayerID: id, Name: "p", Alive: true, Role: role,
		})
		if first {
			room.HostID = id
			first = false
		}
	}
	if err := store.Insert(context.Background(), room); err != nil {
		t.Fatalf("подготовка комнаты: %v", err)
	}
	return room
}

func TestCreateJoinReady_StartsNight(t *testing.T) {
	e, store, bc := newTestEngine(t, nil)
	ctx := context.Background()

	room := mustCreateRoom(t, e)
	code := room.Code

	if _, err := e.JoinRoom(ctx, code, 2, "Второй"); err != nil {
		t.Fatalf("вход игрока 2: %v", err)
	}
	if _, err := e.JoinRoom(ctx, code, 3, "Третий"); err != nil {
		t.Fatalf("вход игрока 3: %v", err)
	}

	for _, id := range []int64{1, 2, 3} {
		if _, err := e.ToggleReady(ctx, code, id); err != nil {
			t.Fatalf("готовность игрока %d: %v", id, err)
		}
	}

	saved, err := store.FindByID(ctx, code)
	if err != nil {
		t.Fatalf("чтение комнаты: %v", err)
	}
	if saved.Phase != domain.PhaseNight {
		t.Fatalf("ожидалась фаза NIGHT, получена %s", saved.Phase)
	}
	if saved.TurnCounter != 1 {
		t.Fatalf("ожидался ход 1, получен %d", saved.TurnCounter)
	}

	// состав ролей на троих: мафия, доктор, мирный
	counts := map[domain.Role]int{}
	for _, m := range saved.Members {
		counts[m.Role]++
	}
	if counts[domain.RoleMafia] != 1 || counts[domain.RoleDoctor] != 1 || counts[domain.RoleVillager] != 1 {
		t.Fatalf("неверный состав ролей: %v", counts)
	}

	// роли ушли только личными событиями
	roleEvents := bc.byEvent(domain.EventYourRole)
	if len(roleEvents) != 3 {
		t.Fatalf("ожидалось 3 события your_role, получено %d", len(roleEvents))
	}
	for _, ev := range roleEvents {
		if ev.Scope != "player" {
			t.Fatal("your_role ушло не личным событием")
		}
	}

	if _, ok := e.Timers().Remaining(code); !ok {
		t.Fatal("после старта матча нет активного таймера ночи")
	}
}

func TestLeaveOfLastNotReadyMember_StartsGame(t *testing.T) {
	// условие старта проверяется на любой мутации лобби: уход
	// единственного не готового игрока запускает матч без повторного
	// переключения готовности
	e, store, bc := newTestEngine(t, nil)
	ctx := context.Background()

	room := mustCreateRoom(t, e)
	code := room.Code
	for id := int64(2); id <= 4; id++ {
		if _, err := e.JoinRoom(ctx, code, id, "Игрок"); err != nil {
			t.Fatal(err)
		}
	}

	// готовы все, кроме четвертого
	for _, id := range []int64{1, 2, 3} {
		if _, err := e.ToggleReady(ctx, code, id); err != nil {
			t.Fatalf("готовность игрока %d: %v", id, err)
		}
	}
	saved, _ := store.FindByID(ctx, code)
	if saved.Phase != domain.PhaseWaiting {
		t.Fatalf("матч не должен начаться c не готовым игроком, фаза %s", saved.Phase)
	}

	if err := e.LeaveRoom(ctx, code, 4); err != nil {
		t.Fatalf("выход игрока 4: %v", err)
	}

	saved, _ = store.FindByID(ctx, code)
	if saved.Phase != domain.PhaseNight {
		t.Fatalf("после ухода не готового ожидалась NIGHT, получена %s", saved.Phase)
	}
	if saved.TurnCounter != 1 {
		t.Fatalf("ожидался ход 1, получен %d", saved.TurnCounter)
	}
	for _, m := range saved.Members {
		if m.Role == "" {
			t.Fatalf("игрок %d остался без роли", m.PlayerID)
		}
	}
	if len(bc.byEvent(domain.EventYourRole)) != 3 {
		t.Fatalf("ожидалось 3 события your_role, получено %d",
			len(bc.byEvent(domain.EventYourRole)))
	}
	if _, ok := e.Timers().Remaining(code); !ok {
		t.Fatal("после старта матча нет активного таймера ночи")
	}
}

func TestNightResolution_KillWithoutHeal(t *testing.T) {
	// сценарий: мафия убивает доктора, доктор не лечился
	e, store, _ := newTestEngine(t, nil)
	ctx := context.Background()

	seedRoom(t, store, "NIGHT1", domain.PhaseNight, 1, map[int64]domain.Role{
		1: domain.RoleMafia, 2: domain.RoleDoctor, 3: domain.RoleVillager,
	})

	if err := e.SubmitNightAction(ctx, "NIGHT1", 1, domain.ActionKill, 2); err != nil {
		t.Fatalf("ночное действие мафии: %v", err)
	}

	e.handleDeadline("NIGHT1", domain.PhaseNight, 1)

	saved, _ := store.FindByID(ctx, "NIGHT1")
	if saved.Member(2).Alive {
		t.Fatal("доктор должен был погибнуть")
	}
	// 1 мафия против 1 мирного - матч продолжается
	if saved.Phase != domain.PhaseDay {
		t.Fatalf("ожидалась фаза DAY, получена %s", saved.Phase)
	}
}

func TestNightResolution_HealSavesTarget(t *testing.T) {
	e, store, bc := newTestEngine(t, nil)
	ctx := context.Background()

	seedRoom(t, store, "NIGHT2", domain.PhaseNight, 1, map[int64]domain.Role{
		1: domain.RoleMafia, 2: domain.RoleDoctor, 3: domain.RoleVillager,
	})

	if err := e.SubmitNightAction(ctx, "NIGHT2", 2, domain.ActionHeal, 3); err != nil {
		t.Fatalf("лечение: %v", err)
	}
	if err := e.SubmitNightAction(ctx, "NIGHT2", 1, domain.ActionKill, 3); err != nil {
		t.Fatalf("убийство: %v", err)
	}

	e.handleDeadline("NIGHT2", domain.PhaseNight, 1)

	saved, _ := store.FindByID(ctx, "NIGHT2")
	if !saved.Member(3).Alive {
		t.Fatal("защищенный игрок погиб")
	}
	results := bc.byEvent(domain.EventNightResult)
	if len(results) != 1 {
		t.Fatalf("ожидалось 1 событие night_result, получено %d", len(results))
	}
	payload := results[0].Payload.(map[string]any)
	if payload["saved"] != true {
		t.Fatalf("в night_result нет отметки о спасении: %v", payload)
	}
}

func TestDayTie_ReturnsToNightWithTurnIncrement(t *testing.T) {
	// двое живых голосуют друг за друга - ничья, никто не казнен,
	// комната уходит в следующую ночь
	e, store, _ := newTestEngine(t, nil)
	ctx := context.Background()

	seedRoom(t, store, "DAY001", domain.PhaseDay, 1, map[int64]domain.Role{
		1: domain.RoleMafia, 2: domain.RoleVillager,
	})

	if err := e.CastVote(ctx, "DAY001", 1, 2); err != nil {
		t.Fatalf("голос игрока 1: %v", err)
	}
	if err := e.CastVote(ctx, "DAY001", 2, 1); err != nil {
		t.Fatalf("голос игрока 2: %v", err)
	}

	e.handleDeadline("DAY001", domain.PhaseDay, 1)

	saved, _ := store.FindByID(ctx, "DAY001")
	for _, m := range saved.Members {
		if !m.Alive {
			t.Fatalf("игрок %d казнен при ничьей", m.PlayerID)
		}
		if m.HasVoted || m.VoteCount != 0 {
			t.Fatal("состояние голосования не сброшено")
		}
	}
	if saved.Phase != domain.PhaseNight {
		t.Fatalf("ожидался возврат в NIGHT, фаза %s", saved.Phase)
	}
	if saved.TurnCounter != 2 {
		t.Fatalf("счетчик ходов должен вырасти до 2, получен %d", saved.TurnCounter)
	}
}

func TestDayMajority_EliminatesAndEndsGame(t *testing.T) {
	e, store, bc := newTestEngine(t, nil)
	ctx := context.Background()

	seedRoom(t, store, "DAY002", domain.PhaseDay, 2, map[int64]domain.Role{
		1: domain.RoleMafia, 2: domain.RoleVillager, 3: domain.RoleVillager,
	})

	// мирные вычислили мафию
	if err := e.CastVote(ctx, "DAY002", 2, 1); err != nil {
		t.Fatal(err)
	}
	if err := e.CastVote(ctx, "DAY002", 3, 1); err != nil {
		t.Fatal(err)
	}

	e.handleDeadline("DAY002", domain.PhaseDay, 2)

	saved, _ := store.FindByID(ctx, "DAY002")
	if saved.Member(1).Alive {
		t.Fatal("мафия должна быть казнена")
	}
	if saved.Phase != domain.PhaseEnded || saved.Winner != domain.FactionVillagers {
		t.Fatalf("ожидалась победа мирных, фаза=%s winner=%s", saved.Phase, saved.Winner)
	}

	ended := bc.byEvent(domain.EventGameEnded)
	if len(ended) != 1 {
		t.Fatalf("ожидалось 1 событие game_ended, получено %d", len(ended))
	}
}

func TestVoteValidation(t *testing.T) {
	e, store, _ := newTestEngine(t, nil)
	ctx := context.Background()

	seedRoom(t, store, "VOTE01", domain.PhaseDay, 1, map[int64]domain.Role{
		1: domain.RoleMafia, 2: domain.RoleVillager, 3: domain.RoleVillager,
	})

	if err := e.CastVote(ctx, "VOTE01", 1, 1); !errors.Is(err, domain.ErrSelfTarget) {
		t.Fatalf("голос за себя: ожидалась ErrSelfTarget, получено %v", err)
	}
	if err := e.CastVote(ctx, "VOTE01", 1, 2); err != nil {
		t.Fatalf("первый голос: %v", err)
	}
	if err := e.CastVote(ctx, "VOTE01", 1, 3); !errors.Is(err, domain.ErrAlreadyVoted) {
		t.Fatalf("повторный голос: ожидалась ErrAlreadyVoted, получено %v", err)
	}
	if err := e.CastVote(ctx, "VOTE01", 9, 2); !errors.Is(err, domain.ErrNotMember) {
		t.Fatalf("голос чужака: ожидалась ErrNotMember, получено %v", err)
	}
}

func TestNightActionValidation(t *testing.T) {
	e, store, _ := newTestEngine(t, nil)
	ctx := context.Background()

	seedRoom(t, store, "ACT001", domain.PhaseNight, 1, map[int64]domain.Role{
		1: domain.RoleMafia, 2: domain.RoleDoctor, 3: domain.RoleVillager,
	})

	if err := e.SubmitNightAction(ctx, "ACT001", 3, domain.ActionKill, 1); !errors.Is(err, domain.ErrWrongRole) {
		t.Fatalf("убийство мирным: ожидалась ErrWrongRole, получено %v", err)
	}
	if err := e.SubmitNightAction(ctx, "ACT001", 1, domain.ActionKill, 1); !errors.Is(err, domain.ErrSelfTarget) {
		t.Fatalf("самоубийство: ожидалась ErrSelfTarget, получено %v", err)
	}
	if err := e.SubmitNightAction(ctx, "ACT001", 1, domain.ActionKill, 3); err != nil {
		t.Fatalf("первое действие: %v", err)
	}
	if err := e.SubmitNightAction(ctx, "ACT001", 1, domain.ActionKill, 2); !errors.Is(err, domain.ErrAlreadyActed) {
		t.Fatalf("повторное действие: ожидалась ErrAlreadyActed, получено %v", err)
	}
}

func TestDetectiveCheck_ImmediatePrivateResult(t *testing.T) {
	e, store, bc := newTestEngine(t, nil)
	ctx := context.Background()

	seedRoom(t, store, "CHK001", domain.PhaseNight, 1, map[int64]domain.Role{
		1: domain.RoleMafia, 2: domain.RoleDetective, 3: domain.RoleVillager,
	})

	if err := e.SubmitNightAction(ctx, "CHK001", 2, domain.ActionCheck, 1); err != nil {
		t.Fatalf("проверка детектива: %v", err)
	}

	results := bc.byEvent(domain.EventCheckResult)
	if len(results) != 1 {
		t.Fatalf("ожидался 1 ответ детективу, получено %d", len(results))
	}
	if results[0].Scope != "player" || results[0].PlayerID != 2 {
		t.Fatal("ответ детектива ушел не детективу")
	}
	payload := results[0].Payload.(map[string]any)
	if payload["is_mafia"] != true {
		t.Fatalf("проверка мафии должна вернуть true: %v", payload)
	}

	// проверка одноразовая
	if err := e.SubmitNightAction(ctx, "CHK001", 2, domain.ActionCheck, 3); !errors.Is(err, domain.ErrAlreadyActed) {
		t.Fatalf("повторная проверка: ожидалась ErrAlreadyActed, получено %v", err)
	}
}

func TestHostSuccession(t *testing.T) {
	e, store, _ := newTestEngine(t, nil)
	ctx := context.Background()

	room := mustCreateRoom(t, e)
	code := room.Code
	if _, err := e.JoinRoom(ctx, code, 2, "Второй"); err != nil {
		t.Fatal(err)
	}
	if _, err := e.JoinRoom(ctx, code, 3, "Третий"); err != nil {
		t.Fatal(err)
	}

	if err := e.LeaveRoom(ctx, code, 1); err != nil {
		t.Fatalf("выход хоста: %v", err)
	}

	saved, _ := store.FindByID(ctx, code)
	if saved.HostID != 2 {
		t.Fatalf("хостом должен стать самый ранний из оставшихся (2), стал %d", saved.HostID)
	}
}

func TestLeaveLastMember_DeletesRoom(t *testing.T) {
	e, store, bc := newTestEngine(t, nil)
	ctx := context.Background()

	room := mustCreateRoom(t, e)

	if err := e.LeaveRoom(ctx, room.Code, 1); err != nil {
		t.Fatalf("выход последнего игрока: %v", err)
	}

	if _, err := store.FindByID(ctx, room.Code); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatal("пустая комната не удалена")
	}
	if len(bc.byEvent(domain.EventRoomClosed)) == 0 {
		t.Fatal("room_closed не разослан")
	}
}

func TestJoinWrongPhase(t *testing.T) {
	e, store, _ := newTestEngine(t, nil)
	ctx := context.Background()

	seedRoom(t, store, "NIGHT9", domain.PhaseNight, 1, map[int64]domain.Role{
		1: domain.RoleMafia, 2: domain.RoleVillager, 3: domain.RoleVillager,
	})

	if _, err := e.JoinRoom(ctx, "NIGHT9", 7, "Опоздавший"); !errors.Is(err, domain.ErrWrongPhase) {
		t.Fatalf("вход в идущий матч: ожидалась ErrWrongPhase, получено %v", err)
	}
}

func TestStaleDeadline_SilentlyIgnored(t *testing.T) {
	e, store, bc := newTestEngine(t, nil)
	ctx := context.Background()

	seedRoom(t, store, "STALE1", domain.PhaseDay, 2, map[int64]domain.Role{
		1: domain.RoleMafia, 2: domain.RoleVillager, 3: domain.RoleVillager,
	})

	before, _ := store.FindByID(ctx, "STALE1")
	// таймер был заведен на прошлую ночь - срабатывание должно молча
	// отброситься
	e.handleDeadline("STALE1", domain.PhaseNight, 1)

	after, _ := store.FindByID(ctx, "STALE1")
	if after.Phase != before.Phase || after.TurnCounter != before.TurnCounter {
		t.Fatal("устаревший дедлайн продвинул фазу")
	}
	if len(bc.byEvent(domain.EventPhaseChanged)) != 0 {
		t.Fatal("устаревший дедлайн разослал события")
	}
}

func TestHostSkipPhase(t *testing.T) {
	e, store, _ := newTestEngine(t, nil)
	ctx := context.Background()

	seedRoom(t, store, "SKIP01", domain.PhaseNight, 1, map[int64]domain.Role{
		1: domain.RoleMafia, 2: domain.RoleDoctor, 3: domain.RoleVillager,
	})
	e.Timers().Start("SKIP01", domain.PhaseNight, 1, time.Minute)

	if err := e.HostSkipPhase(ctx, "SKIP01", 2); !errors.Is(err, domain.ErrNotHost) {
		t.Fatalf("скип не хостом: ожидалась ErrNotHost, получено %v", err)
	}

	if err := e.HostSkipPhase(ctx, "SKIP01", 1); err != nil {
		t.Fatalf("скип хостом: %v", err)
	}

	saved, _ := store.FindByID(ctx, "SKIP01")
	if saved.Phase != domain.PhaseDay {
		t.Fatalf("после скипа ночи ожидалась DAY, получена %s", saved.Phase)
	}
}

func TestEndedPolicyReset_ReturnsToLobby(t *testing.T) {
	e, store, _ := newTestEngine(t, nil)
	ctx := context.Background()

	room := seedRoom(t, store, "END001", domain.PhaseEnded, 3, map[int64]domain.Role{
		1: domain.RoleMafia, 2: domain.RoleVillager, 3: domain.RoleVillager,
	})
	room.Winner = domain.FactionMafia
	room.Member(2).Alive = false
	if err := store.Save(ctx, room); err != nil {
		t.Fatal(err)
	}

	e.handleDeadline("END001", domain.PhaseEnded, 3)

	saved, _ := store.FindByID(ctx, "END001")
	if saved.Phase != domain.PhaseWaiting {
		t.Fatalf("политика reset: ожидалась WAITING, получена %s", saved.Phase)
	}
	if saved.Winner != "" {
		t.Fatal("winner должен очищаться вне ENDED")
	}
	for _, m := range saved.Members {
		if !m.Alive || m.Ready || m.Role != "" {
			t.Fatalf("участник %d не сброшен для лобби: %+v", m.PlayerID, m)
		}
	}
}

func TestEndedPolicyClose_DeletesRoom(t *testing.T) {
	e, store, bc := newTestEngine(t, nil)
	ctx := context.Background()

	room := seedRoom(t, store, "END002", domain.PhaseEnded, 3, map[int64]domain.Role{
		1: domain.RoleMafia, 2: domain.RoleVillager, 3: domain.RoleVillager,
	})
	room.Winner = domain.FactionMafia
	room.EndPolicy = domain.EndPolicyClose
	if err := store.Save(ctx, room); err != nil {
		t.Fatal(err)
	}

	e.handleDeadline("END002", domain.PhaseEnded, 3)

	if _, err := store.FindByID(ctx, "END002"); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatal("политика close: комната не удалена")
	}
	if len(bc.byEvent(domain.EventRoomClosed)) == 0 {
		t.Fatal("room_closed не разослан")
	}
}

func TestHostInvariant_AfterEveryMutation(t *testing.T) {
	// hostId всегда принадлежит текущему участнику, либо комната пуста
	// и удалена
	e, store, _ := newTestEngine(t, nil)
	ctx := context.Background()

	room := mustCreateRoom(t, e)
	code := room.Code
	for id := int64(2); id <= 5; id++ {
		if _, err := e.JoinRoom(ctx, code, id, "Игрок"); err != nil {
			t.Fatal(err)
		}
	}

	for _, leaver := range []int64{1, 3, 2, 5} {
		if err := e.LeaveRoom(ctx, code, leaver); err != nil {
			t.Fatalf("выход игрока %d: %v", leaver, err)
		}
		saved, err := store.FindByID(ctx, code)
		if err != nil {
			t.Fatalf("комната исчезла раньше времени: %v", err)
		}
		if !saved.HasMember(saved.HostID) {
			t.Fatalf("хост %d не участник после выхода %d", saved.HostID, leaver)
		}
	}

	// последний выходит - комната удаляется
	if err := e.LeaveRoom(ctx, code, 4); err != nil {
		t.Fatal(err)
	}
	if _, err := store.FindByID(ctx, code); !errors.Is(err, domain.ErrRoomNotFound) {
		t.Fatal("опустевшая комната не удалена")
	}
}

func TestRestoreTimers_ReschedulesFromPersistedDeadline(t *testing.T) {
	e, store, _ := newTestEngine(t, nil)
	ctx := context.Background()

	room := seedRoom(t, store, "RST001", domain.PhaseNight, 1, map[int64]domain.Role{
		1: domain.RoleMafia, 2: domain.RoleDoctor, 3: domain.RoleVillager,
	})
	room.PhaseDeadline = time.Now().Add(time.Minute)
	if err := store.Save(ctx, room); err != nil {
		t.Fatal(err)
	}

	e.RestoreTimers(ctx)

	left, ok := e.Timers().Remaining("RST001")
	if !ok {
		t.Fatal("таймер не восстановлен из сохраненного дедлайна")
	}
	if left > time.Minute || left < 50*time.Second {
		t.Fatalf("восстановленный остаток неправдоподобен: %v", left)
	}
}
