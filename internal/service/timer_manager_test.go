package service

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"mafia_webapp/internal/domain"
)

func TestTimerFiresWithScheduledPhase(t *testing.T) {
	tm := NewTimerManager(false)

	var mu sync.Mutex
	var fired []domain.Phase
	done := make(chan struct{})
	tm.SetExpireHandler(func(code string, phase domain.Phase, turn int) {
		mu.Lock()
		fired = append(fired, phase)
		mu.Unlock()
		close(done)
	})

	tm.Start("ROOM01", domain.PhaseNight, 1, 20*time.Millisecond)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("таймер не сработал")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(fired) != 1 || fired[0] != domain.PhaseNight {
		t.Fatalf("ожидалось одно срабатывание для NIGHT, получено %v", fired)
	}
	if _, ok := tm.Remaining("ROOM01"); ok {
		t.Fatal("сработавший таймер должен быть снят")
	}
}

func TestStart_ReplacesPreviousTimer(t *testing.T) {
	// повторный Start той же комнаты снимает прежний дедлайн:
	// стреляет только второй
	tm := NewTimerManager(false)

	var count int32
	var lastPhase atomic.Value
	done := make(chan struct{})
	tm.SetExpireHandler(func(code string, phase domain.Phase, turn int) {
		atomic.AddInt32(&count, 1)
		lastPhase.Store(phase)
		close(done)
	})

	tm.Start("ROOM02", domain.PhaseNight, 1, 10*time.Millisecond)
	tm.Start("ROOM02", domain.PhaseDay, 1, 40*time.Millisecond)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("таймер не сработал")
	}
	time.Sleep(50 * time.Millisecond)

	if n := atomic.LoadInt32(&count); n != 1 {
		t.Fatalf("ожидалось ровно одно срабатывание, получено %d", n)
	}
	if lastPhase.Load() != domain.PhaseDay {
		t.Fatalf("сработал перезаписанный таймер: %v", lastPhase.Load())
	}
}

func TestClear_CancelsPendingTimer(t *testing.T) {
	tm := NewTimerManager(false)

	var count int32
	tm.SetExpireHandler(func(code string, phase domain.Phase, turn int) {
		atomic.AddInt32(&count, 1)
	})

	tm.Start("ROOM03", domain.PhaseDay, 2, 20*time.Millisecond)
	tm.Clear("ROOM03")

	if _, ok := tm.Remaining("ROOM03"); ok {
		t.Fatal("после Clear таймер все еще числится активным")
	}

	time.Sleep(60 * time.Millisecond)
	if n := atomic.LoadInt32(&count); n != 0 {
		t.Fatalf("снятый таймер сработал %d раз", n)
	}

	// повторный Clear безопасен
	tm.Clear("ROOM03")
}

func TestForceExpire_RunsHandlerExactlyOnce(t *testing.T) {
	tm := NewTimerManager(false)

	var count int32
	tm.SetExpireHandler(func(code string, phase domain.Phase, turn int) {
		atomic.AddInt32(&count, 1)
	})

	tm.Start("ROOM04", domain.PhaseNight, 3, 30*time.Millisecond)

	if !tm.ForceExpire("ROOM04") {
		t.Fatal("ForceExpire не нашел активный таймер")
	}
	if n := atomic.LoadInt32(&count); n != 1 {
		t.Fatalf("после форс-скипа ожидался один вызов обработчика, получено %d", n)
	}

	// естественное срабатывание снятого таймера не должно добавиться
	time.Sleep(60 * time.Millisecond)
	if n := atomic.LoadInt32(&count); n != 1 {
		t.Fatalf("фаза разрешена дважды: %d вызовов", n)
	}

	if tm.ForceExpire("ROOM04") {
		t.Fatal("повторный ForceExpire должен вернуть false")
	}
}

func TestRemaining_CountsDown(t *testing.T) {
	tm := NewTimerManager(false)
	tm.SetExpireHandler(func(string, domain.Phase, int) {})

	tm.Start("ROOM05", domain.PhaseDay, 1, time.Minute)

	left, ok := tm.Remaining("ROOM05")
	if !ok {
		t.Fatal("активный таймер не найден")
	}
	if left <= 0 || left > time.Minute {
		t.Fatalf("остаток вне диапазона: %v", left)
	}

	if _, ok := tm.Remaining("NOROOM"); ok {
		t.Fatal("Remaining нашел таймер несуществующей комнаты")
	}
}
