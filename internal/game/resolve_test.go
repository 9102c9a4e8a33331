package game

import (
	"testing"

	"mafia_webapp/internal/domain"
)

func testRoom(roles ...domain.Role) *domain.Room {
	room := &domain.Room{Code: "TEST01", Phase: domain.PhaseNight}
	for i, r := range roles {
		room.Members = append(room.Members, &domain.Member{
			PlayerID: int64(i + 1),
			Alive:    true,
			Role:     r,
		})
	}
	if len(room.Members) > 0 {
		room.HostID = room.Members[0].PlayerID
	}
	return room
}

func TestResolveNight_KillSucceeds(t *testing.T) {
	room := testRoom(domain.RoleMafia, domain.RoleDoctor, domain.RoleVillager)
	room.KillTarget = 2
	room.MafiaActed = true

	out := ResolveNight(room)

	if out.VictimID != 2 || out.Saved {
		t.Fatalf("ожидалась гибель игрока 2, получено victim=%d saved=%v", out.VictimID, out.Saved)
	}
	if room.Member(2).Alive {
		t.Fatal("цель убийства осталась жива")
	}
	if room.KillTarget != 0 || room.MafiaActed {
		t.Fatal("ночная бухгалтерия не сброшена")
	}
}

func TestResolveNight_ProtectionNegatesKill(t *testing.T) {
	room := testRoom(domain.RoleMafia, domain.RoleDoctor, domain.RoleVillager)
	room.KillTarget = 3
	room.HealTarget = 3
	room.Member(3).Protected = true

	out := ResolveNight(room)

	if !out.Saved || out.VictimID != 0 {
		t.Fatalf("ожидалось спасение, получено victim=%d saved=%v", out.VictimID, out.Saved)
	}
	if !room.Member(3).Alive {
		t.Fatal("защищенный игрок погиб")
	}
	for _, m := range room.Members {
		if m.Protected {
			t.Fatalf("защита игрока %d не снята после ночи", m.PlayerID)
		}
	}
}

func TestResolveNight_ProtectionClearedEvenWithoutKill(t *testing.T) {
	room := testRoom(domain.RoleMafia, domain.RoleDoctor, domain.RoleVillager)
	room.HealTarget = 1
	room.Member(1).Protected = true

	out := ResolveNight(room)

	if out.VictimID != 0 || out.Saved {
		t.Fatalf("без убийства исход должен быть пустым: %+v", out)
	}
	if room.Member(1).Protected {
		t.Fatal("защита должна сниматься в конце каждой ночи")
	}
}

func TestResolveNight_DeadTargetIgnored(t *testing.T) {
	room := testRoom(domain.RoleMafia, domain.RoleVillager, domain.RoleVillager)
	room.Member(2).Alive = false
	room.KillTarget = 2

	out := ResolveNight(room)
	if out.VictimID != 0 {
		t.Fatalf("повторное убийство мертвого: %+v", out)
	}
}

func TestResolveVotes_StrictLeaderEliminated(t *testing.T) {
	room := testRoom(domain.RoleMafia, domain.RoleVillager, domain.RoleVillager, domain.RoleVillager)
	room.Member(1).VoteCount = 3
	room.Member(2).VoteCount = 1
	for _, m := range room.Members {
		m.HasVoted = true
	}

	eliminated := ResolveVotes(room)

	if eliminated != 1 {
		t.Fatalf("ожидалась казнь игрока 1, получено %d", eliminated)
	}
	if room.Member(1).Alive {
		t.Fatal("казненный остался жив")
	}
	for _, m := range room.Members {
		if m.HasVoted || m.VoteCount != 0 {
			t.Fatalf("состояние голосования игрока %d не сброшено", m.PlayerID)
		}
	}
}

func TestResolveVotes_TieEliminatesNobody(t *testing.T) {
	room := testRoom(domain.RoleMafia, domain.RoleVillager)
	room.Member(1).VoteCount = 1
	room.Member(2).VoteCount = 1

	eliminated := ResolveVotes(room)

	if eliminated != 0 {
		t.Fatalf("при ничьей никто не должен погибать, казнен %d", eliminated)
	}
	for _, m := range room.Members {
		if !m.Alive {
			t.Fatalf("игрок %d погиб при ничьей", m.PlayerID)
		}
		if m.VoteCount != 0 {
			t.Fatal("голоса не обнулены после ничьей")
		}
	}
}

func TestResolveVotes_NoVotes(t *testing.T) {
	room := testRoom(domain.RoleMafia, domain.RoleVillager, domain.RoleVillager)
	if eliminated := ResolveVotes(room); eliminated != 0 {
		t.Fatalf("без голосов казнен %d", eliminated)
	}
}
