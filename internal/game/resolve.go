package game

import "mafia_webapp/internal/domain"

// NightOutcome - итог разрешения ночи
type NightOutcome struct {
	VictimID int64 // 0 - никто не погиб
	Saved    bool  // убийство было, но цель защищена доктором
}

// ResolveNight применяет накопленные ночные действия к комнате.
// Убийство срабатывает, если цель жива и не защищена; защита в любом
// случае снимается, ночная бухгалтерия обнуляется.
func ResolveNight(room *domain.Room) NightOutcome {
	var out NightOutcome

	if room.KillTarget != 0 {
		target := room.Member(room.KillTarget)
		if target != nil && target.Alive {
			if target.Protected || room.HealTarget == room.KillTarget {
				out.Saved = true
			} else {
				target.Alive = false
				out.VictimID = target.PlayerID
			}
		}
	}

	room.ResetNightState()
	return out
}

// ResolveVotes подводит итоги дневного голосования. Казнен игрок со
// строго наибольшим числом голосов; при ничьей не погибает никто.
// Состояние голосования обнуляется независимо от исхода.
func ResolveVotes(room *domain.Room) (eliminatedID int64) {
	maxVotes := 0
	candidates := 0
	var leader *domain.Member

	for _, m := range room.Members {
		if m.VoteCount == 0 {
			continue
		}
		switch {
		case m.VoteCount > maxVotes:
			maxVotes = m.VoteCount
			candidates = 1
			leader = m
		case m.VoteCount == maxVotes:
			candidates++
		}
	}

	if candidates == 1 && leader != nil && leader.Alive {
		leader.Alive = false
		eliminatedID = leader.PlayerID
	}

	room.ResetVotes()
	return eliminatedID
}
