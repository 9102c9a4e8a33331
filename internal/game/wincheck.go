package game

import "mafia_webapp/internal/domain"

// EvaluateWinner смотрит на живой состав и объявляет победившую фракцию
// или "" (матч продолжается). Ровно 1 мафия против 1 мирного - не победа:
// днем такая пара голосует вничью, а ночью мафия добивает мирного и
// выигрывает по обычному правилу.
func EvaluateWinner(room *domain.Room) domain.Faction {
	mafia, others := 0, 0
	for _, m := range room.AliveMembers() {
		if m.Role.Faction() == domain.FactionMafia {
			mafia++
		} else {
			others++
		}
	}

	if mafia == 0 && others >= 1 {
		return domain.FactionVillagers
	}
	if mafia >= 1 && others <= 1 {
		// ровно 1 на 1 - продолжаем (см. комментарий выше)
		if mafia == 1 && others == 1 {
			return ""
		}
		return domain.FactionMafia
	}
	return ""
}
