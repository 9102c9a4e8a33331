package game

import (
	"crypto/rand"
	"math/big"

	"mafia_webapp/internal/domain"
)

// Пороги состава ролей. Доктор появляется с 3 игроков, детектив с 6.
const (
	doctorThreshold    = 3
	detectiveThreshold = 6
)

// secureRandInt возвращает криптографически стойкое случайное число в [0, max)
func secureRandInt(max int64) int64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(max))
	return n.Int64()
}

// ComposeRoles строит мультимножество ролей для n игроков:
// мафия = max(1, n/4), доктор и детектив по порогам, остальные - мирные.
// Тестовый режим состав не меняет (формулы сами дают {мафия, мирный}
// на двоих), он лишь разрешает комнаты меньше обычного минимума.
func ComposeRoles(n int, testMode bool) []domain.Role {
	if n <= 0 {
		return nil
	}

	mafia := n / 4
	if mafia < 1 {
		mafia = 1
	}

	roles := make([]domain.Role, 0, n)
	for i := 0; i < mafia && len(roles) < n; i++ {
		roles = append(roles, domain.RoleMafia)
	}
	if n >= doctorThreshold && len(roles) < n {
		roles = append(roles, domain.RoleDoctor)
	}
	if n >= detectiveThreshold && len(roles) < n {
		roles = append(roles, domain.RoleDetective)
	}
	for len(roles) < n {
		roles = append(roles, domain.RoleVillager)
	}
	return roles
}

// AssignRoles раздает роли участникам равномерной случайной перестановкой
// (Фишер-Йетс поверх мультимножества, без сортировки случайным компаратором).
func AssignRoles(members []*domain.Member, testMode bool) {
	roles := ComposeRoles(len(members), testMode)

	for i := len(roles) - 1; i > 0; i-- {
		j := secureRandInt(int64(i + 1))
		roles[i], roles[j] = roles[j], roles[i]
	}

	for i, m := range members {
		m.Role = roles[i]
	}
}
