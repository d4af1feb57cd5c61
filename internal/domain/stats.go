package domain

// TakeDamage наносит урон, HP не опускается ниже нуля.
// Возвращает true, если удар оказался смертельным.
func (s *CombatStats) TakeDamage(amount int) bool {
	if amount < 0 {
		amount = 0
	}
	s.HP -= amount
	if s.HP <= 0 {
		s.HP = 0
		return true
	}
	return false
}

// Heal лечит, но не выше MaxHP.
func (s *CombatStats) Heal(amount int) {
	if amount < 0 {
		return
	}
	s.HP += amount
	if s.HP > s.MaxHP {
		s.HP = s.MaxHP
	}
}

// MeleeDamage считает урон атакующего по защищающемуся: max(0, power - defense).
func MeleeDamage(attacker, defender CombatStats) int {
	if d := attacker.Power - defender.Defense; d > 0 {
		return d
	}
	return 0
}
