package forge

// DropStreakConfig scales drop odds with the current run of qualifying
// reviews: each consecutive qualifying review shrinks the no-drop weight by
// PerStepPermille, capped at MaxBonusPermille. A failed review resets the
// run to zero.
type DropStreakConfig struct {
	PerStepPermille  int64 `json:"per_step_permille,omitempty"`
	MaxBonusPermille int64 `json:"max_bonus_permille,omitempty"`
}

// bonusPermille returns the reduction applied to the no-drop weight for the
// given streak length, in permille of the configured no-drop weight.
func (c *DropStreakConfig) bonusPermille(streak int64) int64 {
	if c == nil || streak <= 0 {
		return 0
	}
	bonus := streak * c.PerStepPermille
	if c.MaxBonusPermille > 0 && bonus > c.MaxBonusPermille {
		bonus = c.MaxBonusPermille
	}
	if bonus > 1000 {
		bonus = 1000
	}
	return bonus
}
