package monster

import (
	"github.com/cory-johannsen/spellcast/internal/game/cave"
	"github.com/cory-johannsen/spellcast/internal/game/condition"
)

// Monster is a live monster on the level.
type Monster struct {
	// ID is the monster's stable arena id; it is also the cave occupant id.
	ID   int
	Race *Race
	// Form is the race worn while shapechanged; nil otherwise.
	Form *Race
	Loc  cave.Loc
	// HP may be 0 for a monster still alive; it dies only below 0.
	HP         int
	MaxHP      int
	Conditions *condition.ActiveSet
	// Hostile is false for monsters that leave the player alone until provoked.
	Hostile bool
	// Visible is maintained by the world's visibility pass.
	Visible bool
}

// Name returns the name of the race the monster currently appears as.
func (m *Monster) Name() string {
	if m.Form != nil {
		return m.Form.Name
	}
	return m.Race.Name
}

// Unique reports whether the monster's true race is unique.
func (m *Monster) Unique() bool { return m.Race.Flags.Has(Unique) }

// Level returns the true race level.
func (m *Monster) Level() int { return m.Race.Level }

// NormalSpeed is the energy rate of a race that names no speed.
const NormalSpeed = 110

// Speed returns the race speed adjusted by active conditions.
func (m *Monster) Speed() int {
	speed := m.Race.Speed
	if speed == 0 {
		speed = NormalSpeed
	}
	if m.Conditions != nil {
		speed += condition.SpeedModifier(m.Conditions)
	}
	return speed
}

// IsDead reports whether hp has dropped below zero.
func (m *Monster) IsDead() bool { return m.HP < 0 }

// HealthPercent returns hp as a percentage of max hp, clamped to [0, 100].
func (m *Monster) HealthPercent() int {
	if m.MaxHP <= 0 || m.HP <= 0 {
		return 0
	}
	return min(100*m.HP/m.MaxHP, 100)
}

// HealthDescription returns a visible health state string suitable for look output.
//
// Postcondition: Returns a non-empty string.
func (m *Monster) HealthDescription() string {
	if m.IsDead() {
		return "dead"
	}
	pct := m.HealthPercent()
	switch {
	case pct >= 100:
		return "unharmed"
	case pct >= 85:
		return "barely scratched"
	case pct >= 60:
		return "lightly wounded"
	case pct >= 40:
		return "moderately wounded"
	case pct >= 20:
		return "heavily wounded"
	default:
		return "critically wounded"
	}
}
