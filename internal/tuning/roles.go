package tuning

import "fmt"

// Role is an actor's tactical position. Roles are fixed at match setup.
type Role int

const (
	Goalkeeper Role = iota
	Defender
	Midfielder
	Attacker
	roleCount
)

// Roles lists every role in table order.
var Roles = [...]Role{Goalkeeper, Defender, Midfielder, Attacker}

func (r Role) String() string {
	switch r {
	case Goalkeeper:
		return "goalkeeper"
	case Defender:
		return "defender"
	case Midfielder:
		return "midfielder"
	case Attacker:
		return "attacker"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole maps a role name produced by String back to its Role.
func ParseRole(s string) (Role, bool) {
	for _, r := range Roles {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}

// Valid reports whether r indexes the role table.
func (r Role) Valid() bool {
	return r >= 0 && r < roleCount
}

// RoleSpec is the per-role constant row: movement, skill and behavior
// parameters derived from the role alone.
type RoleSpec struct {
	BaseSpeed          float64 `mapstructure:"baseSpeed"`
	SprintMultiplier   float64 `mapstructure:"sprintMultiplier"`
	DribbleSpeed       float64 `mapstructure:"dribbleSpeed"`
	DribbleSprintSpeed float64 `mapstructure:"dribbleSprintSpeed"`
	BallControl        float64 `mapstructure:"ballControl"`
	Agility            float64 `mapstructure:"agility"`
	TackleSkill        float64 `mapstructure:"tackleSkill"`
	Reflexes           float64 `mapstructure:"reflexes"`

	// TackleBonus is added to the success odds when this role tackles.
	TackleBonus float64 `mapstructure:"tackleBonus"`
	// TackleResistance is subtracted when this role is being tackled.
	TackleResistance float64 `mapstructure:"tackleResistance"`
	// TackleRadius is how close the AI gets before pre-empting with a tackle.
	TackleRadius float64 `mapstructure:"tackleRadius"`
	// ChaseRadius bounds forced-chaser selection.
	ChaseRadius float64 `mapstructure:"chaseRadius"`
	// ChaseCap bounds voluntary MoveToBall transitions.
	ChaseCap float64 `mapstructure:"chaseCap"`
	// InterceptProbability gates Defend -> Intercept.
	InterceptProbability float64 `mapstructure:"interceptProbability"`
}

// RoleTable maps every role to its constants.
type RoleTable struct {
	Goalkeeper RoleSpec `mapstructure:"goalkeeper"`
	Defender   RoleSpec `mapstructure:"defender"`
	Midfielder RoleSpec `mapstructure:"midfielder"`
	Attacker   RoleSpec `mapstructure:"attacker"`
}

// Spec returns the row for r. Invalid roles resolve to the midfielder row.
func (t RoleTable) Spec(r Role) RoleSpec {
	switch r {
	case Goalkeeper:
		return t.Goalkeeper
	case Defender:
		return t.Defender
	case Attacker:
		return t.Attacker
	default:
		return t.Midfielder
	}
}

// DefaultRoles is the baseline role table. Attackers are quickest and most
// agile, defenders win tackles, attackers resist them.
func DefaultRoles() RoleTable {
	return RoleTable{
		Goalkeeper: RoleSpec{
			BaseSpeed: 6.5, SprintMultiplier: 1.3, DribbleSpeed: 5.0, DribbleSprintSpeed: 6.0,
			BallControl: 0.55, Agility: 0.22, TackleSkill: 0.5, Reflexes: 0.8,
			TackleBonus: 0.02, TackleResistance: 0.0, TackleRadius: 2.5,
			ChaseRadius: 10, ChaseCap: 14, InterceptProbability: 0.3,
		},
		Defender: RoleSpec{
			BaseSpeed: 7.0, SprintMultiplier: 1.35, DribbleSpeed: 5.5, DribbleSprintSpeed: 6.8,
			BallControl: 0.6, Agility: 0.2, TackleSkill: 0.8,
			TackleBonus: 0.15, TackleResistance: 0.05, TackleRadius: 3.5,
			ChaseRadius: 18, ChaseCap: 20, InterceptProbability: 0.7,
		},
		Midfielder: RoleSpec{
			BaseSpeed: 7.5, SprintMultiplier: 1.4, DribbleSpeed: 6.0, DribbleSprintSpeed: 7.4,
			BallControl: 0.75, Agility: 0.25, TackleSkill: 0.65,
			TackleBonus: 0.08, TackleResistance: 0.1, TackleRadius: 3.0,
			ChaseRadius: 22, ChaseCap: 30, InterceptProbability: 0.5,
		},
		Attacker: RoleSpec{
			BaseSpeed: 8.0, SprintMultiplier: 1.45, DribbleSpeed: 6.5, DribbleSprintSpeed: 8.0,
			BallControl: 0.85, Agility: 0.3, TackleSkill: 0.45,
			TackleBonus: 0.0, TackleResistance: 0.15, TackleRadius: 2.5,
			ChaseRadius: 16, ChaseCap: 25, InterceptProbability: 0.3,
		},
	}
}
