// Package tuning holds every empirically tuned constant of the simulation.
// All values are plain data so they can be overridden from configuration.
package tuning

import (
	"math"

	"github.com/luketas/soccer-ai/internal/pitch"
)

// Kinematics tunes actor movement and steering stabilization.
type Kinematics struct {
	ActorRadius float64 `mapstructure:"actorRadius"`
	Gravity     float64 `mapstructure:"gravity"`
	// TurnSpeedPenalty scales speed loss on sharp turns.
	TurnSpeedPenalty float64 `mapstructure:"turnSpeedPenalty"`
	// DribbleTurnPenalty scales the extra loss for weak dribblers.
	DribbleTurnPenalty float64 `mapstructure:"dribbleTurnPenalty"`
	// FacingRate is the per-tick facing interpolation fraction.
	FacingRate float64 `mapstructure:"facingRate"`

	HistorySize         int     `mapstructure:"historySize"`
	OscillationSamples  int     `mapstructure:"oscillationSamples"`
	OscillationAngle    float64 `mapstructure:"oscillationAngle"`
	OscillationWindow   float64 `mapstructure:"oscillationWindow"`
	OscillationCooldown float64 `mapstructure:"oscillationCooldown"`
	StabilizedBlend     float64 `mapstructure:"stabilizedBlend"`
	SmoothMinBlend      float64 `mapstructure:"smoothMinBlend"`
	SmoothMaxBlend      float64 `mapstructure:"smoothMaxBlend"`

	HumanBlend             float64 `mapstructure:"humanBlend"`
	HumanOscillationWindow float64 `mapstructure:"humanOscillationWindow"`
	HumanStabilizedBlend   float64 `mapstructure:"humanStabilizedBlend"`
}

// Ball tunes free-ball integration and boundary response.
type Ball struct {
	Radius          float64 `mapstructure:"radius"`
	Gravity         float64 `mapstructure:"gravity"`
	BounceFactor    float64 `mapstructure:"bounceFactor"`
	BounceThreshold float64 `mapstructure:"bounceThreshold"`
	GroundFriction  float64 `mapstructure:"groundFriction"`
	AirResistance   float64 `mapstructure:"airResistance"`
	MaxSpeed        float64 `mapstructure:"maxSpeed"`
	SettleSpeed     float64 `mapstructure:"settleSpeed"`
	SpinDecay       float64 `mapstructure:"spinDecay"`
	MagnusCoeff     float64 `mapstructure:"magnusCoeff"`
	WallDeflection  float64 `mapstructure:"wallDeflection"`
	PostBounce      float64 `mapstructure:"postBounce"`
	PostLift        float64 `mapstructure:"postLift"`
	NetDamping      float64 `mapstructure:"netDamping"`
}

// Control tunes the dribble attraction model.
type Control struct {
	Distance           float64 `mapstructure:"distance"`
	SpeedFactor        float64 `mapstructure:"speedFactor"`
	MaxSpeedFactor     float64 `mapstructure:"maxSpeedFactor"`
	HumanSmoothing     float64 `mapstructure:"humanSmoothing"`
	AISmoothing        float64 `mapstructure:"aiSmoothing"`
	BaseAttraction     float64 `mapstructure:"baseAttraction"`
	TurnAttraction     float64 `mapstructure:"turnAttraction"`
	DistanceAttraction float64 `mapstructure:"distanceAttraction"`
	MaxAttraction      float64 `mapstructure:"maxAttraction"`
	Damping            float64 `mapstructure:"damping"`
	MaxHeight          float64 `mapstructure:"maxHeight"`
	MaxDistance        float64 `mapstructure:"maxDistance"`
}

// Contact tunes possession acquisition and deflection.
type Contact struct {
	Margin      float64 `mapstructure:"margin"`
	Cooldown    float64 `mapstructure:"cooldown"`
	KickerGrace float64 `mapstructure:"kickerGrace"`
	// ReachHeight is the ball height above which actors cannot touch it.
	ReachHeight float64 `mapstructure:"reachHeight"`

	GentleSpeed  float64 `mapstructure:"gentleSpeed"`
	AlignmentMin float64 `mapstructure:"alignmentMin"`
	BallSpeedCap float64 `mapstructure:"ballSpeedCap"`

	BaseProbability     float64 `mapstructure:"baseProbability"`
	ControlScale        float64 `mapstructure:"controlScale"`
	ActiveBonus         float64 `mapstructure:"activeBonus"`
	CloseRadiusFraction float64 `mapstructure:"closeRadiusFraction"`
	CloseSpeed          float64 `mapstructure:"closeSpeed"`
	CloseBonus          float64 `mapstructure:"closeBonus"`
	RestingSpeed        float64 `mapstructure:"restingSpeed"`
	RestingProbability  float64 `mapstructure:"restingProbability"`
	ControlledPenalty   float64 `mapstructure:"controlledPenalty"`

	DeflectBase        float64 `mapstructure:"deflectBase"`
	DeflectSpeedScale  float64 `mapstructure:"deflectSpeedScale"`
	DeflectAlignBoost  float64 `mapstructure:"deflectAlignBoost"`
	FacingBlend        float64 `mapstructure:"facingBlend"`
	HopBase            float64 `mapstructure:"hopBase"`
	HopSpeedScale      float64 `mapstructure:"hopSpeedScale"`
	SpinImpulse        float64 `mapstructure:"spinImpulse"`
	OffCenterThreshold float64 `mapstructure:"offCenterThreshold"`
	BallRetain         float64 `mapstructure:"ballRetain"`
	Rebound            float64 `mapstructure:"rebound"`
}

// Tackle tunes the tackle resolver.
type Tackle struct {
	MaxRange             float64 `mapstructure:"maxRange"`
	BaseRate             float64 `mapstructure:"baseRate"`
	DistanceFalloff      float64 `mapstructure:"distanceFalloff"`
	SkillWeight          float64 `mapstructure:"skillWeight"`
	MinProbability       float64 `mapstructure:"minProbability"`
	MaxProbability       float64 `mapstructure:"maxProbability"`
	GrantRange           float64 `mapstructure:"grantRange"`
	GrantNearProbability float64 `mapstructure:"grantNearProbability"`
	GrantFarProbability  float64 `mapstructure:"grantFarProbability"`
	BallLerp             float64 `mapstructure:"ballLerp"`
	DeflectImpulse       float64 `mapstructure:"deflectImpulse"`
	LateralNoise         float64 `mapstructure:"lateralNoise"`
	FailSlowdown         float64 `mapstructure:"failSlowdown"`
	ShrugImpulse         float64 `mapstructure:"shrugImpulse"`
	Cooldown             float64 `mapstructure:"cooldown"`
	FreeBallBase         float64 `mapstructure:"freeBallBase"`
	FreeBallControlScale float64 `mapstructure:"freeBallControlScale"`
	FreeBallImpulse      float64 `mapstructure:"freeBallImpulse"`
}

// Kick tunes pass and shot velocities.
type Kick struct {
	PassBase         float64 `mapstructure:"passBase"`
	PassPowerPerUnit float64 `mapstructure:"passPowerPerUnit"`
	PassMinPower     float64 `mapstructure:"passMinPower"`
	PassMaxPower     float64 `mapstructure:"passMaxPower"`
	LoftDistance     float64 `mapstructure:"loftDistance"`
	LoftLift         float64 `mapstructure:"loftLift"`
	ShotPower        float64 `mapstructure:"shotPower"`
	ShotLift         float64 `mapstructure:"shotLift"`
	PowerShotPower   float64 `mapstructure:"powerShotPower"`
	PowerShotLift    float64 `mapstructure:"powerShotLift"`
	ChipPower        float64 `mapstructure:"chipPower"`
	ChipLift         float64 `mapstructure:"chipLift"`
	CurveSpin        float64 `mapstructure:"curveSpin"`
	CurveAngle       float64 `mapstructure:"curveAngle"`
	ClearancePower   float64 `mapstructure:"clearancePower"`
	ClearanceLift    float64 `mapstructure:"clearanceLift"`
}

// AI tunes team strategy and the per-actor FSM.
type AI struct {
	StrategyInterval float64 `mapstructure:"strategyInterval"`
	AttackThreshold  float64 `mapstructure:"attackThreshold"`
	DefendThreshold  float64 `mapstructure:"defendThreshold"`
	EvidenceMax      float64 `mapstructure:"evidenceMax"`

	ShootRange          float64 `mapstructure:"shootRange"`
	MidRange            float64 `mapstructure:"midRange"`
	DefenderPassRange   float64 `mapstructure:"defenderPassRange"`
	PressureRadius      float64 `mapstructure:"pressureRadius"`
	OpenSpaceRadius     float64 `mapstructure:"openSpaceRadius"`
	CloseShootBias      float64 `mapstructure:"closeShootBias"`
	LongShotProbability float64 `mapstructure:"longShotProbability"`
	GoodPassQuality     float64 `mapstructure:"goodPassQuality"`

	PredictionFactor    float64 `mapstructure:"predictionFactor"`
	InterceptPrediction float64 `mapstructure:"interceptPrediction"`
	SprintDistance      float64 `mapstructure:"sprintDistance"`
	ArriveRadius        float64 `mapstructure:"arriveRadius"`

	DribbleRetargetMin float64 `mapstructure:"dribbleRetargetMin"`
	DribbleRetargetMax float64 `mapstructure:"dribbleRetargetMax"`
	DribbleLateral     float64 `mapstructure:"dribbleLateral"`
	DribbleLookahead   float64 `mapstructure:"dribbleLookahead"`
	AvoidRadius        float64 `mapstructure:"avoidRadius"`
	AvoidWeight        float64 `mapstructure:"avoidWeight"`

	PassMinDist   float64 `mapstructure:"passMinDist"`
	PassMaxDist   float64 `mapstructure:"passMaxDist"`
	LaneClearance float64 `mapstructure:"laneClearance"`
	MarkingRadius float64 `mapstructure:"markingRadius"`
	LeadTime      float64 `mapstructure:"leadTime"`
	MinPassScore  float64 `mapstructure:"minPassScore"`

	LapseRate      float64 `mapstructure:"lapseRate"`
	LapseMaxOffset float64 `mapstructure:"lapseMaxOffset"`
	LapseDuration  float64 `mapstructure:"lapseDuration"`

	TackleAttemptRate float64 `mapstructure:"tackleAttemptRate"`
}

// Keeper tunes the goalkeeper subsystem.
type Keeper struct {
	PredictionHorizon float64 `mapstructure:"predictionHorizon"`
	DiveWindow        float64 `mapstructure:"diveWindow"`
	ShotSpeed         float64 `mapstructure:"shotSpeed"`
	ReachWithoutDive  float64 `mapstructure:"reachWithoutDive"`
	DiveSpeed         float64 `mapstructure:"diveSpeed"`
	DiveLift          float64 `mapstructure:"diveLift"`
	HighBall          float64 `mapstructure:"highBall"`
	DiveDuration      float64 `mapstructure:"diveDuration"`
	MaxExcursion      float64 `mapstructure:"maxExcursion"`
	ComeOutRange      float64 `mapstructure:"comeOutRange"`
	ComeOutMaxSpeed   float64 `mapstructure:"comeOutMaxSpeed"`
	HoldTime          float64 `mapstructure:"holdTime"`
	SaveReach         float64 `mapstructure:"saveReach"`
	CatchFactor       float64 `mapstructure:"catchFactor"`
	LateralTracking   float64 `mapstructure:"lateralTracking"`
}

// Params aggregates every tunable of the core.
type Params struct {
	Pitch      pitch.Pitch `mapstructure:"pitch"`
	Roles      RoleTable   `mapstructure:"roles"`
	Profiles   Profiles    `mapstructure:"profiles"`
	Kinematics Kinematics  `mapstructure:"kinematics"`
	Ball       Ball        `mapstructure:"ball"`
	Control    Control     `mapstructure:"control"`
	Contact    Contact     `mapstructure:"contact"`
	Tackle     Tackle      `mapstructure:"tackle"`
	Kick       Kick        `mapstructure:"kick"`
	AI         AI          `mapstructure:"ai"`
	Keeper     Keeper      `mapstructure:"keeper"`
}

// ControlRadius is the planar distance at which an actor may contest the
// ball: ball radius plus actor collision radius plus a margin.
func (p Params) ControlRadius() float64 {
	return p.Ball.Radius + p.Kinematics.ActorRadius + p.Contact.Margin
}

// Default returns the stock tuning.
func Default() Params {
	return Params{
		Pitch:    pitch.Default(),
		Roles:    DefaultRoles(),
		Profiles: DefaultProfiles(),
		Kinematics: Kinematics{
			ActorRadius:         0.5,
			Gravity:             20,
			TurnSpeedPenalty:    0.5,
			DribbleTurnPenalty:  0.6,
			FacingRate:          0.25,
			HistorySize:         10,
			OscillationSamples:  4,
			OscillationAngle:    1.2 * math.Pi,
			OscillationWindow:   0.8,
			OscillationCooldown: 0.5,
			StabilizedBlend:     0.15,
			SmoothMinBlend:      0.3,
			SmoothMaxBlend:      0.7,

			HumanBlend:             0.85,
			HumanOscillationWindow: 0.6,
			HumanStabilizedBlend:   0.25,
		},
		Ball: Ball{
			Radius:          0.4,
			Gravity:         20,
			BounceFactor:    0.6,
			BounceThreshold: 1.0,
			GroundFriction:  0.985,
			AirResistance:   0.997,
			MaxSpeed:        40,
			SettleSpeed:     0.05,
			SpinDecay:       0.97,
			MagnusCoeff:     0.002,
			WallDeflection:  0.8,
			PostBounce:      0.85,
			PostLift:        2.0,
			NetDamping:      0.25,
		},
		Control: Control{
			Distance:           0.9,
			SpeedFactor:        0.04,
			MaxSpeedFactor:     1.6,
			HumanSmoothing:     0.35,
			AISmoothing:        0.2,
			BaseAttraction:     10,
			TurnAttraction:     4,
			DistanceAttraction: 6,
			MaxAttraction:      30,
			Damping:            0.55,
			MaxHeight:          0.3,
			MaxDistance:        3.0,
		},
		Contact: Contact{
			Margin:      0.3,
			Cooldown:    0.1,
			KickerGrace: 0.25,
			ReachHeight: 2.2,

			GentleSpeed:  8,
			AlignmentMin: -0.3,
			BallSpeedCap: 14,

			BaseProbability:     0.7,
			ControlScale:        0.25,
			ActiveBonus:         0.1,
			CloseRadiusFraction: 0.5,
			CloseSpeed:          3,
			CloseBonus:          0.2,
			RestingSpeed:        1.0,
			RestingProbability:  0.9,
			ControlledPenalty:   0.15,

			DeflectBase:        2.0,
			DeflectSpeedScale:  1.1,
			DeflectAlignBoost:  0.5,
			FacingBlend:        0.3,
			HopBase:            0.5,
			HopSpeedScale:      0.05,
			SpinImpulse:        6,
			OffCenterThreshold: 0.3,
			BallRetain:         0.2,
			Rebound:            0.5,
		},
		Tackle: Tackle{
			MaxRange:             3.5,
			BaseRate:             0.35,
			DistanceFalloff:      0.3,
			SkillWeight:          0.1,
			MinProbability:       0.05,
			MaxProbability:       0.95,
			GrantRange:           1.5,
			GrantNearProbability: 0.7,
			GrantFarProbability:  0.35,
			BallLerp:             0.4,
			DeflectImpulse:       6,
			LateralNoise:         1.5,
			FailSlowdown:         0.3,
			ShrugImpulse:         1.5,
			Cooldown:             0.6,
			FreeBallBase:         0.5,
			FreeBallControlScale: 0.2,
			FreeBallImpulse:      3,
		},
		Kick: Kick{
			PassBase:         6,
			PassPowerPerUnit: 1.0,
			PassMinPower:     8,
			PassMaxPower:     26,
			LoftDistance:     25,
			LoftLift:         0.25,
			ShotPower:        28,
			ShotLift:         0.06,
			PowerShotPower:   34,
			PowerShotLift:    0.12,
			ChipPower:        18,
			ChipLift:         0.55,
			CurveSpin:        8,
			CurveAngle:       0.12,
			ClearancePower:   26,
			ClearanceLift:    0.45,
		},
		AI: AI{
			StrategyInterval: 0.5,
			AttackThreshold:  1.0,
			DefendThreshold:  0.3,
			EvidenceMax:      3.0,

			ShootRange:          18,
			MidRange:            30,
			DefenderPassRange:   40,
			PressureRadius:      4,
			OpenSpaceRadius:     8,
			CloseShootBias:      0.8,
			LongShotProbability: 0.05,
			GoodPassQuality:     0.5,

			PredictionFactor:    0.3,
			InterceptPrediction: 0.6,
			SprintDistance:      5,
			ArriveRadius:        1.0,

			DribbleRetargetMin: 1.0,
			DribbleRetargetMax: 2.0,
			DribbleLateral:     8,
			DribbleLookahead:   12,
			AvoidRadius:        5,
			AvoidWeight:        1.2,

			PassMinDist:   4,
			PassMaxDist:   40,
			LaneClearance: 1.5,
			MarkingRadius: 6,
			LeadTime:      0.4,
			MinPassScore:  -0.2,

			LapseRate:      0.5,
			LapseMaxOffset: 6,
			LapseDuration:  1.5,

			TackleAttemptRate: 2.0,
		},
		Keeper: Keeper{
			PredictionHorizon: 1.5,
			DiveWindow:        0.9,
			ShotSpeed:         10,
			ReachWithoutDive:  1.2,
			DiveSpeed:         9,
			DiveLift:          3.5,
			HighBall:          1.2,
			DiveDuration:      0.9,
			MaxExcursion:      4,
			ComeOutRange:      14,
			ComeOutMaxSpeed:   6,
			HoldTime:          0.8,
			SaveReach:         1.6,
			CatchFactor:       0.6,
			LateralTracking:   0.35,
		},
	}
}
