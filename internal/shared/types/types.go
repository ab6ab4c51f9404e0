package types

import "time"

// Vec3 represents a position or vector in world space.
type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Quat is a unit orientation quaternion.
type Quat struct {
	W float64 `json:"w"`
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HumanInput is the per-tick intent of the human-controlled actor.
type HumanInput struct {
	Sequence uint64  `json:"sequence"`
	MoveX    float64 `json:"move_x"` // -1..1, world x
	MoveZ    float64 `json:"move_z"` // -1..1, world z
	Sprint   bool    `json:"sprint"`
	// Pass, Shoot and Switch are edge triggers consumed on the next tick.
	Pass     bool  `json:"pass"`
	Shoot    bool  `json:"shoot"`
	Switch   bool  `json:"switch"`
	ClientMS int64 `json:"client_ms"`
}

// ActorState is the read-only render view of one actor.
type ActorState struct {
	ID       int     `json:"id"`
	Team     string  `json:"team"` // self|opponent
	Role     string  `json:"role"`
	Position Vec3    `json:"position"`
	Velocity Vec3    `json:"velocity"`
	Facing   float64 `json:"facing"` // radians about +y
	State    string  `json:"state"`
	Active   bool    `json:"active"`
	Diving   bool    `json:"diving"`
	HasBall  bool    `json:"has_ball"`
}

// BallState is the read-only render view of the ball.
type BallState struct {
	Position Vec3    `json:"position"`
	Velocity Vec3    `json:"velocity"`
	Spin     Vec3    `json:"spin"`
	Rotation Quat    `json:"rotation"`
	Radius   float64 `json:"radius"`
	Owner    int     `json:"owner"` // -1 when free
	Frozen   bool    `json:"frozen"`
}

// ScoreState tracks goals and timer.
type ScoreState struct {
	Self            int `json:"self" yaml:"self"`
	Opponent        int `json:"opponent" yaml:"opponent"`
	TimeRemainingMS int `json:"time_remaining_ms" yaml:"time_remaining_ms"`
}

// MatchState is replicated to all clients.
type MatchState struct {
	MatchID   string            `json:"match_id"`
	Tick      uint64            `json:"tick"`
	CreatedAt time.Time         `json:"created_at"`
	Actors    []ActorState      `json:"actors"`
	Ball      BallState         `json:"ball"`
	Score     ScoreState        `json:"score"`
	Strategy  map[string]string `json:"strategy"` // team -> attack|defend
	Finished  bool              `json:"finished"`
	Events    []GameplayEvent   `json:"events"`
}

// Gameplay event types, also the audio layer's cue names.
const (
	EventKickoff    = "kickoff"
	EventWhistle    = "whistle"
	EventKick       = "kick"
	EventPass       = "pass"
	EventShoot      = "shoot"
	EventGoal       = "goal"
	EventMiss       = "miss"
	EventTackle     = "tackle"
	EventSave       = "save"
	EventDive       = "dive"
	EventPossession = "possession"
)

// GameplayEvent tracks state changes worth UI/audio feedback.
type GameplayEvent struct {
	Type       string `json:"type"`
	ActorID    int    `json:"actor_id"` // -1 when not actor-specific
	Team       string `json:"team,omitempty"`
	Detail     string `json:"detail,omitempty"`
	OccurredMS int64  `json:"occurred_ms"`
}

// ClientEnvelope is sent from client to server.
type ClientEnvelope struct {
	Type  string      `json:"type"` // hello|input|ping
	Input *HumanInput `json:"input,omitempty"`
}

// ServerEnvelope is sent from server to client.
type ServerEnvelope struct {
	Type     string      `json:"type"` // welcome|state|pong|error
	Tick     uint64      `json:"tick,omitempty"`
	State    *MatchState `json:"state,omitempty"`
	ServerMS int64       `json:"server_ms,omitempty"`
	Message  string      `json:"message,omitempty"`
	AckSeq   uint64      `json:"ack_seq,omitempty"`
}

// TelemetryEvent is a gameplay event stamped for the event store.
type TelemetryEvent struct {
	EventID   string         `json:"event_id"`
	EventType string         `json:"event_type"`
	MatchID   string         `json:"match_id,omitempty"`
	ActorID   int            `json:"actor_id"`
	Team      string         `json:"team,omitempty"`
	Timestamp int64          `json:"timestamp"`
	Payload   map[string]any `json:"payload,omitempty"`
}
