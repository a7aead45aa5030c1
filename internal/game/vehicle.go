package game

import "math"

// InputFlags is the keyboard state sampled once per tick.
type InputFlags struct {
	Forward  bool `json:"forward"`
	Backward bool `json:"backward"`
	Left     bool `json:"left"`
	Right    bool `json:"right"`
	Brake    bool `json:"brake"`
	Boost    bool `json:"boost"`
}

// VehicleState is the authoritative kinematic state of the player vehicle.
type VehicleState struct {
	Position           Vec3    `json:"position"`
	Heading            float64 `json:"heading"`
	LeanAngle          float64 `json:"lean_angle"`
	Speed              float64 `json:"speed"`
	Acceleration       float64 `json:"acceleration"`
	WheelRotationDelta float64 `json:"wheel_rotation_delta"`
	BoostMeter         float64 `json:"boost_meter"`
	Boosting           bool    `json:"boosting"`
}

// NewVehicleState places a vehicle at the spawn point with a full boost meter.
func NewVehicleState() VehicleState {
	return VehicleState{
		Position:   Vec3{X: SpawnX, Y: GroundY, Z: SpawnZ},
		Heading:    SpawnHeading,
		BoostMeter: MaxBoost,
	}
}

// CurrentMaxSpeed is the forward speed cap for the current boost state.
func (v VehicleState) CurrentMaxSpeed() float64 {
	return maxSpeedFor(v.Boosting)
}

func maxSpeedFor(boosting bool) float64 {
	if boosting {
		return BaseMaxSpeed * BoostMultiplier
	}
	return BaseMaxSpeed
}

// Forward returns the unit vector the vehicle faces.
func (v VehicleState) Forward() Vec3 {
	return Vec3{X: math.Sin(v.Heading), Z: math.Cos(v.Heading)}
}

// Advance integrates one fixed simulation tick. It does not touch obstacles;
// run ResolveCollisions on the result.
func Advance(prev VehicleState, in InputFlags) VehicleState {
	next := prev

	// Longitudinal control. Coasting decays speed directly instead of
	// adding the (decaying) acceleration.
	switch {
	case in.Forward:
		next.Acceleration = next.Acceleration*AccelDecay + AccelStep
		next.Speed += next.Acceleration
	case in.Backward:
		next.Acceleration = next.Acceleration*AccelDecay - AccelStep
		next.Speed += next.Acceleration
	default:
		next.Acceleration *= AccelDecay
		next.Speed *= NaturalDecay
	}

	if in.Brake {
		next.Speed *= BrakeSpeedDecay
		next.Acceleration *= BrakeAccelDecay
	}

	next.Boosting = in.Boost && prev.BoostMeter > 0
	if next.Boosting {
		next.BoostMeter = math.Max(0, prev.BoostMeter-BoostDepletion)
	} else {
		next.BoostMeter = math.Min(MaxBoost, prev.BoostMeter+BoostRecoveryRate)
	}

	maxSpeed := maxSpeedFor(next.Boosting)
	next.Speed = clamp(next.Speed, MaxReverseSpeed, maxSpeed)

	turn := turnAmount(next.Speed, maxSpeed, in)

	next.LeanAngle = lerp(prev.LeanAngle, -turn*LeanGain, LeanSmoothing)
	next.Heading = prev.Heading + turn

	next.Position = prev.Position.Add(next.Forward().Scale(next.Speed))
	next.WheelRotationDelta = next.Speed * WheelSpinGain

	return next
}

// turnAmount is the per-tick heading delta. It scales with the fraction of
// the current speed cap and flips sign in reverse. Right overrides left.
func turnAmount(speed, maxSpeed float64, in InputFlags) float64 {
	if math.Abs(speed) <= TurnEpsilon {
		return 0
	}
	dir := 1.0
	if speed < 0 {
		dir = -1.0
	}
	fraction := math.Abs(speed) / maxSpeed

	var turn float64
	if in.Left {
		turn = BaseTurnAngle * dir * fraction
	}
	if in.Right {
		turn = -BaseTurnAngle * dir * fraction
	}
	return turn
}

// Pose is the read-only snapshot handed to rendering each frame.
type Pose struct {
	Position           Vec3    `json:"position"`
	Heading            float64 `json:"heading"`
	LeanAngle          float64 `json:"lean_angle"`
	Speed              float64 `json:"speed"`
	WheelRotationDelta float64 `json:"wheel_rotation_delta"`
	BoostMeter         float64 `json:"boost_meter"`
}

// Pose returns the render-facing view of the state.
func (v VehicleState) Pose() Pose {
	return Pose{
		Position:           v.Position,
		Heading:            v.Heading,
		LeanAngle:          v.LeanAngle,
		Speed:              v.Speed,
		WheelRotationDelta: v.WheelRotationDelta,
		BoostMeter:         v.BoostMeter,
	}
}
