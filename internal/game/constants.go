package game

import (
	"math"
	"time"
)

// World bounds (world units, centered on the origin)
const (
	WorldBound = 1000.0
	GroundY    = 0.5
)

// Spawn pose
const (
	SpawnX       = 0.0
	SpawnZ       = -100.0
	SpawnHeading = 0.0
)

// Longitudinal control (per tick)
const (
	BaseMaxSpeed    = 3.0
	MaxReverseSpeed = -1.0
	BoostMultiplier = 1.5
	AccelStep       = 0.002
	AccelDecay      = 0.95
	NaturalDecay    = 0.98
	BrakeSpeedDecay = 0.95
	BrakeAccelDecay = 0.9
)

// Steering and lean
const (
	BaseTurnAngle = math.Pi / 3.5 // ~51 degrees at full speed fraction
	TurnEpsilon   = 0.01
	LeanGain      = 25.0
	LeanSmoothing = 0.1
	WheelSpinGain = 0.5
)

// Boost meter
const (
	MaxBoost          = 100.0
	BoostDepletion    = 0.5 // per tick while boosting
	BoostRecoveryRate = 0.2 // per tick otherwise
)

// Vehicle bounding box (full size, not half extents)
const (
	VehicleWidth  = 1.0
	VehicleHeight = 1.0
	VehicleLength = 2.0
)

// Collision response
const (
	PushBackStep = 0.5
	BounceFactor = 0.3
)

// Missions
const (
	DeliveryRadius   = 15.0
	DeliveryCooldown = 1500 * time.Millisecond
	MissionTimeLimit = 60 // seconds per destination
	DefaultReward    = 100
)

// Game timing
const (
	RunDuration   = 120 * time.Second
	TickRate      = 60 // ticks per second
	TickInterval  = time.Second / TickRate
	ClockInterval = time.Second
)

// Guidance
const (
	UrgencyMaxDistance = 200.0
	UrgencyMin         = 0.3
)

// Minimap (canvas pixels)
const (
	MinimapScale     = 0.15
	MinimapRadius    = 110.0
	MinimapMargin    = 5.0
	MinimapEdgeInset = 12.0
)

// City layout
const (
	CityGridSize        = 40
	CityBlockSize       = 20.0
	CityBuildingDensity = 0.3
	CityRoadWidth       = 8.0
	CityClearRadius     = 30.0 // kept free around spawn and destinations
	CurbMargin          = 1.0
	CurbHeight          = 0.3
)

// Destination scatter
const (
	DestinationMinSpacing = 60.0
	DestinationSpread     = 300.0
)
